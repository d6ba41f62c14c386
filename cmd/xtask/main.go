package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

const help = `xtask - development helpers

USAGE:
  xtask [-h|--help] <SUBCOMMAND> [OPTIONS]

SUBCOMMANDS:
  dev    run the service and the tailwind watcher until interrupted

DEV OPTIONS:
  -dir DIR        service directory (default "cmd/service", env XTASK_SERVICE_DIR)

ENVIRONMENT:
  XTASK_SERVICE_CMD   service command (default "go run .")
  TAILWIND_BIN        tailwind binary (default "tailwindcss")
`

var logger = log.New(os.Stderr, "xtask: ", 0)

func main() {
	os.Exit(program(os.Args, os.Stdout, os.Stderr))
}

func program(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 || args[1] == "-h" || args[1] == "--help" {
		fmt.Fprint(stdout, help)
		return 0
	}

	switch args[1] {
	case "dev":
		fs := flag.NewFlagSet("dev", flag.ContinueOnError)
		fs.SetOutput(stderr)
		dir := fs.String("dir", getEnv("XTASK_SERVICE_DIR", "cmd/service"), "service directory")
		if err := fs.Parse(args[2:]); err != nil {
			return 2
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		procs := devProcesses(*dir)
		if err := runDev(ctx, procs, stdout, stderr); err != nil {
			fmt.Fprintf(stderr, "ERROR: %s\n", err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(stderr, "Unexpected subcommand: %s\n", args[1])
		return 2
	}
}

// devProcesses describes the children started by `xtask dev`.
func devProcesses(dir string) []processSpec {
	service := strings.Fields(getEnv("XTASK_SERVICE_CMD", "go run ."))
	tailwind := getEnv("TAILWIND_BIN", "tailwindcss")
	var env []string
	if os.Getenv("DEV_MODE") == "" {
		env = append(env, "DEV_MODE=true")
	}
	return []processSpec{
		{Name: "service", Args: service, Dir: dir, Env: env},
		{Name: "tailwind", Args: []string{tailwind, "-i", "static/input.css", "-o", "static/styles.css", "--watch"}, Dir: dir},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
