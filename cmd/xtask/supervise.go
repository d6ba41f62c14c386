package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// processSpec describes a child process started by runDev.
type processSpec struct {
	Name string
	Args []string
	Dir  string
	Env  []string // appended to the current environment
}

type child struct {
	name  string
	cmd   *exec.Cmd
	pipes sync.WaitGroup
	done  chan struct{}
	err   error
}

// lineWriter serializes prefixed lines from several children onto one writer.
type lineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lineWriter) printf(format string, args ...any) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	fmt.Fprintf(lw.w, format, args...)
}

// runDev starts every process, relays their output line by line with a name
// prefix, and kills them all once ctx is done. If any process fails to start,
// the ones already running are stopped and the start error is returned.
func runDev(ctx context.Context, specs []processSpec, stdout, stderr io.Writer) error {
	out := &lineWriter{w: stdout}
	errOut := &lineWriter{w: stderr}

	var children []*child
	for _, spec := range specs {
		c, err := startChild(spec, out, errOut)
		if err != nil {
			stopAll(children)
			return err
		}
		logger.Printf("started %s (pid %d)", spec.Name, c.cmd.Process.Pid)
		children = append(children, c)
	}

	<-ctx.Done()
	logger.Printf("interrupt received, stopping children")
	stopAll(children)
	return nil
}

func startChild(spec processSpec, out, errOut *lineWriter) (*child, error) {
	if len(spec.Args) == 0 {
		return nil, fmt.Errorf("%s: empty command", spec.Name)
	}
	cmd := exec.Command(spec.Args[0], spec.Args[1:]...)
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), spec.Env...)
	setProcessGroup(cmd)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Name, err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", spec.Name, err)
	}

	c := &child{name: spec.Name, cmd: cmd, done: make(chan struct{})}
	c.pipes.Add(2)
	go c.relay(stdoutPipe, out, "STDOUT")
	go c.relay(stderrPipe, errOut, "STDERR")
	go func() {
		// Wait closes the pipes, so drain them first
		c.pipes.Wait()
		c.err = cmd.Wait()
		close(c.done)
	}()
	return c, nil
}

func (c *child) relay(r io.Reader, lw *lineWriter, stream string) {
	defer c.pipes.Done()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lw.printf("%s %s: %s\n", c.name, stream, scanner.Text())
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		logger.Printf("%s: reading %s: %v", c.name, stream, err)
	}
}

// stopAll kills every child that is still running and waits for all of them.
func stopAll(children []*child) {
	for _, c := range children {
		select {
		case <-c.done:
			continue
		default:
		}
		if err := killProcessGroup(c.cmd); err != nil && !errors.Is(err, os.ErrProcessDone) {
			logger.Printf("kill %s: %v", c.name, err)
		}
	}
	for _, c := range children {
		<-c.done
		logger.Printf("%s exited: %v", c.name, c.err)
	}
}
