package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, nil); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// run builds the server state, binds cfg.Addr and serves until ctx is done.
// State construction happens before the listener binds, so a bad database
// URL or missing templates directory never opens a port. listening, if
// non-nil, is called with the bound address.
func run(ctx context.Context, cfg Config, listening func(net.Addr)) error {
	server, err := newServerState(ctx, cfg)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer server.Close()

	router := setupRoutes(server)
	httpServer := &http.Server{
		// h2c for HTTP/2 over cleartext
		Handler:      h2c.NewHandler(router, &http2.Server{}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	log.Printf("serving requests on %s", ln.Addr())
	if listening != nil {
		listening(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
