package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunServesRoot(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseURL = "sqlite:" + filepath.Join(t.TempDir(), "app.db")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan net.Addr, 1)
	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx, cfg, func(a net.Addr) { addrCh <- a }) }()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case err := <-errCh:
		t.Fatalf("run exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr.String() + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET / status got %d want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("shutdown error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunFailsBeforeListening(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		target  error
		message string
	}{
		{name: "missing url", url: "", message: "DATABASE_URL is required"},
		{name: "unsupported scheme", url: "postgres://localhost/app", target: errUnsupportedDatabase},
		{name: "unreachable sqlite", url: "sqlite:" + filepath.Join(t.TempDir(), "missing", "dir", "app.db"), message: "connect to database"},
		{name: "unreachable mysql", url: "mysql://u:p@tcp(127.0.0.1:1)/app", message: "connect to database"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.DatabaseURL = tt.url
			listened := false
			err := run(context.Background(), cfg, func(net.Addr) { listened = true })
			if err == nil {
				t.Fatal("expected startup error")
			}
			if listened {
				t.Errorf("listener was bound despite startup failure")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("got %v want %v", err, tt.target)
			}
			if tt.message != "" && !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q missing %q", err, tt.message)
			}
		})
	}
}

func TestRunMissingTemplates(t *testing.T) {
	cfg := testConfig()
	cfg.TemplatesDir = filepath.Join(t.TempDir(), "templates")
	err := run(context.Background(), cfg, func(net.Addr) { t.Error("listener bound") })
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("expected templates error, got %v", err)
	}
}
