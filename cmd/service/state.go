package main

import (
	"context"
	"database/sql"
	"log"

	"github.com/gorilla/sessions"
	"golang.org/x/time/rate"
)

// ServerState is built once at startup and shared by every request. Only the
// template store mutates after construction.
type ServerState struct {
	config    Config
	db        *sql.DB
	posts     *postStore
	templates *templateStore
	sessions  *sessions.CookieStore
	metrics   *metrics
	limiter   *rate.Limiter
	live      *liveReloadHub
}

// newServerState validates cfg, connects to the database and compiles the
// templates. Any failure aborts startup.
func newServerState(ctx context.Context, cfg Config) (*ServerState, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	db, dialect, err := openDatabase(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		return nil, err
	}
	posts := &postStore{db: db, dialect: dialect}
	if err := posts.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	templates, err := newTemplateStore(cfg.TemplatesDir)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &ServerState{
		config:    cfg,
		db:        db,
		posts:     posts,
		templates: templates,
		sessions:  newSessionStore(cfg.SessionSecret),
		metrics:   newMetrics(),
		live:      newLiveReloadHub(),
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	if cfg.DevMode {
		log.Printf("dev mode enabled: error pages include internal details")
	}
	return s, nil
}

// reloadTemplates recompiles the template store and notifies live-reload
// clients on success.
func (s *ServerState) reloadTemplates() error {
	if err := s.templates.reload(); err != nil {
		s.metrics.templateReloads.WithLabelValues("error").Inc()
		return err
	}
	s.metrics.templateReloads.WithLabelValues("ok").Inc()
	if s.config.DevMode {
		s.live.broadcast()
	}
	return nil
}

func (s *ServerState) Close() error {
	return s.db.Close()
}
