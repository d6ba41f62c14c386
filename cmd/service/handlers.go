package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

const recentPostsLimit = 10

func rootHandler(w http.ResponseWriter, r *http.Request) error {
	cx := cxFromRequest(r)
	posts, err := cx.server.posts.Recent(r.Context(), recentPostsLimit)
	if err != nil {
		return err
	}
	page, err := cx.render("home.html", map[string]any{"Posts": posts})
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write([]byte(page))
	return err
}

func reloadHandler(w http.ResponseWriter, r *http.Request) error {
	cx := cxFromRequest(r)
	log.Printf("request_id=%s reloading templates...", cx.RequestID)
	if err := cx.server.reloadTemplates(); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := w.Write([]byte("OK"))
	return err
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte("Not found"))
}

// Health check handlers
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func readyHandler(w http.ResponseWriter, r *http.Request) {
	cx := cxFromRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := cx.server.db.PingContext(ctx); err != nil {
		log.Printf("request_id=%s readiness check failed: %v", cx.RequestID, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}
