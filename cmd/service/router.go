package main

import (
	"net/http"

	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes and middleware for the server.
func setupRoutes(server *ServerState) *mux.Router {
	router := mux.NewRouter()

	// Apply middleware, outermost first
	router.Use(loggingMiddleware(server))
	router.Use(requestContextMiddleware(server))
	router.Use(rateLimitMiddleware(server))

	router.Handle("/", appHandler(rootHandler)).Methods("GET")
	router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(server.config.StaticDir))),
	).Methods("GET", "HEAD")

	router.HandleFunc("/health", healthHandler).Methods("GET")
	router.HandleFunc("/ready", readyHandler).Methods("GET")
	router.Handle("/metrics", server.metrics.handler()).Methods("GET")

	// Debug routes, opt-in via ENABLE_RELOAD (defaults to DEV_MODE)
	if server.config.EnableReload {
		router.Handle("/reload", appHandler(reloadHandler)).Methods("POST")
	}
	if server.config.DevMode {
		router.Handle("/livereload", server.live).Methods("GET")
	}

	// mux skips router middleware for unmatched requests
	notFound := loggingMiddleware(server)(http.HandlerFunc(notFoundHandler))
	router.NotFoundHandler = notFound
	router.MethodNotAllowedHandler = notFound

	return router
}
