package main

import (
	"context"
	"log"
	"net/http"
)

// Cx is the request-scoped context attached by requestContextMiddleware.
type Cx struct {
	server    *ServerState
	RequestID string
	User      *UserSession
}

type cxKey struct{}

func withCx(ctx context.Context, cx *Cx) context.Context {
	return context.WithValue(ctx, cxKey{}, cx)
}

// cxFromRequest returns the request's Cx, or an empty one when the request
// did not pass through the middleware.
func cxFromRequest(r *http.Request) *Cx {
	if cx, ok := r.Context().Value(cxKey{}).(*Cx); ok {
		return cx
	}
	return &Cx{}
}

func (cx *Cx) devMode() bool {
	return cx.server != nil && cx.server.config.DevMode
}

// render executes a template with the common page fields (User, DevMode,
// RequestID) merged with data. Keys in data override the common ones.
func (cx *Cx) render(name string, data map[string]any) (string, error) {
	params := map[string]any{
		"User":      cx.User,
		"DevMode":   cx.devMode(),
		"RequestID": cx.RequestID,
	}
	for k, v := range data {
		params[k] = v
	}
	page, err := cx.server.templates.render(name, params)
	if err != nil {
		// All page rendering goes through here, templates are expected to
		// always work.
		log.Printf("request_id=%s failed to render %s: %+v", cx.RequestID, name, err)
		return "", err
	}
	return page, nil
}
