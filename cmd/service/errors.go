package main

import (
	"errors"
	"fmt"
	"net/http"
)

const genericErrorMessage = "Internal server error; Something went terribly wrong! Please contact the site's administrators if you can."

// AppError is the single error kind surfaced at the HTTP boundary. It always
// maps to 500 Internal Server Error.
type AppError struct {
	err error
}

// asAppError lifts any error into an AppError. An AppError anywhere in the
// chain is returned as is.
func asAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{err: err}
}

func (e *AppError) Error() string { return e.err.Error() }

func (e *AppError) Unwrap() error { return e.err }

// detail is the verbose rendering shown only in dev mode.
func (e *AppError) detail() string {
	return fmt.Sprintf("internal error: %+v", e.err)
}

// respond attaches e to w for the request context middleware, then writes a
// plain-text 500.
func (e *AppError) respond(w http.ResponseWriter, devMode bool) {
	attachError(w, e)
	body := genericErrorMessage
	if devMode {
		body = "Something went wrong: " + e.Error()
	}
	http.Error(w, body, http.StatusInternalServerError)
}

// errorCarrier is implemented by response writers that accept an AppError on
// the side of the response.
type errorCarrier interface {
	setAppError(*AppError)
}

// attachError walks the writer chain via Unwrap looking for an errorCarrier.
func attachError(w http.ResponseWriter, e *AppError) bool {
	for w != nil {
		if c, ok := w.(errorCarrier); ok {
			c.setAppError(e)
			return true
		}
		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return false
		}
		w = u.Unwrap()
	}
	return false
}

// appHandler is an http.Handler that reports failure by returning an error.
type appHandler func(w http.ResponseWriter, r *http.Request) error

func (h appHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h(w, r); err != nil {
		asAppError(err).respond(w, cxFromRequest(r).devMode())
	}
}
