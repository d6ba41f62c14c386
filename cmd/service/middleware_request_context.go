package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
)

const diagnosticTemplate = "500.html"

// requestContextMiddleware attaches a Cx to every request and replaces 500
// responses that carry an AppError with a rendered diagnostic page. It never
// fails the request itself.
//
// next is shared between concurrent requests; the per-request state lives in
// the Cx and the interceptWriter.
func requestContextMiddleware(server *ServerState) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cx := &Cx{
				server:    server,
				RequestID: uuid.NewString(),
				User:      resolveSession(r, server.sessions),
			}
			w.Header().Set("X-Request-ID", cx.RequestID)

			iw := &interceptWriter{ResponseWriter: w}
			serveRecovering(next, iw, r.WithContext(withCx(r.Context(), cx)))

			if !iw.intercepted() {
				return
			}
			log.Printf("request_id=%s %s %s internal error: %v", cx.RequestID, r.Method, r.URL.Path, iw.appErr)
			writeDiagnosticPage(w, cx, iw.appErr)
		})
	}
}

// serveRecovering turns a handler panic into an attached AppError. Panics
// after the response has been committed are only logged.
func serveRecovering(next http.Handler, iw *interceptWriter, r *http.Request) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if rec == http.ErrAbortHandler {
			panic(rec)
		}
		err := fmt.Errorf("panic: %v", rec)
		if iw.committed {
			log.Printf("request_id=%s panic after response was written: %v", cxFromRequest(r).RequestID, rec)
			return
		}
		iw.appErr = asAppError(err)
		iw.held = true
		iw.status = http.StatusInternalServerError
	}()
	next.ServeHTTP(iw, r)
}

// writeDiagnosticPage renders 500.html for appErr, falling back to plain text
// if the template itself fails.
func writeDiagnosticPage(w http.ResponseWriter, cx *Cx, appErr *AppError) {
	devMode := cx.devMode()
	info := "No debug info available."
	if devMode {
		info = appErr.detail()
	}

	h := w.Header()
	h.Del("Content-Length")
	page, err := cx.render(diagnosticTemplate, map[string]any{"Error": info})
	if err != nil {
		cx.server.metrics.recoveredErrors.WithLabelValues("fallback").Inc()
		page = genericErrorMessage
		if devMode {
			page = fmt.Sprintf("Failed to render `%s`: %+v to display another error: %s", diagnosticTemplate, err, appErr.detail())
		}
		h.Set("Content-Type", "text/plain; charset=utf-8")
		h.Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintln(w, page)
		return
	}
	cx.server.metrics.recoveredErrors.WithLabelValues("rendered").Inc()
	h.Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprint(w, page)
}
