package main

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
)

// responseWriter wraps http.ResponseWriter to capture the status code and the
// number of bytes written, and supports Flush/Hijack.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
	bytes      int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

func (rw *responseWriter) Write(p []byte) (int, error) {
	rw.written = true
	n, err := rw.ResponseWriter.Write(p)
	rw.bytes += int64(n)
	return n, err
}

func (rw *responseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("response does not implement http.Hijacker")
}

// interceptWriter holds back a 500 response once an AppError has been
// attached, so the request context middleware can replace it. Every other
// response goes straight through.
type interceptWriter struct {
	http.ResponseWriter
	appErr    *AppError
	status    int
	committed bool
	held      bool
}

func (iw *interceptWriter) setAppError(e *AppError) {
	if !iw.committed {
		iw.appErr = e
	}
}

func (iw *interceptWriter) WriteHeader(code int) {
	if iw.committed || iw.held {
		return
	}
	iw.status = code
	if code == http.StatusInternalServerError && iw.appErr != nil {
		iw.held = true
		return
	}
	iw.committed = true
	iw.ResponseWriter.WriteHeader(code)
}

func (iw *interceptWriter) Write(p []byte) (int, error) {
	if !iw.committed && !iw.held {
		iw.WriteHeader(http.StatusOK)
	}
	if iw.held {
		// body of the replaced response is dropped
		return len(p), nil
	}
	return iw.ResponseWriter.Write(p)
}

// intercepted reports whether a 500 with an attached AppError is pending.
func (iw *interceptWriter) intercepted() bool { return iw.held }

func (iw *interceptWriter) Unwrap() http.ResponseWriter { return iw.ResponseWriter }

func (iw *interceptWriter) Flush() {
	if iw.held {
		return
	}
	if !iw.committed {
		iw.WriteHeader(http.StatusOK)
	}
	if flusher, ok := iw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (iw *interceptWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := iw.ResponseWriter.(http.Hijacker); ok {
		iw.committed = true
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("response does not implement http.Hijacker")
}
