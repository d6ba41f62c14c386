package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAsAppError(t *testing.T) {
	base := errors.New("disk on fire")

	lifted := asAppError(base)
	if !errors.Is(lifted, base) {
		t.Errorf("lifted error does not unwrap to the original")
	}
	if lifted.Error() != "disk on fire" {
		t.Errorf("Error() got %q", lifted.Error())
	}

	wrapped := fmt.Errorf("handler: %w", lifted)
	if again := asAppError(wrapped); again != lifted {
		t.Errorf("existing AppError in chain should be reused")
	}
}

func TestAppErrorRespond(t *testing.T) {
	tests := []struct {
		name     string
		devMode  bool
		contains string
		absent   string
	}{
		{name: "dev mode shows cause", devMode: true, contains: "secret-cause"},
		{name: "prod mode hides cause", devMode: false, contains: "administrators", absent: "secret-cause"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			asAppError(errors.New("secret-cause")).respond(rr, tt.devMode)
			if rr.Code != http.StatusInternalServerError {
				t.Errorf("status got %d want 500", rr.Code)
			}
			body := rr.Body.String()
			if !strings.Contains(body, tt.contains) {
				t.Errorf("body %q missing %q", body, tt.contains)
			}
			if tt.absent != "" && strings.Contains(body, tt.absent) {
				t.Errorf("body %q leaks %q", body, tt.absent)
			}
		})
	}
}

func TestAttachErrorThroughWrappers(t *testing.T) {
	iw := &interceptWriter{ResponseWriter: httptest.NewRecorder()}
	outer := newResponseWriter(iw)

	appErr := asAppError(errors.New("x"))
	if !attachError(outer, appErr) {
		t.Fatal("attachError did not find the carrier")
	}
	if iw.appErr != appErr {
		t.Errorf("carrier holds %v want %v", iw.appErr, appErr)
	}

	if attachError(httptest.NewRecorder(), appErr) {
		t.Errorf("plain recorder should not accept an error")
	}
}
