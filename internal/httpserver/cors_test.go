package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/health-assistant/internal/config"
)

func TestCORSMiddleware(t *testing.T) {
	cfg := &config.Config{
		CORSAllowedOrigins:   []string{"https://app.example.com", " "},
		CORSAllowCredentials: true,
	}

	tests := []struct {
		name            string
		method          string
		origin          string
		wantStatus      int
		wantInnerCalled bool
		wantAllowOrigin string
		wantMethods     bool
	}{
		{"preflight allowed", http.MethodOptions, "https://app.example.com", http.StatusNoContent, false, "https://app.example.com", true},
		{"preflight disallowed", http.MethodOptions, "https://evil.example", http.StatusNoContent, false, "", false},
		{"get allowed", http.MethodGet, "https://app.example.com", http.StatusOK, true, "https://app.example.com", false},
		{"get disallowed", http.MethodGet, "https://evil.example", http.StatusOK, true, "", false},
		{"no origin", http.MethodGet, "", http.StatusOK, true, "", false},
		{"options without origin", http.MethodOptions, "", http.StatusOK, true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			innerCalled := false
			handler := CORSMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				innerCalled = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/v1/profile", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if innerCalled != tt.wantInnerCalled {
				t.Errorf("expected inner called=%t, got %t", tt.wantInnerCalled, innerCalled)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllowOrigin {
				t.Errorf("expected Allow-Origin=%q, got %q", tt.wantAllowOrigin, got)
			}
			if got := rr.Header().Get("Access-Control-Allow-Methods"); (got != "") != tt.wantMethods {
				t.Errorf("unexpected Allow-Methods %q", got)
			}
			if tt.wantAllowOrigin != "" && rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
				t.Error("expected Allow-Credentials=true")
			}
		})
	}
}

func TestCORSMiddlewareExposesContentDisposition(t *testing.T) {
	cfg := &config.Config{CORSAllowedOrigins: []string{"http://localhost:5173"}}
	handler := CORSMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/v1/insight/daily/report", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Expose-Headers"); got != "Content-Disposition" {
		t.Fatalf("expected Content-Disposition to be exposed, got %q", got)
	}
	if rr.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Fatal("credentials header must not be set when disabled")
	}
}
