package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/health-assistant/internal/config"
)

func limitedHandler(cfg *config.Config) http.Handler {
	return RateLimitMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func hit(handler http.Handler, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	handler := limitedHandler(&config.Config{RateLimitRPS: 1, RateLimitBurst: 1})

	if rr := hit(handler, "1.2.3.4:1000", ""); rr.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rr.Code)
	}

	rr := hit(handler, "1.2.3.4:1001", "")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "1" {
		t.Errorf("expected Retry-After=1, got %q", rr.Header().Get("Retry-After"))
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if body.Error.Code != "rate_limited" {
		t.Errorf("expected code=rate_limited, got %q", body.Error.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	handler := limitedHandler(&config.Config{})
	for i := 0; i < 20; i++ {
		if rr := hit(handler, "1.2.3.4:1", ""); rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rr.Code)
		}
	}
}

func TestRateLimitPerClient(t *testing.T) {
	handler := limitedHandler(&config.Config{RateLimitRPS: 1, RateLimitBurst: 1})

	if rr := hit(handler, "1.2.3.4:1", ""); rr.Code != http.StatusOK {
		t.Fatalf("client 1: expected 200, got %d", rr.Code)
	}
	if rr := hit(handler, "5.6.7.8:1", ""); rr.Code != http.StatusOK {
		t.Fatalf("client 2: expected 200, got %d", rr.Code)
	}
	// Same proxy, different forwarded clients.
	if rr := hit(handler, "10.0.0.1:1", "9.9.9.9, 10.0.0.1"); rr.Code != http.StatusOK {
		t.Fatalf("forwarded client: expected 200, got %d", rr.Code)
	}
	if rr := hit(handler, "10.0.0.1:1", "9.9.9.9"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("forwarded client repeat: expected 429, got %d", rr.Code)
	}
}

func TestVisitorsSweepDropsIdleClients(t *testing.T) {
	v := newVisitors(1, 1)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return now }

	v.allow("1.1.1.1")
	now = now.Add(visitorIdleTTL + time.Second)
	v.allow("2.2.2.2")
	v.sweep(now)

	if _, ok := v.byIP["1.1.1.1"]; ok {
		t.Error("expected idle client to be dropped")
	}
	if _, ok := v.byIP["2.2.2.2"]; !ok {
		t.Error("expected active client to be kept")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		xff    string
		want   string
	}{
		{"1.2.3.4:5678", "", "1.2.3.4"},
		{"1.2.3.4", "", "1.2.3.4"},
		{"1.2.3.4:5678", " 8.8.8.8 , 1.2.3.4", "8.8.8.8"},
		{"[::1]:80", "", "::1"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		if tt.xff != "" {
			req.Header.Set("X-Forwarded-For", tt.xff)
		}
		if got := clientIP(req); got != tt.want {
			t.Errorf("clientIP(%q, %q) = %q, want %q", tt.remote, tt.xff, got, tt.want)
		}
	}
}
