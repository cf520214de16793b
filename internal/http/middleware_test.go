package http

import (
	"fmt"
	"net/http/httptest"
	"testing"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  mercado  ", "mercado"},
		{"linha\x00suja", "linhasuja"},
		{"tab\tok", "tab\tok"},
		{"quebra\nok", "quebra\nok"},
		{"café com pão", "café com pão"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded single", map[string]string{"X-Forwarded-For": "10.0.0.1"}, "10.0.0.1"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.3"}, "10.0.0.3"},
		{"remote addr", nil, "192.0.2.1:1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < requestsPerMinute; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d denied within limit", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request over the limit was allowed")
	}
	if !rl.allow("10.0.0.2") {
		t.Error("separate client was denied")
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 10; i++ {
		ip := fmt.Sprintf("10.0.1.%d", i)
		if !rl.allow(ip) {
			t.Errorf("first request from %s denied", ip)
		}
	}
}
