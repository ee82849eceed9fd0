package httputil

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		expected string
	}{
		{
			name: "x-forwarded-for single address",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "203.0.113.5")
			},
			expected: "203.0.113.5",
		},
		{
			name: "x-forwarded-for chain takes first",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "198.51.100.7, 203.0.113.9, 192.0.2.1")
			},
			expected: "198.51.100.7",
		},
		{
			name: "x-forwarded-for ipv6",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "2001:db8::1, 203.0.113.9")
			},
			expected: "2001:db8::1",
		},
		{
			name: "x-real-ip fallback",
			setup: func(r *http.Request) {
				r.Header.Set("X-Real-IP", "203.0.113.77")
			},
			expected: "203.0.113.77",
		},
		{
			name: "remote addr with port",
			setup: func(r *http.Request) {
				r.RemoteAddr = "192.0.2.10:54321"
			},
			expected: "192.0.2.10",
		},
		{
			name: "remote addr ipv6 with port",
			setup: func(r *http.Request) {
				r.RemoteAddr = "[2001:db8::2]:443"
			},
			expected: "2001:db8::2",
		},
		{
			name: "remote addr without port",
			setup: func(r *http.Request) {
				r.RemoteAddr = "192.0.2.11"
			},
			expected: "192.0.2.11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := http.NewRequest(http.MethodPost, "http://example.com/webhook/event", nil)
			assert.NoError(t, err)
			tt.setup(r)
			assert.Equal(t, tt.expected, GetClientIP(r))
		})
	}
}
