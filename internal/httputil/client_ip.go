package httputil

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP extracts the originating client IP from the request.
// X-Forwarded-For takes precedence (first address in the chain), then
// X-Real-IP, then the connection's RemoteAddr. Handles bracketed IPv6.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ips := strings.Split(xff, ","); len(ips) > 0 {
			if ip := strings.TrimSpace(ips[0]); ip != "" {
				return ip
			}
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
