package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the client IP from the request. chi's RealIP
// middleware rewrites RemoteAddr from X-Forwarded-For / X-Real-IP when
// present, so this mostly strips the port and IPv6-mapped prefix.
func ClientIP(r *http.Request) string {
	addr := r.RemoteAddr

	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}

	addr = strings.TrimPrefix(addr, "::ffff:")
	if addr == "" {
		return "unknown"
	}
	return addr
}
