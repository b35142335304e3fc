// Package netx holds small helpers for inspecting HTTP requests behind a
// reverse proxy.
package netx

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the address of the caller. When trustProxy is set the
// last X-Forwarded-For entry, the one appended by the proxy in front of the
// server, wins over RemoteAddr. Earlier entries are client-supplied.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		values := r.Header.Values("X-Forwarded-For")
		if len(values) > 0 {
			last := values[len(values)-1]
			if i := strings.LastIndex(last, ","); i >= 0 {
				last = last[i+1:]
			}
			if ip := strings.TrimSpace(last); ip != "" {
				return ip
			}
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// Hostname strips an optional port from a Host header value.
func Hostname(hostport string) string {
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		return strings.Trim(h, "[]")
	}
	return strings.Trim(hostport, "[]")
}

// IsSecure reports whether r arrived over TLS, either directly or, when
// trustProxy is set, according to X-Forwarded-Proto.
func IsSecure(r *http.Request, trustProxy bool) bool {
	if r.TLS != nil {
		return true
	}
	return trustProxy && strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
