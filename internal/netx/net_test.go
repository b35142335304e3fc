package netx

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		xff        string
		trustProxy bool
		want       string
	}{
		{"remote addr", "10.0.0.1:5555", "", false, "10.0.0.1"},
		{"xff ignored without trust", "10.0.0.1:5555", "203.0.113.9", false, "10.0.0.1"},
		{"xff last entry", "10.0.0.1:5555", "198.51.100.4, 203.0.113.9", true, "203.0.113.9"},
		{"spoofed first entry ignored", "10.0.0.1:5555", "1.2.3.4, 5.6.7.8, 203.0.113.9", true, "203.0.113.9"},
		{"blank last entry falls back", "10.0.0.1:5555", "203.0.113.9, ", true, "10.0.0.1"},
		{"remote without port", "10.0.0.1", "", true, "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.want, ClientIP(r, tt.trustProxy))
		})
	}
}

func TestClientIP_RepeatedHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Add("X-Forwarded-For", "1.2.3.4")
	r.Header.Add("X-Forwarded-For", "203.0.113.9")

	assert.Equal(t, "203.0.113.9", ClientIP(r, true))
}

func TestHostname(t *testing.T) {
	assert.Equal(t, "localhost", Hostname("localhost:8000"))
	assert.Equal(t, "example.onrender.com", Hostname("example.onrender.com"))
	assert.Equal(t, "::1", Hostname("[::1]:8000"))
}

func TestIsSecure(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.False(t, IsSecure(r, true))

	r.Header.Set("X-Forwarded-Proto", "https")
	assert.False(t, IsSecure(r, false))
	assert.True(t, IsSecure(r, true))

	r = httptest.NewRequest("GET", "/", nil)
	r.TLS = &tls.ConnectionState{}
	assert.True(t, IsSecure(r, false))
}
