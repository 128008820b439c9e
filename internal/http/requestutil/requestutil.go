// Package requestutil holds small helpers shared by the HTTP handlers and
// middleware: request ids, client addresses, and JSON body decoding.
package requestutil

import (
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var requestIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// newRandom is swapped in tests to exercise the time-based fallback.
var newRandom = uuid.NewRandom

// SanitizeRequestID keeps a well-formed incoming X-Request-ID and replaces
// anything else with a fresh id.
func SanitizeRequestID(incoming string) string {
	incoming = strings.TrimSpace(incoming)
	if incoming != "" && requestIDPattern.MatchString(incoming) {
		return incoming
	}
	return NewRequestID()
}

// NewRequestID returns a random UUID, or a time-based one when the random
// source fails.
func NewRequestID() string {
	if id, err := newRandom(); err == nil {
		return id.String()
	}
	if id, err := uuid.NewUUID(); err == nil {
		return id.String()
	}
	return uuid.Nil.String()
}

// ClientIP returns the caller address: the first X-Forwarded-For hop, then
// X-Real-IP, then the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
