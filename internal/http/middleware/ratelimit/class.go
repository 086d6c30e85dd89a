package ratelimit

import (
	"net"
	"net/http"
)

// Class separates cheap reads from state changes.
// Console polling and websocket upgrades count as reads, so they never
// starve driver assignment, status updates and order confirmation.
type Class uint8

const (
	ClassRead Class = iota
	ClassWrite
)

func (c Class) String() string {
	if c == ClassWrite {
		return "write"
	}
	return "read"
}

// ClassOf classifies r by its method.
func ClassOf(r *http.Request) Class {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ClassRead
	default:
		return ClassWrite
	}
}

func clientIP(r *http.Request) string {
	// RemoteAddr уже переписан middleware.RealIP
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
