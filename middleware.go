package main

import (
	"net/http"

	"nostr-widgets/internal/util"
)

// Request body size limits
const (
	maxBodySize = 16 * 1024 // 16KB for POST requests
)

// limitBody wraps an HTTP handler to limit request body size
func limitBody(next http.HandlerFunc, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		next(w, r)
	}
}

// securityHeaders wraps an HTTP handler to add security headers
func securityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// img-src allows remote avatars, stream thumbnails and QR data URIs
		csp := "default-src 'self'; " +
			"img-src * data:; " +
			"media-src *; " +
			"style-src 'self' 'unsafe-inline'; " +
			"script-src 'self'"
		w.Header().Set("Content-Security-Policy", csp)
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next(w, r)
	}
}

// requireCSRF rejects state-changing requests without a valid token for the session.
// The token is read from the csrf_token form field or the X-CSRF-Token header.
func (a *App) requireCSRF(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := a.sessions.FromRequest(r)
		token := r.Header.Get("X-CSRF-Token")
		if token == "" {
			token = r.FormValue("csrf_token")
		}
		if !a.csrf.ValidateToken(session, token) {
			LoggerFromContext(r.Context()).Warn("csrf validation failed", "path", r.URL.Path, "has_session", session != "")
			util.RespondForbidden(w, "Invalid security token, please reload and try again")
			return
		}
		next(w, r)
	}
}

// post wraps a state-changing handler with the standard middleware stack
func (a *App) post(next http.HandlerFunc) http.HandlerFunc {
	return securityHeaders(limitBody(a.requireCSRF(next), maxBodySize))
}
