package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// SessionCookieName holds the signed browser session ID
const SessionCookieName = "widgets_session"

// SessionMaxAge is the cookie lifetime in seconds
const SessionMaxAge = 30 * 24 * 60 * 60

// Sessions issues and verifies signed session cookies
type Sessions struct {
	key []byte
}

// NewSessions derives the session signing key from the service secret
func NewSessions(secret []byte) (*Sessions, error) {
	key, err := DeriveKey(secret, PurposeSession)
	if err != nil {
		return nil, err
	}
	return &Sessions{key: key}, nil
}

func (s *Sessions) sign(id string) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Encode returns the cookie value for a session ID
func (s *Sessions) Encode(id string) string {
	return id + "." + s.sign(id)
}

// Decode verifies a cookie value and returns its session ID
func (s *Sessions) Decode(value string) (string, bool) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(id))) {
		return "", false
	}
	return id, true
}

// FromRequest returns the verified session ID, empty when absent or tampered
func (s *Sessions) FromRequest(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	id, ok := s.Decode(c.Value)
	if !ok {
		return ""
	}
	return id
}

// Ensure returns the request's session ID, issuing a new cookie when there is none
func (s *Sessions) Ensure(w http.ResponseWriter, r *http.Request) string {
	if id := s.FromRequest(r); id != "" {
		return id
	}
	id := uuid.NewString()
	SetSessionCookie(w, r, SessionCookieName, s.Encode(id), SessionMaxAge)
	return id
}
