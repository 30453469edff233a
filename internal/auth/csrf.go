package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// CSRFTokenMaxAge is the maximum age of a CSRF token before it expires
	CSRFTokenMaxAge = 30 * time.Minute
)

// CSRFManager handles CSRF token generation and validation
type CSRFManager struct {
	key []byte
	now func() time.Time
}

// NewCSRFManager derives the CSRF key from the service secret
func NewCSRFManager(secret []byte) (*CSRFManager, error) {
	key, err := DeriveKey(secret, PurposeCSRF)
	if err != nil {
		return nil, err
	}
	return &CSRFManager{key: key, now: time.Now}, nil
}

// GenerateToken creates a signed CSRF token for the given session ID
// Format: timestamp.signature (base64 encoded)
func (m *CSRFManager) GenerateToken(sessionID string) string {
	timestamp := m.now().Unix()
	return fmt.Sprintf("%d.%s", timestamp, m.computeSignature(sessionID, timestamp))
}

// ValidateToken checks if a CSRF token is valid for the given session ID
func (m *CSRFManager) ValidateToken(sessionID string, token string) bool {
	if sessionID == "" {
		return false
	}
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return false
	}

	timestamp, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false
	}

	if m.now().Unix()-timestamp > int64(CSRFTokenMaxAge.Seconds()) {
		return false
	}

	expected := m.computeSignature(sessionID, timestamp)
	return hmac.Equal([]byte(parts[1]), []byte(expected))
}

func (m *CSRFManager) computeSignature(sessionID string, timestamp int64) string {
	h := hmac.New(sha256.New, m.key)
	fmt.Fprintf(h, "%s.%d", sessionID, timestamp)
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}
