// Package auth implements the shared-secret gate and the signed tokens that
// carry a session id between requests.
package auth

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// maxSecretBytes is the longest input bcrypt considers.
const maxSecretBytes = 72

// Gate checks submitted passwords against the configured access password.
// Only a bcrypt hash of the secret is kept in memory.
type Gate struct {
	hash []byte
}

// NewGate hashes secret for later comparison.
func NewGate(secret string) (*Gate, error) {
	if secret == "" {
		return nil, errors.New("access password must not be empty")
	}
	if len(secret) > maxSecretBytes {
		return nil, fmt.Errorf("access password longer than %d bytes is not supported", maxSecretBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("could not hash access password: %w", err)
	}
	return &Gate{hash: hash}, nil
}

// Check reports whether candidate equals the access password.
func (g *Gate) Check(candidate string) bool {
	if candidate == "" || len(candidate) > maxSecretBytes {
		return false
	}
	err := bcrypt.CompareHashAndPassword(g.hash, []byte(candidate))
	if err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			slog.Error("Error comparing access password", "error", err)
		}
		return false
	}
	return true
}
