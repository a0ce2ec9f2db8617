package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/cafe_pos/pkg/hash"
	"github.com/Skotchmaster/cafe_pos/pkg/tokens"
)

const (
	AdminUsername = "admin"
	adminPassword = "robertobadjo"

	LoginFailed = "Pogrešni kredencijali"
)

// AuthService is the single-admin gate. It is an access screen for the
// till, not a security boundary.
type AuthService struct {
	Username     string
	PasswordHash string
	Secret       []byte
	Now          func() time.Time
}

func NewAuthService(secret []byte) (*AuthService, error) {
	h, err := hash.HashPassword(adminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &AuthService{Username: AdminUsername, PasswordHash: h, Secret: secret, Now: time.Now}, nil
}

// Login returns a signed session marker for the admin.
func (s *AuthService) Login(_ context.Context, username, password string) (string, error) {
	if username != s.Username || !hash.CheckPassword(s.PasswordHash, password) {
		return "", ErrUnauthorized
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	tok, err := tokens.CreateSessionToken(username, s.Secret, now())
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return tok, nil
}
