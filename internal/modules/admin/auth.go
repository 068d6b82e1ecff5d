package admin

import (
	"fmt"

	"viewminder/internal/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator checks the shared operator password and issues session tokens.
// It is a low-assurance gate: one password, no accounts.
type Authenticator struct {
	hash   []byte
	tokens tokenIssuer
}

func NewAuthenticator(password string, tokens tokenIssuer) (*Authenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &Authenticator{hash: hash, tokens: tokens}, nil
}

func (a *Authenticator) Login(password string) (*LoginResponse, error) {
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}
	token, expires, err := a.tokens.GenerateToken(jwt.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	return &LoginResponse{Token: token, ExpiresAt: expires}, nil
}
