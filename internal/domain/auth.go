package domain

import "context"

// TokenPair is returned on login. Refresh is empty when only a new access
// token was issued.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Authorize(ctx context.Context, accessToken string) (*User, error)
}
