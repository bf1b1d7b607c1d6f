package domain

import "errors"

// Domain errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenType     = errors.New("unexpected token type")
)
