package auth

import "errors"

var (
	ErrMissingSigningKey = errors.New("auth: missing signing key")
	ErrInvalidToken      = errors.New("auth: invalid token")
	ErrExpiredToken      = errors.New("auth: token is expired")
	ErrInvalidSignature  = errors.New("auth: invalid signature")
	ErrUnexpectedAlg     = errors.New("auth: unexpected signing algorithm")
	ErrNoPrincipal       = errors.New("auth: no principal in context")
)
