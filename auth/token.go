// Package auth issues and verifies HS256 access tokens and exposes the
// authenticated principal to request handlers via context.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	headerType      = "JWT"
	headerAlgorithm = "HS256"
)

// Config holds token signing configuration.
type Config struct {
	SigningKey string        `env:"JWT_SECRET,required"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"blogfusion"`
	TokenTTL   time.Duration `env:"JWT_TOKEN_TTL" envDefault:"24h"`
}

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// Claims carries the identity embedded in an access token.
type Claims struct {
	Subject   string `json:"sub"` // user ID
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Issuer    string `json:"iss,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// Valid checks the temporal claims. Zero values are treated as unset.
func (c Claims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return ErrExpiredToken
	}
	return nil
}

// TokenService signs and verifies HS256 tokens. The signing key is kept
// in memory only.
type TokenService struct {
	signingKey []byte
	issuer     string
	tokenTTL   time.Duration
}

// NewTokenService creates a token service from config.
func NewTokenService(cfg Config) (*TokenService, error) {
	if cfg.SigningKey == "" {
		return nil, ErrMissingSigningKey
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{
		signingKey: []byte(cfg.SigningKey),
		issuer:     cfg.Issuer,
		tokenTTL:   ttl,
	}, nil
}

// Issue signs a token for the given principal.
func (s *TokenService) Issue(p Principal) (string, error) {
	now := time.Now()
	claims := Claims{
		Subject:   p.UserID,
		Email:     p.Email,
		Name:      p.Name,
		Issuer:    s.issuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.tokenTTL).Unix(),
	}

	headerJSON, err := json.Marshal(header{Type: headerType, Algorithm: headerAlgorithm})
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	payload := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)
	return payload + "." + s.sign(payload), nil
}

// Parse verifies a token and returns the principal it carries.
// Performs signature verification, algorithm validation, and expiry checks.
func (s *TokenService) Parse(tokenString string) (Principal, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return Principal{}, ErrInvalidToken
	}

	// Constant-time comparison to prevent timing attacks.
	payload := parts[0] + "." + parts[1]
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(s.sign(payload))) != 1 {
		return Principal{}, ErrInvalidSignature
	}

	headerJSON, err := base64URLDecode(parts[0])
	if err != nil {
		return Principal{}, ErrInvalidToken
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return Principal{}, ErrInvalidToken
	}
	// Reject unexpected algorithms to prevent algorithm confusion attacks.
	if h.Algorithm != headerAlgorithm {
		return Principal{}, ErrUnexpectedAlg
	}

	claimsJSON, err := base64URLDecode(parts[1])
	if err != nil {
		return Principal{}, ErrInvalidToken
	}
	var claims Claims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return Principal{}, ErrInvalidToken
	}
	if err := claims.Valid(); err != nil {
		return Principal{}, err
	}
	if claims.Subject == "" {
		return Principal{}, ErrInvalidToken
	}

	return Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}

func (s *TokenService) sign(payload string) string {
	h := hmac.New(sha256.New, s.signingKey)
	h.Write([]byte(payload))
	return base64URLEncode(h.Sum(nil))
}

// base64url without padding, per RFC 7515.
func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
