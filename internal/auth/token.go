package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/apota/mydms-sub010/internal/config"
	"github.com/apota/mydms-sub010/internal/service"
)

// TokenTypeBearer is returned with every token pair.
const TokenTypeBearer = "Bearer"

// Claims of a DMS access token, the subject is the user id.
type Claims struct {
	jwt.RegisteredClaims

	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// Principal returns the caller described by the claims.
func (c *Claims) Principal() service.Principal {
	return service.Principal{
		ID:          c.Subject,
		Username:    c.Username,
		Role:        c.Role,
		Permissions: c.Permissions,
	}
}

// TokenPair is the result of a login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

// TokenService issues and verifies tokens.
type TokenService struct {
	cfg   config.JWT
	store TokenStore
	now   func() time.Time
}

// NewTokenService creates a token service, missing settings get their defaults.
func NewTokenService(cfg config.JWT, store TokenStore) *TokenService {
	if cfg.Issuer == "" {
		cfg.Issuer = config.DefaultJWTIssuer
	}

	if cfg.Audience == "" {
		cfg.Audience = config.DefaultJWTAudience
	}

	if cfg.AccessTokenExpiry == 0 {
		cfg.AccessTokenExpiry = config.DefaultAccessTokenExpiry
	}

	if cfg.RefreshTokenExpiry == 0 {
		cfg.RefreshTokenExpiry = config.DefaultRefreshTokenExpiry
	}

	return &TokenService{cfg: cfg, store: store, now: time.Now}
}

// Store returns the token store.
func (s *TokenService) Store() TokenStore {
	return s.store
}

// AccessToken signs an access token for p.
func (s *TokenService) AccessToken(p service.Principal) (string, error) {
	if s.cfg.Key == "" {
		return "", ErrJWTKeyEmpty
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenExpiry)),
		},
		Username:    p.Username,
		Role:        p.Role,
		Permissions: p.Permissions,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Key))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return signed, nil
}

// Issue creates an access token and stores a new refresh token for p.
func (s *TokenService) Issue(ctx context.Context, p service.Principal) (TokenPair, error) {
	access, err := s.AccessToken(p)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := RandomToken()
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.store.Set(ctx, RefreshTokenPrefix+refresh, p.ID, s.cfg.RefreshTokenExpiry); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.cfg.AccessTokenExpiry.Seconds()),
		TokenType:    TokenTypeBearer,
	}, nil
}

// Verify parses and validates an access token.
func (s *TokenService) Verify(token string) (*Claims, error) {
	if s.cfg.Key == "" {
		return nil, errors.Join(ErrInvalidToken, ErrJWTKeyEmpty)
	}

	claims := &Claims{}

	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) {
			return []byte(s.cfg.Key), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	return claims, nil
}

// Consume validates a refresh token, revokes it and returns its user id.
func (s *TokenService) Consume(ctx context.Context, refresh string) (string, error) {
	if refresh == "" {
		return "", ErrTokenNotFound
	}

	return s.store.Take(ctx, RefreshTokenPrefix+refresh)
}

// Revoke deletes a refresh token.
func (s *TokenService) Revoke(ctx context.Context, refresh string) error {
	return s.store.Delete(ctx, RefreshTokenPrefix+refresh)
}

// RandomToken returns 32 random bytes, base64url encoded.
func RandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
