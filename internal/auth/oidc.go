package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/config"
	"github.com/apota/mydms-sub010/internal/db/models"
)

// ErrOIDCDisabled is returned when OIDC is disabled via configuration.
var ErrOIDCDisabled = errors.New("oidc authentication is disabled")

// OIDCProvider handles OIDC authentication.
type OIDCProvider struct {
	config      config.OIDC
	verifier    *oidc.IDTokenVerifier
	oauth2      oauth2.Config
	db          *gorm.DB
	roles       *Service
	defaultRole string
}

// NewOIDCProvider discovers the provider and creates a new OIDC provider.
func NewOIDCProvider(
	ctx context.Context,
	cfg config.OIDC,
	db *gorm.DB,
	roles *Service,
	defaultRole string,
) (*OIDCProvider, error) {
	if !cfg.Enabled {
		return nil, ErrOIDCDisabled
	}

	provider, err := oidc.NewProvider(ctx, cfg.ProviderURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	return &OIDCProvider{
		config:   cfg,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth2: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
		db:          db,
		roles:       roles,
		defaultRole: defaultRole,
	}, nil
}

// GenerateStateToken generates a random state token for CSRF protection.
func GenerateStateToken() (string, error) {
	return RandomToken()
}

// GetAuthURL returns the OIDC authorization URL with state token.
func (p *OIDCProvider) GetAuthURL(state string) string {
	return p.oauth2.AuthCodeURL(state)
}

// oidcClaims are read from the ID token.
type oidcClaims struct {
	Sub               string   `json:"sub"`
	Email             string   `json:"email"`
	PreferredUsername string   `json:"preferred_username"`
	GivenName         string   `json:"given_name"`
	FamilyName        string   `json:"family_name"`
	Groups            []string `json:"groups"`
}

// HandleCallback exchanges code and returns the synchronised local user.
func (p *OIDCProvider) HandleCallback(ctx context.Context, code string) (*models.User, error) {
	oauth2Token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, ErrNoIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims oidcClaims
	if err = idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	return p.upsertOIDCUser(ctx, claims)
}

func (p *OIDCProvider) upsertOIDCUser(ctx context.Context, claims oidcClaims) (*models.User, error) {
	roleID, err := p.roles.RoleForGroups(ctx, models.AuthSourceOIDC, claims.Groups, p.defaultRole)
	if err != nil {
		return nil, err
	}

	var user models.User

	err = p.db.WithContext(ctx).Where("external_id = ? AND auth_source = ?", claims.Sub, models.AuthSourceOIDC).
		First(&user).Error

	notFound := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !notFound {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if notFound {
		username := claims.PreferredUsername
		if username == "" {
			username = claims.Email
		}

		user = models.User{
			Active:     true,
			Username:   username,
			AuthSource: models.AuthSourceOIDC,
			ExternalID: claims.Sub,
		}
	}

	user.Email = claims.Email
	user.FirstName = claims.GivenName
	user.LastName = claims.FamilyName
	user.RoleID = roleID

	if err = p.db.WithContext(ctx).Omit("Role").Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	return &user, nil
}
