// Package login authenticates users and issues DMS tokens: password logins
// against the local database or LDAP with optional TOTP, OIDC logins,
// refresh token rotation and MFA enrolment.
package login

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/auth"
	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/service"
	"github.com/apota/mydms-sub010/internal/service/users"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "DMS Login Management API"

// Directory authenticates against an external directory, implemented by
// auth.LDAPProvider.
type Directory interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, []string, error)
}

// OIDC runs the authorization code flow, implemented by auth.OIDCProvider.
type OIDC interface {
	GetAuthURL(state string) string
	HandleCallback(ctx context.Context, code string) (*models.User, error)
}

// Options are the optional login methods.
type Options struct {
	LDAP        Directory
	OIDC        OIDC
	DefaultRole string
}

// Service implements the login flows.
type Service struct {
	users  *users.Store
	local  *auth.LocalProvider
	roles  *auth.Service
	tokens *auth.TokenService
	mfa    *auth.MFA

	ldap        Directory
	oidc        OIDC
	defaultRole string
}

// New creates the login service.
func New(db *gorm.DB, roles *auth.Service, tokens *auth.TokenService, mfa *auth.MFA, opts Options) (*Service, error) {
	store, err := users.NewStore(db)
	if err != nil {
		return nil, err
	}

	if opts.DefaultRole == "" {
		opts.DefaultRole = models.RoleViewer
	}

	return &Service{
		users:       store,
		local:       auth.NewLocalProvider(db),
		roles:       roles,
		tokens:      tokens,
		mfa:         mfa,
		ldap:        opts.LDAP,
		oidc:        opts.OIDC,
		defaultRole: opts.DefaultRole,
	}, nil
}

// Login checks the credentials of in and issues tokens. Users with MFA get
// RequiresMFA until the request carries a code.
func (s *Service) Login(ctx context.Context, in *Input) (Result, error) {
	if err := service.Validate(in); err != nil {
		return Result{}, err
	}

	user, err := s.authenticate(ctx, in.Username, in.Password)
	if err != nil {
		return Result{}, err
	}

	if user.MFAEnabled {
		if in.MFACode == "" {
			return Result{RequiresMFA: true}, nil
		}

		if !s.mfa.Validate(user.MFASecret, in.MFACode) {
			log.Ctx(ctx).Info().Str("username", user.Username).Msg("rejected mfa code")

			return Result{}, auth.ErrInvalidMFACode
		}
	}

	return s.issue(ctx, user)
}

// authenticate tries the local database first and falls back to the
// directory for unknown users.
func (s *Service) authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.local.Authenticate(ctx, username, password)
	if errors.Is(err, auth.ErrUserNotFound) && s.ldap != nil {
		user, _, err = s.ldap.Authenticate(ctx, username, password)
	}

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword),
		errors.Is(err, auth.ErrUserAccountDisabled):
		log.Ctx(ctx).Info().Err(err).Str("username", username).Msg("login failed")

		return nil, auth.ErrInvalidCredentials
	}

	return nil, err
}

// issue records the login and returns tokens and the user.
func (s *Service) issue(ctx context.Context, user *models.User) (Result, error) {
	if err := s.local.TouchLogin(ctx, user); err != nil {
		return Result{}, err
	}

	loaded, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return Result{}, err
	}

	if loaded == nil {
		return Result{}, auth.ErrUserNotFound
	}

	p, err := s.roles.Principal(ctx, loaded)
	if err != nil {
		return Result{}, err
	}

	pair, err := s.tokens.Issue(ctx, p)
	if err != nil {
		return Result{}, err
	}

	dto := users.ToDTO(loaded)

	log.Ctx(ctx).Info().Str("username", loaded.Username).Str("source", string(loaded.AuthSource)).Msg("user logged in")

	return Result{TokenPair: &pair, User: &dto}, nil
}

// Register creates a local user with the default role.
func (s *Service) Register(ctx context.Context, in *RegisterInput) (users.UserDTO, error) {
	if err := service.Validate(in); err != nil {
		return users.UserDTO{}, err
	}

	role, err := s.roles.RoleByName(ctx, s.defaultRole)
	if err != nil {
		return users.UserDTO{}, err
	}

	user, err := s.local.CreateUser(ctx, in.Username, in.Email, in.Password, in.FirstName, in.LastName, role.ID)
	if err != nil {
		return users.UserDTO{}, err
	}

	user.Role = *role

	return users.ToDTO(user), nil
}

// Refresh rotates a refresh token.
func (s *Service) Refresh(ctx context.Context, in *RefreshInput) (Result, error) {
	if err := service.Validate(in); err != nil {
		return Result{}, err
	}

	subject, err := s.tokens.Consume(ctx, in.RefreshToken)
	if err != nil {
		return Result{}, err
	}

	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return Result{}, auth.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return Result{}, err
	}

	if user == nil || !user.Active {
		return Result{}, auth.ErrInvalidToken
	}

	return s.issue(ctx, user)
}

// Logout revokes a refresh token, unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, in *RefreshInput) error {
	if err := service.Validate(in); err != nil {
		return err
	}

	return s.tokens.Revoke(ctx, in.RefreshToken)
}

// Verify describes the caller of an authenticated request.
func (s *Service) Verify(ctx context.Context) (VerifyDTO, error) {
	p, ok := service.PrincipalFrom(ctx)
	if !ok {
		return VerifyDTO{}, auth.ErrInvalidToken
	}

	perms := p.Permissions
	if perms == nil {
		perms = []string{}
	}

	return VerifyDTO{ID: p.ID, Username: p.Username, Role: p.Role, Permissions: perms}, nil
}

// EnableMFA starts TOTP enrolment for the caller.
func (s *Service) EnableMFA(ctx context.Context) (auth.MFASetup, error) {
	user, err := s.caller(ctx)
	if err != nil {
		return auth.MFASetup{}, err
	}

	account := user.Email
	if account == "" {
		account = user.Username
	}

	return s.mfa.Begin(ctx, strconv.FormatUint(user.ID, 10), account)
}

// ConfirmMFA finishes TOTP enrolment of the caller.
func (s *Service) ConfirmMFA(ctx context.Context, in *MFACodeInput) error {
	if err := service.Validate(in); err != nil {
		return err
	}

	user, err := s.caller(ctx)
	if err != nil {
		return err
	}

	secret, err := s.mfa.Confirm(ctx, strconv.FormatUint(user.ID, 10), in.Code)
	if err != nil {
		return err
	}

	return s.local.SetMFASecret(ctx, user.ID, secret)
}

func (s *Service) caller(ctx context.Context) (*models.User, error) {
	p, ok := service.PrincipalFrom(ctx)
	if !ok {
		return nil, auth.ErrInvalidToken
	}

	id, err := strconv.ParseUint(p.ID, 10, 64)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, auth.ErrInvalidToken
	}

	return user, nil
}

// OIDCAuthURL returns the provider url a browser is sent to.
func (s *Service) OIDCAuthURL(state string) (string, error) {
	if s.oidc == nil {
		return "", auth.ErrOIDCDisabled
	}

	return s.oidc.GetAuthURL(state), nil
}

// OIDCLogin exchanges an authorization code and issues tokens.
func (s *Service) OIDCLogin(ctx context.Context, code string) (Result, error) {
	if s.oidc == nil {
		return Result{}, auth.ErrOIDCDisabled
	}

	user, err := s.oidc.HandleCallback(ctx, code)
	if err != nil {
		return Result{}, err
	}

	if !user.Active {
		return Result{}, auth.ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}
