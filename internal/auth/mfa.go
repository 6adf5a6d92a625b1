package auth

import (
	"context"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/apota/mydms-sub010/internal/config"
)

// MFASetup is returned when a user starts enabling MFA.
type MFASetup struct {
	Secret string `json:"secret"`
	URL    string `json:"otpauthUrl"`
}

// MFA handles TOTP secrets.
type MFA struct {
	cfg   config.MFA
	store TokenStore
	now   func() time.Time
}

// NewMFA creates the TOTP helper, pending secrets live in store.
func NewMFA(cfg config.MFA, store TokenStore) *MFA {
	if cfg.Issuer == "" {
		cfg.Issuer = "DMS"
	}

	if cfg.SetupTTL == 0 {
		cfg.SetupTTL = 10 * time.Minute
	}

	return &MFA{cfg: cfg, store: store, now: time.Now}
}

// Begin generates a secret for account and keeps it pending until Confirm.
func (m *MFA) Begin(ctx context.Context, userID, account string) (MFASetup, error) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: m.cfg.Issuer, AccountName: account})
	if err != nil {
		return MFASetup{}, err //nolint:wrapcheck
	}

	if err := m.store.Set(ctx, MFASetupPrefix+userID, key.Secret(), m.cfg.SetupTTL); err != nil {
		return MFASetup{}, err
	}

	return MFASetup{Secret: key.Secret(), URL: key.URL()}, nil
}

// Confirm checks code against the pending secret of userID and returns the secret.
func (m *MFA) Confirm(ctx context.Context, userID, code string) (string, error) {
	secret, err := m.store.Get(ctx, MFASetupPrefix+userID)
	if err != nil {
		return "", ErrMFANotPending
	}

	if !m.Validate(secret, code) {
		return "", ErrInvalidMFACode
	}

	if err := m.store.Delete(ctx, MFASetupPrefix+userID); err != nil {
		return "", err
	}

	return secret, nil
}

// Validate checks a TOTP code.
func (m *MFA) Validate(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, m.now().UTC(), totp.ValidateOpts{
		Period:    30, //nolint:mnd
		Skew:      m.cfg.SkewPeriod,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})

	return err == nil && ok
}
