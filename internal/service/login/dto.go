package login

import (
	"github.com/apota/mydms-sub010/internal/auth"
	"github.com/apota/mydms-sub010/internal/service/users"
)

// Input is the body of POST /api/auth/login.
type Input struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=128"`
	MFACode  string `json:"mfaCode" validate:"omitempty,len=6,numeric"`
}

// RegisterInput is the body of POST /api/auth/register.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,min=3,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

// RefreshInput is the body of POST /api/auth/refresh and /api/auth/logout.
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// MFACodeInput is the body of POST /api/auth/mfa/confirm.
type MFACodeInput struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// Result answers a login. Either RequiresMFA is set or the tokens and the
// user are.
type Result struct {
	*auth.TokenPair

	User        *users.UserDTO `json:"user,omitempty"`
	RequiresMFA bool           `json:"requiresMfa,omitempty"`
}

// VerifyDTO answers POST /api/auth/verify.
type VerifyDTO struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}
