package users

import "time"

// UserDTO is the wire shape of a user, secrets are never serialised.
type UserDTO struct {
	ID          uint64     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Active      bool       `json:"active"`
	Role        string     `json:"role"`
	AuthSource  string     `json:"authSource"`
	MFAEnabled  bool       `json:"mfaEnabled"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateUserDTO is the body of POST /api/users.
type CreateUserDTO struct {
	Username  string `json:"username" validate:"required,min=3,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Role      string `json:"role" validate:"max=50"`
	Active    *bool  `json:"active"`
}

// UpdateUserDTO is the body of PUT /api/users/:id.
type UpdateUserDTO struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Role      string `json:"role" validate:"max=50"`
	Active    *bool  `json:"active"`
}

// ChangePasswordDTO is the body of POST /api/users/:id/change-password.
type ChangePasswordDTO struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128,nefield=CurrentPassword"`
}

// SetActiveDTO is the body of PUT /api/users/:id/active.
type SetActiveDTO struct {
	Active bool `json:"active"`
}
