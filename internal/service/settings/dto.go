package settings

import "time"

// SettingDTO is the wire shape of a setting.
type SettingDTO struct {
	Key            string    `json:"key"`
	Value          string    `json:"value"`
	Description    string    `json:"description,omitempty"`
	Category       string    `json:"category"`
	DataType       string    `json:"dataType"`
	IsUserEditable bool      `json:"isUserEditable"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	CreatedBy      string    `json:"createdBy,omitempty"`
	UpdatedBy      string    `json:"updatedBy,omitempty"`
}

// CreateSettingDTO is the body of POST /api/settings.
type CreateSettingDTO struct {
	Key            string `json:"key" validate:"required,max=100"`
	Value          string `json:"value" validate:"required,max=4000"`
	Description    string `json:"description" validate:"max=500"`
	Category       string `json:"category" validate:"max=100"`
	DataType       string `json:"dataType" validate:"omitempty,oneof=string boolean number"`
	IsUserEditable bool   `json:"isUserEditable"`
}

// UpdateSettingDTO is the body of PUT /api/settings/:key, the key itself never changes.
type UpdateSettingDTO struct {
	Value          string `json:"value" validate:"required,max=4000"`
	Description    string `json:"description" validate:"max=500"`
	Category       string `json:"category" validate:"max=100"`
	DataType       string `json:"dataType" validate:"omitempty,oneof=string boolean number"`
	IsUserEditable bool   `json:"isUserEditable"`
}
