package models

import "time"

// Setting data types, informational only.
const (
	SettingTypeString  = "string"
	SettingTypeBoolean = "boolean"
	SettingTypeNumber  = "number"
)

// DefaultSettingCategory is used when a setting is created without a category.
const DefaultSettingCategory = "General"

// Setting represents an application setting. The key is the primary key and
// never changes after creation.
type Setting struct {
	// Key is the unique name of the setting.
	Key string `gorm:"primaryKey;size:100" json:"key" dynamodbav:"key"`
	// Value is the raw value, interpreted by the client according to DataType.
	Value string `gorm:"size:4000;not null" json:"value" dynamodbav:"value"`
	// Description explains the setting to administrators.
	Description string `gorm:"size:500" json:"description,omitempty" dynamodbav:"description,omitempty"`
	// Category groups settings for listing.
	Category string `gorm:"size:100;index;not null;default:'General'" json:"category" dynamodbav:"category"`
	// DataType is one of string, boolean or number.
	DataType string `gorm:"size:50;not null;default:'string'" json:"dataType" dynamodbav:"dataType"`
	// IsUserEditable tells the UI whether end users may change the value.
	IsUserEditable bool `json:"isUserEditable" dynamodbav:"isUserEditable"`
	// CreatedAt is set once on creation.
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	// UpdatedAt is refreshed on every update.
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
	// CreatedBy and UpdatedBy hold the authenticated principal, if any.
	CreatedBy string `gorm:"size:100" json:"createdBy,omitempty" dynamodbav:"createdBy,omitempty"`
	UpdatedBy string `gorm:"size:100" json:"updatedBy,omitempty" dynamodbav:"updatedBy,omitempty"`
}

// TableName specifies the database table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}

// EntityID returns the setting key.
func (s Setting) EntityID() string {
	return s.Key
}

// Stamp sets UpdatedAt, and CreatedAt for new settings.
func (s *Setting) Stamp(now time.Time, created bool) {
	if created && s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}

	s.UpdatedAt = now
}
