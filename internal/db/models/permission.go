package models

import "time"

// Permission represents a specific permission in the authorization system.
// Names use the module.action format, e.g. "inventory.write".
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique permission identifier in module.action format.
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// Resource is the DMS module this permission applies to (e.g., "settings", "sales").
	Resource string `gorm:"size:100;not null" json:"resource"`
	// Action is the action allowed on the resource ("read" or "write").
	Action string `gorm:"size:50;not null" json:"action"`
	// Description provides a human-readable explanation of what this permission grants.
	Description string `gorm:"size:255" json:"description"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}
