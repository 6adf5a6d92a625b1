package models

import "time"

// GroupMapping maps a directory group (LDAP group DN or OIDC groups claim value)
// to a DMS role. Users authenticated by LDAP or OIDC get the role of their
// first mapped group.
type GroupMapping struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Source is the directory the group comes from.
	Source AuthSource `gorm:"type:varchar(20);not null;uniqueIndex:idx_group_source" json:"source"`
	// ExternalGroup is the group DN (LDAP) or claim value (OIDC).
	ExternalGroup string `gorm:"size:255;not null;uniqueIndex:idx_group_source" json:"externalGroup"`
	RoleID        uint   `gorm:"not null" json:"roleId"`
	Role          Role   `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the GroupMapping model.
func (GroupMapping) TableName() string {
	return "group_mappings"
}
