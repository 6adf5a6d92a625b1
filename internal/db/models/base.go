// Package models contains database model definitions of the DMS modules.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the uuid primary key and the timestamps shared by most DMS entities.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id" dynamodbav:"id"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// EntityID returns the primary key.
func (b Base) EntityID() string {
	return b.ID
}

// EnsureID assigns a new uuid when the entity has none.
func (b *Base) EnsureID() {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
}

// Stamp sets UpdatedAt, and CreatedAt for new entities.
func (b *Base) Stamp(now time.Time, created bool) {
	if created && b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}

	b.UpdatedAt = now
}

// All returns every model migrated by gorm.
func All() []any {
	return []any{
		&Setting{},
		&Role{},
		&Permission{},
		&RolePermission{},
		&GroupMapping{},
		&User{},
		&Customer{},
		&CustomerInteraction{},
		&Vehicle{},
		&WorkflowTask{},
		&Deal{},
		&Lead{},
		&RepairOrder{},
		&ServiceJob{},
		&Supplier{},
		&Part{},
		&Account{},
		&TaxCode{},
		&ReportDefinition{},
		&ReportSchedule{},
		&ReportExecution{},
		&DataMart{},
		&Dashboard{},
		&DashboardWidget{},
	}
}
