package repository

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork runs several repository calls in one database transaction.
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a unit of work on db.
func NewUnitOfWork(db *gorm.DB) (*UnitOfWork, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &UnitOfWork{db: db}, nil
}

// Do begins a transaction, commits when fn returns nil and rolls back on an
// error or a panic. Repositories join it with WithTx(tx).
func (u *UnitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return u.db.WithContext(ctx).Transaction(fn)
}
