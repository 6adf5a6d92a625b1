// Package repository implements the generic data access layer shared by the DMS modules.
//
// A missing id is not an error: GetByID returns nil and Delete returns false.
// Add rejects a duplicate key with ErrAlreadyExists and Update of a missing
// entity fails with ErrNotFound.
package repository

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by Update when the entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned by Add when the key is taken.
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrDBNil is returned when a repository is created without a database.
	ErrDBNil = errors.New("database is nil")

	// ErrEmptyID is returned when an entity without key is stored.
	ErrEmptyID = errors.New("entity id is empty")
)

// Entity is implemented by every stored model.
type Entity[K comparable] interface {
	EntityID() K
}

// IDAssigner is implemented by entities generating their own id on Add.
type IDAssigner interface {
	EnsureID()
}

// Stamper is implemented by entities carrying created/updated timestamps.
type Stamper interface {
	Stamp(now time.Time, created bool)
}

// Repository is the contract every DMS module relies on.
type Repository[T Entity[K], K comparable] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id K) (*T, error)
	Add(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, entity *T) (*T, error)
	Delete(ctx context.Context, id K) (bool, error)
	Exists(ctx context.Context, id K) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// Page is one page of a paged query.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// Default paging values.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePage clamps page and size to sane values.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}

	switch {
	case size < 1:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}

	return page, size
}

// now stamps stored entities.
var now = func() time.Time { return time.Now().UTC() } //nolint:gochecknoglobals

// SetClock replaces the clock stamping stored entities and returns a func
// restoring the previous one.
func SetClock(clock func() time.Time) func() {
	prev := now
	now = clock

	return func() { now = prev }
}

// prepare assigns ids and timestamps before an entity is stored.
func prepare[T any](entity *T, created bool) {
	if created {
		if a, ok := any(entity).(IDAssigner); ok {
			a.EnsureID()
		}
	}

	if s, ok := any(entity).(Stamper); ok {
		s.Stamp(now(), created)
	}
}

// Prepare is prepare for repositories living in sub packages.
func Prepare[T any](entity *T, created bool) {
	prepare(entity, created)
}

// IsZero reports whether id is the zero value of K.
func IsZero[K comparable](id K) bool {
	var zero K

	return id == zero
}
