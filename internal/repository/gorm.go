package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gorm implements Repository on top of gorm.
type Gorm[T Entity[K], K comparable] struct {
	db     *gorm.DB
	column string
}

// NewGorm creates a repository, column is the primary key column ("id", "key", ...).
func NewGorm[T Entity[K], K comparable](db *gorm.DB, column string) (*Gorm[T, K], error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if column == "" {
		column = "id"
	}

	return &Gorm[T, K]{db: db, column: column}, nil
}

// WithTx returns a copy bound to tx, used inside a unit of work.
func (r *Gorm[T, K]) WithTx(tx *gorm.DB) *Gorm[T, K] {
	return &Gorm[T, K]{db: tx, column: r.column}
}

// DB returns the database handle, scoped to ctx.
func (r *Gorm[T, K]) DB(ctx context.Context) *gorm.DB {
	return r.db.Session(&gorm.Session{Context: ctx, NowFunc: now})
}

func (r *Gorm[T, K]) byID(ctx context.Context, id K) *gorm.DB {
	return r.DB(ctx).Where(clause.Eq{Column: clause.Column{Name: r.column}, Value: id})
}

// GetAll returns every entity.
func (r *Gorm[T, K]) GetAll(ctx context.Context) ([]T, error) {
	var out []T

	if err := r.DB(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: r.column}}).Find(&out).Error; err != nil {
		return nil, err
	}

	return out, nil
}

// GetByID returns nil, nil when id does not exist.
func (r *Gorm[T, K]) GetByID(ctx context.Context, id K) (*T, error) {
	var out T

	err := r.byID(ctx, id).Take(&out).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil //nolint:nilnil
	case err != nil:
		return nil, err
	}

	return &out, nil
}

// Exists reports whether id is stored.
func (r *Gorm[T, K]) Exists(ctx context.Context, id K) (bool, error) {
	var count int64

	if err := r.byID(ctx, id).Model(new(T)).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// Add stores a new entity. Ids are assigned for IDAssigner entities, a taken
// key yields ErrAlreadyExists.
func (r *Gorm[T, K]) Add(ctx context.Context, entity *T) (*T, error) {
	prepare(entity, true)

	id := (*entity).EntityID()
	if !IsZero(id) {
		exists, err := r.Exists(ctx, id)
		if err != nil {
			return nil, err
		}

		if exists {
			return nil, ErrAlreadyExists
		}
	}

	if err := r.DB(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}

		return nil, err
	}

	return entity, nil
}

// Update replaces a stored entity, ErrNotFound when it does not exist.
// Associations are not touched.
func (r *Gorm[T, K]) Update(ctx context.Context, entity *T) (*T, error) {
	id := (*entity).EntityID()
	if IsZero(id) {
		return nil, ErrNotFound
	}

	exists, err := r.Exists(ctx, id)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, ErrNotFound
	}

	prepare(entity, false)

	err = r.DB(ctx).Select("*").Omit(clause.Associations, "created_at").
		Where(clause.Eq{Column: clause.Column{Name: r.column}, Value: id}).
		Updates(entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}

		return nil, err
	}

	return entity, nil
}

// Delete removes id and reports whether it existed.
func (r *Gorm[T, K]) Delete(ctx context.Context, id K) (bool, error) {
	res := r.byID(ctx, id).Delete(new(T))
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// Count returns the number of stored entities.
func (r *Gorm[T, K]) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := r.DB(ctx).Model(new(T)).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// Find returns the entities matching a gorm where condition.
func (r *Gorm[T, K]) Find(ctx context.Context, query any, args ...any) ([]T, error) {
	var out []T

	if err := r.DB(ctx).Where(query, args...).Order(clause.OrderByColumn{Column: clause.Column{Name: r.column}}).
		Find(&out).Error; err != nil {
		return nil, err
	}

	return out, nil
}

// GetPaged returns one page ordered by primary key, page starts at 1.
func (r *Gorm[T, K]) GetPaged(ctx context.Context, page, size int) (Page[T], error) {
	page, size = NormalizePage(page, size)

	out := Page[T]{Page: page, PageSize: size, Items: []T{}}

	if err := r.DB(ctx).Model(new(T)).Count(&out.Total).Error; err != nil {
		return out, err
	}

	if err := r.DB(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: r.column}}).
		Offset((page - 1) * size).Limit(size).Find(&out.Items).Error; err != nil {
		return out, err
	}

	return out, nil
}
