// Package service contains the generic CRUD service shared by the DMS modules.
//
// A CRUD validates input, maps between entities and DTOs, rejects duplicate
// keys with ErrConflict and turns missing entities into ErrNotFound.
// Module services embed it and add their own operations.
package service

import (
	"context"
	"errors"

	"github.com/apota/mydms-sub010/internal/repository"
)

// CRUD implements list, get, create, update and delete for entity E with key K.
// D is the DTO returned to clients, C the create and U the update request.
type CRUD[E repository.Entity[K], K comparable, D, C, U any] struct {
	Repo repository.Repository[E, K]

	// Name and KeyName are used in client messages, e.g. "Setting with key 'x' not found".
	Name    string
	KeyName string

	// ToDTO maps a stored entity to its DTO.
	ToDTO func(*E) D
	// FromCreate builds a new entity from a validated create request.
	FromCreate func(context.Context, *C) (*E, error)
	// ApplyUpdate copies a validated update request onto a stored entity.
	ApplyUpdate func(context.Context, *E, *U) error
	// Unique is optional, it returns ErrConflict when e collides with another entity.
	Unique func(ctx context.Context, e *E) error
}

// List returns every entity.
func (s *CRUD[E, K, D, C, U]) List(ctx context.Context) ([]D, error) {
	items, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return s.DTOs(items), nil
}

// DTOs maps a slice of entities.
func (s *CRUD[E, K, D, C, U]) DTOs(items []E) []D {
	out := make([]D, len(items))
	for i := range items {
		out[i] = s.ToDTO(&items[i])
	}

	return out
}

// Load returns the stored entity or ErrNotFound.
func (s *CRUD[E, K, D, C, U]) Load(ctx context.Context, id K) (*E, error) {
	e, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if e == nil {
		return nil, s.notFound(id)
	}

	return e, nil
}

// Get returns the DTO of id or ErrNotFound.
func (s *CRUD[E, K, D, C, U]) Get(ctx context.Context, id K) (D, error) {
	e, err := s.Load(ctx, id)
	if err != nil {
		var zero D

		return zero, err
	}

	return s.ToDTO(e), nil
}

// Create validates in and stores a new entity.
func (s *CRUD[E, K, D, C, U]) Create(ctx context.Context, in *C) (D, error) {
	var zero D

	if err := Validate(in); err != nil {
		return zero, err
	}

	e, err := s.FromCreate(ctx, in)
	if err != nil {
		return zero, err
	}

	if s.Unique != nil {
		if err := s.Unique(ctx, e); err != nil {
			return zero, err
		}
	}

	added, err := s.Repo.Add(ctx, e)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return zero, Conflictf("%s with %s '%v' already exists", s.name(), s.keyName(), (*e).EntityID())
		}

		return zero, err
	}

	return s.ToDTO(added), nil
}

// Update validates in and replaces the mutable fields of id.
func (s *CRUD[E, K, D, C, U]) Update(ctx context.Context, id K, in *U) (D, error) {
	var zero D

	if err := Validate(in); err != nil {
		return zero, err
	}

	e, err := s.Load(ctx, id)
	if err != nil {
		return zero, err
	}

	if err := s.ApplyUpdate(ctx, e, in); err != nil {
		return zero, err
	}

	return s.Save(ctx, e)
}

// Save stores an already loaded and modified entity.
func (s *CRUD[E, K, D, C, U]) Save(ctx context.Context, e *E) (D, error) {
	var zero D

	if s.Unique != nil {
		if err := s.Unique(ctx, e); err != nil {
			return zero, err
		}
	}

	updated, err := s.Repo.Update(ctx, e)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return zero, Conflictf("%s '%v' collides with an existing entity", s.name(), (*e).EntityID())
		}

		if errors.Is(err, repository.ErrNotFound) {
			return zero, s.notFound((*e).EntityID())
		}

		return zero, err
	}

	return s.ToDTO(updated), nil
}

// Delete removes id, ErrNotFound when it does not exist.
func (s *CRUD[E, K, D, C, U]) Delete(ctx context.Context, id K) error {
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if !deleted {
		return s.notFound(id)
	}

	return nil
}

func (s *CRUD[E, K, D, C, U]) name() string {
	if s.Name == "" {
		return "Entity"
	}

	return s.Name
}

func (s *CRUD[E, K, D, C, U]) keyName() string {
	if s.KeyName == "" {
		return "id"
	}

	return s.KeyName
}

func (s *CRUD[E, K, D, C, U]) notFound(id K) error {
	return NotFoundf("%s with %s '%v' not found", s.name(), s.keyName(), id)
}

// Identity is a ToDTO for modules returning the entity itself.
func Identity[E any](e *E) E {
	return *e
}
