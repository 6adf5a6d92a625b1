// Package settings implements the settings management service: a key/value
// store of application settings grouped by category.
package settings

import (
	"context"
	"slices"
	"sort"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/service"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "DMS Settings Management API"

// Service manages settings.
type Service struct {
	service.CRUD[models.Setting, string, SettingDTO, CreateSettingDTO, UpdateSettingDTO]

	store Store
}

// New creates the settings service on store.
func New(store Store) *Service {
	s := &Service{store: store}

	s.CRUD = service.CRUD[models.Setting, string, SettingDTO, CreateSettingDTO, UpdateSettingDTO]{
		Repo:        store,
		Name:        "Setting",
		KeyName:     "key",
		ToDTO:       toDTO,
		FromCreate:  fromCreate,
		ApplyUpdate: applyUpdate,
	}

	return s
}

func toDTO(m *models.Setting) SettingDTO {
	return SettingDTO{
		Key:            m.Key,
		Value:          m.Value,
		Description:    m.Description,
		Category:       m.Category,
		DataType:       m.DataType,
		IsUserEditable: m.IsUserEditable,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		CreatedBy:      m.CreatedBy,
		UpdatedBy:      m.UpdatedBy,
	}
}

func fromCreate(ctx context.Context, in *CreateSettingDTO) (*models.Setting, error) {
	actor := service.Actor(ctx, "")

	return &models.Setting{
		Key:            in.Key,
		Value:          in.Value,
		Description:    in.Description,
		Category:       orDefault(in.Category, models.DefaultSettingCategory),
		DataType:       orDefault(in.DataType, models.SettingTypeString),
		IsUserEditable: in.IsUserEditable,
		CreatedBy:      actor,
		UpdatedBy:      actor,
	}, nil
}

func applyUpdate(ctx context.Context, m *models.Setting, in *UpdateSettingDTO) error {
	m.Value = in.Value
	m.Description = in.Description
	m.Category = orDefault(in.Category, models.DefaultSettingCategory)
	m.DataType = orDefault(in.DataType, models.SettingTypeString)
	m.IsUserEditable = in.IsUserEditable
	m.UpdatedBy = service.Actor(ctx, m.UpdatedBy)

	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}

	return v
}

// List returns every setting ordered by key.
func (s *Service) List(ctx context.Context) ([]SettingDTO, error) {
	items, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })

	return s.DTOs(items), nil
}

// ListByCategory returns the settings of category.
func (s *Service) ListByCategory(ctx context.Context, category string) ([]SettingDTO, error) {
	items, err := s.store.ByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })

	return s.DTOs(items), nil
}

// Categories returns the distinct categories in use, sorted.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	items, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := []string{}

	for _, item := range items {
		if !slices.Contains(out, item.Category) {
			out = append(out, item.Category)
		}
	}

	slices.Sort(out)

	return out, nil
}

// Exists reports whether key is set.
func (s *Service) Exists(ctx context.Context, key string) (bool, error) {
	return s.store.Exists(ctx, key)
}
