// Package users implements user management: local accounts with a role,
// password changes and activation.
package users

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/auth"
	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/service"
)

// Store is the user repository, it loads the role with every user.
type Store struct {
	*repository.Gorm[models.User, uint64]
}

// NewStore creates the user store on db.
func NewStore(db *gorm.DB) (*Store, error) {
	repo, err := repository.NewGorm[models.User, uint64](db, "id")
	if err != nil {
		return nil, err
	}

	return &Store{Gorm: repo}, nil
}

// GetAll returns every user ordered by id.
func (s *Store) GetAll(ctx context.Context) ([]models.User, error) {
	var out []models.User

	if err := s.DB(ctx).Preload("Role").Order("id").Find(&out).Error; err != nil {
		return nil, err
	}

	return out, nil
}

// GetByID returns the user with its role, nil when missing.
func (s *Store) GetByID(ctx context.Context, id uint64) (*models.User, error) {
	var u models.User

	err := s.DB(ctx).Preload("Role").Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, err
	}

	return &u, nil
}

// Service manages users.
type Service struct {
	service.CRUD[models.User, uint64, UserDTO, CreateUserDTO, UpdateUserDTO]

	store       *Store
	roles       *auth.Service
	local       *auth.LocalProvider
	defaultRole string
}

// New creates the user service, users created without role get defaultRole.
func New(db *gorm.DB, roles *auth.Service, defaultRole string) (*Service, error) {
	store, err := NewStore(db)
	if err != nil {
		return nil, err
	}

	if defaultRole == "" {
		defaultRole = models.RoleViewer
	}

	s := &Service{store: store, roles: roles, local: auth.NewLocalProvider(db), defaultRole: defaultRole}

	s.CRUD = service.CRUD[models.User, uint64, UserDTO, CreateUserDTO, UpdateUserDTO]{
		Repo:        store,
		Name:        "User",
		KeyName:     "id",
		ToDTO:       ToDTO,
		FromCreate:  s.fromCreate,
		ApplyUpdate: s.applyUpdate,
		Unique:      s.unique,
	}

	return s, nil
}

// ToDTO maps a user, the role must be loaded.
func ToDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Active:      u.Active,
		Role:        u.Role.Name,
		AuthSource:  string(u.AuthSource),
		MFAEnabled:  u.MFAEnabled,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (s *Service) role(ctx context.Context, name string) (*models.Role, error) {
	if name == "" {
		name = s.defaultRole
	}

	role, err := s.roles.RoleByName(ctx, name)
	if errors.Is(err, auth.ErrRoleNotFound) {
		return nil, service.Invalid("role", "exists", "Role '"+name+"' does not exist")
	}

	return role, err
}

func (s *Service) fromCreate(ctx context.Context, in *CreateUserDTO) (*models.User, error) {
	role, err := s.role(ctx, in.Role)
	if err != nil {
		return nil, err
	}

	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	return &models.User{
		Username:   in.Username,
		Email:      in.Email,
		Password:   hash,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Active:     active,
		RoleID:     role.ID,
		Role:       *role,
		AuthSource: models.AuthSourceLocal,
	}, nil
}

func (s *Service) applyUpdate(ctx context.Context, u *models.User, in *UpdateUserDTO) error {
	if in.Role != "" {
		role, err := s.role(ctx, in.Role)
		if err != nil {
			return err
		}

		u.RoleID = role.ID
		u.Role = *role
	}

	u.Email = in.Email
	u.FirstName = in.FirstName
	u.LastName = in.LastName

	if in.Active != nil {
		u.Active = *in.Active
	}

	return nil
}

// unique rejects a username or email used by another user.
func (s *Service) unique(ctx context.Context, u *models.User) error {
	var other models.User

	err := s.store.DB(ctx).Where("(username = ? OR email = ?) AND id <> ?", u.Username, u.Email, u.ID).
		First(&other).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}

	if err != nil {
		return err
	}

	if other.Username == u.Username {
		return service.Conflictf("User with username '%s' already exists", u.Username)
	}

	return service.Conflictf("User with email '%s' already exists", u.Email)
}

// ChangePassword replaces the password of a local user after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, id uint64, in *ChangePasswordDTO) error {
	if err := service.Validate(in); err != nil {
		return err
	}

	err := s.local.ChangePassword(ctx, id, in.CurrentPassword, in.NewPassword)
	if errors.Is(err, auth.ErrUserNotFound) {
		return service.NotFoundf("User with id '%d' not found", id)
	}

	return err
}

// SetActive enables or disables a user.
func (s *Service) SetActive(ctx context.Context, id uint64, active bool) (UserDTO, error) {
	u, err := s.Load(ctx, id)
	if err != nil {
		return UserDTO{}, err
	}

	u.Active = active

	return s.Save(ctx, u)
}
