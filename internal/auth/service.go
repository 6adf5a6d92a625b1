package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/service"
)

// Service provides role and permission lookups.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// HasPermission checks if the role of a user holds permission, admin holds all.
func (s *Service) HasPermission(ctx context.Context, userID uint64, permission string) (bool, error) {
	perms, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	return slices.Contains(perms, PermAdmin) || slices.Contains(perms, permission), nil
}

// GetUserPermissions retrieves the permissions of the role of a user, sorted.
func (s *Service) GetUserPermissions(ctx context.Context, userID uint64) ([]string, error) {
	var permissions []string

	err := s.db.WithContext(ctx).Table("permissions").
		Select("DISTINCT permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN users ON users.role_id = role_permissions.role_id").
		Where("users.id = ?", userID).
		Order("permissions.name").
		Pluck("permissions.name", &permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	return permissions, nil
}

// RoleByName returns the id of a role.
func (s *Service) RoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role

	err := s.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRoleNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query role: %w", err)
	}

	return &role, nil
}

// RoleForGroups returns the role mapped to the first matching external group
// of source, or the role named fallback.
func (s *Service) RoleForGroups(ctx context.Context, source models.AuthSource, groups []string, fallback string) (uint, error) {
	if len(groups) > 0 {
		var mappings []models.GroupMapping

		err := s.db.WithContext(ctx).
			Where("source = ? AND external_group IN ?", source, groups).
			Find(&mappings).Error
		if err != nil {
			return 0, fmt.Errorf("failed to query group mappings: %w", err)
		}

		// the order of groups decides between several mappings
		for _, g := range groups {
			for _, m := range mappings {
				if m.ExternalGroup == g {
					return m.RoleID, nil
				}
			}
		}
	}

	role, err := s.RoleByName(ctx, fallback)
	if err != nil {
		return 0, err
	}

	return role.ID, nil
}

// AssignRoleToUser assigns a role to a user.
func (s *Service) AssignRoleToUser(ctx context.Context, userID uint64, roleID uint) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("role_id", roleID).Error
}

// Principal loads role and permissions of user.
func (s *Service) Principal(ctx context.Context, user *models.User) (service.Principal, error) {
	p := service.Principal{
		ID:       strconv.FormatUint(user.ID, 10),
		Username: user.Username,
	}

	var role models.Role
	if err := s.db.WithContext(ctx).First(&role, user.RoleID).Error; err != nil {
		return p, fmt.Errorf("failed to load role of user %d: %w", user.ID, err)
	}

	perms, err := s.GetUserPermissions(ctx, user.ID)
	if err != nil {
		return p, err
	}

	p.Role = role.Name
	p.Permissions = perms

	return p, nil
}

// Seed creates the built-in roles and module permissions, it is idempotent.
func (s *Service) Seed(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		perms := map[string]uint{}

		for _, name := range AllPermissions() {
			resource, action := PermAdmin, PermAdmin

			for _, m := range Modules {
				for _, a := range []string{ActionRead, ActionWrite} {
					if Perm(m, a) == name {
						resource, action = m, a
					}
				}
			}

			p := models.Permission{Name: name, Resource: resource, Action: action}
			if err := tx.Where("name = ?", name).FirstOrCreate(&p).Error; err != nil {
				return fmt.Errorf("failed to seed permission %s: %w", name, err)
			}

			perms[name] = p.ID
		}

		for roleName, rolePerms := range DefaultRolePermissions() {
			role := models.Role{Name: roleName, Description: "built-in " + roleName + " role", IsSystem: true}
			if err := tx.Where("name = ?", roleName).FirstOrCreate(&role).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", roleName, err)
			}

			for _, name := range rolePerms {
				rp := models.RolePermission{RoleID: role.ID, PermissionID: perms[name]}
				if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).
					Create(&rp).Error; err != nil {
					return fmt.Errorf("failed to seed role permission %s/%s: %w", roleName, name, err)
				}
			}
		}

		return nil
	})
}
