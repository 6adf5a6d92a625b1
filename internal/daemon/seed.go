package daemon

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/auth"
	"github.com/apota/mydms-sub010/internal/config"
	"github.com/apota/mydms-sub010/internal/db/models"
)

// Initial administrator account, created while the user table is empty.
const (
	AdminUsername = "admin"
	AdminEmail    = "admin@localhost"
	AdminPassword = "changeme"
)

// seed creates the default roles and, on an empty user table, the initial
// administrator.
func seed(ctx context.Context, _ *config.Config, db *gorm.DB, roles *auth.Service) error {
	if err := roles.Seed(ctx); err != nil {
		return err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	admin, err := roles.RoleByName(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}

	_, err = auth.NewLocalProvider(db).CreateUser(ctx, AdminUsername, AdminEmail, AdminPassword, "", "", admin.ID)
	if err != nil && !errors.Is(err, auth.ErrUserNameOrEmailExists) {
		return err
	}

	log.Warn().Str("username", AdminUsername).Msg("created initial admin user, change its password")

	return nil
}
