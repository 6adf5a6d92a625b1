package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/auth"
	"github.com/apota/mydms-sub010/internal/db/dbtest"
	"github.com/apota/mydms-sub010/internal/db/models"
)

// setupSeeded returns a database with roles and permissions seeded.
func setupSeeded(t *testing.T) (*gorm.DB, *auth.Service) {
	t.Helper()

	db := dbtest.New(t)
	svc := auth.NewService(db)

	require.NoError(t, svc.Seed(context.Background()))

	return db, svc
}

func createUser(t *testing.T, db *gorm.DB, svc *auth.Service, username, role string) *models.User {
	t.Helper()

	r, err := svc.RoleByName(context.Background(), role)
	require.NoError(t, err)

	user, err := auth.NewLocalProvider(db).CreateUser(context.Background(),
		username, username+"@example.com", "secret-password", "Test", "User", r.ID)
	require.NoError(t, err)

	return user
}

func TestSeedIsIdempotent(t *testing.T) {
	db, svc := setupSeeded(t)

	require.NoError(t, svc.Seed(context.Background()))

	var roles, perms int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roles).Error)
	require.NoError(t, db.Model(&models.Permission{}).Count(&perms).Error)

	assert.Equal(t, int64(5), roles)
	assert.Equal(t, int64(len(auth.AllPermissions())), perms)
}

func TestHasPermission(t *testing.T) {
	db, svc := setupSeeded(t)
	ctx := context.Background()

	testCases := []struct {
		role       string
		permission string
		expected   bool
	}{
		{role: models.RoleAdmin, permission: auth.Perm(auth.ModuleUsers, auth.ActionWrite), expected: true},
		{role: models.RoleViewer, permission: auth.Perm(auth.ModuleCRM, auth.ActionRead), expected: true},
		{role: models.RoleViewer, permission: auth.Perm(auth.ModuleCRM, auth.ActionWrite), expected: false},
		{role: models.RoleSales, permission: auth.Perm(auth.ModuleSales, auth.ActionWrite), expected: true},
		{role: models.RoleService, permission: auth.Perm(auth.ModuleSales, auth.ActionWrite), expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.role+"/"+tc.permission, func(t *testing.T) {
			user := createUser(t, db, svc, tc.role+tc.permission, tc.role)

			has, err := svc.HasPermission(ctx, user.ID, tc.permission)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, has)
		})
	}
}

func TestPrincipal(t *testing.T) {
	db, svc := setupSeeded(t)
	user := createUser(t, db, svc, "jane", models.RoleViewer)

	p, err := svc.Principal(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, "jane", p.Username)
	assert.Equal(t, models.RoleViewer, p.Role)
	assert.Contains(t, p.Permissions, "settings.read")
	assert.NotContains(t, p.Permissions, "settings.write")
}

func TestRoleForGroups(t *testing.T) {
	db, svc := setupSeeded(t)
	ctx := context.Background()

	sales, err := svc.RoleByName(ctx, models.RoleSales)
	require.NoError(t, err)

	viewer, err := svc.RoleByName(ctx, models.RoleViewer)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.GroupMapping{
		Source: models.AuthSourceLDAP, ExternalGroup: "cn=sales,dc=example,dc=org", RoleID: sales.ID,
	}).Error)

	roleID, err := svc.RoleForGroups(ctx, models.AuthSourceLDAP,
		[]string{"cn=other,dc=example,dc=org", "cn=sales,dc=example,dc=org"}, models.RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, sales.ID, roleID)

	roleID, err = svc.RoleForGroups(ctx, models.AuthSourceOIDC, []string{"cn=sales,dc=example,dc=org"}, models.RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, viewer.ID, roleID, "mappings are per source")

	_, err = svc.RoleForGroups(ctx, models.AuthSourceOIDC, nil, "nope")
	require.ErrorIs(t, err, auth.ErrRoleNotFound)
}
