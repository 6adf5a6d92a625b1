package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/db/dbtest"
	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
)

func newSettingRepo(t *testing.T) (*repository.Gorm[models.Setting, string], *gorm.DB) {
	t.Helper()

	db := dbtest.New(t)

	repo, err := repository.NewGorm[models.Setting, string](db, "key")
	require.NoError(t, err)

	return repo, db
}

// seedSettings inserts test data into the database.
func seedSettings(t *testing.T, db *gorm.DB, settings []models.Setting) {
	t.Helper()

	for i := range settings {
		require.NoError(t, db.Create(&settings[i]).Error, "failed to seed test data")
	}
}

func TestNewGormNilDB(t *testing.T) {
	_, err := repository.NewGorm[models.Setting, string](nil, "key")
	require.ErrorIs(t, err, repository.ErrDBNil)

	_, err = repository.NewUnitOfWork(nil)
	require.ErrorIs(t, err, repository.ErrDBNil)
}

func TestAddThenGetByID(t *testing.T) {
	repo, _ := newSettingRepo(t)
	ctx := context.Background()

	in := &models.Setting{Key: "theme", Value: "dark", Category: "UI", DataType: models.SettingTypeString}

	added, err := repo.Add(ctx, in)
	require.NoError(t, err)
	assert.False(t, added.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, "theme")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "dark", got.Value)
	assert.Equal(t, "UI", got.Category)
	assert.Equal(t, added.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestGetByIDMissing(t *testing.T) {
	repo, _ := newSettingRepo(t)

	got, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAddDuplicate(t *testing.T) {
	repo, db := newSettingRepo(t)
	seedSettings(t, db, []models.Setting{{Key: "theme", Value: "dark", Category: "General"}})

	_, err := repo.Add(context.Background(), &models.Setting{Key: "theme", Value: "light"})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)

	got, err := repo.GetByID(context.Background(), "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Value, "existing row must not change")
}

func TestAddAssignsID(t *testing.T) {
	db := dbtest.New(t)

	repo, err := repository.NewGorm[models.Customer, string](db, "id")
	require.NoError(t, err)

	c, err := repo.Add(context.Background(), &models.Customer{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)
	assert.Len(t, c.ID, 36)
}

func TestUpdate(t *testing.T) {
	testCases := []struct {
		name          string
		seedData      []models.Setting
		update        models.Setting
		expectedError error
	}{
		{
			name:          "missing entity",
			update:        models.Setting{Key: "nope", Value: "x"},
			expectedError: repository.ErrNotFound,
		},
		{
			name:          "empty key",
			update:        models.Setting{Value: "x"},
			expectedError: repository.ErrNotFound,
		},
		{
			name:     "successful update",
			seedData: []models.Setting{{Key: "theme", Value: "dark", Category: "General"}},
			update:   models.Setting{Key: "theme", Value: "light", Category: "General"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, db := newSettingRepo(t)
			seedSettings(t, db, tc.seedData)

			before, err := repo.Count(context.Background())
			require.NoError(t, err)

			update := tc.update
			_, err = repo.Update(context.Background(), &update)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)

				after, countErr := repo.Count(context.Background())
				require.NoError(t, countErr)
				assert.Equal(t, before, after, "store must be unchanged")

				return
			}

			require.NoError(t, err)

			got, err := repo.GetByID(context.Background(), tc.update.Key)
			require.NoError(t, err)
			assert.Equal(t, tc.update.Value, got.Value)
			assert.Equal(t, tc.seedData[0].CreatedAt.Unix(), got.CreatedAt.Unix(), "created_at is kept")
		})
	}
}

func TestClockStampsUpdates(t *testing.T) {
	created := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
	clock := created

	t.Cleanup(repository.SetClock(func() time.Time { return clock }))

	repo, _ := newSettingRepo(t)
	ctx := context.Background()

	_, err := repo.Add(ctx, &models.Setting{Key: "theme", Value: "dark", Category: "General"})
	require.NoError(t, err)

	clock = created.Add(time.Minute)

	_, err = repo.Update(ctx, &models.Setting{Key: "theme", Value: "light", Category: "General"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(created), got.CreatedAt.String())
	assert.True(t, got.UpdatedAt.Equal(clock), got.UpdatedAt.String())
}

func TestDeleteTwice(t *testing.T) {
	repo, db := newSettingRepo(t)
	seedSettings(t, db, []models.Setting{{Key: "theme", Value: "dark", Category: "General"}})

	deleted, err := repo.Delete(context.Background(), "theme")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), "theme")
	require.NoError(t, err)
	assert.False(t, deleted)

	exists, err := repo.Exists(context.Background(), "theme")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFindAndPaged(t *testing.T) {
	repo, db := newSettingRepo(t)
	seedSettings(t, db, []models.Setting{
		{Key: "a", Value: "1", Category: "UI"},
		{Key: "b", Value: "2", Category: "UI"},
		{Key: "c", Value: "3", Category: "Mail"},
	})

	ui, err := repo.Find(context.Background(), "category = ?", "UI")
	require.NoError(t, err)
	require.Len(t, ui, 2)
	assert.Equal(t, "a", ui[0].Key)

	page, err := repo.GetPaged(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c", page.Items[0].Key)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestNormalizePage(t *testing.T) {
	page, size := repository.NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, repository.DefaultPageSize, size)

	_, size = repository.NormalizePage(3, 1000)
	assert.Equal(t, repository.MaxPageSize, size)
}

var errRollback = errors.New("rollback")

func TestUnitOfWork(t *testing.T) {
	repo, db := newSettingRepo(t)

	uow, err := repository.NewUnitOfWork(db)
	require.NoError(t, err)

	err = uow.Do(context.Background(), func(tx *gorm.DB) error {
		if _, err := repo.WithTx(tx).Add(context.Background(), &models.Setting{Key: "a", Value: "1"}); err != nil {
			return err
		}

		return errRollback
	})
	require.ErrorIs(t, err, errRollback)

	exists, err := repo.Exists(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, exists, "rolled back")

	err = uow.Do(context.Background(), func(tx *gorm.DB) error {
		_, err := repo.WithTx(tx).Add(context.Background(), &models.Setting{Key: "a", Value: "1"})

		return err
	})
	require.NoError(t, err)

	exists, err = repo.Exists(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, exists, "committed")
}

func TestCascadeDelete(t *testing.T) {
	db := dbtest.New(t)

	orders, err := repository.NewGorm[models.RepairOrder, string](db, "id")
	require.NoError(t, err)

	order, err := orders.Add(context.Background(), &models.RepairOrder{
		Number: "RO-1", CustomerID: "c1", Status: models.RepairOrderOpen,
		Jobs: []models.ServiceJob{{Description: "oil change", Status: models.ServiceJobPending}},
	})
	require.NoError(t, err)

	var jobs int64
	require.NoError(t, db.Model(&models.ServiceJob{}).Count(&jobs).Error)
	require.Equal(t, int64(1), jobs)

	deleted, err := orders.Delete(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	require.NoError(t, db.Model(&models.ServiceJob{}).Count(&jobs).Error)
	assert.Equal(t, int64(0), jobs)
}
