package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/repository/memory"
)

func newStore() *memory.Store[models.DemoCustomer, int] {
	return memory.NewSequence[models.DemoCustomer](func(c *models.DemoCustomer, id int) { c.ID = id })
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	added, err := s.Add(ctx, &models.DemoCustomer{Name: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, 1, added.ID)
	assert.False(t, added.CreatedAt.IsZero())

	second, err := s.Add(ctx, &models.DemoCustomer{Name: "John"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	got, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jane", got.Name)

	got.Name = "changed"

	again, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Jane", again.Name, "returned values are copies")

	missing, err := s.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStoreDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	_, err := s.Add(ctx, &models.DemoCustomer{ID: 5, Name: "Jane"})
	require.NoError(t, err)

	_, err = s.Add(ctx, &models.DemoCustomer{ID: 5, Name: "Other"})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)

	got, err := s.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)

	next, err := s.Add(ctx, &models.DemoCustomer{Name: "Next"})
	require.NoError(t, err)
	assert.Equal(t, 6, next.ID)
}

func TestStoreUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	_, err := s.Update(ctx, &models.DemoCustomer{ID: 1, Name: "nobody"})
	require.ErrorIs(t, err, repository.ErrNotFound)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = s.Add(ctx, &models.DemoCustomer{Name: "Jane"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, &models.DemoCustomer{ID: 1, Name: "Janet"})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.Name)

	deleted, err := s.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Delete(ctx, 1)
	require.NoError(t, err)
	assert.False(t, deleted)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStoreWithoutSequence(t *testing.T) {
	s := memory.New[models.Setting, string](nil, nil)

	_, err := s.Add(context.Background(), &models.Setting{Value: "x"})
	require.ErrorIs(t, err, repository.ErrEmptyID)
}

func TestStoreConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	var wg sync.WaitGroup

	for range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := s.Add(ctx, &models.DemoCustomer{Name: "c"})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), count)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, c := range all {
		seen[c.ID] = true
	}

	assert.Len(t, seen, 50)
}
