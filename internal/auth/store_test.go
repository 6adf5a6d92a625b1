package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apota/mydms-sub010/internal/auth"
)

func TestTokenStores(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	stores := map[string]auth.TokenStore{
		"memory": auth.NewMemoryStore(),
		"redis":  auth.NewRedisStore(rdb),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "missing")
			require.ErrorIs(t, err, auth.ErrTokenNotFound)

			require.NoError(t, store.Set(ctx, "refresh_token:a", "7", time.Hour))

			v, err := store.Get(ctx, "refresh_token:a")
			require.NoError(t, err)
			assert.Equal(t, "7", v)

			require.NoError(t, store.Delete(ctx, "refresh_token:a"))

			_, err = store.Get(ctx, "refresh_token:a")
			require.ErrorIs(t, err, auth.ErrTokenNotFound)

			require.NoError(t, store.Set(ctx, "refresh_token:b", "8", time.Hour))

			v, err = store.Take(ctx, "refresh_token:b")
			require.NoError(t, err)
			assert.Equal(t, "8", v)

			_, err = store.Take(ctx, "refresh_token:b")
			require.ErrorIs(t, err, auth.ErrTokenNotFound)

			_, err = store.Get(ctx, "refresh_token:b")
			require.ErrorIs(t, err, auth.ErrTokenNotFound)
		})
	}
}

func TestRedisStoreTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := auth.NewRedisStore(rdb)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "refresh_token:a", "7", time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("refresh_token:a"))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "refresh_token:a")
	require.ErrorIs(t, err, auth.ErrTokenNotFound)
}

func TestRedisStoreErrors(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := auth.NewRedisStore(rdb)
	ctx := context.Background()

	mock.ExpectGet("refresh_token:a").SetErr(errors.New("connection refused"))
	mock.ExpectSet("refresh_token:b", "1", time.Hour).SetErr(errors.New("read only replica"))
	mock.ExpectGetDel("refresh_token:c").SetErr(errors.New("connection reset"))

	_, err := store.Get(ctx, "refresh_token:a")
	require.ErrorContains(t, err, "connection refused")
	require.NotErrorIs(t, err, auth.ErrTokenNotFound)

	require.ErrorContains(t, store.Set(ctx, "refresh_token:b", "1", time.Hour), "read only replica")

	_, err = store.Take(ctx, "refresh_token:c")
	require.ErrorContains(t, err, "connection reset")
	require.NotErrorIs(t, err, auth.ErrTokenNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
