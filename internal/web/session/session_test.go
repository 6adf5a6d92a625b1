package session_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apota/mydms-sub010/internal/config"
	"github.com/apota/mydms-sub010/internal/web/session"
)

func TestSaveAndTake(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	stores := map[string]*session.Store{
		"memory": session.New(nil),
		"redis":  session.New(session.NewRedisStorage(rdb, session.RedisPrefix)),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			id, err := session.GenerateSessionID()
			require.NoError(t, err)
			assert.Len(t, id, 64)

			require.NoError(t, store.Save(id, session.Data{ReturnTo: "/crm"}, time.Minute))

			got, err := store.Take(id)
			require.NoError(t, err)
			assert.Equal(t, "/crm", got.ReturnTo)
			assert.False(t, got.CreatedAt.IsZero())

			_, err = store.Take(id)
			require.ErrorIs(t, err, session.ErrNotFound)

			_, err = store.Take("")
			require.ErrorIs(t, err, session.ErrNotFound)
		})
	}
}

func TestRedisStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	storage := session.NewRedisStorage(rdb, "limiter:")

	require.NoError(t, storage.Set("a", []byte("1"), time.Minute))
	require.NoError(t, storage.Set("b", []byte("2"), 0))
	assert.True(t, mr.Exists("limiter:a"))

	mr.FastForward(2 * time.Minute)

	got, err := storage.Get("a")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = storage.Get("b")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)

	require.NoError(t, storage.Reset())
	assert.False(t, mr.Exists("limiter:b"))
	require.NoError(t, storage.Close())
}

func TestNewStorage(t *testing.T) {
	storage, err := session.NewStorage(&config.Config{}, nil)
	require.NoError(t, err)
	assert.Nil(t, storage)

	_, err = session.NewStorage(&config.Config{Session: config.Session{Storage: "etcd"}}, nil)
	require.ErrorIs(t, err, session.ErrUnknownStorage)

	_, err = session.NewStorage(&config.Config{Session: config.Session{Storage: session.StorageRedis}}, nil)
	require.ErrorIs(t, err, session.ErrNoRedis)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	storage, err = session.NewStorage(&config.Config{Session: config.Session{Storage: session.StorageRedis}}, rdb)
	require.NoError(t, err)
	assert.NotNil(t, storage)
}

func TestNewExportStorage(t *testing.T) {
	storage, err := session.NewExportStorage(&config.Config{}, nil)
	require.NoError(t, err)
	require.NotNil(t, storage)

	require.NoError(t, storage.Set("exports/s/e.csv", []byte("a,b\n"), time.Minute))

	got, err := storage.Get("exports/s/e.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(got))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	storage, err = session.NewExportStorage(&config.Config{Session: config.Session{Storage: session.StorageRedis}}, rdb)
	require.NoError(t, err)
	require.NoError(t, storage.Set("exports/s/e.json", []byte("[]"), time.Minute))
	assert.True(t, mr.Exists(session.ExportRedisPrefix+"exports/s/e.json"))
}
