package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLockerErrors(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	l := NewRedisLocker(rdb, "lock:")
	l.token = func() string { return "t1" }

	mock.ExpectSetNX("lock:report-refresh", "t1", time.Minute).SetErr(errors.New("connection refused"))
	mock.ExpectSetNX("lock:report-refresh", "t1", time.Minute).SetVal(false)

	_, ok, err := l.Acquire(context.Background(), "report-refresh", time.Minute)
	require.ErrorContains(t, err, "connection refused")
	assert.False(t, ok)

	release, ok, err := l.Acquire(context.Background(), "report-refresh", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, release)

	require.NoError(t, mock.ExpectationsWereMet())
}
