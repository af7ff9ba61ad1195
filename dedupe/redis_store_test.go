package dedupe

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb, time.Hour), mr
}

func TestClaimOnce(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	ok, err := s.Claim(ctx, "loan-1:2024-01-10:1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Claim(ctx, "loan-1:2024-01-10:1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, mr.Exists("rental:reminder:loan-1:2024-01-10:1"))
	assert.Equal(t, time.Hour, mr.TTL("rental:reminder:loan-1:2024-01-10:1"))
}

func TestClaimExpires(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	ok, err := s.Claim(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(time.Hour + time.Second)

	ok, err = s.Claim(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRelease(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, err := s.Claim(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, s.Release(ctx, "k"))

	ok, err := s.Claim(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClaimRedisDown(t *testing.T) {
	s, mr := newStore(t)
	mr.Close()

	_, err := s.Claim(context.Background(), "k")
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := Connect(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	_ = rdb.Close()

	_, err = Connect(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
