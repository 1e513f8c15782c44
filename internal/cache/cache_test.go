package cache

import (
	"context"
	"testing"
	"time"

	"github.com/AnyUserName/picpack/internal/config"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "2d06800538d3")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "2d06800538d3", []byte(`{"average":"#85817fff"}`)))
	got, ok, err := c.Get(ctx, "2d06800538d3")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"average":"#85817fff"}`, string(got))
}

func TestMemory(t *testing.T) {
	m := NewMemory(time.Minute, time.Minute)
	exercise(t, m)
	assert.Equal(t, 1, m.Len())
	require.NoError(t, m.Close())
	assert.Equal(t, 0, m.Len())
}

func TestMemory_CopiesValue(t *testing.T) {
	m := NewMemory(0, 0)
	buf := []byte("abc")
	require.NoError(t, m.Set(context.Background(), "k", buf))
	buf[0] = 'x'
	got, _, _ := m.Get(context.Background(), "k")
	assert.Equal(t, "abc", string(got))
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory(20*time.Millisecond, time.Hour)
	require.NoError(t, m.Set(context.Background(), "k", []byte("v")))
	assert.Eventually(t, func() bool {
		_, ok, _ := m.Get(context.Background(), "k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	r, err := NewRedis(context.Background(), RedisConfig{Addr: mr.Addr(), TTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	exercise(t, r)
	assert.True(t, mr.Exists("picpack:placeholder:2d06800538d3"))
	assert.Equal(t, time.Minute, mr.TTL("picpack:placeholder:2d06800538d3"))

	mr.FastForward(2 * time.Minute)
	_, ok, err := r.Get(context.Background(), "2d06800538d3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err := NewRedis(context.Background(), RedisConfig{Addr: addr})
	assert.ErrorContains(t, err, "redis ping")

	_, err = NewRedis(context.Background(), RedisConfig{})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, config.CacheConfig{Backend: "memory", TTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	c, err = New(ctx, config.CacheConfig{Backend: "none"})
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	_, ok, _ := c.Get(ctx, "k")
	assert.False(t, ok)

	mr := miniredis.RunT(t)
	c, err = New(ctx, config.CacheConfig{Backend: "redis", RedisAddr: mr.Addr(), KeyPrefix: "t:"})
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	assert.True(t, mr.Exists("t:k"))
	require.NoError(t, c.Close())

	_, err = New(ctx, config.CacheConfig{Backend: "memcached"})
	assert.Error(t, err)
}
