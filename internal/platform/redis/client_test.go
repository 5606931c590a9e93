package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flexcard/internal/platform/config"
)

func TestNew_NotConfigured(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNew_BadURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "not-a-url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis URL")
}

func TestClientOptions(t *testing.T) {
	t.Run("overlays configured values", func(t *testing.T) {
		opts, err := clientOptions(config.RedisConfig{
			URL:          "redis://localhost:6380/2",
			PoolSize:     32,
			MinIdleConns: 4,
			DialTimeout:  time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, "localhost:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 32, opts.PoolSize)
		assert.Equal(t, 4, opts.MinIdleConns)
		assert.Equal(t, time.Second, opts.DialTimeout)
		assert.Equal(t, 2*time.Second, opts.ReadTimeout)
		assert.Equal(t, 3*time.Second, opts.WriteTimeout)
	})

	t.Run("zero values keep URL defaults", func(t *testing.T) {
		opts, err := clientOptions(config.RedisConfig{URL: "redis://localhost:6379/0?dial_timeout=7s"})
		require.NoError(t, err)
		assert.Equal(t, 7*time.Second, opts.DialTimeout)
		assert.Zero(t, opts.PoolSize)
	})
}
