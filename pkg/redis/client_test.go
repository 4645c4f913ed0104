package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	t.Run("missing url", func(t *testing.T) {
		_, err := options(Config{})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("default port and url password", func(t *testing.T) {
		opts, err := options(Config{URL: "redis://:s3cret@cache.local"})
		require.NoError(t, err)
		assert.Equal(t, "cache.local:6379", opts.Addr)
		assert.Equal(t, "s3cret", opts.Password)
		assert.Nil(t, opts.TLSConfig)
	})

	t.Run("explicit password wins and rediss enables tls", func(t *testing.T) {
		opts, err := options(Config{URL: "rediss://:fromurl@cache.local:6380", Password: "explicit"})
		require.NoError(t, err)
		assert.Equal(t, "cache.local:6380", opts.Addr)
		assert.Equal(t, "explicit", opts.Password)
		assert.NotNil(t, opts.TLSConfig)
	})

	t.Run("no host", func(t *testing.T) {
		_, err := options(Config{URL: "not a url"})
		assert.Error(t, err)
	})
}
