package redis

import (
	"crypto/tls"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientOptions_Plain(t *testing.T) {
	opts := clientOptions(Config{Addr: "localhost:6379", DB: 2})

	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Empty(t, opts.Password)
	assert.Nil(t, opts.TLSConfig)
	assert.Equal(t, defaultDialTimeout, opts.DialTimeout)
}

func TestClientOptions_PasswordAndTLS(t *testing.T) {
	opts := clientOptions(Config{
		Addr:     "cache.bookbite.internal:6380",
		Password: "s3cret",
		TLS:      true,
		Timeout:  2 * time.Second,
	})

	assert.Equal(t, "s3cret", opts.Password)
	require.NotNil(t, opts.TLSConfig)
	assert.Equal(t, "cache.bookbite.internal", opts.TLSConfig.ServerName)
	assert.Equal(t, uint16(tls.VersionTLS12), opts.TLSConfig.MinVersion)
	assert.Equal(t, 2*time.Second, opts.ReadTimeout)
}
