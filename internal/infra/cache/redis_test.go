package cache

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crm-suite/backend/config"
)

func TestNewRedisConnection(t *testing.T) {
	mr := miniredis.RunT(t)

	r, err := NewRedisConnection(&config.RedisConfig{URL: "redis://" + mr.Addr() + "/0"})
	require.NoError(t, err)
	assert.True(t, r.HealthCheck())

	mr.Close()
	assert.False(t, r.HealthCheck())
	assert.NoError(t, r.Close())
}

func TestNewRedisConnection_InvalidURL(t *testing.T) {
	_, err := NewRedisConnection(&config.RedisConfig{URL: "http://not-redis"})
	assert.Error(t, err)
}
