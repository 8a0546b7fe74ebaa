package main

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdonalds/cookbook/internal/config"
)

func TestNewSummaryCache_None(t *testing.T) {
	c, closeCache, err := newSummaryCache(config.CacheConfig{Backend: config.CacheBackendNone})
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Nil(t, closeCache)
}

func TestNewSummaryCache_Memory(t *testing.T) {
	c, closeCache, err := newSummaryCache(config.CacheConfig{
		Backend: config.CacheBackendMemory,
		TTL:     time.Minute,
	})
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Nil(t, closeCache)
}

func TestNewSummaryCache_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c, closeCache, err := newSummaryCache(config.CacheConfig{
		Backend: config.CacheBackendRedis,
		Redis:   config.RedisConfig{Addr: mr.Addr()},
	})
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NotNil(t, closeCache)
	assert.NoError(t, closeCache())
}

func TestNewSummaryCache_RedisUnreachable(t *testing.T) {
	_, _, err := newSummaryCache(config.CacheConfig{
		Backend: config.CacheBackendRedis,
		Redis:   config.RedisConfig{Addr: "localhost:1"},
	})
	assert.Error(t, err)
}

func TestNewSummaryCache_UnknownBackend(t *testing.T) {
	_, _, err := newSummaryCache(config.CacheConfig{Backend: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(config.LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = newLogger(config.LogConfig{Level: "shouty"})
	assert.Error(t, err)
}
