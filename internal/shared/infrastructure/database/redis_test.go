package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRedis_InvalidConfig(t *testing.T) {
	cfg := RedisConfig{
		Host:     "127.0.0.1",
		Port:     "1",
		Password: "",
		DB:       0,
	}

	client, err := NewRedis(cfg)

	// Should return error for invalid connection
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestRedisConfig_Enabled(t *testing.T) {
	assert.False(t, RedisConfig{Port: "6379"}.Enabled())
	assert.True(t, RedisConfig{Host: "redis", Port: "6379"}.Enabled())
}
