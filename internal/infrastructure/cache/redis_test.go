package cache

import (
	"io"
	"testing"
	"time"

	"medical-tourism-concierge/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestOptions(t *testing.T) {
	opts := Options(config.RedisConfig{
		Host:        "cache",
		Port:        "6380",
		Password:    "pw",
		DB:          2,
		PoolSize:    40,
		DialTimeout: time.Second,
	})

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 40, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)
}

func TestNewRedisClient_PingsServer(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(config.RedisConfig{
		Host:        mr.Host(),
		Port:        mr.Port(),
		PoolSize:    4,
		DialTimeout: time.Second,
	}, quietLogger())
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, 4, client.Options().PoolSize)
}

func TestNewRedisClient_UnreachableServer(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err := NewRedisClient(config.RedisConfig{
		Host:        host,
		Port:        port,
		DialTimeout: 200 * time.Millisecond,
	}, quietLogger())
	assert.ErrorContains(t, err, "ping redis")
}
