// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"clinicbooking/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	// SessionClient stores booking wizard sessions and submit locks.
	SessionClient *redis.Client
	// CacheClient is the generic cache client (catalog lookups).
	CacheClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

func ping(client *redis.Client, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		GetLogger().Fatal("Failed to connect to Redis", zap.String("client", name), zap.Error(err))
	}
}

// InitRedis initializes both Redis clients.
func InitRedis() {
	GetSessionClient()
	GetCacheClient()
}

// GetSessionClient returns the Redis client used for wizard sessions.
func GetSessionClient() *redis.Client {
	if SessionClient == nil {
		SessionClient = newRedisClient(config.AppConfig.RedisSessionDB)
		ping(SessionClient, "session")
	}
	return SessionClient
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		CacheClient = newRedisClient(config.AppConfig.RedisCacheDB)
		ping(CacheClient, "cache")
	}
	return CacheClient
}
