package repo

import (
	"context"

	"psychic-poker/internal/config"
	"psychic-poker/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RDB stays nil when no redis address is configured.
var RDB *redis.Client

func InitRedis() {
	conf := config.GlobalConfig.Redis
	if conf.Addr == "" {
		logger.Log.Warn("redis address not configured; result cache disabled")
		return
	}
	RDB = redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	_, err := RDB.Ping(context.Background()).Result()
	if err != nil {
		logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
}
