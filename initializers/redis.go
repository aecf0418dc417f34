package initializers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"schoolconnect-backend/config"
	"schoolconnect-backend/lib/ratelimit"
)

var RedisClient *redis.Client

// InitRedis without REDIS_ADDR the rate limits are off
func InitRedis(ctx context.Context) {
	conf := config.Conf.Redis
	if conf.Addr == "" {
		log.Warn("redis is not configured, rate limits are disabled")
		ratelimit.NewHandler(nil)
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// limiter fails open until redis is back
		log.WithError(err).WithField("addr", conf.Addr).Error("redis ping failed")
	}
	RedisClient = client
	ratelimit.NewHandler(client)
	go func() {
		<-ctx.Done()
		if err := client.Close(); err != nil {
			log.WithError(err).Error("redis close failed")
		}
	}()
}
