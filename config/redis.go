package config

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis connects the cache used for interview history listings and
// synthesized feedback. REDIS_URL may be either a redis:// URL or a bare
// host:port.
func InitRedis() error {
	val := os.Getenv("REDIS_URL")
	if val == "" {
		val = os.Getenv("REDIS_ADDR")
	}
	if val == "" {
		return errors.New("REDIS_URL (or REDIS_ADDR) environment variable is not set")
	}

	if strings.Contains(val, "://") {
		opt, err := redis.ParseURL(val)
		if err != nil {
			return err
		}
		RedisClient = redis.NewClient(opt)
	} else {
		RedisClient = redis.NewClient(&redis.Options{
			Addr:     val,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return RedisClient.Ping(ctx).Err()
}
