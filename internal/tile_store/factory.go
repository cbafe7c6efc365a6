package tile_store

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// NewStore creates a tile store instance based on the store type.
func NewStore(storeType, fileRoot string, redisCfg RedisConfig, ttl time.Duration, log *zap.Logger) (Store, error) {
	switch storeType {
	case "file":
		log.Info("Using file tile store", zap.String("root", fileRoot), zap.Duration("ttl", ttl))
		return NewFileStore(fileRoot, ttl)
	case "redis":
		log.Info("Using redis tile store", zap.String("addr", redisCfg.Addr), zap.Duration("ttl", ttl))
		return NewRedisStore(redisCfg, ttl)
	default:
		return nil, fmt.Errorf("unknown tile store type: %s (supported: file, redis)", storeType)
	}
}
