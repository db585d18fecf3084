package gosession

import (
	"context"
	"fmt"

	"github.com/joy-dx/gosession/config"
	"github.com/joy-dx/gosession/dto"
	"github.com/joy-dx/gosession/store"
	"github.com/redis/go-redis/v9"
)

// buildBackend turns store.* settings into a backend. An injected backend wins.
func (s *SessionSvc) buildBackend(ctx context.Context) (dto.Backend, error) {
	if s.cfg.Backend != nil {
		return s.cfg.Backend, nil
	}
	sc := s.cfg.Store
	switch sc.Backend {
	case config.BackendMemory, "":
		return store.NewMemoryBackend(), nil
	case config.BackendFile:
		return store.NewFileBackend(sc.FilePath), nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     sc.Redis.Addr,
			Password: sc.Redis.Password,
			DB:       sc.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis %s: %w", sc.Redis.Addr, err)
		}
		s.redis = client
		return store.NewRedisBackend(client, sc.Prefix), nil
	case config.BackendS3:
		return store.NewS3Backend(ctx, store.S3BackendConfig{
			Bucket:         sc.S3.Bucket,
			Key:            sc.Prefix + sc.S3.Key,
			Region:         sc.S3.Region,
			Endpoint:       sc.S3.Endpoint,
			ForcePathStyle: sc.S3.ForcePathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}
}
