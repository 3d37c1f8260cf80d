package snapshot

import (
	"context"
	"fmt"

	"github.com/messmate/messmate-backend/internal/engine"
	"github.com/messmate/messmate-backend/pkg/logger"
	"github.com/messmate/messmate-backend/pkg/redis"
)

// RedisStore keeps each collection under its own namespaced key, mirroring the
// original key-value layout of the app's storage.
type RedisStore struct {
	client *redis.Client
	logg   *logger.Logger
}

func NewRedisStore(client *redis.Client, logg *logger.Logger) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client, logg: logg}, nil
}

func (s *RedisStore) Load(ctx context.Context) engine.State {
	var state engine.State
	for _, key := range collectionKeys {
		raw, err := s.client.Get(ctx, s.client.SnapshotKey(key))
		if redis.IsNil(err) {
			continue
		}
		if err != nil {
			s.warn(ctx, key, err)
			continue
		}
		if err := decodeInto(&state, key, []byte(raw)); err != nil {
			s.warn(ctx, key, err)
		}
	}
	return state
}

func (s *RedisStore) Save(ctx context.Context, state engine.State) error {
	payloads, err := encode(state)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	for _, key := range collectionKeys {
		if err := s.client.Set(ctx, s.client.SnapshotKey(key), string(payloads[key]), 0); err != nil {
			return fmt.Errorf("writing snapshot %s: %w", key, err)
		}
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) warn(ctx context.Context, key string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithField(ctx, "collection", key)
	s.logg.Error(ctx, "snapshot load failed, using defaults", err)
}
