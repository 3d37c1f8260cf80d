package snapshot

import (
	"context"
	"fmt"
	"strings"

	"github.com/messmate/messmate-backend/pkg/config"
	"github.com/messmate/messmate-backend/pkg/db"
	"github.com/messmate/messmate-backend/pkg/logger"
	"github.com/messmate/messmate-backend/pkg/redis"
)

// New builds the snapshot store selected by configuration.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Store, error) {
	switch strings.ToLower(cfg.Snapshot.Backend) {
	case config.SnapshotBackendDB:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrapping database: %w", err)
		}
		return NewDBStore(ctx, client, logg)
	case config.SnapshotBackendRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("bootstrapping redis: %w", err)
		}
		return NewRedisStore(client, logg)
	}
	return nil, fmt.Errorf("unsupported snapshot backend %q", cfg.Snapshot.Backend)
}
