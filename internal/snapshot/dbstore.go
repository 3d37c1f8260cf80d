package snapshot

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/messmate/messmate-backend/internal/engine"
	"github.com/messmate/messmate-backend/pkg/db"
	"github.com/messmate/messmate-backend/pkg/db/models"
	"github.com/messmate/messmate-backend/pkg/logger"
)

// DBStore keeps snapshots in a single gorm-managed table, one row per
// collection key.
type DBStore struct {
	client *db.Client
	logg   *logger.Logger
}

// NewDBStore migrates the snapshot table and returns the store.
func NewDBStore(ctx context.Context, client *db.Client, logg *logger.Logger) (*DBStore, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if err := client.DB().WithContext(ctx).AutoMigrate(&models.SnapshotRow{}); err != nil {
		return nil, fmt.Errorf("migrating snapshot table: %w", err)
	}
	return &DBStore{client: client, logg: logg}, nil
}

func (s *DBStore) Load(ctx context.Context) engine.State {
	var state engine.State
	for _, key := range collectionKeys {
		var row models.SnapshotRow
		err := s.client.DB().WithContext(ctx).First(&row, "key = ?", key).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			s.warn(ctx, key, err)
			continue
		}
		if err := decodeInto(&state, key, row.Payload); err != nil {
			s.warn(ctx, key, err)
		}
	}
	return state
}

func (s *DBStore) Save(ctx context.Context, state engine.State) error {
	payloads, err := encode(state)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		for _, key := range collectionKeys {
			row := models.SnapshotRow{Key: key, Payload: payloads[key]}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("writing snapshot %s: %w", key, err)
			}
		}
		return nil
	})
}

func (s *DBStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *DBStore) Close() error {
	return s.client.Close()
}

func (s *DBStore) warn(ctx context.Context, key string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithField(ctx, "collection", key)
	s.logg.Error(ctx, "snapshot load failed, using defaults", err)
}
