package models

import "time"

// SnapshotRow stores one serialized state collection per key. The persistence
// bridge replaces rows wholesale after every committed mutation.
type SnapshotRow struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Payload   []byte    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table used by the snapshot bridge.
func (SnapshotRow) TableName() string {
	return "snapshots"
}
