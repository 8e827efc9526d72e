package cart

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/merawaalameetha/meetha-backend/pkg/db/models"
)

// SlotDB names the SQL-backed slot in logs and metrics.
const SlotDB = "db"

// DBSlot keeps snapshots in the cart_snapshots table. Saves are last-write-wins upserts.
type DBSlot struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDBSlot builds a slot on top of an open gorm connection.
func NewDBSlot(db *gorm.DB) *DBSlot {
	return &DBSlot{db: db, now: time.Now}
}

func (s *DBSlot) Name() string {
	return SlotDB
}

func (s *DBSlot) Load(ctx context.Context, key string) ([]byte, error) {
	var row models.CartSnapshot
	err := s.db.WithContext(ctx).Where("session_key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotEmpty
		}
		return nil, err
	}
	return []byte(row.Payload), nil
}

func (s *DBSlot) Save(ctx context.Context, key string, payload []byte) error {
	row := models.CartSnapshot{
		SessionKey: key,
		Version:    SchemaVersion,
		Payload:    string(payload),
		UpdatedAt:  s.now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "payload", "updated_at"}),
	}).Create(&row).Error
}

func (s *DBSlot) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("session_key = ?", key).Delete(&models.CartSnapshot{}).Error
}
