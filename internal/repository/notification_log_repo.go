package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/armandomtz/fraccionet/internal/model"
)

// NotificationLogRepository handles the dedup log for scheduled notifications
type NotificationLogRepository struct {
	db *gorm.DB
}

func NewNotificationLogRepository(db *gorm.DB) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

// Exists reports whether a log entry is present for (kind, user, reference day)
func (r *NotificationLogRepository) Exists(kind string, userID uuid.UUID, referenceDate time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&model.NotificationLog{}).
		Where("kind = ? AND user_id = ? AND reference_date = ?", kind, userID, referenceDate).
		Count(&count).Error
	return count > 0, err
}

// InsertIfAbsent atomically claims the (kind, user, reference day) slot.
// Returns true when this call inserted the row, false when another run got
// there first. The unique index on the tuple makes the claim race-free.
func (r *NotificationLogRepository) InsertIfAbsent(kind string, userID uuid.UUID, referenceDate time.Time) (bool, error) {
	entry := model.NotificationLog{
		Kind:          kind,
		UserID:        userID,
		ReferenceDate: referenceDate,
	}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "user_id"}, {Name: "reference_date"}},
		DoNothing: true,
	}).Create(&entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountFor returns the number of entries for a (kind, user, reference day)
func (r *NotificationLogRepository) CountFor(kind string, userID uuid.UUID, referenceDate time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.NotificationLog{}).
		Where("kind = ? AND user_id = ? AND reference_date = ?", kind, userID, referenceDate).
		Count(&count).Error
	return count, err
}
