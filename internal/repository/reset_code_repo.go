package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/armandomtz/fraccionet/internal/model"
)

// ResetCodeRepository handles database operations for password reset codes
type ResetCodeRepository struct {
	db *gorm.DB
}

func NewResetCodeRepository(db *gorm.DB) *ResetCodeRepository {
	return &ResetCodeRepository{db: db}
}

// Create inserts a new reset code
func (r *ResetCodeRepository) Create(code *model.ResetCode) error {
	return r.db.Create(code).Error
}

// FindValid finds an unused, non-expired reset code for a user
func (r *ResetCodeRepository) FindValid(userID uuid.UUID, code string) (*model.ResetCode, error) {
	var rc model.ResetCode
	err := r.db.
		Where("user_id = ? AND code = ? AND expires_at > ? AND used_at IS NULL",
			userID, code, time.Now()).
		Order("created_at DESC").
		First(&rc).Error
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// MarkAsUsed marks a reset code as consumed
func (r *ResetCodeRepository) MarkAsUsed(id uuid.UUID) error {
	now := time.Now()
	return r.db.Model(&model.ResetCode{}).
		Where("id = ?", id).
		Update("used_at", now).Error
}

// InvalidateAllForUser retires every pending code when a new one is issued
func (r *ResetCodeRepository) InvalidateAllForUser(userID uuid.UUID) error {
	now := time.Now()
	return r.db.Model(&model.ResetCode{}).
		Where("user_id = ? AND used_at IS NULL AND expires_at > ?", userID, now).
		Update("used_at", now).Error
}

// CountRecent counts codes issued to a user since a cutoff (rate limiting)
func (r *ResetCodeRepository) CountRecent(userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.ResetCode{}).
		Where("user_id = ? AND created_at > ?", userID, since).
		Count(&count).Error
	return count, err
}
