package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/armandomtz/fraccionet/internal/model"
)

// PushTokenRepository handles database operations for PushToken
type PushTokenRepository struct {
	db *gorm.DB
}

func NewPushTokenRepository(db *gorm.DB) *PushTokenRepository {
	return &PushTokenRepository{db: db}
}

// Upsert registers a token keyed by its value. A token already registered to
// another user is reassigned (last writer wins).
func (r *PushTokenRepository) Upsert(token string, userID *uuid.UUID, platform string) error {
	if platform == "" {
		platform = "unknown"
	}
	row := model.PushToken{
		Token:    token,
		UserID:   userID,
		Platform: platform,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "token"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"user_id":    userID,
			"platform":   platform,
			"updated_at": time.Now(),
		}),
	}).Create(&row).Error
}

// ListByUser returns the token strings registered to a user
func (r *PushTokenRepository) ListByUser(userID uuid.UUID) ([]string, error) {
	var tokens []string
	err := r.db.Model(&model.PushToken{}).
		Where("user_id = ?", userID).
		Pluck("token", &tokens).Error
	return tokens, err
}

// ListByUserDetail returns the full token rows for one user (debug surface)
func (r *PushTokenRepository) ListByUserDetail(userID uuid.UUID) ([]model.PushToken, error) {
	var rows []model.PushToken
	err := r.db.Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

// ListFiltered returns token strings matching the optional platform and
// user-ID filters; with no filters it returns every registered token.
func (r *PushTokenRepository) ListFiltered(platform string, userIDs []uuid.UUID) ([]string, error) {
	q := r.db.Model(&model.PushToken{})
	if platform != "" {
		q = q.Where("platform = ?", platform)
	}
	if len(userIDs) > 0 {
		q = q.Where("user_id IN ?", userIDs)
	}
	var tokens []string
	err := q.Pluck("token", &tokens).Error
	return tokens, err
}

// Delete removes a token
func (r *PushTokenRepository) Delete(token string) error {
	res := r.db.Delete(&model.PushToken{}, "token = ?", token)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
