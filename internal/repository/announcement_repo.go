package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/armandomtz/fraccionet/internal/model"
)

// AnnouncementRepository handles database operations for Announcement
type AnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) Create(a *model.Announcement) error {
	return r.db.Create(a).Error
}

func (r *AnnouncementRepository) ListAll() ([]model.Announcement, error) {
	var list []model.Announcement
	err := r.db.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *AnnouncementRepository) Update(id uuid.UUID, updates map[string]interface{}) error {
	res := r.db.Model(&model.Announcement{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AnnouncementRepository) Delete(id uuid.UUID) error {
	res := r.db.Delete(&model.Announcement{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
