package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/armandomtz/fraccionet/internal/model"
)

// RuleRepository handles database operations for Rule
type RuleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

func (r *RuleRepository) Create(rule *model.Rule) error {
	return r.db.Create(rule).Error
}

func (r *RuleRepository) ListAll() ([]model.Rule, error) {
	var rules []model.Rule
	err := r.db.Order("created_at DESC").Find(&rules).Error
	return rules, err
}

func (r *RuleRepository) Update(id uuid.UUID, text string, adminID *uuid.UUID) error {
	res := r.db.Model(&model.Rule{}).Where("id = ?", id).Updates(map[string]interface{}{
		"text":     text,
		"admin_id": adminID,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RuleRepository) Delete(id uuid.UUID) error {
	res := r.db.Delete(&model.Rule{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
