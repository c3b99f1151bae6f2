package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/armandomtz/fraccionet/internal/model"
)

// PaymentRepository handles database operations for Payment
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a new payment record
func (r *PaymentRepository) Create(p *model.Payment) error {
	return r.db.Create(p).Error
}

// ListAll returns every payment
func (r *PaymentRepository) ListAll() ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.Order("paid_at DESC").Find(&payments).Error
	return payments, err
}

// ListByUser returns the payment history of one resident
func (r *PaymentRepository) ListByUser(userID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.
		Where("user_id = ?", userID).
		Order("paid_at DESC").
		Find(&payments).Error
	return payments, err
}

// ListByVigenciaWindow returns payments whose vigencia falls in the closed
// interval [start, end]. The scheduler consumes this read-only.
func (r *PaymentRepository) ListByVigenciaWindow(start, end time.Time) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.
		Where("vigencia >= ? AND vigencia <= ?", start, end).
		Find(&payments).Error
	return payments, err
}
