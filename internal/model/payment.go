package model

import (
	"time"

	"github.com/google/uuid"
)

// Payment records a maintenance fee payment. Vigencia is the date through
// which the payment keeps the resident's account in good standing; the
// scheduler reads it to decide who is about to lapse.
type Payment struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID          uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	UserName        string    `json:"user_name" gorm:"size:150"`
	Building        string    `json:"building" gorm:"size:100"`
	Apartment       string    `json:"apartment" gorm:"size:20"`
	PaymentType     string    `json:"payment_type" gorm:"size:50"`
	PaymentMethod   string    `json:"payment_method" gorm:"size:50"`
	Amount          float64   `json:"amount"`
	PaidAt          time.Time `json:"paid_at"`
	Vigencia        time.Time `json:"vigencia" gorm:"index;not null"`
	Status          string    `json:"status" gorm:"size:30"`
	ProcessedBy     string    `json:"processed_by" gorm:"size:150"`
	StripeReference string    `json:"stripe_reference" gorm:"size:100;default:''"`
	CreatedAt       time.Time `json:"created_at"`
}
