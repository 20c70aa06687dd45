package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusRefunded   = "refunded"
)

// Payment is one confirmed external charge. StripePaymentID is the
// PaymentIntent id and the idempotency key for creation: the unique index on
// it is what lets the webhook, the client confirmation call and the poller
// all race without ever producing a second row.
type Payment struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StripePaymentID string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	UserID          *uuid.UUID `gorm:"type:uuid;index"` // nullable until identity is resolved
	Amount          int64      `gorm:"not null"`        // minor units, as reported by the gateway
	Currency        string     `gorm:"type:varchar(10);not null"`
	Status          string     `gorm:"type:varchar(20);not null"`
	Metadata        *string    `gorm:"type:jsonb"` // PaymentIntent metadata snapshot; source of booking parameters
	CompletedAt     *time.Time
	FailedAt        *time.Time
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}
