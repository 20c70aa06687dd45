package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusActive    = "active"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking is one reserved compartment for one time window. The unique index
// on PaymentID enforces at most one booking per payment; every code path
// attempting a second insert for an already-booked payment must treat the
// constraint violation as "somebody else won" and re-read the winner.
type Booking struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PaymentID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	BoxID       uuid.UUID `gorm:"type:uuid;index;not null"`
	StartTime   time.Time `gorm:"not null"`
	EndTime     time.Time `gorm:"not null"`
	TotalAmount int64     `gorm:"not null"`
	Currency    string    `gorm:"type:varchar(10);not null"`
	Status      string    `gorm:"type:varchar(20);not null"`
	LockPIN     string    `gorm:"type:varchar(16)"`
	// Set by the return flow, not by this service.
	ReturnPhotos *string        `gorm:"type:jsonb"`
	ReturnOK     *bool          ``
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
