package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChannelEmail = "email"
	ChannelPush  = "push"

	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"

	TypeBookingConfirmed = "booking_confirmed"
	TypeBoxBooked        = "box_booked" // owner-side counterpart
	TypePaymentFailed    = "payment_failed"
)

// NotificationLog is a fire-and-forget audit record of a message sent about
// a booking state change. It never participates in the payment/booking
// invariants; a failed row here is invisible to them.
type NotificationLog struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"`
	UserID     uuid.UUID  `gorm:"type:uuid;index"`
	BookingID  *uuid.UUID `gorm:"type:uuid;index"`
	Recipient  string     `gorm:"type:varchar(255)"`
	Type       string     `gorm:"type:varchar(50);not null"`
	Channel    string     `gorm:"type:varchar(20);not null"`
	Status     string     `gorm:"type:varchar(20);not null"`
	Error      string     `gorm:"type:text"`
	RetryCount int        ``
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
}
