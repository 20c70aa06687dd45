package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StorageBox is a physical compartment on a stand. Inventory management is
// handled elsewhere; this service only reads boxes to validate a booking's
// compartment reference and to find the owner for notifications.
type StorageBox struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Label     string         `gorm:"type:varchar(100);not null"`
	StandID   uuid.UUID      `gorm:"type:uuid;index"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;index;not null"`
	SizeClass string         `gorm:"type:varchar(20)"`
	Active    bool           `gorm:"not null;default:true"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
