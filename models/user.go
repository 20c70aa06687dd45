package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the payer identity. Guest users are synthesized from the billing
// contact details of a payment when no authenticated session exists; the
// unique index on Email is what deduplicates concurrent guest creation.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name      string         `gorm:"type:varchar(255)"`
	Phone     string         `gorm:"type:varchar(50)"`
	Address   string         `gorm:"type:varchar(512)"`
	Guest     bool           `gorm:"not null;default:false"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
