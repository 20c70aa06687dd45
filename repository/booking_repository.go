package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jay330-commits/IXTABOX-APP-sub002/models"
)

type BookingRepository interface {
	// Create inserts the booking through the unique index on payment_id.
	// A unique violation here is the expected losing side of a concurrent
	// materialization race, not a failure; callers check IsUniqueViolation
	// and re-fetch the winner.
	Create(ctx context.Context, booking *models.Booking) error
	FindByPaymentID(ctx context.Context, paymentID uuid.UUID) (*models.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type gormBookingRepo struct {
	db *gorm.DB
}

func NewGormBookingRepo(db *gorm.DB) BookingRepository {
	return &gormBookingRepo{db: db}
}

func (r *gormBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *gormBookingRepo) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *gormBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *gormBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}
