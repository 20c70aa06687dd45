package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Jay330-commits/IXTABOX-APP-sub002/models"
)

type PaymentRepository interface {
	// UpsertVerifiedPayment inserts the payment keyed by its Stripe payment
	// id, or returns the existing row unchanged if one is already there.
	// Safe under concurrent invocation with the same Stripe id.
	UpsertVerifiedPayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	GetByStripeID(ctx context.Context, stripeID string) (*models.Payment, error)
	// AttachOwner is idempotent; a newer authenticated resolution overwrites
	// an earlier guest guess.
	AttachOwner(ctx context.Context, paymentID, userID uuid.UUID) error
	MarkCompleted(ctx context.Context, paymentID uuid.UUID) error
	MarkFailed(ctx context.Context, stripeID string) error
}

type gormPaymentRepo struct {
	db *gorm.DB
}

func NewGormPaymentRepo(db *gorm.DB) PaymentRepository {
	return &gormPaymentRepo{db: db}
}

func (r *gormPaymentRepo) UpsertVerifiedPayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	// Insert-on-conflict-do-nothing plus an unconditional re-select. The
	// unique index on stripe_payment_id is the actual guard; two entry
	// points racing here both end up reading the same canonical row.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_payment_id"}},
			DoNothing: true,
		}).
		Create(payment).Error
	if err != nil && !IsUniqueViolation(err) {
		return nil, err
	}

	var out models.Payment
	if err := r.db.WithContext(ctx).
		Where("stripe_payment_id = ?", payment.StripePaymentID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *gormPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormPaymentRepo) GetByStripeID(ctx context.Context, stripeID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).
		Where("stripe_payment_id = ?", stripeID).
		First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormPaymentRepo) AttachOwner(ctx context.Context, paymentID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Updates(map[string]interface{}{
			"user_id":    userID,
			"updated_at": time.Now(),
		}).Error
}

func (r *gormPaymentRepo) MarkCompleted(ctx context.Context, paymentID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Updates(map[string]interface{}{
			"status":       models.PaymentStatusCompleted,
			"completed_at": &now,
		}).Error
}

func (r *gormPaymentRepo) MarkFailed(ctx context.Context, stripeID string) error {
	// Completed is terminal; a late failure signal never regresses it.
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("stripe_payment_id = ? AND status <> ?", stripeID, models.PaymentStatusCompleted).
		Updates(map[string]interface{}{
			"status":    models.PaymentStatusFailed,
			"failed_at": &now,
		}).Error
}
