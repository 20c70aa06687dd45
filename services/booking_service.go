package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Jay330-commits/IXTABOX-APP-sub002/apperrors"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/models"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/repository"
)

// BookingService turns verified payments into durable bookings. All entry
// points (webhook, client confirmation, poller fallback) funnel through
// ProcessVerifiedPayment so the idempotency guarantees live in exactly one
// place.
type BookingService interface {
	ProcessVerifiedPayment(ctx context.Context, pi *stripe.PaymentIntent, sessionUserID *uuid.UUID, suppliedEmail string) (*models.Booking, bool, error)
	Materialize(ctx context.Context, paymentID uuid.UUID) (*models.Booking, bool, error)
	PaymentState(ctx context.Context, stripeID string) (*models.Payment, *models.Booking, error)
	HandleFailedPayment(ctx context.Context, stripeID string) error
}

type bookingService struct {
	payments repository.PaymentRepository
	bookings repository.BookingRepository
	boxes    repository.BoxRepository
	identity IdentityService
	locks    LockClient
	notifier Dispatcher
	logger   *zap.Logger
}

func NewBookingService(
	payments repository.PaymentRepository,
	bookings repository.BookingRepository,
	boxes repository.BoxRepository,
	identity IdentityService,
	locks LockClient,
	notifier Dispatcher,
	logger *zap.Logger,
) BookingService {
	return &bookingService{
		payments: payments,
		bookings: bookings,
		boxes:    boxes,
		identity: identity,
		locks:    locks,
		notifier: notifier,
		logger:   logger,
	}
}

// bookingParams are the fields the checkout flow stores in the
// PaymentIntent metadata. They are the only source of booking parameters.
type bookingParams struct {
	BoxID     uuid.UUID
	StartTime time.Time
	EndTime   time.Time
}

// ProcessVerifiedPayment runs the full pipeline for a charge the caller has
// already re-confirmed with the gateway: record the payment, resolve the
// payer, materialize the booking, dispatch side effects.
func (s *bookingService) ProcessVerifiedPayment(ctx context.Context, pi *stripe.PaymentIntent, sessionUserID *uuid.UUID, suppliedEmail string) (*models.Booking, bool, error) {
	metaJSON, err := json.Marshal(pi.Metadata)
	if err != nil {
		return nil, false, fmt.Errorf("failed to snapshot payment metadata: %w", err)
	}
	snapshot := string(metaJSON)

	payment, err := s.payments.UpsertVerifiedPayment(ctx, &models.Payment{
		StripePaymentID: pi.ID,
		Amount:          pi.Amount,
		Currency:        string(pi.Currency),
		Status:          models.PaymentStatusProcessing,
		Metadata:        &snapshot,
	})
	if err != nil {
		return nil, false, err
	}

	userID, err := s.identity.Resolve(ctx, ResolveInput{
		SessionUserID: sessionUserID,
		SuppliedEmail: suppliedEmail,
		BillingEmail:  pi.ReceiptEmail,
		MetadataEmail: pi.Metadata["customer_email"],
		Name:          pi.Metadata["customer_name"],
		Phone:         pi.Metadata["customer_phone"],
	})
	if err != nil {
		// The payment stays recorded; only booking creation is blocked.
		return nil, false, err
	}

	// Attach unconditionally while the payment is unowned. Once an owner is
	// stored, only an authenticated resolution may replace it: a redundant
	// unauthenticated delivery (webhook redelivery, guest poll fallback)
	// synthesizes a guest and must not displace a session-resolved owner.
	if payment.UserID == nil || (sessionUserID != nil && *payment.UserID != userID) {
		if err := s.payments.AttachOwner(ctx, payment.ID, userID); err != nil {
			return nil, false, err
		}
	}

	booking, created, err := s.Materialize(ctx, payment.ID)
	if err != nil {
		return nil, false, err
	}

	if created {
		s.notifier.BookingConfirmed(ctx, payment, booking)
	}
	return booking, created, nil
}

// Materialize creates at most one booking for the payment. The read in step
// one is an optimization; the unique index on bookings.payment_id is the
// guarantee, and a losing concurrent caller recovers by re-reading the
// winner's row.
func (s *bookingService) Materialize(ctx context.Context, paymentID uuid.UUID) (*models.Booking, bool, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.ErrPaymentNotFound
		}
		return nil, false, err
	}

	if existing, err := s.bookings.FindByPaymentID(ctx, paymentID); err == nil {
		// A live booking with a non-completed payment means a previous caller
		// died between its insert and the completion update. The update is
		// idempotent, so re-assert it here rather than leaving the payment
		// stuck in processing.
		if payment.Status != models.PaymentStatusCompleted {
			if merr := s.payments.MarkCompleted(ctx, payment.ID); merr != nil {
				s.logger.Error("Payment completion re-assertion failed",
					zap.String("payment_id", payment.ID.String()),
					zap.Error(merr),
				)
			}
		}
		return existing, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if payment.UserID == nil {
		return nil, false, apperrors.ErrMissingContact
	}

	params, err := s.parseBookingParams(ctx, payment)
	if err != nil {
		return nil, false, err
	}

	// Credential issuance is deliberately the last step before the insert:
	// retrying it with the same window is safe, running it before the
	// short-circuit read would not be.
	pin, err := s.locks.IssuePIN(ctx, params.BoxID, params.StartTime, params.EndTime)
	if err != nil {
		return nil, false, fmt.Errorf("lock pin issuance failed: %w", err)
	}

	now := time.Now()
	status := models.BookingStatusConfirmed
	if !params.StartTime.After(now) {
		status = models.BookingStatusActive
	}

	booking := &models.Booking{
		PaymentID:   payment.ID,
		UserID:      *payment.UserID,
		BoxID:       params.BoxID,
		StartTime:   params.StartTime,
		EndTime:     params.EndTime,
		TotalAmount: payment.Amount,
		Currency:    payment.Currency,
		Status:      status,
		LockPIN:     pin,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if repository.IsUniqueViolation(err) {
			// Expected signal of a win by a concurrent caller.
			winner, ferr := s.bookings.FindByPaymentID(ctx, paymentID)
			if ferr != nil {
				return nil, false, ferr
			}
			return winner, false, nil
		}
		return nil, false, err
	}

	if err := s.payments.MarkCompleted(ctx, payment.ID); err != nil {
		s.logger.Error("Booking created but payment completion update failed",
			zap.String("payment_id", payment.ID.String()),
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("Booking materialized",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", booking.ID.String()),
		zap.String("box_id", params.BoxID.String()),
		zap.String("status", status),
	)
	return booking, true, nil
}

// PaymentState is the read-only view served to the polling loop.
func (s *bookingService) PaymentState(ctx context.Context, stripeID string) (*models.Payment, *models.Booking, error) {
	payment, err := s.payments.GetByStripeID(ctx, stripeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrPaymentNotFound
		}
		return nil, nil, err
	}

	booking, err := s.bookings.FindByPaymentID(ctx, payment.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payment, nil, nil
		}
		return nil, nil, err
	}
	return payment, booking, nil
}

func (s *bookingService) HandleFailedPayment(ctx context.Context, stripeID string) error {
	return s.payments.MarkFailed(ctx, stripeID)
}

// parseBookingParams extracts and validates the compartment reference and
// time window from the payment's metadata snapshot. Failures are terminal
// for the payment and logged loudly: they indicate an upstream data-entry
// bug, not a transient condition.
func (s *bookingService) parseBookingParams(ctx context.Context, payment *models.Payment) (*bookingParams, error) {
	fail := func(cause error) (*bookingParams, error) {
		s.logger.Error("Payment metadata cannot produce a booking",
			zap.String("payment_id", payment.ID.String()),
			zap.String("stripe_payment_id", payment.StripePaymentID),
			zap.Error(cause),
		)
		return nil, apperrors.Wrap(apperrors.ErrIncompleteMetadata, cause)
	}

	if payment.Metadata == nil {
		return fail(fmt.Errorf("no metadata stored"))
	}

	var meta struct {
		BoxID     string `json:"box_id"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := json.Unmarshal([]byte(*payment.Metadata), &meta); err != nil {
		return fail(fmt.Errorf("metadata is not valid JSON: %w", err))
	}
	if meta.BoxID == "" || meta.StartTime == "" || meta.EndTime == "" {
		return fail(fmt.Errorf("missing required fields box_id/start_time/end_time"))
	}

	boxID, err := uuid.Parse(meta.BoxID)
	if err != nil {
		return fail(fmt.Errorf("invalid box_id %q: %w", meta.BoxID, err))
	}
	start, err := time.Parse(time.RFC3339, meta.StartTime)
	if err != nil {
		return fail(fmt.Errorf("invalid start_time %q: %w", meta.StartTime, err))
	}
	end, err := time.Parse(time.RFC3339, meta.EndTime)
	if err != nil {
		return fail(fmt.Errorf("invalid end_time %q: %w", meta.EndTime, err))
	}
	if !end.After(start) {
		return fail(fmt.Errorf("end_time must be after start_time"))
	}

	box, err := s.boxes.GetByID(ctx, boxID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(fmt.Errorf("box %s does not exist", boxID))
		}
		return nil, err
	}
	if !box.Active {
		return fail(fmt.Errorf("box %s is not active", boxID))
	}

	return &bookingParams{BoxID: boxID, StartTime: start, EndTime: end}, nil
}
