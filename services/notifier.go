package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jay330-commits/IXTABOX-APP-sub002/models"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/repository"
)

// Dispatcher fires the side effects of a successful materialization. Every
// failure in here is logged and swallowed: the booking's financial and
// access correctness never depends on the notification transport.
type Dispatcher interface {
	BookingConfirmed(ctx context.Context, payment *models.Payment, booking *models.Booking)
}

type Notifier struct {
	logs   repository.NotificationRepository
	users  repository.UserRepository
	boxes  repository.BoxRepository
	email  EmailSender
	push   PushPublisher
	logger *zap.Logger
}

func NewNotifier(
	logs repository.NotificationRepository,
	users repository.UserRepository,
	boxes repository.BoxRepository,
	email EmailSender,
	push PushPublisher,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{logs: logs, users: users, boxes: boxes, email: email, push: push, logger: logger}
}

func (n *Notifier) BookingConfirmed(ctx context.Context, payment *models.Payment, booking *models.Booking) {
	payer, err := n.users.GetByID(ctx, booking.UserID)
	if err != nil {
		n.logger.Error("Notifier could not load payer, skipping notifications",
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err),
		)
		return
	}

	n.notifyPayer(ctx, payer, booking)
	n.notifyBoxOwner(ctx, booking)
	n.publishEvent(ctx, payment, booking)
}

func (n *Notifier) notifyPayer(ctx context.Context, payer *models.User, booking *models.Booking) {
	subject := "Your storage box is booked"
	body := fmt.Sprintf(
		"<p>Your booking is confirmed.</p>"+
			"<p>Access PIN: <b>%s</b></p>"+
			"<p>From %s until %s.</p>",
		booking.LockPIN,
		booking.StartTime.Format("2006-01-02 15:04"),
		booking.EndTime.Format("2006-01-02 15:04"),
	)

	status := models.NotificationStatusSent
	errMsg := ""
	if err := n.email.SendEmail(ctx, payer.Email, subject, body); err != nil {
		status = models.NotificationStatusFailed
		errMsg = err.Error()
		n.logger.Warn("Booking confirmation email failed",
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err),
		)
	}

	n.saveLog(ctx, &models.NotificationLog{
		UserID:    payer.ID,
		BookingID: &booking.ID,
		Recipient: payer.Email,
		Type:      models.TypeBookingConfirmed,
		Channel:   models.ChannelEmail,
		Status:    status,
		Error:     errMsg,
	})
}

func (n *Notifier) notifyBoxOwner(ctx context.Context, booking *models.Booking) {
	box, err := n.boxes.GetByID(ctx, booking.BoxID)
	if err != nil {
		n.logger.Warn("Notifier could not load box for owner notification",
			zap.String("box_id", booking.BoxID.String()),
			zap.Error(err),
		)
		return
	}

	n.saveLog(ctx, &models.NotificationLog{
		UserID:    box.OwnerID,
		BookingID: &booking.ID,
		Type:      models.TypeBoxBooked,
		Channel:   models.ChannelPush,
		Status:    models.NotificationStatusSent,
	})
}

func (n *Notifier) publishEvent(ctx context.Context, payment *models.Payment, booking *models.Booking) {
	err := n.push.Publish(ctx, models.TypeBookingConfirmed, map[string]interface{}{
		"booking_id": booking.ID.String(),
		"payment_id": payment.ID.String(),
		"box_id":     booking.BoxID.String(),
		"user_id":    booking.UserID.String(),
		"start_time": booking.StartTime.UTC(),
		"end_time":   booking.EndTime.UTC(),
		"amount":     payment.Amount,
		"currency":   payment.Currency,
	})
	if err != nil {
		n.logger.Warn("Booking event publish failed",
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err),
		)
	}
}

func (n *Notifier) saveLog(ctx context.Context, log *models.NotificationLog) {
	if err := n.logs.SaveLog(ctx, log); err != nil {
		n.logger.Error("Failed to save notification log", zap.Error(err))
	}
}
