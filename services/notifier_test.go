package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jay330-commits/IXTABOX-APP-sub002/models"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/services"
)

func notifierFixture(t *testing.T, email services.EmailSender, push services.PushPublisher) (*services.Notifier, *memNotificationRepo, models.Payment, models.Booking) {
	t.Helper()
	users := newMemUserRepo()
	payer := models.User{ID: uuid.New(), Email: "payer@example.com"}
	users.add(payer)

	box := models.StorageBox{ID: uuid.New(), OwnerID: uuid.New(), Active: true}
	boxes := newMemBoxRepo(box)

	logs := &memNotificationRepo{}
	n := services.NewNotifier(logs, users, boxes, email, push, zap.NewNop())

	payment := models.Payment{ID: uuid.New(), Amount: 4500, Currency: "sek"}
	booking := models.Booking{
		ID:        uuid.New(),
		PaymentID: payment.ID,
		UserID:    payer.ID,
		BoxID:     box.ID,
		StartTime: time.Now().Add(time.Hour),
		EndTime:   time.Now().Add(25 * time.Hour),
		Status:    models.BookingStatusConfirmed,
		LockPIN:   "482913",
	}
	return n, logs, payment, booking
}

func TestBookingConfirmed_RecordsAllChannels(t *testing.T) {
	n, logs, payment, booking := notifierFixture(t, services.NoopEmailSender{}, services.NoopPushPublisher{})

	n.BookingConfirmed(context.Background(), &payment, &booking)

	require.Len(t, logs.logs, 2)
	assert.Equal(t, models.ChannelEmail, logs.logs[0].Channel)
	assert.Equal(t, models.TypeBookingConfirmed, logs.logs[0].Type)
	assert.Equal(t, models.NotificationStatusSent, logs.logs[0].Status)
	assert.Equal(t, "payer@example.com", logs.logs[0].Recipient)

	assert.Equal(t, models.ChannelPush, logs.logs[1].Channel)
	assert.Equal(t, models.TypeBoxBooked, logs.logs[1].Type)
}

func TestBookingConfirmed_TransportFailuresAreSwallowed(t *testing.T) {
	n, logs, payment, booking := notifierFixture(t,
		failingEmailSender{err: fmt.Errorf("smtp: connection refused")},
		failingPushPublisher{err: fmt.Errorf("sns: topic gone")},
	)

	// Must not panic or surface any error; the failed email attempt is still
	// recorded for the audit trail.
	n.BookingConfirmed(context.Background(), &payment, &booking)

	require.Len(t, logs.logs, 2)
	assert.Equal(t, models.NotificationStatusFailed, logs.logs[0].Status)
	assert.Contains(t, logs.logs[0].Error, "connection refused")
}

func TestBookingConfirmed_UnknownPayerSkipsEverything(t *testing.T) {
	n, logs, payment, booking := notifierFixture(t, services.NoopEmailSender{}, services.NoopPushPublisher{})
	booking.UserID = uuid.New()

	n.BookingConfirmed(context.Background(), &payment, &booking)
	assert.Empty(t, logs.logs)
}
