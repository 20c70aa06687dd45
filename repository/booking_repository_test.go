package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/Jay330-commits/IXTABOX-APP-sub002/models"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/repository"
)

func TestBookingCreate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormBookingRepo(gormDB)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "bookings"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
	mock.ExpectCommit()

	booking := &models.Booking{
		PaymentID:   uuid.New(),
		UserID:      uuid.New(),
		BoxID:       uuid.New(),
		StartTime:   time.Now().Add(time.Hour),
		EndTime:     time.Now().Add(48 * time.Hour),
		TotalAmount: 4500,
		Currency:    "sek",
		Status:      models.BookingStatusConfirmed,
		LockPIN:     "482913",
	}
	err := repo.Create(context.Background(), booking)
	assert.NoError(t, err)
}

func TestBookingCreate_DuplicatePaymentSurfacesUniqueViolation(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormBookingRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "bookings"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_bookings_payment_id"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Booking{
		PaymentID: uuid.New(),
		UserID:    uuid.New(),
		BoxID:     uuid.New(),
		Status:    models.BookingStatusConfirmed,
	})
	assert.Error(t, err)
	assert.True(t, repository.IsUniqueViolation(err))
}

func TestFindByPaymentID_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormBookingRepo(gormDB)

	bookingID := uuid.New()
	paymentID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "payment_id", "user_id", "box_id", "start_time", "end_time", "total_amount", "currency", "status", "lock_pin", "return_photos", "return_ok", "created_at", "updated_at", "deleted_at"}).
		AddRow(bookingID, paymentID, uuid.New(), uuid.New(), now, now.Add(24*time.Hour), 4500, "sek", models.BookingStatusConfirmed, "482913", nil, nil, now, now, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(rows)

	b, err := repo.FindByPaymentID(context.Background(), paymentID)
	assert.NoError(t, err)
	assert.Equal(t, bookingID, b.ID)
	assert.Equal(t, paymentID, b.PaymentID)
}

func TestFindByPaymentID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormBookingRepo(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	b, err := repo.FindByPaymentID(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.Nil(t, b)
}
