package services_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jay330-commits/IXTABOX-APP-sub002/models"
)

// In-memory repositories that mirror the storage layer's atomicity
// guarantees: map writes under one mutex and "unique index" checks that
// return gorm.ErrDuplicatedKey exactly where Postgres would.

type memPaymentRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]models.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{byID: make(map[uuid.UUID]models.Payment)}
}

func (m *memPaymentRepo) UpsertVerifiedPayment(_ context.Context, payment *models.Payment) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.StripePaymentID == payment.StripePaymentID {
			out := p
			return &out, nil
		}
	}
	stored := *payment
	stored.ID = uuid.New()
	m.byID[stored.ID] = stored
	out := stored
	return &out, nil
}

func (m *memPaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := p
	return &out, nil
}

func (m *memPaymentRepo) GetByStripeID(_ context.Context, stripeID string) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.StripePaymentID == stripeID {
			out := p
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memPaymentRepo) AttachOwner(_ context.Context, paymentID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[paymentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	uid := userID
	p.UserID = &uid
	m.byID[paymentID] = p
	return nil
}

func (m *memPaymentRepo) MarkCompleted(_ context.Context, paymentID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[paymentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	p.Status = models.PaymentStatusCompleted
	p.CompletedAt = &now
	m.byID[paymentID] = p
	return nil
}

func (m *memPaymentRepo) MarkFailed(_ context.Context, stripeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.byID {
		if p.StripePaymentID == stripeID && p.Status != models.PaymentStatusCompleted {
			now := time.Now()
			p.Status = models.PaymentStatusFailed
			p.FailedAt = &now
			m.byID[id] = p
		}
	}
	return nil
}

type memBookingRepo struct {
	mu        sync.Mutex
	byPayment map[uuid.UUID]models.Booking
	creates   int
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{byPayment: make(map[uuid.UUID]models.Booking)}
}

func (m *memBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byPayment[booking.PaymentID]; exists {
		return gorm.ErrDuplicatedKey
	}
	booking.ID = uuid.New()
	m.byPayment[booking.PaymentID] = *booking
	m.creates++
	return nil
}

func (m *memBookingRepo) FindByPaymentID(_ context.Context, paymentID uuid.UUID) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byPayment[paymentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := b
	return &out, nil
}

func (m *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.byPayment {
		if b.ID == id {
			out := b
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for pid, b := range m.byPayment {
		if b.ID == id {
			b.Status = status
			m.byPayment[pid] = b
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]models.User)}
}

func (m *memUserRepo) FindOrCreateGuest(_ context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byEmail[user.Email]; ok {
		out := existing
		return &out, nil
	}
	stored := *user
	stored.ID = uuid.New()
	stored.Guest = true
	m.byEmail[user.Email] = stored
	out := stored
	return &out, nil
}

func (m *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == id {
			out := u
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := u
	return &out, nil
}

func (m *memUserRepo) add(user models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byEmail[user.Email] = user
}

type memBoxRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]models.StorageBox
}

func newMemBoxRepo(boxes ...models.StorageBox) *memBoxRepo {
	m := &memBoxRepo{byID: make(map[uuid.UUID]models.StorageBox)}
	for _, b := range boxes {
		m.byID[b.ID] = b
	}
	return m
}

func (m *memBoxRepo) GetByID(_ context.Context, id uuid.UUID) (*models.StorageBox, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := b
	return &out, nil
}

type memNotificationRepo struct {
	mu   sync.Mutex
	logs []models.NotificationLog
}

func (m *memNotificationRepo) SaveLog(_ context.Context, log *models.NotificationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *log)
	return nil
}

type stubLockClient struct {
	mu     sync.Mutex
	issued int
	err    error
}

func (s *stubLockClient) IssuePIN(_ context.Context, _ uuid.UUID, _, _ time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.issued++
	return fmt.Sprintf("%06d", 100000+s.issued), nil
}

type countingDispatcher struct {
	mu    sync.Mutex
	calls int
}

func (d *countingDispatcher) BookingConfirmed(_ context.Context, _ *models.Payment, _ *models.Booking) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
}

func (d *countingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type failingEmailSender struct{ err error }

func (f failingEmailSender) SendEmail(_ context.Context, _, _, _ string) error { return f.err }

type failingPushPublisher struct{ err error }

func (f failingPushPublisher) Publish(_ context.Context, _ string, _ map[string]interface{}) error {
	return f.err
}
