package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stayware/booking-service/internal/models"
	"github.com/stayware/booking-service/pkg/rabbitmq"
)

// --- Mock GuestRepository ---

type mockGuestRepo struct {
	byEmail map[string]*models.Guest
	created *models.Guest
	updated *models.Guest
}

func (m *mockGuestRepo) FindByEmail(ctx context.Context, email string) (*models.Guest, error) {
	if g, ok := m.byEmail[email]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockGuestRepo) Create(ctx context.Context, guest *models.Guest) error {
	guest.ID = 42
	m.created = guest
	return nil
}
func (m *mockGuestRepo) Update(ctx context.Context, guest *models.Guest) error {
	m.updated = guest
	return nil
}
func (m *mockGuestRepo) FindByID(ctx context.Context, id uint) (*models.Guest, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockGuestRepo) List(ctx context.Context, offset, limit int, search string) ([]models.Guest, int64, error) {
	return nil, 0, nil
}
func (m *mockGuestRepo) Delete(ctx context.Context, id uint) error { return nil }

// --- SaveGuest ---

func TestSaveGuest_CreatesWhenEmailUnknown(t *testing.T) {
	guests := &mockGuestRepo{byEmail: map[string]*models.Guest{}}
	svc := NewBookingService(nil, guests, nil, nil, nil)

	saved, err := svc.SaveGuest(context.Background(), &models.Guest{
		Fullname: "Ada Lovelace",
		Email:    "ada@example.com",
	})

	require.NoError(t, err)
	require.NotNil(t, guests.created)
	assert.Nil(t, guests.updated)
	assert.Equal(t, uint(42), saved.ID)
	assert.Equal(t, "ada@example.com", saved.Email)
}

func TestSaveGuest_UpdatesExistingByEmail(t *testing.T) {
	guests := &mockGuestRepo{byEmail: map[string]*models.Guest{
		"ada@example.com": {ID: 7, Fullname: "A. Lovelace", Email: "ada@example.com", Phone: "old"},
	}}
	svc := NewBookingService(nil, guests, nil, nil, nil)

	saved, err := svc.SaveGuest(context.Background(), &models.Guest{
		Fullname: "Ada Lovelace",
		Email:    "ada@example.com",
		Phone:    "+44 20 1234",
	})

	require.NoError(t, err)
	require.NotNil(t, guests.updated)
	assert.Nil(t, guests.created)
	assert.Equal(t, uint(7), saved.ID, "existing guest keeps its identifier")
	assert.Equal(t, "Ada Lovelace", saved.Fullname)
	assert.Equal(t, "+44 20 1234", saved.Phone)
}

func TestSaveGuest_RequiresFullnameAndEmail(t *testing.T) {
	svc := NewBookingService(nil, &mockGuestRepo{}, nil, nil, nil)

	_, err := svc.SaveGuest(context.Background(), &models.Guest{Fullname: "Ada Lovelace"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SaveGuest(context.Background(), &models.Guest{Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// --- publish ---

type failingPublisher struct{ err error }

func (p failingPublisher) Publish(routingKey string, payload any) error { return p.err }

func TestPublish_FailureIsLoggedNotDropped(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	s := &bookingService{publisher: failingPublisher{err: errors.New("channel closed")}}
	s.publish(rabbitmq.KeyReservationCreated, &models.Reservation{})

	assert.Contains(t, buf.String(), rabbitmq.KeyReservationCreated)
	assert.Contains(t, buf.String(), "channel closed")
}

func TestPublish_NilPublisherIsSkipped(t *testing.T) {
	s := &bookingService{}
	assert.NotPanics(t, func() {
		s.publish(rabbitmq.KeyReservationCancelled, &models.Reservation{})
	})
}
