package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/stayware/booking-service/internal/models"
)

// --- Mock ReservationRepository (only FindDueForCompletion matters here) ---

type mockReservationRepo struct {
	dueFn func(ctx context.Context, before time.Time) ([]uuid.UUID, error)
}

func (m *mockReservationRepo) FindDueForCompletion(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	return m.dueFn(ctx, before)
}
func (m *mockReservationRepo) Create(ctx context.Context, tx *gorm.DB, r *models.Reservation) error {
	return nil
}
func (m *mockReservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockReservationRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Reservation, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockReservationRepo) FindByRoomID(ctx context.Context, roomID uint) ([]models.Reservation, error) {
	return nil, nil
}
func (m *mockReservationRepo) FindByGuestID(ctx context.Context, guestID uint) ([]models.Reservation, error) {
	return nil, nil
}
func (m *mockReservationRepo) ListAdmin(ctx context.Context, offset, limit int, search string) ([]models.Reservation, int64, error) {
	return nil, 0, nil
}
func (m *mockReservationRepo) CountBlockingForRoom(ctx context.Context, roomID uint) (int64, error) {
	return 0, nil
}
func (m *mockReservationRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.ReservationStatus, cancelledAt *time.Time) error {
	return nil
}
func (m *mockReservationRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return nil
}
func (m *mockReservationRepo) GetDB() *gorm.DB { return nil }

// --- Mock BookingService ---

type mockBookingService struct {
	completed []uuid.UUID
	failOn    map[uuid.UUID]error
}

func (m *mockBookingService) MarkCompleted(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	if err, ok := m.failOn[id]; ok {
		return nil, err
	}
	m.completed = append(m.completed, id)
	return &models.Reservation{ID: id, Status: models.StatusCompleted}, nil
}
func (m *mockBookingService) SaveGuest(ctx context.Context, guest *models.Guest) (*models.Guest, error) {
	return nil, nil
}
func (m *mockBookingService) CreateReservation(ctx context.Context, roomID, guestID uint, dateRange models.DateRange, guestsCount int) (*models.Reservation, error) {
	return nil, nil
}
func (m *mockBookingService) CancelReservation(ctx context.Context, id uuid.UUID, byGuest bool) (*models.Reservation, error) {
	return nil, nil
}
func (m *mockBookingService) ConfirmReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	return nil, nil
}
func (m *mockBookingService) GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	return nil, nil
}
func (m *mockBookingService) CheckAvailability(ctx context.Context, roomID uint, dateRange models.DateRange) ([]uuid.UUID, error) {
	return nil, nil
}
func (m *mockBookingService) ListGuestReservations(ctx context.Context, guestID uint) ([]models.Reservation, error) {
	return nil, nil
}
func (m *mockBookingService) ListReservations(ctx context.Context, offset, limit int, search string) ([]models.Reservation, int64, error) {
	return nil, 0, nil
}

// --- Tests ---

func TestSweep_CompletesDueReservations(t *testing.T) {
	due := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	var gotBefore time.Time

	repo := &mockReservationRepo{
		dueFn: func(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
			gotBefore = before
			return due, nil
		},
	}
	svc := &mockBookingService{}

	w := NewCompletionWorker(repo, svc, time.Hour)
	w.now = func() time.Time { return time.Date(2024, 6, 15, 13, 30, 0, 0, time.UTC) }

	w.Sweep(context.Background())

	assert.Equal(t, due, svc.completed)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), gotBefore,
		"sweep cutoff must be the UTC calendar date, not the wall-clock instant")
}

func TestSweep_ContinuesPastFailures(t *testing.T) {
	failing := uuid.New()
	ok := uuid.New()

	repo := &mockReservationRepo{
		dueFn: func(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
			return []uuid.UUID{failing, ok}, nil
		},
	}
	svc := &mockBookingService{failOn: map[uuid.UUID]error{failing: errors.New("db down")}}

	w := NewCompletionWorker(repo, svc, time.Hour)
	w.Sweep(context.Background())

	assert.Equal(t, []uuid.UUID{ok}, svc.completed)
}

func TestSweep_ListFailureIsNonFatal(t *testing.T) {
	repo := &mockReservationRepo{
		dueFn: func(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := &mockBookingService{}

	w := NewCompletionWorker(repo, svc, time.Hour)
	w.Sweep(context.Background())

	assert.Empty(t, svc.completed)
}
