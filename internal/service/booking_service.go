package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/stayware/booking-service/internal/models"
	"github.com/stayware/booking-service/internal/pricing"
	"github.com/stayware/booking-service/internal/repository"
	"github.com/stayware/booking-service/pkg/rabbitmq"
	"gorm.io/gorm"
)

// EventPublisher emits reservation lifecycle events. *rabbitmq.Publisher
// satisfies it; a nil publisher disables events.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type BookingService interface {
	SaveGuest(ctx context.Context, guest *models.Guest) (*models.Guest, error)
	CreateReservation(ctx context.Context, roomID, guestID uint, dateRange models.DateRange, guestsCount int) (*models.Reservation, error)
	CancelReservation(ctx context.Context, id uuid.UUID, byGuest bool) (*models.Reservation, error)
	ConfirmReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	CheckAvailability(ctx context.Context, roomID uint, dateRange models.DateRange) ([]uuid.UUID, error)
	ListGuestReservations(ctx context.Context, guestID uint) ([]models.Reservation, error)
	ListReservations(ctx context.Context, offset, limit int, search string) ([]models.Reservation, int64, error)
}

type bookingService struct {
	rooms        repository.RoomRepository
	guests       repository.GuestRepository
	reservations repository.ReservationRepository
	index        repository.AvailabilityIndex
	publisher    EventPublisher
}

func NewBookingService(
	rooms repository.RoomRepository,
	guests repository.GuestRepository,
	reservations repository.ReservationRepository,
	index repository.AvailabilityIndex,
	publisher EventPublisher,
) BookingService {
	return &bookingService{
		rooms:        rooms,
		guests:       guests,
		reservations: reservations,
		index:        index,
		publisher:    publisher,
	}
}

// SaveGuest upserts guest contact details keyed by email: an existing guest
// record is refreshed with the submitted details, a new one is created
// otherwise. The booking flow runs it before CreateReservation so visitors
// book without accounts and returning guests keep a single record.
func (s *bookingService) SaveGuest(ctx context.Context, guest *models.Guest) (*models.Guest, error) {
	if guest.Fullname == "" || guest.Email == "" {
		return nil, fmt.Errorf("%w: fullname and email are required", ErrInvalidInput)
	}

	existing, err := s.guests.FindByEmail(ctx, guest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.guests.Create(ctx, guest); err != nil {
				return nil, err
			}
			return guest, nil
		}
		return nil, err
	}

	existing.Fullname = guest.Fullname
	existing.Phone = guest.Phone
	existing.Nationality = guest.Nationality
	existing.CountryFlag = guest.CountryFlag
	if err := s.guests.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// CreateReservation books a room for the given range. The conflict check,
// index registration and reservation insert share one transaction with a
// row lock on the room, so concurrent attempts on the same room serialize
// and at most one wins for overlapping ranges.
func (s *bookingService) CreateReservation(ctx context.Context, roomID, guestID uint, dateRange models.DateRange, guestsCount int) (*models.Reservation, error) {
	if dateRange.Nights() < 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, models.ErrInvalidDateRange)
	}
	if guestsCount < 1 {
		return nil, fmt.Errorf("%w: guests_count must be positive", ErrInvalidInput)
	}

	var result *models.Reservation

	err := s.reservations.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the room row — serializes concurrent bookings per room
		room, err := s.rooms.FindByIDForUpdate(ctx, tx, roomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		// 2. Owner-controlled status blocks bookings regardless of calendar
		if room.Status != models.RoomAvailable {
			return ErrRoomUnavailable
		}

		if guestsCount > room.Capacity {
			return ErrCapacityExceeded
		}

		if _, err := s.guests.FindByID(ctx, guestID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGuestNotFound
			}
			return err
		}

		// 3. Price from the room snapshot taken under the lock; later room
		// edits never touch the reserved price.
		total, err := pricing.ComputeTotal(room.Price, room.Discount, dateRange.Nights())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		reservation := &models.Reservation{
			ID:            uuid.New(),
			RoomID:        roomID,
			GuestID:       guestID,
			CheckIn:       dateRange.CheckIn,
			CheckOut:      dateRange.CheckOut,
			GuestsCount:   guestsCount,
			ReservedPrice: total,
			Status:        models.StatusPending,
		}

		// 4. Check-and-register against the availability index
		if err := s.index.Register(ctx, tx, roomID, dateRange, reservation.ID); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrRoomUnavailable
			}
			return err
		}

		if err := s.reservations.Create(ctx, tx, reservation); err != nil {
			return err
		}

		result = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(rabbitmq.KeyReservationCreated, result)
	return result, nil
}

// CancelReservation applies the cancelled transition and releases the
// room's date range. Guest-initiated cancellations hard-delete the record;
// admin-initiated ones keep it with a cancelled_at marker for audit.
func (s *bookingService) CancelReservation(ctx context.Context, id uuid.UUID, byGuest bool) (*models.Reservation, error) {
	var result *models.Reservation

	err := s.reservations.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := s.reservations.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		if reservation.Status.IsTerminal() {
			return ErrAlreadyTerminal
		}

		if err := s.index.Release(ctx, tx, id); err != nil {
			return err
		}

		now := time.Now().UTC()
		if byGuest {
			if err := s.reservations.Delete(ctx, tx, id); err != nil {
				return err
			}
		} else {
			if err := s.reservations.UpdateStatus(ctx, tx, id, models.StatusCancelled, &now); err != nil {
				return err
			}
			reservation.CancelledAt = &now
		}

		reservation.Status = models.StatusCancelled
		result = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(rabbitmq.KeyReservationCancelled, result)
	return result, nil
}

func (s *bookingService) ConfirmReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	result, err := s.transition(ctx, id, models.StatusConfirmed, nil)
	if err != nil {
		return nil, err
	}
	s.publish(rabbitmq.KeyReservationConfirmed, result)
	return result, nil
}

// MarkCompleted flips a confirmed reservation to completed once its
// check-out date has passed. The index entry stays: a completed stay still
// occupies its (past) date range.
func (s *bookingService) MarkCompleted(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	today := models.ToDay(time.Now())
	result, err := s.transition(ctx, id, models.StatusCompleted, func(r *models.Reservation) error {
		if r.CheckOut.After(today) {
			return fmt.Errorf("%w: reservation not due for completion until %s",
				ErrInvalidInput, r.CheckOut.Format(models.DateLayout))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(rabbitmq.KeyReservationCompleted, result)
	return result, nil
}

// transition applies a guarded status change inside a transaction.
func (s *bookingService) transition(ctx context.Context, id uuid.UUID, target models.ReservationStatus, guard func(*models.Reservation) error) (*models.Reservation, error) {
	var result *models.Reservation

	err := s.reservations.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := s.reservations.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		if !reservation.Status.CanTransitionTo(target) {
			return &models.InvalidTransitionError{From: reservation.Status, To: target}
		}
		if guard != nil {
			if err := guard(reservation); err != nil {
				return err
			}
		}

		if err := s.reservations.UpdateStatus(ctx, tx, id, target, nil); err != nil {
			return err
		}

		reservation.Status = target
		result = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *bookingService) GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return reservation, nil
}

// CheckAvailability returns the conflicting reservation IDs for a room and
// range. An empty result means the range is free; that is not an error.
func (s *bookingService) CheckAvailability(ctx context.Context, roomID uint, dateRange models.DateRange) ([]uuid.UUID, error) {
	if dateRange.Nights() < 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, models.ErrInvalidDateRange)
	}
	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.index.FindConflicts(ctx, nil, roomID, dateRange)
}

func (s *bookingService) ListGuestReservations(ctx context.Context, guestID uint) ([]models.Reservation, error) {
	return s.reservations.FindByGuestID(ctx, guestID)
}

func (s *bookingService) ListReservations(ctx context.Context, offset, limit int, search string) ([]models.Reservation, int64, error) {
	return s.reservations.ListAdmin(ctx, offset, limit, search)
}

// publish sends a lifecycle event; a nil publisher (tests) skips RabbitMQ.
// Publish failures are logged and never fail the reservation operation.
func (s *bookingService) publish(key string, reservation *models.Reservation) {
	if s.publisher == nil || reservation == nil {
		return
	}
	if err := s.publisher.Publish(key, reservation); err != nil {
		log.Printf("[BookingService] publish %s failed: %v", key, err)
	}
}
