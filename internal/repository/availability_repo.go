package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stayware/booking-service/internal/models"
	"gorm.io/gorm"
)

// ErrConflict means the requested range overlaps an existing entry for
// the same room.
var ErrConflict = errors.New("date range conflicts with an existing reservation")

// pgExclusionViolation is the Postgres code raised by the no-overlap
// exclusion constraint on room_availability.
const pgExclusionViolation = "23P01"

// AvailabilityIndex is the authoritative record of occupied
// (room, date-range) pairs: one entry per non-cancelled reservation.
type AvailabilityIndex interface {
	FindConflicts(ctx context.Context, tx *gorm.DB, roomID uint, r models.DateRange) ([]uuid.UUID, error)
	Register(ctx context.Context, tx *gorm.DB, roomID uint, r models.DateRange, reservationID uuid.UUID) error
	Release(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID) error
}

type availabilityIndex struct {
	db *gorm.DB
}

func NewAvailabilityIndex(db *gorm.DB) AvailabilityIndex {
	return &availabilityIndex{db: db}
}

// FindConflicts returns the reservation IDs whose half-open ranges overlap
// the query range. tx may be nil for plain reads outside a transaction.
func (a *availabilityIndex) FindConflicts(ctx context.Context, tx *gorm.DB, roomID uint, r models.DateRange) ([]uuid.UUID, error) {
	if tx == nil {
		tx = a.db
	}
	var ids []uuid.UUID
	err := tx.WithContext(ctx).
		Model(&models.AvailabilityEntry{}).
		Where("room_id = ? AND check_in < ? AND check_out > ?", roomID, r.CheckOut, r.CheckIn).
		Order("check_in ASC").
		Pluck("reservation_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Register inserts an entry for the reservation, failing with ErrConflict
// when the range is already taken. The caller is expected to hold the room
// row lock; the storage-level exclusion constraint closes any remaining
// race, so a constraint violation maps to ErrConflict as well.
func (a *availabilityIndex) Register(ctx context.Context, tx *gorm.DB, roomID uint, r models.DateRange, reservationID uuid.UUID) error {
	conflicts, err := a.FindConflicts(ctx, tx, roomID, r)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return ErrConflict
	}

	entry := &models.AvailabilityEntry{
		ReservationID: reservationID,
		RoomID:        roomID,
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
			return ErrConflict
		}
		return err
	}
	return nil
}

// Release removes the entry for a reservation. Idempotent: releasing an
// absent entry is a no-op.
func (a *availabilityIndex) Release(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID) error {
	if tx == nil {
		tx = a.db
	}
	return tx.WithContext(ctx).
		Delete(&models.AvailabilityEntry{}, "reservation_id = ?", reservationID).Error
}
