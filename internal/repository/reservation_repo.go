package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stayware/booking-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Reservation, error)
	FindByRoomID(ctx context.Context, roomID uint) ([]models.Reservation, error)
	FindByGuestID(ctx context.Context, guestID uint) ([]models.Reservation, error)
	FindDueForCompletion(ctx context.Context, before time.Time) ([]uuid.UUID, error)
	ListAdmin(ctx context.Context, offset, limit int, search string) ([]models.Reservation, int64, error)
	CountBlockingForRoom(ctx context.Context, roomID uint) (int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.ReservationStatus, cancelledAt *time.Time) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	GetDB() *gorm.DB
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *reservationRepository) Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error {
	return tx.WithContext(ctx).Create(reservation).Error
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Guest").
		First(&reservation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&reservation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) FindByRoomID(ctx context.Context, roomID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("check_in ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindByGuestID is the guest-facing history: reservations the admin has
// soft-deleted are hidden.
func (r *reservationRepository) FindByGuestID(ctx context.Context, guestID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("guest_id = ? AND cancelled_at IS NULL", guestID).
		Order("check_in DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) FindDueForCompletion(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("status = ? AND check_out <= ?", models.StatusConfirmed, before).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *reservationRepository) ListAdmin(ctx context.Context, offset, limit int, search string) ([]models.Reservation, int64, error) {
	var reservations []models.Reservation
	var count int64

	q := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("cancelled_at IS NULL")
	if search != "" {
		q = q.Joins("JOIN guests ON guests.id = reservations.guest_id").
			Where("guests.fullname ILIKE ?", "%"+search+"%")
	}
	if err := q.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Room").Preload("Guest").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, 0, err
	}
	return reservations, count, nil
}

// CountBlockingForRoom counts reservations that should block room deletion:
// anything not yet cancelled or completed.
func (r *reservationRepository) CountBlockingForRoom(ctx context.Context, roomID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("room_id = ? AND status NOT IN ?", roomID,
			[]models.ReservationStatus{models.StatusCancelled, models.StatusCompleted}).
		Count(&count).Error
	return count, err
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.ReservationStatus, cancelledAt *time.Time) error {
	updates := map[string]any{"status": status}
	if cancelledAt != nil {
		updates["cancelled_at"] = cancelledAt
	}
	return tx.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *reservationRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return tx.WithContext(ctx).Delete(&models.Reservation{}, "id = ?", id).Error
}
