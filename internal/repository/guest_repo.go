package repository

import (
	"context"

	"github.com/stayware/booking-service/internal/models"
	"gorm.io/gorm"
)

type GuestRepository interface {
	Create(ctx context.Context, guest *models.Guest) error
	FindByID(ctx context.Context, id uint) (*models.Guest, error)
	FindByEmail(ctx context.Context, email string) (*models.Guest, error)
	List(ctx context.Context, offset, limit int, search string) ([]models.Guest, int64, error)
	Update(ctx context.Context, guest *models.Guest) error
	Delete(ctx context.Context, id uint) error
}

type guestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) GuestRepository {
	return &guestRepository{db: db}
}

func (r *guestRepository) Create(ctx context.Context, guest *models.Guest) error {
	return r.db.WithContext(ctx).Create(guest).Error
}

func (r *guestRepository) FindByID(ctx context.Context, id uint) (*models.Guest, error) {
	var guest models.Guest
	if err := r.db.WithContext(ctx).First(&guest, id).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepository) FindByEmail(ctx context.Context, email string) (*models.Guest, error) {
	var guest models.Guest
	if err := r.db.WithContext(ctx).First(&guest, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepository) List(ctx context.Context, offset, limit int, search string) ([]models.Guest, int64, error) {
	var guests []models.Guest
	var count int64

	q := r.db.WithContext(ctx).Model(&models.Guest{})
	if search != "" {
		q = q.Where("fullname ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if err := q.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&guests).Error
	if err != nil {
		return nil, 0, err
	}
	return guests, count, nil
}

func (r *guestRepository) Update(ctx context.Context, guest *models.Guest) error {
	return r.db.WithContext(ctx).Save(guest).Error
}

func (r *guestRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Guest{}, id).Error
}
