package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// IsTerminal reports whether no further transitions are allowed.
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransitionTo encodes the reservation state machine:
// pending -> confirmed | cancelled, confirmed -> cancelled | completed.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusCancelled || target == StatusCompleted
	default:
		return false
	}
}

type InvalidTransitionError struct {
	From ReservationStatus
	To   ReservationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid reservation transition from %q to %q", e.From, e.To)
}

var ErrInvalidDateRange = errors.New("check-in must be before check-out")

// DateRange is a half-open [CheckIn, CheckOut) span of calendar dates.
// Both bounds are UTC midnight; a checkout on day N does not conflict
// with a check-in on day N.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func NewDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	r := DateRange{CheckIn: ToDay(checkIn), CheckOut: ToDay(checkOut)}
	if !r.CheckIn.Before(r.CheckOut) {
		return DateRange{}, ErrInvalidDateRange
	}
	return r, nil
}

func (r DateRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn) / (24 * time.Hour))
}

// Overlaps uses half-open interval semantics: [a1,a2) and [b1,b2)
// overlap iff a1 < b2 && b1 < a2.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.CheckIn.Before(o.CheckOut) && o.CheckIn.Before(r.CheckOut)
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.CheckIn.Format(DateLayout), r.CheckOut.Format(DateLayout))
}

const DateLayout = "2006-01-02"

// ToDay truncates a timestamp to its UTC calendar date.
func ToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type Reservation struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID        uint              `gorm:"not null;index" json:"room_id"`
	GuestID       uint              `gorm:"not null;index" json:"guest_id"`
	CheckIn       time.Time         `gorm:"type:date;not null" json:"check_in"`
	CheckOut      time.Time         `gorm:"type:date;not null" json:"check_out"`
	GuestsCount   int               `gorm:"not null" json:"guests_count"`
	ReservedPrice float64           `gorm:"type:numeric(12,2);not null" json:"reserved_price"`
	Status        ReservationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	CancelledAt   *time.Time        `json:"cancelled_at,omitempty"`

	Room  *Room  `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Guest *Guest `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *Reservation) Range() DateRange {
	return DateRange{CheckIn: r.CheckIn, CheckOut: r.CheckOut}
}

// AvailabilityEntry is one row of the materialized availability index:
// one entry per non-cancelled reservation. Overlap exclusion is enforced
// at the storage layer (see pkg/database).
type AvailabilityEntry struct {
	ReservationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"reservation_id"`
	RoomID        uint      `gorm:"not null;index" json:"room_id"`
	CheckIn       time.Time `gorm:"type:date;not null" json:"check_in"`
	CheckOut      time.Time `gorm:"type:date;not null" json:"check_out"`
	CreatedAt     time.Time `json:"created_at"`
}

func (AvailabilityEntry) TableName() string {
	return "room_availability"
}

func (e *AvailabilityEntry) Range() DateRange {
	return DateRange{CheckIn: e.CheckIn, CheckOut: e.CheckOut}
}
