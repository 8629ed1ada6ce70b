package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/stayware/booking-service/internal/models"
)

type ReservationResponse struct {
	ID            uuid.UUID                `json:"id"`
	RoomID        uint                     `json:"room_id"`
	GuestID       uint                     `json:"guest_id"`
	CheckIn       string                   `json:"check_in"`
	CheckOut      string                   `json:"check_out"`
	Nights        int                      `json:"nights"`
	GuestsCount   int                      `json:"guests_count"`
	ReservedPrice float64                  `json:"reserved_price"`
	Status        models.ReservationStatus `json:"status"`
	CreatedAt     time.Time                `json:"created_at"`
	CancelledAt   *time.Time               `json:"cancelled_at,omitempty"`

	RoomName      string `json:"room_name,omitempty"`
	GuestFullname string `json:"guest_fullname,omitempty"`
}

type AvailabilityResponse struct {
	RoomID    uint        `json:"room_id"`
	CheckIn   string      `json:"check_in"`
	CheckOut  string      `json:"check_out"`
	Available bool        `json:"available"`
	Conflicts []uuid.UUID `json:"conflicts"`
}

type ListResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToReservationResponse(r *models.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:            r.ID,
		RoomID:        r.RoomID,
		GuestID:       r.GuestID,
		CheckIn:       r.CheckIn.Format(models.DateLayout),
		CheckOut:      r.CheckOut.Format(models.DateLayout),
		Nights:        r.Range().Nights(),
		GuestsCount:   r.GuestsCount,
		ReservedPrice: r.ReservedPrice,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		CancelledAt:   r.CancelledAt,
	}
	if r.Room != nil {
		resp.RoomName = r.Room.Name
	}
	if r.Guest != nil {
		resp.GuestFullname = r.Guest.Fullname
	}
	return resp
}
