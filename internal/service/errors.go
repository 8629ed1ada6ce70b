package service

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrCapacityExceeded    = errors.New("guest count exceeds room capacity")
	ErrRoomUnavailable     = errors.New("room is not available for the requested dates")
	ErrAlreadyTerminal     = errors.New("reservation is already cancelled or completed")
	ErrRoomNotFound        = errors.New("room not found")
	ErrGuestNotFound       = errors.New("guest not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrRoomHasReservations = errors.New("room still has active reservations")
)
