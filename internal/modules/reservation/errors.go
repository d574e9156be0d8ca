package reservation

import (
	"errors"
	"fmt"

	"novastay/internal/domain"
)

var (
	ErrReservationNotFound     = errors.New("reservation not found")
	ErrGuestNotFound           = errors.New("guest not found")
	ErrRoomNotFound            = errors.New("room not found")
	ErrRoomUnavailable         = errors.New("room is not available for booking")
	ErrRoomAlreadyReserved     = errors.New("room is already reserved for these dates")
	ErrRoomOccupied            = errors.New("room is occupied until the guest checks out")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrReactivation            = errors.New("checked-out or canceled reservations cannot be reactivated")
	ErrGuestCheckedIn          = errors.New("guest is currently checked in")
	ErrAlreadyPaid             = errors.New("reservation is already paid")
)

// ConflictError names the reservation that holds the room.
type ConflictError struct {
	Existing *domain.Reservation
	Occupied bool
}

func (e *ConflictError) Error() string {
	if e.Occupied {
		return fmt.Sprintf("%s (reservation %d)", ErrRoomOccupied, e.Existing.ID)
	}
	return fmt.Sprintf("room is already reserved from %s to %s (status: %s)",
		e.Existing.CheckInBookingDate.Format(domain.DateLayout),
		e.Existing.CheckOutBookingDate.Format(domain.DateLayout),
		e.Existing.Status)
}

func (e *ConflictError) Unwrap() error {
	if e.Occupied {
		return ErrRoomOccupied
	}
	return ErrRoomAlreadyReserved
}
