package guest

import "errors"

var (
	ErrGuestNotFound        = errors.New("guest not found")
	ErrGuestHasReservations = errors.New("guest has reservations")
)
