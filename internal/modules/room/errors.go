package room

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomExists          = errors.New("room number already exists")
	ErrRoomHasReservations = errors.New("room has reservations")
	ErrInvalidRange        = errors.New("invalid date range")
)
