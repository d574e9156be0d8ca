package domain

const (
	EventReservationCreated    = "reservation.created"
	EventReservationUpdated    = "reservation.updated"
	EventReservationCheckedIn  = "reservation.checked_in"
	EventReservationCheckedOut = "reservation.checked_out"
	EventReservationCanceled   = "reservation.canceled"
	EventReservationDeleted    = "reservation.deleted"
	EventReservationExpired    = "reservation.expired"
)

// EventForStatus picks the event name for a reservation that moved to status.
func EventForStatus(s ReservationStatus) string {
	switch s {
	case ReservationCheckedIn:
		return EventReservationCheckedIn
	case ReservationCheckedOut:
		return EventReservationCheckedOut
	case ReservationCanceled:
		return EventReservationCanceled
	default:
		return EventReservationUpdated
	}
}
