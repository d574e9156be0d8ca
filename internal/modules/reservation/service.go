package reservation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"novastay/internal/domain"
	"novastay/internal/modules/notification"
	"novastay/internal/pkg/validator"
	"novastay/internal/repository"

	"github.com/google/uuid"
)

type Service struct {
	reservations ReservationRepository
	guests       GuestReader
	rooms        RoomReader
	tx           Transactor
	notifier     notification.Notifier
	events       Publisher
	now          func() time.Time
}

func NewService(
	reservations ReservationRepository,
	guests GuestReader,
	rooms RoomReader,
	tx Transactor,
	notifier notification.Notifier,
	events Publisher,
) *Service {
	if notifier == nil {
		notifier = notification.Noop{}
	}
	if events == nil {
		events = noopPublisher{}
	}
	return &Service{
		reservations: reservations,
		guests:       guests,
		rooms:        rooms,
		tx:           tx,
		notifier:     notifier,
		events:       events,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

type noopPublisher struct{}

func (noopPublisher) PublishReservation(string, *domain.Reservation) {}

func (s *Service) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *Service) ListReservations(ctx context.Context, f repository.ReservationFilter) ([]domain.Reservation, error) {
	return s.reservations.List(ctx, f)
}

// Quote prices a stay in roomID without saving anything.
func (s *Service) Quote(ctx context.Context, roomID int64, checkIn, checkOut time.Time, discount *float64) (*Quote, error) {
	checkIn, checkOut = domain.DateOf(checkIn), domain.DateOf(checkOut)

	var errs validator.Errors
	if discount != nil && (*discount < 0 || *discount > 100) {
		errs.Add("discount_rate", "must be between 0 and 100")
	}
	if err := domain.ValidateBookingWindow(checkIn, checkOut, s.now()); err != nil {
		var fe validator.Errors
		if errors.As(err, &fe) {
			errs = append(errs, fe...)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	return &Quote{
		Room:     room.Reference(),
		CheckIn:  checkIn.Format(domain.DateLayout),
		CheckOut: checkOut.Format(domain.DateLayout),
		Amounts:  domain.CalculateAmounts(room.PricePerNightUSD, checkIn, checkOut, discount),
	}, nil
}

// CreateReservation books a room. Amounts are always computed here; the
// guest is told and front-desk clients are notified after commit.
func (s *Service) CreateReservation(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	r.ID = 0
	r.Guest, r.Room = nil, nil
	r.Fixup()
	if err := r.Validate(s.now()); err != nil {
		return nil, err
	}
	if err := domain.ValidateBookingWindow(r.CheckInBookingDate, r.CheckOutBookingDate, s.now()); err != nil {
		return nil, err
	}

	var out *domain.Reservation
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.ensureGuest(ctx, r.GuestID); err != nil {
			return err
		}
		room, err := s.lockRoom(ctx, r.RoomID)
		if err != nil {
			return err
		}
		if room.Status != domain.RoomAvailable {
			return ErrRoomUnavailable
		}
		if err := s.ensureNoConflicts(ctx, r); err != nil {
			return err
		}

		r.ApplyAmounts(domain.CalculateAmounts(room.PricePerNightUSD, r.CheckInBookingDate, r.CheckOutBookingDate, r.DiscountRate))
		r.ConfirmationCode = newConfirmationCode()
		if err := s.reservations.Create(ctx, r); err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}

		out, err = s.reservations.GetByID(ctx, r.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("reservation_created id=%d code=%s room_id=%d guest_id=%d", out.ID, out.ConfirmationCode, out.RoomID, out.GuestID)
	s.notifier.Notify(ctx, notification.KindConfirmed, out)
	s.events.PublishReservation(domain.EventReservationCreated, out)
	return out, nil
}

// UpdateReservation replaces reservation id with r. Nothing is written when
// the details did not change.
func (s *Service) UpdateReservation(ctx context.Context, id int64, r *domain.Reservation) (*domain.Reservation, error) {
	return s.update(ctx, id, r, nil)
}

// update runs check against the locked current row before anything else, so
// rules that depend on the stored state hold under concurrent requests.
func (s *Service) update(ctx context.Context, id int64, r *domain.Reservation, check func(existing *domain.Reservation) error) (*domain.Reservation, error) {
	r.Guest, r.Room = nil, nil
	r.Fixup()
	if err := r.Validate(s.now()); err != nil {
		return nil, err
	}

	var (
		out     *domain.Reservation
		before  domain.ReservationStatus
		changed bool
	)
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		existing, err := s.lockReservation(ctx, id)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(existing); err != nil {
				return err
			}
		}
		before = existing.Status

		if !domain.CanTransition(existing.Status, r.Status) {
			return fmt.Errorf("%w from %s to %s", ErrInvalidStatusTransition, existing.Status, r.Status)
		}
		if !existing.IsActive && r.IsActive && existing.Status.Terminal() {
			return ErrReactivation
		}

		roomChanged := r.RoomID != existing.RoomID
		datesChanged := !r.CheckInBookingDate.Equal(existing.CheckInBookingDate) ||
			!r.CheckOutBookingDate.Equal(existing.CheckOutBookingDate)

		if r.GuestID != existing.GuestID {
			if err := s.ensureGuest(ctx, r.GuestID); err != nil {
				return err
			}
		}
		room, err := s.lockRoom(ctx, r.RoomID)
		if err != nil {
			return err
		}
		if roomChanged || datesChanged {
			if room.Status != domain.RoomAvailable {
				return ErrRoomUnavailable
			}
			if err := domain.ValidateBookingWindow(r.CheckInBookingDate, r.CheckOutBookingDate, s.now()); err != nil {
				return err
			}
		}

		r.ID = existing.ID
		if err := s.ensureNoConflicts(ctx, r); err != nil {
			return err
		}

		if roomChanged || datesChanged || !sameRate(r.DiscountRate, existing.DiscountRate) {
			r.ApplyAmounts(domain.CalculateAmounts(room.PricePerNightUSD, r.CheckInBookingDate, r.CheckOutBookingDate, r.DiscountRate))
		} else {
			r.BaseAmountUSD = existing.BaseAmountUSD
			r.FinalAmountUSD = existing.FinalAmountUSD
		}

		if existing.SameDetails(r) {
			out, err = s.reservations.GetByID(ctx, id)
			return err
		}

		r.ConfirmationCode = existing.ConfirmationCode
		r.CreatedAt = existing.CreatedAt
		if err := s.reservations.Update(ctx, r); err != nil {
			return fmt.Errorf("update reservation: %w", err)
		}
		changed = true

		out, err = s.reservations.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		event := domain.EventReservationUpdated
		if out.Status != before {
			event = domain.EventForStatus(out.Status)
		}
		if out.Status == domain.ReservationCanceled && before != domain.ReservationCanceled {
			s.notifier.Notify(ctx, notification.KindCanceled, out)
		}
		s.events.PublishReservation(event, out)
	}
	return out, nil
}

func (s *Service) CheckIn(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.transition(ctx, id, domain.ReservationCheckedIn, func(r *domain.Reservation, now time.Time) {
		r.CheckedInAt = &now
	})
}

func (s *Service) CheckOut(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.transition(ctx, id, domain.ReservationCheckedOut, func(r *domain.Reservation, now time.Time) {
		r.CheckedOutAt = &now
	})
}

func (s *Service) Cancel(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.transition(ctx, id, domain.ReservationCanceled, func(r *domain.Reservation, now time.Time) {
		r.CanceledAt = &now
	})
}

// transition moves reservation id to status, stamping the time with set,
// and runs the regular update path.
func (s *Service) transition(ctx context.Context, id int64, status domain.ReservationStatus, set func(r *domain.Reservation, now time.Time)) (*domain.Reservation, error) {
	existing, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(existing, status); err != nil {
		return nil, err
	}

	next := *existing
	next.Status = status
	set(&next, s.now())
	return s.update(ctx, id, &next, func(cur *domain.Reservation) error {
		return checkTransition(cur, status)
	})
}

// checkTransition refuses a same-status move and any move the state machine forbids.
func checkTransition(r *domain.Reservation, status domain.ReservationStatus) error {
	if r.Status == status || !domain.CanTransition(r.Status, status) {
		return fmt.Errorf("%w from %s to %s", ErrInvalidStatusTransition, r.Status, status)
	}
	return nil
}

// MarkPaid records that the reservation was paid with method.
func (s *Service) MarkPaid(ctx context.Context, id int64, method domain.PaymentMethod) (*domain.Reservation, error) {
	existing, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.IsPaid {
		return nil, ErrAlreadyPaid
	}

	next := *existing
	next.IsPaid = true
	next.PaymentMethod = method
	return s.update(ctx, id, &next, func(cur *domain.Reservation) error {
		if cur.IsPaid {
			return ErrAlreadyPaid
		}
		return nil
	})
}

// DeleteReservation refuses while the guest is checked in.
func (s *Service) DeleteReservation(ctx context.Context, id int64) error {
	var deleted *domain.Reservation
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		existing, err := s.GetReservation(ctx, id)
		if err != nil {
			return err
		}
		if existing.IsGuestInHouse() {
			return ErrGuestCheckedIn
		}
		if err := s.reservations.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("delete reservation: %w", err)
		}
		deleted = existing
		return nil
	})
	if err != nil {
		return err
	}

	s.events.PublishReservation(domain.EventReservationDeleted, deleted)
	return nil
}

// ExpireStale deactivates reservations that were never checked in and whose
// check-out date has passed. It returns how many were deactivated.
func (s *Service) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	day := domain.DateOf(now)

	var (
		stale []domain.Reservation
		n     int64
	)
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		stale, err = s.reservations.ListStale(ctx, day)
		if err != nil {
			return err
		}
		if len(stale) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(stale))
		for _, r := range stale {
			ids = append(ids, r.ID)
		}
		n, err = s.reservations.Deactivate(ctx, ids, now.UTC())
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("expire stale reservations: %w", err)
	}

	for i := range stale {
		stale[i].IsActive = false
		s.events.PublishReservation(domain.EventReservationExpired, &stale[i])
	}
	if n > 0 {
		log.Printf("reservations_expired count=%d day=%s", n, day.Format(domain.DateLayout))
	}
	return n, nil
}

func (s *Service) ensureGuest(ctx context.Context, id int64) error {
	if _, err := s.guests.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGuestNotFound
		}
		return err
	}
	return nil
}

func (s *Service) lockReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, err := s.reservations.GetForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *Service) lockRoom(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// ensureNoConflicts checks r against the other reservations holding its room.
// Ranges that only touch are fine unless the neighbour's guest is still in house.
// A reservation that no longer blocks its room cannot conflict.
func (s *Service) ensureNoConflicts(ctx context.Context, r *domain.Reservation) error {
	if !r.Blocks() {
		return nil
	}

	others, err := s.reservations.BlockingForRoom(ctx, r.RoomID, r.ID, r.CheckInBookingDate, r.CheckOutBookingDate)
	if err != nil {
		return err
	}
	for i := range others {
		o := &others[i]
		if !o.Blocks() {
			continue
		}
		if o.Overlaps(r.CheckInBookingDate, r.CheckOutBookingDate) {
			return &ConflictError{Existing: o}
		}
		if o.Touches(r.CheckInBookingDate, r.CheckOutBookingDate) && o.IsGuestInHouse() {
			return &ConflictError{Existing: o, Occupied: true}
		}
	}
	return nil
}

func newConfirmationCode() string {
	return "NS-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func sameRate(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
