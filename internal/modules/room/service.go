package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"novastay/internal/domain"
	"novastay/internal/repository"
)

// maxAvailabilityDays bounds a single availability query.
const maxAvailabilityDays = 366

type Service struct {
	rooms        RoomRepository
	reservations ReservationReader
	tx           Transactor
	now          func() time.Time
}

func NewService(rooms RoomRepository, reservations ReservationReader, tx Transactor) *Service {
	return &Service{
		rooms:        rooms,
		reservations: reservations,
		tx:           tx,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	r, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *Service) ListRooms(ctx context.Context, f repository.RoomFilter) ([]domain.Room, error) {
	return s.rooms.List(ctx, f)
}

func (s *Service) CreateRoom(ctx context.Context, r *domain.Room) (*domain.Room, error) {
	r.ID = 0
	r.Fixup()
	if err := r.Validate(s.now()); err != nil {
		return nil, err
	}

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.ensureNumberFree(ctx, r.Number, 0); err != nil {
			return err
		}
		return s.rooms.Create(ctx, r)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrRoomExists
		}
		return nil, err
	}
	return r, nil
}

func (s *Service) UpdateRoom(ctx context.Context, id int64, r *domain.Room) (*domain.Room, error) {
	r.Fixup()
	if err := r.Validate(s.now()); err != nil {
		return nil, err
	}

	var out *domain.Room
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		existing, err := s.GetRoom(ctx, id)
		if err != nil {
			return err
		}
		if existing.SameDetails(r) {
			out = existing
			return nil
		}
		if r.Number != existing.Number {
			if err := s.ensureNumberFree(ctx, r.Number, id); err != nil {
				return err
			}
		}

		r.ID = existing.ID
		r.CreatedAt = existing.CreatedAt
		if err := s.rooms.Update(ctx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrRoomExists
		}
		return nil, err
	}
	return out, nil
}

func (s *Service) DeleteRoom(ctx context.Context, id int64) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.GetRoom(ctx, id); err != nil {
			return err
		}

		n, err := s.reservations.CountByRoom(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrRoomHasReservations
		}

		if err := s.rooms.Delete(ctx, id); err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return ErrRoomNotFound
			case errors.Is(err, repository.ErrInUse):
				return ErrRoomHasReservations
			}
			return fmt.Errorf("delete room: %w", err)
		}
		return nil
	})
}

// GetRoomAvailability lists the booked ranges of the room inside [from, to)
// and the free gaps between them.
func (s *Service) GetRoomAvailability(ctx context.Context, id int64, from, to time.Time) (*Availability, error) {
	from, to = domain.DateOf(from), domain.DateOf(to)
	if !to.After(from) || domain.DaysBetween(from, to) > maxAvailabilityDays {
		return nil, ErrInvalidRange
	}

	r, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	blocking, err := s.reservations.BlockingForRoom(ctx, id, 0, from, to)
	if err != nil {
		return nil, err
	}

	out := &Availability{
		Room: r.Reference(),
		From: from.Format(domain.DateLayout),
		To:   to.Format(domain.DateLayout),
		Busy: []BusyRange{},
		Free: []DateRange{},
	}

	cursor := from
	for i := range blocking {
		b := &blocking[i]
		if !b.Overlaps(from, to) {
			continue
		}
		out.Busy = append(out.Busy, BusyRange{
			ReservationID: b.ID,
			Status:        b.Status,
			From:          b.CheckInBookingDate.Format(domain.DateLayout),
			To:            b.CheckOutBookingDate.Format(domain.DateLayout),
		})
		if b.CheckInBookingDate.After(cursor) {
			out.Free = append(out.Free, DateRange{
				From: cursor.Format(domain.DateLayout),
				To:   b.CheckInBookingDate.Format(domain.DateLayout),
			})
		}
		if b.CheckOutBookingDate.After(cursor) {
			cursor = b.CheckOutBookingDate
		}
	}
	if cursor.Before(to) {
		out.Free = append(out.Free, DateRange{
			From: cursor.Format(domain.DateLayout),
			To:   to.Format(domain.DateLayout),
		})
	}

	return out, nil
}

func (s *Service) ensureNumberFree(ctx context.Context, number int, excludeID int64) error {
	taken, err := s.rooms.NumberTaken(ctx, number, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrRoomExists
	}
	return nil
}
