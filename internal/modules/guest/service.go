package guest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"novastay/internal/domain"
	"novastay/internal/repository"
)

type Service struct {
	guests       GuestRepository
	reservations ReservationCounter
	tx           Transactor
	now          func() time.Time
}

func NewService(guests GuestRepository, reservations ReservationCounter, tx Transactor) *Service {
	return &Service{
		guests:       guests,
		reservations: reservations,
		tx:           tx,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) GetGuest(ctx context.Context, id int64) (*domain.Guest, error) {
	g, err := s.guests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return g, nil
}

func (s *Service) ListGuests(ctx context.Context, f repository.GuestFilter) ([]domain.Guest, error) {
	return s.guests.List(ctx, f)
}

func (s *Service) CreateGuest(ctx context.Context, g *domain.Guest) (*domain.Guest, error) {
	g.ID = 0
	g.Fixup()
	if err := g.Validate(s.now()); err != nil {
		return nil, err
	}

	if err := s.guests.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}
	return g, nil
}

// UpdateGuest replaces the editable fields of guest id. Nothing is written
// when the details did not change.
func (s *Service) UpdateGuest(ctx context.Context, id int64, g *domain.Guest) (*domain.Guest, error) {
	g.Fixup()
	if err := g.Validate(s.now()); err != nil {
		return nil, err
	}

	existing, err := s.GetGuest(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.SameDetails(g) {
		return existing, nil
	}

	g.ID = existing.ID
	g.CreatedAt = existing.CreatedAt
	if err := s.guests.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update guest: %w", err)
	}
	return g, nil
}

// DeleteGuest refuses while any reservation, past or future, still references the guest.
func (s *Service) DeleteGuest(ctx context.Context, id int64) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.GetGuest(ctx, id); err != nil {
			return err
		}

		n, err := s.reservations.CountByGuest(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrGuestHasReservations
		}

		if err := s.guests.Delete(ctx, id); err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return ErrGuestNotFound
			case errors.Is(err, repository.ErrInUse):
				return ErrGuestHasReservations
			}
			return fmt.Errorf("delete guest: %w", err)
		}
		return nil
	})
}
