package guest

import (
	"context"

	"novastay/internal/domain"
	"novastay/internal/repository"
)

// GuestRepository defines the storage operations the guest service uses
type GuestRepository interface {
	Create(ctx context.Context, g *domain.Guest) error
	GetByID(ctx context.Context, id int64) (*domain.Guest, error)
	Update(ctx context.Context, g *domain.Guest) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f repository.GuestFilter) ([]domain.Guest, error)
}

// ReservationCounter tells whether reservations still point at a guest
type ReservationCounter interface {
	CountByGuest(ctx context.Context, guestID int64) (int64, error)
}

type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
