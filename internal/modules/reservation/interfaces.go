package reservation

import (
	"context"
	"time"

	"novastay/internal/domain"
	"novastay/internal/repository"
)

// ReservationRepository defines the storage operations the reservation service uses
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error
	Delete(ctx context.Context, id int64) error
	BlockingForRoom(ctx context.Context, roomID, excludeID int64, from, to time.Time) ([]domain.Reservation, error)
	ListStale(ctx context.Context, day time.Time) ([]domain.Reservation, error)
	Deactivate(ctx context.Context, ids []int64, now time.Time) (int64, error)
	List(ctx context.Context, f repository.ReservationFilter) ([]domain.Reservation, error)
}

type GuestReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Guest, error)
}

// RoomReader loads rooms. GetForUpdate holds the row until the transaction ends
// so two bookings of one room cannot pass the conflict check together.
type RoomReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Room, error)
}

type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher fans reservation events out to connected front-desk clients.
type Publisher interface {
	PublishReservation(eventType string, r *domain.Reservation)
}
