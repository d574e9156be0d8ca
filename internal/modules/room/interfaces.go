package room

import (
	"context"
	"time"

	"novastay/internal/domain"
	"novastay/internal/repository"
)

// RoomRepository defines the interface for room operations
type RoomRepository interface {
	Create(ctx context.Context, r *domain.Room) error
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	Update(ctx context.Context, r *domain.Room) error
	Delete(ctx context.Context, id int64) error
	NumberTaken(ctx context.Context, number int, excludeID int64) (bool, error)
	List(ctx context.Context, f repository.RoomFilter) ([]domain.Room, error)
}

// ReservationReader is what the room service needs from reservations
type ReservationReader interface {
	CountByRoom(ctx context.Context, roomID int64) (int64, error)
	BlockingForRoom(ctx context.Context, roomID, excludeID int64, from, to time.Time) ([]domain.Reservation, error)
}

type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
