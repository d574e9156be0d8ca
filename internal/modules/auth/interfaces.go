package auth

import (
	"context"
	"time"

	"novastay/internal/domain"
)

// StaffRepository defines the storage operations the auth service uses
type StaffRepository interface {
	Create(ctx context.Context, s *domain.Staff) error
	GetByEmail(ctx context.Context, email string) (*domain.Staff, error)
	GetByID(ctx context.Context, id int64) (*domain.Staff, error)
	UpdateLoginState(ctx context.Context, id int64, failedAttempts int, lockedUntil *time.Time) error
}

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
	TTL() time.Duration
}
