package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"novastay/internal/domain"
	"novastay/internal/pkg/validator"
	"novastay/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
	minPasswordLength      = 8
)

// Service contains the staff authentication logic
type Service struct {
	staff StaffRepository
	jwt   jwtService
	now   func() time.Time
}

type LoginResult struct {
	Staff       *domain.Staff
	AccessToken string
	ExpiresIn   time.Duration
}

func NewService(staff StaffRepository, jwt jwtService) *Service {
	return &Service{
		staff: staff,
		jwt:   jwt,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Login checks the password and issues an access token. After
// maxFailedLoginAttempts wrong passwords the account is locked for lockoutDuration.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	staff, err := s.staff.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if staff.LockedUntil != nil && staff.LockedUntil.After(now) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		failedAttempts := staff.FailedLoginAttempts + 1
		var lockedUntil *time.Time
		if failedAttempts >= maxFailedLoginAttempts {
			until := now.Add(lockoutDuration)
			lockedUntil = &until
		}
		if err := s.staff.UpdateLoginState(ctx, staff.ID, failedAttempts, lockedUntil); err != nil {
			return nil, err
		}
		if lockedUntil != nil {
			log.Printf("staff_locked staff_id=%d until=%s", staff.ID, lockedUntil.Format(time.RFC3339))
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if staff.FailedLoginAttempts > 0 || staff.LockedUntil != nil {
		if err := s.staff.UpdateLoginState(ctx, staff.ID, 0, nil); err != nil {
			return nil, err
		}
		staff.FailedLoginAttempts = 0
		staff.LockedUntil = nil
	}

	token, err := s.jwt.GenerateToken(staff.ID, string(staff.Role))
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &LoginResult{Staff: staff, AccessToken: token, ExpiresIn: s.jwt.TTL()}, nil
}

// CreateStaff adds a staff account. Used by the operator CLI.
func (s *Service) CreateStaff(ctx context.Context, email, name, password string, role domain.StaffRole) (*domain.Staff, error) {
	staff := &domain.Staff{
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  strings.TrimSpace(name),
		Role:  role,
	}

	errs := validator.Struct(staff)
	if len(password) < minPasswordLength {
		errs.Addf("password", "must be at least %d characters", minPasswordLength)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	staff.PasswordHash = string(hash)

	if err := s.staff.Create(ctx, staff); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create staff: %w", err)
	}
	return staff, nil
}

func (s *Service) GetStaff(ctx context.Context, id int64) (*domain.Staff, error) {
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return staff, nil
}
