package repository

import (
	"context"
	"strings"
	"time"

	"novastay/internal/domain"

	"gorm.io/gorm"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) Create(ctx context.Context, s *domain.Staff) error {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	return translate(conn(ctx, r.db).Create(s).Error)
}

func (r *StaffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	var s domain.Staff
	err := conn(ctx, r.db).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *StaffRepository) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	var s domain.Staff
	if err := conn(ctx, r.db).First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// UpdateLoginState records failed attempts and the lockout deadline.
func (r *StaffRepository) UpdateLoginState(ctx context.Context, id int64, failedAttempts int, lockedUntil *time.Time) error {
	return conn(ctx, r.db).Model(&domain.Staff{}).Where("id = ?", id).Updates(map[string]any{
		"failed_login_attempts": failedAttempts,
		"locked_until":          lockedUntil,
	}).Error
}
