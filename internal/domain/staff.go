package domain

import "time"

type StaffRole string

const (
	RoleAdmin     StaffRole = "admin"
	RoleFrontDesk StaffRole = "front_desk"
)

func (r StaffRole) Valid() bool {
	return r == RoleAdmin || r == RoleFrontDesk
}

type Staff struct {
	ID                  int64      `json:"id" gorm:"primaryKey"`
	Email               string     `json:"email" gorm:"size:255;not null;uniqueIndex" validate:"required,email"`
	PasswordHash        string     `json:"-" gorm:"not null"`
	Name                string     `json:"name" gorm:"size:200;not null" validate:"required,max=200"`
	Role                StaffRole  `json:"role" gorm:"size:20;not null" validate:"required,oneof=admin front_desk"`
	FailedLoginAttempts int        `json:"-" gorm:"not null;default:0"`
	LockedUntil         *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (Staff) TableName() string { return "staff" }
