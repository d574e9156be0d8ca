package domain

import (
	"strings"
	"time"

	"novastay/internal/pkg/textfix"
	"novastay/internal/pkg/validator"
)

const (
	GuestMinAge = 18
	GuestMaxAge = 120
)

// Nationality is an ISO 3166-1 alpha-2 country code.
type Nationality string

type Guest struct {
	ID             int64       `json:"id" gorm:"primaryKey"`
	FirstName      string      `json:"first_name" gorm:"size:100;not null" validate:"required,max=100"`
	MiddleName     string      `json:"middle_name" gorm:"size:100;not null" validate:"required,max=100"`
	LastName       string      `json:"last_name" gorm:"size:100;not null" validate:"required,max=100"`
	IsMale         bool        `json:"is_male"`
	Nationality    Nationality `json:"nationality" gorm:"size:2;not null" validate:"required,iso3166_1_alpha2"`
	DateOfBirth    time.Time   `json:"date_of_birth" gorm:"type:date;not null"`
	PhoneNumber    string      `json:"phone_number" gorm:"size:32;not null;index" validate:"required,max=32"`
	EmailAddress   *string     `json:"email_address,omitempty" gorm:"size:255" validate:"omitempty,email"`
	PassportNumber *string     `json:"passport_number,omitempty" gorm:"size:64" validate:"omitempty,max=64"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (g *Guest) FullName() string {
	return strings.Join([]string{g.FirstName, g.MiddleName, g.LastName}, " ")
}

// Fixup normalizes the free-text fields in place.
func (g *Guest) Fixup() {
	g.FirstName = textfix.Clean(g.FirstName)
	g.MiddleName = textfix.Clean(g.MiddleName)
	g.LastName = textfix.Clean(g.LastName)
	g.Nationality = Nationality(strings.ToUpper(textfix.Clean(string(g.Nationality))))
	g.PhoneNumber = textfix.Clean(g.PhoneNumber)
	g.EmailAddress = textfix.CleanPtr(g.EmailAddress)
	g.PassportNumber = textfix.CleanPtr(g.PassportNumber)
	if !g.DateOfBirth.IsZero() {
		g.DateOfBirth = DateOf(g.DateOfBirth)
	}
}

// Validate checks the guest as of today.
func (g *Guest) Validate(today time.Time) error {
	errs := validator.Struct(g)

	if g.DateOfBirth.IsZero() {
		errs.Add("date_of_birth", "is required")
	} else if age := AgeOn(g.DateOfBirth, today); age < GuestMinAge || age > GuestMaxAge {
		errs.Addf("date_of_birth", "age must be between %d and %d", GuestMinAge, GuestMaxAge)
	}

	return errs.Err()
}

// SameDetails reports whether the user-editable fields of g and o match.
func (g *Guest) SameDetails(o *Guest) bool {
	return g.FirstName == o.FirstName &&
		g.MiddleName == o.MiddleName &&
		g.LastName == o.LastName &&
		g.IsMale == o.IsMale &&
		g.Nationality == o.Nationality &&
		g.DateOfBirth.Equal(o.DateOfBirth) &&
		g.PhoneNumber == o.PhoneNumber &&
		equalStrPtr(g.EmailAddress, o.EmailAddress) &&
		equalStrPtr(g.PassportNumber, o.PassportNumber)
}

type GuestReference struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

func (g *Guest) Reference() GuestReference {
	return GuestReference{ID: g.ID, Name: g.FullName(), PhoneNumber: g.PhoneNumber}
}

func equalStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func equalFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
