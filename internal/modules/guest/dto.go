package guest

import (
	"time"

	"novastay/internal/domain"
	"novastay/internal/pkg/validator"
)

type GuestRequest struct {
	FirstName      string  `json:"first_name"`
	MiddleName     string  `json:"middle_name"`
	LastName       string  `json:"last_name"`
	IsMale         bool    `json:"is_male"`
	Nationality    string  `json:"nationality"`
	DateOfBirth    string  `json:"date_of_birth"`
	PhoneNumber    string  `json:"phone_number"`
	EmailAddress   *string `json:"email_address"`
	PassportNumber *string `json:"passport_number"`
}

func (r GuestRequest) toDomain() (*domain.Guest, error) {
	g := &domain.Guest{
		FirstName:      r.FirstName,
		MiddleName:     r.MiddleName,
		LastName:       r.LastName,
		IsMale:         r.IsMale,
		Nationality:    domain.Nationality(r.Nationality),
		PhoneNumber:    r.PhoneNumber,
		EmailAddress:   r.EmailAddress,
		PassportNumber: r.PassportNumber,
	}
	if r.DateOfBirth != "" {
		dob, err := domain.ParseDate(r.DateOfBirth)
		if err != nil {
			return nil, validator.Errors{{Field: "date_of_birth", Message: "must be a YYYY-MM-DD date"}}
		}
		g.DateOfBirth = dob
	}
	return g, nil
}

type ListQuery struct {
	Name   string `form:"name"`
	Phone  string `form:"phone"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

type GuestResponse struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	MiddleName     string    `json:"middle_name"`
	LastName       string    `json:"last_name"`
	FullName       string    `json:"full_name"`
	IsMale         bool      `json:"is_male"`
	Nationality    string    `json:"nationality"`
	DateOfBirth    string    `json:"date_of_birth"`
	PhoneNumber    string    `json:"phone_number"`
	EmailAddress   *string   `json:"email_address,omitempty"`
	PassportNumber *string   `json:"passport_number,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toResponse(g *domain.Guest) GuestResponse {
	return GuestResponse{
		ID:             g.ID,
		FirstName:      g.FirstName,
		MiddleName:     g.MiddleName,
		LastName:       g.LastName,
		FullName:       g.FullName(),
		IsMale:         g.IsMale,
		Nationality:    string(g.Nationality),
		DateOfBirth:    g.DateOfBirth.Format(domain.DateLayout),
		PhoneNumber:    g.PhoneNumber,
		EmailAddress:   g.EmailAddress,
		PassportNumber: g.PassportNumber,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}
