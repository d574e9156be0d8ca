package reservation

import (
	"time"

	"novastay/internal/domain"
	"novastay/internal/pkg/params"
	"novastay/internal/pkg/validator"
	"novastay/internal/repository"
)

// ReservationRequest is the body of create and update. On update empty
// status, is_active and payment_method keep the stored values.
type ReservationRequest struct {
	GuestID             int64      `json:"guest_id"`
	RoomID              int64      `json:"room_id"`
	IsActive            *bool      `json:"is_active"`
	CheckInBookingDate  string     `json:"check_in_booking_date"`
	CheckOutBookingDate string     `json:"check_out_booking_date"`
	Status              string     `json:"status"`
	CheckedInAt         *time.Time `json:"checked_in_at"`
	CheckedOutAt        *time.Time `json:"checked_out_at"`
	CanceledAt          *time.Time `json:"canceled_at"`
	DiscountRate        *float64   `json:"discount_rate"`
	IsPaid              bool       `json:"is_paid"`
	PaymentMethod       string     `json:"payment_method"`
}

func (r ReservationRequest) toDomain(existing *domain.Reservation) (*domain.Reservation, error) {
	res := &domain.Reservation{
		GuestID:       r.GuestID,
		RoomID:        r.RoomID,
		IsActive:      true,
		Status:        domain.ReservationCreated,
		CheckedInAt:   utc(r.CheckedInAt),
		CheckedOutAt:  utc(r.CheckedOutAt),
		CanceledAt:    utc(r.CanceledAt),
		DiscountRate:  r.DiscountRate,
		IsPaid:        r.IsPaid,
		PaymentMethod: domain.PaymentCash,
	}
	if existing != nil {
		res.IsActive = existing.IsActive
		res.Status = existing.Status
		res.PaymentMethod = existing.PaymentMethod
	}
	if r.IsActive != nil {
		res.IsActive = *r.IsActive
	}
	if r.Status != "" {
		res.Status = domain.ReservationStatus(r.Status)
	}
	if r.PaymentMethod != "" {
		res.PaymentMethod = domain.PaymentMethod(r.PaymentMethod)
	}

	var errs validator.Errors
	if r.CheckInBookingDate != "" {
		d, err := domain.ParseDate(r.CheckInBookingDate)
		if err != nil {
			errs.Add("check_in_booking_date", "must be a YYYY-MM-DD date")
		}
		res.CheckInBookingDate = d
	}
	if r.CheckOutBookingDate != "" {
		d, err := domain.ParseDate(r.CheckOutBookingDate)
		if err != nil {
			errs.Add("check_out_booking_date", "must be a YYYY-MM-DD date")
		}
		res.CheckOutBookingDate = d
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

type PayRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

type QuoteQuery struct {
	RoomID       int64    `form:"room_id" binding:"required"`
	CheckIn      string   `form:"check_in" binding:"required"`
	CheckOut     string   `form:"check_out" binding:"required"`
	DiscountRate *float64 `form:"discount_rate"`
}

type ListQuery struct {
	GuestID        *int64   `form:"guest_id"`
	RoomID         *int64   `form:"room_id"`
	Statuses       []string `form:"status"`
	IsActive       *bool    `form:"is_active"`
	IsPaid         *bool    `form:"is_paid"`
	PaymentMethods []string `form:"payment_method"`
	CheckInFrom    string   `form:"check_in_from"`
	CheckInTo      string   `form:"check_in_to"`
	CheckOutFrom   string   `form:"check_out_from"`
	CheckOutTo     string   `form:"check_out_to"`
	CheckedInFrom  string   `form:"checked_in_from"`
	CheckedInTo    string   `form:"checked_in_to"`
	CheckedOutFrom string   `form:"checked_out_from"`
	CheckedOutTo   string   `form:"checked_out_to"`
	CanceledFrom   string   `form:"canceled_from"`
	CanceledTo     string   `form:"canceled_to"`
	MinFinalAmount *float64 `form:"min_final_amount"`
	MaxFinalAmount *float64 `form:"max_final_amount"`
	Limit          int      `form:"limit"`
	Offset         int      `form:"offset"`
}

func (q ListQuery) toFilter() (repository.ReservationFilter, error) {
	f := repository.ReservationFilter{
		GuestID:        q.GuestID,
		RoomID:         q.RoomID,
		IsActive:       q.IsActive,
		IsPaid:         q.IsPaid,
		MinFinalAmount: q.MinFinalAmount,
		MaxFinalAmount: q.MaxFinalAmount,
		Limit:          q.Limit,
		Offset:         q.Offset,
	}
	for _, s := range params.List(q.Statuses) {
		f.Statuses = append(f.Statuses, domain.ReservationStatus(s))
	}
	for _, m := range params.List(q.PaymentMethods) {
		f.PaymentMethods = append(f.PaymentMethods, domain.PaymentMethod(m))
	}

	var errs validator.Errors
	date := func(field, v string, parse func(string) (*time.Time, error)) *time.Time {
		t, err := parse(v)
		if err != nil {
			errs.Add(field, err.Error())
		}
		return t
	}
	f.CheckInFrom = date("check_in_from", q.CheckInFrom, params.Date)
	f.CheckInTo = date("check_in_to", q.CheckInTo, params.Date)
	f.CheckOutFrom = date("check_out_from", q.CheckOutFrom, params.Date)
	f.CheckOutTo = date("check_out_to", q.CheckOutTo, params.Date)
	f.CheckedInFrom = date("checked_in_from", q.CheckedInFrom, params.Time)
	f.CheckedInTo = date("checked_in_to", q.CheckedInTo, params.Time)
	f.CheckedOutFrom = date("checked_out_from", q.CheckedOutFrom, params.Time)
	f.CheckedOutTo = date("checked_out_to", q.CheckedOutTo, params.Time)
	f.CanceledFrom = date("canceled_from", q.CanceledFrom, params.Time)
	f.CanceledTo = date("canceled_to", q.CanceledTo, params.Time)

	return f, errs.Err()
}

type ReservationResponse struct {
	ID                  int64                    `json:"id"`
	ConfirmationCode    string                   `json:"confirmation_code"`
	Guest               *domain.GuestReference   `json:"guest,omitempty"`
	GuestID             int64                    `json:"guest_id"`
	Room                *domain.RoomReference    `json:"room,omitempty"`
	RoomID              int64                    `json:"room_id"`
	IsActive            bool                     `json:"is_active"`
	CheckInBookingDate  string                   `json:"check_in_booking_date"`
	CheckOutBookingDate string                   `json:"check_out_booking_date"`
	Nights              int                      `json:"nights"`
	Status              domain.ReservationStatus `json:"status"`
	CheckedInAt         *time.Time               `json:"checked_in_at,omitempty"`
	CheckedOutAt        *time.Time               `json:"checked_out_at,omitempty"`
	CanceledAt          *time.Time               `json:"canceled_at,omitempty"`
	DiscountRate        *float64                 `json:"discount_rate,omitempty"`
	BaseAmountUSD       float64                  `json:"base_amount_usd"`
	FinalAmountUSD      float64                  `json:"final_amount_usd"`
	IsPaid              bool                     `json:"is_paid"`
	PaymentMethod       domain.PaymentMethod     `json:"payment_method"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

func toResponse(r *domain.Reservation) ReservationResponse {
	out := ReservationResponse{
		ID:                  r.ID,
		ConfirmationCode:    r.ConfirmationCode,
		GuestID:             r.GuestID,
		RoomID:              r.RoomID,
		IsActive:            r.IsActive,
		CheckInBookingDate:  r.CheckInBookingDate.Format(domain.DateLayout),
		CheckOutBookingDate: r.CheckOutBookingDate.Format(domain.DateLayout),
		Nights:              r.Nights(),
		Status:              r.Status,
		CheckedInAt:         r.CheckedInAt,
		CheckedOutAt:        r.CheckedOutAt,
		CanceledAt:          r.CanceledAt,
		DiscountRate:        r.DiscountRate,
		BaseAmountUSD:       r.BaseAmountUSD,
		FinalAmountUSD:      r.FinalAmountUSD,
		IsPaid:              r.IsPaid,
		PaymentMethod:       r.PaymentMethod,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
	if r.Guest != nil {
		ref := r.Guest.Reference()
		out.Guest = &ref
	}
	if r.Room != nil {
		ref := r.Room.Reference()
		out.Room = &ref
	}
	return out
}

// Quote is the price estimate shown before a reservation is saved.
type Quote struct {
	Room     domain.RoomReference `json:"room"`
	CheckIn  string               `json:"check_in"`
	CheckOut string               `json:"check_out"`
	domain.Amounts
}
