package domain

import (
	"math"
	"time"

	"novastay/internal/pkg/validator"
)

type ReservationStatus string

const (
	ReservationCreated    ReservationStatus = "created"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCanceled   ReservationStatus = "canceled"
)

type PaymentMethod string

const (
	PaymentCash           PaymentMethod = "cash"
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
	PaymentEWallet        PaymentMethod = "e_wallet"
	PaymentCryptoCurrency PaymentMethod = "crypto_currency"
	PaymentVoucher        PaymentMethod = "voucher"
	PaymentOther          PaymentMethod = "other"
)

const MaxStayNights = 365

var transitions = map[ReservationStatus][]ReservationStatus{
	ReservationCreated:   {ReservationCheckedIn, ReservationCanceled},
	ReservationCheckedIn: {ReservationCheckedOut, ReservationCanceled},
}

type Reservation struct {
	ID                  int64             `json:"id" gorm:"primaryKey"`
	GuestID             int64             `json:"guest_id" gorm:"not null;index"`
	Guest               *Guest            `json:"-" gorm:"foreignKey:GuestID;constraint:OnDelete:RESTRICT" validate:"-"`
	RoomID              int64             `json:"room_id" gorm:"not null;index"`
	Room                *Room             `json:"-" gorm:"foreignKey:RoomID;constraint:OnDelete:RESTRICT" validate:"-"`
	IsActive            bool              `json:"is_active" gorm:"not null;index"`
	CheckInBookingDate  time.Time         `json:"check_in_booking_date" gorm:"type:date;not null;index"`
	CheckOutBookingDate time.Time         `json:"check_out_booking_date" gorm:"type:date;not null;index"`
	Status              ReservationStatus `json:"status" gorm:"size:20;not null;index" validate:"required,oneof=created checked_in checked_out canceled"`
	CheckedInAt         *time.Time        `json:"checked_in_at,omitempty"`
	CheckedOutAt        *time.Time        `json:"checked_out_at,omitempty"`
	CanceledAt          *time.Time        `json:"canceled_at,omitempty"`
	DiscountRate        *float64          `json:"discount_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	BaseAmountUSD       float64           `json:"base_amount_usd" gorm:"column:base_amount_usd;not null" validate:"gte=0"`
	FinalAmountUSD      float64           `json:"final_amount_usd" gorm:"column:final_amount_usd;not null" validate:"gte=0"`
	IsPaid              bool              `json:"is_paid"`
	PaymentMethod       PaymentMethod     `json:"payment_method" gorm:"size:32;not null" validate:"required,oneof=cash credit_card bank_transfer e_wallet crypto_currency voucher other"`
	ConfirmationCode    string            `json:"confirmation_code" gorm:"size:16;uniqueIndex"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// Fixup normalizes booking dates to calendar days.
func (r *Reservation) Fixup() {
	if !r.CheckInBookingDate.IsZero() {
		r.CheckInBookingDate = DateOf(r.CheckInBookingDate)
	}
	if !r.CheckOutBookingDate.IsZero() {
		r.CheckOutBookingDate = DateOf(r.CheckOutBookingDate)
	}
}

// Validate collects every field problem instead of stopping at the first one.
func (r *Reservation) Validate(now time.Time) error {
	errs := validator.Struct(r)

	if r.GuestID == 0 {
		errs.Add("guest_id", "is required")
	}
	if r.RoomID == 0 {
		errs.Add("room_id", "is required")
	}

	r.validateBookingDates(&errs)
	r.validateStateDates(&errs, now)

	return errs.Err()
}

func (r *Reservation) validateBookingDates(errs *validator.Errors) {
	if r.CheckInBookingDate.IsZero() {
		errs.Add("check_in_booking_date", "is required")
	}
	if r.CheckOutBookingDate.IsZero() {
		errs.Add("check_out_booking_date", "is required")
	}
	if !r.CheckInBookingDate.IsZero() && !r.CheckOutBookingDate.IsZero() &&
		!r.CheckOutBookingDate.After(r.CheckInBookingDate) {
		errs.Add("check_out_booking_date", "must come after check-in booking date")
	}
}

func (r *Reservation) validateStateDates(errs *validator.Errors, now time.Time) {
	in, out, canceled := r.CheckedInAt, r.CheckedOutAt, r.CanceledAt

	if in != nil && in.After(now) {
		errs.Add("checked_in_at", "cannot be in the future")
	}
	if out != nil && out.After(now) {
		errs.Add("checked_out_at", "cannot be in the future")
	}
	if canceled != nil && canceled.After(now) {
		errs.Add("canceled_at", "cannot be in the future")
	}
	if out != nil && in == nil {
		errs.Add("checked_out_at", "cannot check out without checking in first")
	}
	// canceled_at needs no checked_in_at: a booking may be canceled before arrival.
	if out != nil && canceled != nil {
		errs.Add("canceled_at", "a reservation cannot be both checked out and canceled")
	}
	if in != nil && out != nil && out.Before(*in) {
		errs.Add("checked_out_at", "cannot be earlier than checked-in time")
	}
	if in != nil && canceled != nil && canceled.Before(*in) {
		errs.Add("canceled_at", "cannot be earlier than checked-in time")
	}

	switch r.Status {
	case ReservationCreated:
		if in != nil || out != nil || canceled != nil {
			errs.Add("status", "a created reservation cannot carry check-in, check-out or cancel times")
		}
	case ReservationCheckedIn:
		if in == nil {
			errs.Add("checked_in_at", "is required when status is checked_in")
		}
		if out != nil || canceled != nil {
			errs.Add("status", "a checked-in reservation cannot carry check-out or cancel times")
		}
	case ReservationCheckedOut:
		if in == nil || out == nil {
			errs.Add("checked_out_at", "checked_in_at and checked_out_at are required when status is checked_out")
		}
	case ReservationCanceled:
		if canceled == nil {
			errs.Add("canceled_at", "is required when status is canceled")
		}
	}
}

// Nights is the number of booked nights.
func (r *Reservation) Nights() int {
	return DaysBetween(r.CheckInBookingDate, r.CheckOutBookingDate)
}

// IsGuestInHouse reports whether the guest has checked in and not yet left.
func (r *Reservation) IsGuestInHouse() bool {
	return r.CheckedInAt != nil && r.CheckedOutAt == nil && r.CanceledAt == nil
}

// Blocks reports whether r takes part in conflict checks for its room.
func (r *Reservation) Blocks() bool {
	return r.IsActive && (r.Status == ReservationCreated || r.Status == ReservationCheckedIn)
}

// Overlaps reports whether [checkIn, checkOut) intersects the booked range of r.
func (r *Reservation) Overlaps(checkIn, checkOut time.Time) bool {
	return checkIn.Before(r.CheckOutBookingDate) && r.CheckInBookingDate.Before(checkOut)
}

// Touches reports whether [checkIn, checkOut) shares an endpoint with r.
func (r *Reservation) Touches(checkIn, checkOut time.Time) bool {
	return checkIn.Equal(r.CheckOutBookingDate) || checkOut.Equal(r.CheckInBookingDate)
}

// CanTransition reports whether a reservation may move from one status to another.
// An unchanged status passes so plain edits go through; the check-in, check-out
// and cancel operations refuse a same-status move on their own.
func CanTransition(from, to ReservationStatus) bool {
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s ReservationStatus) Terminal() bool {
	return s == ReservationCheckedOut || s == ReservationCanceled
}

type Amounts struct {
	Nights         int     `json:"nights"`
	BaseAmountUSD  float64 `json:"base_amount_usd"`
	FinalAmountUSD float64 `json:"final_amount_usd"`
}

// CalculateAmounts prices a stay. A discount outside 0..100 is clamped.
func CalculateAmounts(pricePerNight float64, checkIn, checkOut time.Time, discount *float64) Amounts {
	nights := DaysBetween(checkIn, checkOut)
	if nights < 0 {
		nights = 0
	}

	base := roundMoney(pricePerNight * float64(nights))
	final := base
	if discount != nil && *discount > 0 {
		d := math.Min(*discount, 100)
		final = roundMoney(base * (1 - d/100))
	}

	return Amounts{Nights: nights, BaseAmountUSD: base, FinalAmountUSD: final}
}

func (r *Reservation) ApplyAmounts(a Amounts) {
	r.BaseAmountUSD = a.BaseAmountUSD
	r.FinalAmountUSD = a.FinalAmountUSD
}

// ValidateBookingWindow checks the dates a new or re-dated reservation may use.
func ValidateBookingWindow(checkIn, checkOut, today time.Time) error {
	var errs validator.Errors
	today = DateOf(today)

	if checkIn.Before(today.AddDate(0, 0, -1)) {
		errs.Add("check_in_booking_date", "cannot be earlier than yesterday")
	}
	if checkIn.After(today.AddDate(2, 0, 0)) {
		errs.Add("check_in_booking_date", "cannot be more than two years ahead")
	}
	if n := DaysBetween(checkIn, checkOut); n < 1 || n > MaxStayNights {
		errs.Addf("check_out_booking_date", "stay must be between 1 and %d nights", MaxStayNights)
	}

	return errs.Err()
}

// SameDetails compares the persisted fields of two reservations.
func (r *Reservation) SameDetails(o *Reservation) bool {
	return r.GuestID == o.GuestID &&
		r.RoomID == o.RoomID &&
		r.IsActive == o.IsActive &&
		r.CheckInBookingDate.Equal(o.CheckInBookingDate) &&
		r.CheckOutBookingDate.Equal(o.CheckOutBookingDate) &&
		r.Status == o.Status &&
		equalTimePtr(r.CheckedInAt, o.CheckedInAt) &&
		equalTimePtr(r.CheckedOutAt, o.CheckedOutAt) &&
		equalTimePtr(r.CanceledAt, o.CanceledAt) &&
		equalFloatPtr(r.DiscountRate, o.DiscountRate) &&
		r.BaseAmountUSD == o.BaseAmountUSD &&
		r.FinalAmountUSD == o.FinalAmountUSD &&
		r.IsPaid == o.IsPaid &&
		r.PaymentMethod == o.PaymentMethod
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
