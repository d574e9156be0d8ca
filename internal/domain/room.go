package domain

import (
	"time"

	"novastay/internal/pkg/textfix"
	"novastay/internal/pkg/validator"
)

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTwin   RoomType = "twin"
	RoomTriple RoomType = "triple"
	RoomSuite  RoomType = "suite"
	RoomFamily RoomType = "family"
	RoomDeluxe RoomType = "deluxe"
)

type RoomStatus string

const (
	RoomAvailable        RoomStatus = "available"
	RoomReserved         RoomStatus = "reserved"
	RoomOccupied         RoomStatus = "occupied"
	RoomUnderMaintenance RoomStatus = "under_maintenance"
	RoomOutOfService     RoomStatus = "out_of_service"
)

const (
	RoomMinNumber = 1
	RoomMaxNumber = 200
	RoomMinFloor  = 0
	RoomMaxFloor  = 20
	RoomMaxPrice  = 100000
)

type Room struct {
	ID               int64      `json:"id" gorm:"primaryKey"`
	Number           int        `json:"number" gorm:"not null;uniqueIndex" validate:"min=1,max=200"`
	FloorNumber      int        `json:"floor_number" gorm:"not null" validate:"min=0,max=20"`
	Type             RoomType   `json:"type" gorm:"size:32;not null" validate:"required,oneof=single double twin triple suite family deluxe"`
	Status           RoomStatus `json:"status" gorm:"size:32;not null;index" validate:"required,oneof=available reserved occupied under_maintenance out_of_service"`
	HasBalcony       bool       `json:"has_balcony"`
	PricePerNightUSD float64    `json:"price_per_night_usd" gorm:"column:price_per_night_usd;not null" validate:"gte=0,lte=100000"`
	LastMaintainedAt *time.Time `json:"last_maintained_at,omitempty"`
	Description      *string    `json:"description,omitempty" gorm:"size:1000" validate:"omitempty,max=1000"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (r *Room) Fixup() {
	r.Description = textfix.CleanPtr(r.Description)
}

func (r *Room) Validate(now time.Time) error {
	errs := validator.Struct(r)

	if r.LastMaintainedAt != nil && r.LastMaintainedAt.After(now) {
		errs.Add("last_maintained_at", "cannot be in the future")
	}

	return errs.Err()
}

func (r *Room) SameDetails(o *Room) bool {
	return r.Number == o.Number &&
		r.FloorNumber == o.FloorNumber &&
		r.Type == o.Type &&
		r.Status == o.Status &&
		r.HasBalcony == o.HasBalcony &&
		r.PricePerNightUSD == o.PricePerNightUSD &&
		equalTimePtr(r.LastMaintainedAt, o.LastMaintainedAt) &&
		equalStrPtr(r.Description, o.Description)
}

type RoomReference struct {
	ID          int64    `json:"id"`
	Number      int      `json:"number"`
	FloorNumber int      `json:"floor_number"`
	Type        RoomType `json:"type"`
}

func (r *Room) Reference() RoomReference {
	return RoomReference{ID: r.ID, Number: r.Number, FloorNumber: r.FloorNumber, Type: r.Type}
}
