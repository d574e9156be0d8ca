package room

import (
	"time"

	"novastay/internal/domain"
	"novastay/internal/pkg/params"
	"novastay/internal/repository"
)

type RoomRequest struct {
	Number           int        `json:"number"`
	FloorNumber      int        `json:"floor_number"`
	Type             string     `json:"type"`
	Status           string     `json:"status"`
	HasBalcony       bool       `json:"has_balcony"`
	PricePerNightUSD float64    `json:"price_per_night_usd"`
	LastMaintainedAt *time.Time `json:"last_maintained_at"`
	Description      *string    `json:"description"`
}

func (r RoomRequest) toDomain() *domain.Room {
	room := &domain.Room{
		Number:           r.Number,
		FloorNumber:      r.FloorNumber,
		Type:             domain.RoomType(r.Type),
		Status:           domain.RoomStatus(r.Status),
		HasBalcony:       r.HasBalcony,
		PricePerNightUSD: r.PricePerNightUSD,
		Description:      r.Description,
	}
	if r.LastMaintainedAt != nil {
		t := r.LastMaintainedAt.UTC()
		room.LastMaintainedAt = &t
	}
	return room
}

type ListQuery struct {
	MinNumber  *int     `form:"min_number"`
	MaxNumber  *int     `form:"max_number"`
	MinFloor   *int     `form:"min_floor"`
	MaxFloor   *int     `form:"max_floor"`
	Types      []string `form:"type"`
	Statuses   []string `form:"status"`
	HasBalcony *bool    `form:"has_balcony"`
	MinPrice   *float64 `form:"min_price"`
	MaxPrice   *float64 `form:"max_price"`
	Limit      int      `form:"limit"`
	Offset     int      `form:"offset"`
}

func (q ListQuery) toFilter() repository.RoomFilter {
	f := repository.RoomFilter{
		MinNumber:  q.MinNumber,
		MaxNumber:  q.MaxNumber,
		MinFloor:   q.MinFloor,
		MaxFloor:   q.MaxFloor,
		HasBalcony: q.HasBalcony,
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	for _, t := range params.List(q.Types) {
		f.Types = append(f.Types, domain.RoomType(t))
	}
	for _, s := range params.List(q.Statuses) {
		f.Statuses = append(f.Statuses, domain.RoomStatus(s))
	}
	return f
}

type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type BusyRange struct {
	ReservationID int64                    `json:"reservation_id"`
	Status        domain.ReservationStatus `json:"status"`
	From          string                   `json:"from"`
	To            string                   `json:"to"`
}

type Availability struct {
	Room RoomReference `json:"room"`
	From string        `json:"from"`
	To   string        `json:"to"`
	Busy []BusyRange   `json:"busy"`
	Free []DateRange   `json:"free"`
}

type RoomReference = domain.RoomReference
