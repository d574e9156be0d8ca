package report

import (
	"context"
	"errors"
	"math"
	"time"

	"novastay/internal/domain"
	"novastay/internal/repository"
)

const maxRevenueDays = 366

var ErrInvalidRange = errors.New("invalid date range")

// Source runs the aggregate queries behind the reports.
type Source interface {
	Occupancy(ctx context.Context, day time.Time) (*repository.OccupancyRow, error)
	Revenue(ctx context.Context, from, to time.Time) (*repository.RevenueRow, error)
}

type OccupancyReport struct {
	Date          string                      `json:"date"`
	TotalRooms    int64                       `json:"total_rooms"`
	RoomsByStatus map[domain.RoomStatus]int64 `json:"rooms_by_status"`
	BookedRooms   int64                       `json:"booked_rooms"`
	OccupancyRate float64                     `json:"occupancy_rate"`
	CheckedIn     int64                       `json:"checked_in"`
	Arrivals      int64                       `json:"arrivals"`
	Departures    int64                       `json:"departures"`
}

type RevenueReport struct {
	From           string  `json:"from"`
	To             string  `json:"to"`
	Reservations   int64   `json:"reservations"`
	BaseUSD        float64 `json:"base_usd"`
	FinalUSD       float64 `json:"final_usd"`
	DiscountUSD    float64 `json:"discount_usd"`
	PaidUSD        float64 `json:"paid_usd"`
	OutstandingUSD float64 `json:"outstanding_usd"`
}

type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

// Occupancy reports how many rooms are booked for the night of day.
func (s *Service) Occupancy(ctx context.Context, day time.Time) (*OccupancyReport, error) {
	day = domain.DateOf(day)
	row, err := s.source.Occupancy(ctx, day)
	if err != nil {
		return nil, err
	}

	out := &OccupancyReport{
		Date:          day.Format(domain.DateLayout),
		TotalRooms:    row.TotalRooms,
		RoomsByStatus: row.RoomsByStatus,
		BookedRooms:   row.BookedRooms,
		CheckedIn:     row.CheckedIn,
		Arrivals:      row.Arrivals,
		Departures:    row.Departures,
	}
	if row.TotalRooms > 0 {
		out.OccupancyRate = math.Round(float64(row.BookedRooms)/float64(row.TotalRooms)*1000) / 10
	}
	return out, nil
}

// Revenue sums reservations checking in from from through to inclusive.
func (s *Service) Revenue(ctx context.Context, from, to time.Time) (*RevenueReport, error) {
	from, to = domain.DateOf(from), domain.DateOf(to)
	if to.Before(from) || domain.DaysBetween(from, to) > maxRevenueDays {
		return nil, ErrInvalidRange
	}

	row, err := s.source.Revenue(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &RevenueReport{
		From:           from.Format(domain.DateLayout),
		To:             to.Format(domain.DateLayout),
		Reservations:   row.Reservations,
		BaseUSD:        money(row.BaseUSD),
		FinalUSD:       money(row.FinalUSD),
		DiscountUSD:    money(row.BaseUSD - row.FinalUSD),
		PaidUSD:        money(row.PaidUSD),
		OutstandingUSD: money(row.FinalUSD - row.PaidUSD),
	}, nil
}

func money(v float64) float64 {
	return math.Round(v*100) / 100
}
