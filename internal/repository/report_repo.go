package repository

import (
	"context"
	"time"

	"novastay/internal/domain"

	"github.com/jmoiron/sqlx"
)

type statusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"cnt"`
}

// OccupancyRow is the raw set of figures behind an occupancy report.
type OccupancyRow struct {
	RoomsByStatus map[domain.RoomStatus]int64
	TotalRooms    int64
	BookedRooms   int64
	CheckedIn     int64
	Arrivals      int64
	Departures    int64
}

type RevenueRow struct {
	Reservations int64   `db:"reservations"`
	BaseUSD      float64 `db:"base_usd"`
	FinalUSD     float64 `db:"final_usd"`
	PaidUSD      float64 `db:"paid_usd"`
}

// ReportRepository runs read-only aggregate queries with plain SQL.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Occupancy(ctx context.Context, day time.Time) (*OccupancyRow, error) {
	out := &OccupancyRow{RoomsByStatus: map[domain.RoomStatus]int64{}}

	var counts []statusCount
	q := `SELECT status, COUNT(*) AS cnt FROM rooms GROUP BY status`
	if err := r.db.SelectContext(ctx, &counts, q); err != nil {
		return nil, err
	}
	for _, c := range counts {
		out.RoomsByStatus[domain.RoomStatus(c.Status)] = c.Count
		out.TotalRooms += c.Count
	}

	q = r.db.Rebind(`
		SELECT COUNT(DISTINCT room_id) FROM reservations
		WHERE is_active = ? AND status IN (?, ?)
		  AND check_in_booking_date <= ? AND check_out_booking_date > ?`)
	if err := r.db.GetContext(ctx, &out.BookedRooms, q,
		true, domain.ReservationCreated, domain.ReservationCheckedIn, day, day); err != nil {
		return nil, err
	}

	q = r.db.Rebind(`SELECT COUNT(*) FROM reservations WHERE is_active = ? AND status = ?`)
	if err := r.db.GetContext(ctx, &out.CheckedIn, q, true, domain.ReservationCheckedIn); err != nil {
		return nil, err
	}

	q = r.db.Rebind(`
		SELECT COUNT(*) FROM reservations
		WHERE is_active = ? AND status = ? AND check_in_booking_date = ?`)
	if err := r.db.GetContext(ctx, &out.Arrivals, q, true, domain.ReservationCreated, day); err != nil {
		return nil, err
	}

	q = r.db.Rebind(`
		SELECT COUNT(*) FROM reservations
		WHERE is_active = ? AND status = ? AND check_out_booking_date = ?`)
	if err := r.db.GetContext(ctx, &out.Departures, q, true, domain.ReservationCheckedIn, day); err != nil {
		return nil, err
	}

	return out, nil
}

// Revenue sums the active, non-canceled reservations whose check-in falls
// between from and to, both days included.
func (r *ReportRepository) Revenue(ctx context.Context, from, to time.Time) (*RevenueRow, error) {
	var out RevenueRow
	q := r.db.Rebind(`
		SELECT COUNT(*) AS reservations,
		       COALESCE(SUM(base_amount_usd), 0) AS base_usd,
		       COALESCE(SUM(final_amount_usd), 0) AS final_usd,
		       COALESCE(SUM(CASE WHEN is_paid = ? THEN final_amount_usd ELSE 0 END), 0) AS paid_usd
		FROM reservations
		WHERE is_active = ? AND status <> ?
		  AND check_in_booking_date >= ? AND check_in_booking_date <= ?`)
	if err := r.db.GetContext(ctx, &out, q, true, true, domain.ReservationCanceled, from, to); err != nil {
		return nil, err
	}
	return &out, nil
}
