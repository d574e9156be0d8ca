package repository

import (
	"context"
	"time"

	"novastay/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationFilter struct {
	GuestID        *int64
	RoomID         *int64
	Statuses       []domain.ReservationStatus
	IsActive       *bool
	IsPaid         *bool
	PaymentMethods []domain.PaymentMethod
	CheckInFrom    *time.Time
	CheckInTo      *time.Time
	CheckOutFrom   *time.Time
	CheckOutTo     *time.Time
	CheckedInFrom  *time.Time
	CheckedInTo    *time.Time
	CheckedOutFrom *time.Time
	CheckedOutTo   *time.Time
	CanceledFrom   *time.Time
	CanceledTo     *time.Time
	MinFinalAmount *float64
	MaxFinalAmount *float64
	Limit          int
	Offset         int
}

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	return translate(conn(ctx, r.db).Omit(clause.Associations).Create(res).Error)
}

// GetByID loads the reservation with its guest and room.
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var res domain.Reservation
	err := conn(ctx, r.db).Preload("Guest").Preload("Room").First(&res, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &res, nil
}

// GetForUpdate loads the reservation without associations and locks its row
// until the transaction ends.
func (r *ReservationRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Reservation, error) {
	var res domain.Reservation
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&res, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &res, nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	return translate(conn(ctx, r.db).Omit(clause.Associations).Save(res).Error)
}

func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	tx := conn(ctx, r.db).Delete(&domain.Reservation{}, id)
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BlockingForRoom returns the active created or checked-in reservations of
// roomID whose booked range overlaps or touches [from, to), except excludeID.
func (r *ReservationRepository) BlockingForRoom(ctx context.Context, roomID, excludeID int64, from, to time.Time) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := conn(ctx, r.db).
		Where("room_id = ? AND id <> ? AND is_active = ?", roomID, excludeID, true).
		Where("status IN ?", []domain.ReservationStatus{domain.ReservationCreated, domain.ReservationCheckedIn}).
		Where("check_in_booking_date <= ? AND check_out_booking_date >= ?", to, from).
		Order("check_in_booking_date").
		Find(&out).Error
	return out, err
}

func (r *ReservationRepository) CountByGuest(ctx context.Context, guestID int64) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&domain.Reservation{}).Where("guest_id = ?", guestID).Count(&cnt).Error
	return cnt, err
}

func (r *ReservationRepository) CountByRoom(ctx context.Context, roomID int64) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&domain.Reservation{}).Where("room_id = ?", roomID).Count(&cnt).Error
	return cnt, err
}

// ListStale returns active reservations still in created status whose
// check-out booking date is before day.
func (r *ReservationRepository) ListStale(ctx context.Context, day time.Time) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := conn(ctx, r.db).
		Where("is_active = ? AND status = ? AND check_out_booking_date < ?", true, domain.ReservationCreated, day).
		Order("id").
		Find(&out).Error
	return out, err
}

// Deactivate clears is_active on the given reservations.
func (r *ReservationRepository) Deactivate(ctx context.Context, ids []int64, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx := conn(ctx, r.db).Model(&domain.Reservation{}).
		Where("id IN ? AND is_active = ?", ids, true).
		Updates(map[string]any{"is_active": false, "updated_at": now})
	return tx.RowsAffected, tx.Error
}

func (r *ReservationRepository) List(ctx context.Context, f ReservationFilter) ([]domain.Reservation, error) {
	q := conn(ctx, r.db).Model(&domain.Reservation{})

	if f.GuestID != nil {
		q = q.Where("guest_id = ?", *f.GuestID)
	}
	if f.RoomID != nil {
		q = q.Where("room_id = ?", *f.RoomID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.IsPaid != nil {
		q = q.Where("is_paid = ?", *f.IsPaid)
	}
	if len(f.PaymentMethods) > 0 {
		q = q.Where("payment_method IN ?", f.PaymentMethods)
	}
	q = between(q, "check_in_booking_date", f.CheckInFrom, f.CheckInTo)
	q = between(q, "check_out_booking_date", f.CheckOutFrom, f.CheckOutTo)
	q = between(q, "checked_in_at", f.CheckedInFrom, f.CheckedInTo)
	q = between(q, "checked_out_at", f.CheckedOutFrom, f.CheckedOutTo)
	q = between(q, "canceled_at", f.CanceledFrom, f.CanceledTo)
	if f.MinFinalAmount != nil {
		q = q.Where("final_amount_usd >= ?", *f.MinFinalAmount)
	}
	if f.MaxFinalAmount != nil {
		q = q.Where("final_amount_usd <= ?", *f.MaxFinalAmount)
	}

	var out []domain.Reservation
	err := page(q.Preload("Guest").Preload("Room").Order("id DESC"), f.Limit, f.Offset).Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// between applies an inclusive range on column; either end may be open.
func between(q *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil {
		q = q.Where(column+" >= ?", *from)
	}
	if to != nil {
		q = q.Where(column+" <= ?", *to)
	}
	return q
}
