package repository

import (
	"context"

	"novastay/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomFilter struct {
	MinNumber  *int
	MaxNumber  *int
	MinFloor   *int
	MaxFloor   *int
	Types      []domain.RoomType
	Statuses   []domain.RoomStatus
	HasBalcony *bool
	MinPrice   *float64
	MaxPrice   *float64
	Limit      int
	Offset     int
}

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return translate(conn(ctx, r.db).Create(room).Error)
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	if err := conn(ctx, r.db).First(&room, id).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

// GetForUpdate loads the room and locks its row until the transaction ends.
// SQLite has no row locks; its single writer serializes the transaction instead.
func (r *RoomRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	return translate(conn(ctx, r.db).Save(room).Error)
}

func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	tx := conn(ctx, r.db).Delete(&domain.Room{}, id)
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NumberTaken reports whether another room already uses number.
func (r *RoomRepository) NumberTaken(ctx context.Context, number int, excludeID int64) (bool, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&domain.Room{}).
		Where("number = ? AND id <> ?", number, excludeID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *RoomRepository) List(ctx context.Context, f RoomFilter) ([]domain.Room, error) {
	q := conn(ctx, r.db).Model(&domain.Room{})

	if f.MinNumber != nil {
		q = q.Where("number >= ?", *f.MinNumber)
	}
	if f.MaxNumber != nil {
		q = q.Where("number <= ?", *f.MaxNumber)
	}
	if f.MinFloor != nil {
		q = q.Where("floor_number >= ?", *f.MinFloor)
	}
	if f.MaxFloor != nil {
		q = q.Where("floor_number <= ?", *f.MaxFloor)
	}
	if len(f.Types) > 0 {
		q = q.Where("type IN ?", f.Types)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.HasBalcony != nil {
		q = q.Where("has_balcony = ?", *f.HasBalcony)
	}
	if f.MinPrice != nil {
		q = q.Where("price_per_night_usd >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price_per_night_usd <= ?", *f.MaxPrice)
	}

	var out []domain.Room
	if err := page(q.Order("id DESC"), f.Limit, f.Offset).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
