package repository

import (
	"context"
	"strings"

	"novastay/internal/domain"

	"gorm.io/gorm"
)

type GuestFilter struct {
	Name   string
	Phone  string
	Limit  int
	Offset int
}

type GuestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

func (r *GuestRepository) Create(ctx context.Context, g *domain.Guest) error {
	return translate(conn(ctx, r.db).Create(g).Error)
}

func (r *GuestRepository) GetByID(ctx context.Context, id int64) (*domain.Guest, error) {
	var g domain.Guest
	if err := conn(ctx, r.db).First(&g, id).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *GuestRepository) Update(ctx context.Context, g *domain.Guest) error {
	return translate(conn(ctx, r.db).Save(g).Error)
}

func (r *GuestRepository) Delete(ctx context.Context, id int64) error {
	tx := conn(ctx, r.db).Delete(&domain.Guest{}, id)
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GuestRepository) List(ctx context.Context, f GuestFilter) ([]domain.Guest, error) {
	q := conn(ctx, r.db).Model(&domain.Guest{})

	if name := strings.TrimSpace(f.Name); name != "" {
		q = q.Where(`LOWER(first_name || ' ' || middle_name || ' ' || last_name) LIKE ? ESCAPE '\'`, likePrefix(strings.ToLower(name)))
	}
	if phone := strings.TrimSpace(f.Phone); phone != "" {
		q = q.Where(`phone_number LIKE ? ESCAPE '\'`, likePrefix(phone))
	}

	var out []domain.Guest
	if err := page(q.Order("id DESC"), f.Limit, f.Offset).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePrefix(s string) string {
	return likeEscaper.Replace(s) + "%"
}
