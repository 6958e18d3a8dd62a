package repository

import (
	"context"

	"github.com/tollgrid/tollgrid/internal/charge/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) NextID(ctx context.Context, db *gorm.DB) (int64, error) {
	var next int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(id), 0) + 1 FROM toll_charges`,
	).Scan(&next).Error
	return next, err
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, charge *domain.ChargeRecord) error {
	return db.WithContext(ctx).Create(charge).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.ChargeRecord, error) {
	var charge domain.ChargeRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, segment_id, device_id, category_id, traversed_at, cost
		 FROM toll_charges WHERE id = ?`,
		id,
	).Scan(&charge).Error
	if err != nil {
		return nil, err
	}
	if charge.ID == 0 {
		return nil, nil
	}
	return &charge, nil
}
