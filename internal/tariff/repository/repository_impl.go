package repository

import (
	"context"

	"github.com/tollgrid/tollgrid/internal/tariff/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListByEmissionClass(ctx context.Context, db *gorm.DB, emissionClassID int64) ([]domain.TollCategory, error) {
	var categories []domain.TollCategory
	err := db.WithContext(ctx).Raw(
		`SELECT id, emission_class_id, axle_rule, rate_per_km, created_at
		 FROM toll_categories WHERE emission_class_id = ? ORDER BY id ASC`,
		emissionClassID,
	).Scan(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.TollCategory, error) {
	var category domain.TollCategory
	err := db.WithContext(ctx).Raw(
		`SELECT id, emission_class_id, axle_rule, rate_per_km, created_at
		 FROM toll_categories WHERE id = ?`,
		id,
	).Scan(&category).Error
	if err != nil {
		return nil, err
	}
	if category.ID == 0 {
		return nil, nil
	}
	return &category, nil
}
