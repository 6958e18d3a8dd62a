package repository

import (
	"context"

	"github.com/tollgrid/tollgrid/internal/segment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.TollSegment, error) {
	var segment domain.TollSegment
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, length_meters, start_coordinate, end_coordinate, section_type
		 FROM toll_segments WHERE id = ?`,
		id,
	).Scan(&segment).Error
	if err != nil {
		return nil, err
	}
	if segment.ID == 0 {
		return nil, nil
	}
	return &segment, nil
}

func (r *repo) ListByType(ctx context.Context, db *gorm.DB, sectionType string) ([]domain.TollSegment, error) {
	var segments []domain.TollSegment
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, length_meters, start_coordinate, end_coordinate, section_type
		 FROM toll_segments WHERE section_type = ? ORDER BY id ASC`,
		sectionType,
	).Scan(&segments).Error
	if err != nil {
		return nil, err
	}
	return segments, nil
}
