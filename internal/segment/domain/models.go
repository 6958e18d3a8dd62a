package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// TollSegment is a priced stretch of road.
type TollSegment struct {
	ID              int64  `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"not null" json:"name"`
	LengthMeters    int64  `gorm:"not null" json:"length_meters"`
	StartCoordinate string `json:"start_coordinate,omitempty"`
	EndCoordinate   string `json:"end_coordinate,omitempty"`
	SectionType     string `gorm:"not null;index" json:"section_type"`
}

func (TollSegment) TableName() string {
	return "toll_segments"
}

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*TollSegment, error)
	ListByType(ctx context.Context, db *gorm.DB, sectionType string) ([]TollSegment, error)
}

type Service interface {
	Get(ctx context.Context, id int64) (TollSegment, error)
	ListByType(ctx context.Context, sectionType string) ([]TollSegment, error)
}

var (
	ErrInvalidSectionType = errors.New("invalid_section_type")
	ErrNotFound           = errors.New("not_found")
)
