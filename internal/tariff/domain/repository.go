package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListByEmissionClass(ctx context.Context, db *gorm.DB, emissionClassID int64) ([]TollCategory, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*TollCategory, error)
}
