package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmissionClass is a pollution class referenced by vehicles and categories.
type EmissionClass struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (EmissionClass) TableName() string {
	return "emission_classes"
}

// TollCategory is a pricing tier keyed by emission class and axle rule.
// RatePerKm is stored in currency minor units (cents) per kilometer.
type TollCategory struct {
	ID              int64           `gorm:"primaryKey" json:"id"`
	EmissionClassID int64           `gorm:"not null;index" json:"emission_class_id"`
	AxleRule        string          `gorm:"not null" json:"axle_rule"`
	RatePerKm       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"rate_per_km"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (TollCategory) TableName() string {
	return "toll_categories"
}
