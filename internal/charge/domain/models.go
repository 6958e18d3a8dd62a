package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ChargeRecord is one billed traversal of a toll segment by an
// automatically registered vehicle. IDs are assigned sequentially per
// table rather than via snowflake so that downstream settlement exports
// stay gapless and ordered.
type ChargeRecord struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	SegmentID   int64           `gorm:"index" json:"segment_id"`
	DeviceID    snowflake.ID    `gorm:"index" json:"device_id"`
	CategoryID  int64           `json:"category_id"`
	TraversedAt time.Time       `json:"traversed_at"`
	Cost        decimal.Decimal `gorm:"type:decimal(12,2)" json:"cost"`
}

func (ChargeRecord) TableName() string {
	return "toll_charges"
}

type Repository interface {
	// NextID returns the next sequential charge ID. Callers must hold a
	// transaction spanning NextID and Insert.
	NextID(ctx context.Context, db *gorm.DB) (int64, error)
	Insert(ctx context.Context, db *gorm.DB, charge *ChargeRecord) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*ChargeRecord, error)
}
