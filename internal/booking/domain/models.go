package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Booking statuses. A booking is consumed (closed) on first traversal.
const (
	StatusOpen      = "open"
	StatusClosed    = "closed"
	StatusCancelled = "cancelled"
)

// Booking is a manual pre-purchase of passage over one segment by one plate.
type Booking struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Plate       string       `gorm:"not null;index:idx_bookings_plate_segment" json:"plate"`
	SegmentID   int64        `gorm:"not null;index:idx_bookings_plate_segment" json:"segment_id"`
	CategoryID  int64        `gorm:"not null" json:"category_id"`
	Status      string       `gorm:"not null" json:"status"`
	BookedAt    time.Time    `gorm:"not null" json:"booked_at"`
	TraversedAt *time.Time   `json:"traversed_at,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) IsClosed() bool {
	return b != nil && b.Status == StatusClosed
}
