package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, booking *Booking) error

	// FindForPlateAndSegment returns the booking for the pair, or nil.
	FindForPlateAndSegment(ctx context.Context, db *gorm.DB, plate string, segmentID int64) (*Booking, error)

	// AnyForPlate returns any booking for the plate regardless of segment.
	AnyForPlate(ctx context.Context, db *gorm.DB, plate string) (*Booking, error)

	// Close marks the booking closed and stamps the traversal date.
	Close(ctx context.Context, db *gorm.DB, id snowflake.ID, traversedAt time.Time) (int64, error)

	// ListExpiredOpen returns open bookings booked before the cutoff.
	ListExpiredOpen(ctx context.Context, db *gorm.DB, before time.Time, limit int) ([]Booking, error)

	// Cancel marks an open booking cancelled.
	Cancel(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
