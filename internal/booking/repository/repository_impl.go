package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tollgrid/tollgrid/internal/booking/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, booking *domain.Booking) error {
	return db.WithContext(ctx).Create(booking).Error
}

// FindForPlateAndSegment prefers the open booking for the pair; only when
// none is open does it fall back to the most recent consumed one, so a
// plate that rebooks after a traversal is not stuck behind the old row.
func (r *repo) FindForPlateAndSegment(ctx context.Context, db *gorm.DB, plate string, segmentID int64) (*domain.Booking, error) {
	var booking domain.Booking
	err := db.WithContext(ctx).Raw(
		`SELECT id, plate, segment_id, category_id, status, booked_at, traversed_at
		 FROM bookings WHERE plate = ? AND segment_id = ?
		 ORDER BY CASE WHEN status = ? THEN 0 ELSE 1 END, id DESC LIMIT 1`,
		plate, segmentID, domain.StatusOpen,
	).Scan(&booking).Error
	if err != nil {
		return nil, err
	}
	if booking.ID == 0 {
		return nil, nil
	}
	return &booking, nil
}

func (r *repo) AnyForPlate(ctx context.Context, db *gorm.DB, plate string) (*domain.Booking, error) {
	var booking domain.Booking
	err := db.WithContext(ctx).Raw(
		`SELECT id, plate, segment_id, category_id, status, booked_at, traversed_at
		 FROM bookings WHERE plate = ? ORDER BY id ASC`,
		plate,
	).Scan(&booking).Error
	if err != nil {
		return nil, err
	}
	if booking.ID == 0 {
		return nil, nil
	}
	return &booking, nil
}

func (r *repo) Close(ctx context.Context, db *gorm.DB, id snowflake.ID, traversedAt time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bookings SET status = ?, traversed_at = ? WHERE id = ? AND status = ?`,
		domain.StatusClosed, traversedAt, id, domain.StatusOpen,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) ListExpiredOpen(ctx context.Context, db *gorm.DB, before time.Time, limit int) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := db.WithContext(ctx).Raw(
		`SELECT id, plate, segment_id, category_id, status, booked_at, traversed_at
		 FROM bookings WHERE status = ? AND booked_at < ? ORDER BY booked_at ASC LIMIT ?`,
		domain.StatusOpen, before, limit,
	).Scan(&bookings).Error
	return bookings, err
}

func (r *repo) Cancel(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`,
		domain.StatusCancelled, id, domain.StatusOpen,
	)
	return res.RowsAffected, res.Error
}
