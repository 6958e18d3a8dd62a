package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bookingdomain "github.com/tollgrid/tollgrid/internal/booking/domain"
	bookingrepo "github.com/tollgrid/tollgrid/internal/booking/repository"
	"github.com/tollgrid/tollgrid/internal/clock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestRunOnce_CancelsOnlyStaleOpenBookings(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&bookingdomain.Booking{}))

	node, _ := snowflake.NewNode(1)
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	fake := clock.NewFakeClock(now)

	sched, err := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		Clock:    fake,
		Bookings: bookingrepo.Provide(),
		Config:   Config{BookingMaxAge: 30 * 24 * time.Hour},
	})
	require.NoError(t, err)

	stale := &bookingdomain.Booking{
		ID: node.Generate(), Plate: "B-AB 12", SegmentID: 10, CategoryID: 1,
		Status: bookingdomain.StatusOpen, BookedAt: now.Add(-31 * 24 * time.Hour),
	}
	fresh := &bookingdomain.Booking{
		ID: node.Generate(), Plate: "HH-CD 34", SegmentID: 10, CategoryID: 1,
		Status: bookingdomain.StatusOpen, BookedAt: now.Add(-24 * time.Hour),
	}
	closedAt := now.Add(-40 * 24 * time.Hour)
	closed := &bookingdomain.Booking{
		ID: node.Generate(), Plate: "M-EF 56", SegmentID: 10, CategoryID: 1,
		Status: bookingdomain.StatusClosed, BookedAt: closedAt, TraversedAt: &closedAt,
	}
	db.Create(stale)
	db.Create(fresh)
	db.Create(closed)

	cancelled, err := sched.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	var got bookingdomain.Booking
	require.NoError(t, db.First(&got, "id = ?", stale.ID).Error)
	assert.Equal(t, bookingdomain.StatusCancelled, got.Status)

	got = bookingdomain.Booking{}
	require.NoError(t, db.First(&got, "id = ?", fresh.ID).Error)
	assert.Equal(t, bookingdomain.StatusOpen, got.Status)

	got = bookingdomain.Booking{}
	require.NoError(t, db.First(&got, "id = ?", closed.ID).Error)
	assert.Equal(t, bookingdomain.StatusClosed, got.Status)

	// Second sweep finds nothing.
	cancelled, err = sched.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, cancelled)
}
