package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tollgrid/tollgrid/internal/booking/domain"
	"github.com/tollgrid/tollgrid/internal/booking/repository"
	"github.com/tollgrid/tollgrid/internal/clock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Booking{}))

	node, _ := snowflake.NewNode(1)
	fake := clock.NewFakeClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	})
}

func TestCreate(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	booking, err := svc.Create(ctx, domain.CreateBookingRequest{
		Plate: " HH-CD 34 ", SegmentID: 10, CategoryID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "HH-CD 34", booking.Plate)
	assert.Equal(t, domain.StatusOpen, booking.Status)

	// A second open booking for the same plate and segment is rejected.
	_, err = svc.Create(ctx, domain.CreateBookingRequest{
		Plate: "HH-CD 34", SegmentID: 10, CategoryID: 1,
	})
	assert.ErrorIs(t, err, domain.ErrBookingExists)

	// A different segment is fine.
	_, err = svc.Create(ctx, domain.CreateBookingRequest{
		Plate: "HH-CD 34", SegmentID: 11, CategoryID: 1,
	})
	assert.NoError(t, err)
}

func TestFindAnyForPlate(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.FindAnyForPlate(ctx, "HH-CD 34")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	created, err := svc.Create(ctx, domain.CreateBookingRequest{
		Plate: "HH-CD 34", SegmentID: 10, CategoryID: 1,
	})
	require.NoError(t, err)

	found, err := svc.FindAnyForPlate(ctx, " HH-CD 34 ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, int64(10), found.SegmentID)

	_, err = svc.FindAnyForPlate(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidPlate)
}

func TestCreate_Validation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateBookingRequest{SegmentID: 10, CategoryID: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidPlate)

	_, err = svc.Create(ctx, domain.CreateBookingRequest{Plate: "HH-CD 34", CategoryID: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidSegment)

	_, err = svc.Create(ctx, domain.CreateBookingRequest{Plate: "HH-CD 34", SegmentID: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}
