package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tollgrid/tollgrid/internal/assessment/domain"
	bookingdomain "github.com/tollgrid/tollgrid/internal/booking/domain"
	bookingrepo "github.com/tollgrid/tollgrid/internal/booking/repository"
	chargedomain "github.com/tollgrid/tollgrid/internal/charge/domain"
	chargerepo "github.com/tollgrid/tollgrid/internal/charge/repository"
	"github.com/tollgrid/tollgrid/internal/clock"
	segmentdomain "github.com/tollgrid/tollgrid/internal/segment/domain"
	segmentrepo "github.com/tollgrid/tollgrid/internal/segment/repository"
	tariffdomain "github.com/tollgrid/tollgrid/internal/tariff/domain"
	tariffrepo "github.com/tollgrid/tollgrid/internal/tariff/repository"
	vehicledomain "github.com/tollgrid/tollgrid/internal/vehicle/domain"
	vehiclerepo "github.com/tollgrid/tollgrid/internal/vehicle/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	svc   domain.Service
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&tariffdomain.EmissionClass{},
		&tariffdomain.TollCategory{},
		&segmentdomain.TollSegment{},
		&vehicledomain.Vehicle{},
		&vehicledomain.OnBoardUnit{},
		&bookingdomain.Booking{},
		&chargedomain.ChargeRecord{},
	)
	require.NoError(t, err)

	node, _ := snowflake.NewNode(1)
	fake := clock.NewFakeClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		Clock:    fake,
		Vehicles: vehiclerepo.Provide(),
		Bookings: bookingrepo.Provide(),
		Segments: segmentrepo.Provide(),
		Tariffs:  tariffrepo.Provide(),
		Charges:  chargerepo.Provide(),
	})

	return &testEnv{db: db, node: node, clock: fake, svc: svc}
}

func (e *testEnv) seedTariff(t *testing.T) {
	t.Helper()
	e.db.Create(&tariffdomain.EmissionClass{ID: 1, Name: "EURO6"})
	e.db.Create(&tariffdomain.TollCategory{
		ID: 1, EmissionClassID: 1, AxleRule: "= 2",
		RatePerKm: decimal.NewFromFloat(1.50),
	})
	e.db.Create(&tariffdomain.TollCategory{
		ID: 2, EmissionClassID: 1, AxleRule: ">= 3",
		RatePerKm: decimal.NewFromFloat(2.25),
	})
	e.db.Create(&segmentdomain.TollSegment{
		ID: 10, Name: "A10 Nord", LengthMeters: 50000, SectionType: "motorway",
	})
}

func (e *testEnv) seedAutomaticVehicle(t *testing.T, plate string, axles int, deviceStatus string) *vehicledomain.Vehicle {
	t.Helper()
	vehicle := &vehicledomain.Vehicle{
		ID:              e.node.Generate(),
		Plate:           plate,
		OwnerID:         7,
		EmissionClassID: 1,
		Axles:           axles,
		RegisteredAt:    e.clock.Now(),
	}
	e.db.Create(vehicle)
	e.db.Create(&vehicledomain.OnBoardUnit{
		ID:          e.node.Generate(),
		VehicleID:   vehicle.ID,
		Status:      deviceStatus,
		InstalledAt: e.clock.Now(),
	})
	return vehicle
}

func (e *testEnv) seedBooking(t *testing.T, plate string, segmentID, categoryID int64, status string) *bookingdomain.Booking {
	t.Helper()
	booking := &bookingdomain.Booking{
		ID:         e.node.Generate(),
		Plate:      plate,
		SegmentID:  segmentID,
		CategoryID: categoryID,
		Status:     status,
		BookedAt:   e.clock.Now().Add(-48 * time.Hour),
	}
	e.db.Create(booking)
	return booking
}

func TestAssess_UnknownVehicle(t *testing.T) {
	env := setupEnv(t)
	env.seedTariff(t)

	_, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 2, Plate: "B-XX 1",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownVehicle)
}

func TestAssess_UnknownSegment(t *testing.T) {
	env := setupEnv(t)
	env.seedTariff(t)
	env.seedAutomaticVehicle(t, "B-AB 12", 2, vehicledomain.DeviceStatusActive)

	_, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 99, Axles: 2, Plate: "B-AB 12",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownSegment)
}

func TestAssess_AutomaticCharges(t *testing.T) {
	env := setupEnv(t)
	env.seedTariff(t)
	env.seedAutomaticVehicle(t, "B-AB 12", 2, vehicledomain.DeviceStatusActive)

	result, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 2, Plate: "B-AB 12",
	})
	require.NoError(t, err)
	assert.True(t, result.Charged)
	assert.False(t, result.BookingClosed)
	assert.Equal(t, int64(1), result.ChargeID)
	assert.Equal(t, int64(1), result.CategoryID)
	// 50 km at 1.50 cents/km
	assert.Equal(t, "0.75", result.Cost.StringFixed(2))

	var charge chargedomain.ChargeRecord
	require.NoError(t, env.db.First(&charge, "id = ?", 1).Error)
	assert.Equal(t, int64(10), charge.SegmentID)
	assert.True(t, charge.TraversedAt.Equal(env.clock.Now()))
}

func TestAssess_AutomaticChargeIDsAreSequential(t *testing.T) {
	env := setupEnv(t)
	env.seedTariff(t)
	env.seedAutomaticVehicle(t, "B-AB 12", 2, vehicledomain.DeviceStatusActive)

	first, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 2, Plate: "B-AB 12",
	})
	require.NoError(t, err)
	second, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 2, Plate: "B-AB 12",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ChargeID)
	assert.Equal(t, int64(2), second.ChargeID)
}

func TestAssess_AutomaticAxleMismatch(t *testing.T) {
	env := setupEnv(t)
	env.seedTariff(t)
	env.seedAutomaticVehicle(t, "B-AB 12", 2, vehicledomain.DeviceStatusActive)

	_, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 5, Plate: "B-AB 12",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidVehicleData)

	var count int64
	env.db.Model(&chargedomain.ChargeRecord{}).Count(&count)
	assert.Zero(t, count)
}

func TestAssess_InactiveDeviceIsNotAutomatic(t *testing.T) {
	env := setupEnv(t)
	env.seedTariff(t)
	env.seedAutomaticVehicle(t, "B-AB 12", 2, vehicledomain.DeviceStatusDefect)

	_, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 2, Plate: "B-AB 12",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownVehicle)
}

func TestAssess_DeregisteredVehicleIsNotAutomatic(t *testing.T) {
	env := setupEnv(t)
	env.seedTariff(t)
	vehicle := env.seedAutomaticVehicle(t, "B-AB 12", 2, vehicledomain.DeviceStatusActive)
	at := env.clock.Now().Add(-time.Hour)
	env.db.Model(&vehicledomain.Vehicle{}).Where("id = ?", vehicle.ID).
		Update("deregistered_at", at)

	_, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 2, Plate: "B-AB 12",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownVehicle)
}

func TestAssess_BookingClosedOnTraversal(t *testing.T) {
	env := setupEnv(t)
	env.seedTariff(t)
	env.seedBooking(t, "HH-CD 34", 10, 1, bookingdomain.StatusOpen)

	result, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 2, Plate: "HH-CD 34",
	})
	require.NoError(t, err)
	assert.True(t, result.BookingClosed)
	assert.False(t, result.Charged)
	assert.True(t, result.Cost.IsZero())

	var booking bookingdomain.Booking
	require.NoError(t, env.db.First(&booking, "plate = ?", "HH-CD 34").Error)
	assert.Equal(t, bookingdomain.StatusClosed, booking.Status)
	require.NotNil(t, booking.TraversedAt)
	assert.True(t, booking.TraversedAt.Equal(env.clock.Now()))
}

func TestAssess_SecondTraversalAlreadyCruised(t *testing.T) {
	env := setupEnv(t)
	env.seedTariff(t)
	env.seedBooking(t, "HH-CD 34", 10, 1, bookingdomain.StatusOpen)

	req := domain.AssessRequest{SegmentID: 10, Axles: 2, Plate: "HH-CD 34"}
	_, err := env.svc.Assess(context.Background(), req)
	require.NoError(t, err)

	_, err = env.svc.Assess(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrAlreadyCruised)
}

func TestAssess_AxleMismatchBeatsAlreadyCruised(t *testing.T) {
	env := setupEnv(t)
	env.seedTariff(t)
	env.seedBooking(t, "HH-CD 34", 10, 1, bookingdomain.StatusClosed)

	// Category 1 requires exactly 2 axles; the misread is reported even
	// though the booking is also already consumed.
	_, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 4, Plate: "HH-CD 34",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidVehicleData)
}

func TestAssess_BookingAxleRuleMismatch(t *testing.T) {
	env := setupEnv(t)
	env.seedTariff(t)
	env.seedBooking(t, "HH-CD 34", 10, 2, bookingdomain.StatusOpen)

	// Category 2 requires >= 3 axles.
	_, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 2, Plate: "HH-CD 34",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidVehicleData)

	var booking bookingdomain.Booking
	require.NoError(t, env.db.First(&booking, "plate = ?", "HH-CD 34").Error)
	assert.Equal(t, bookingdomain.StatusOpen, booking.Status)
}

func TestAssess_BookedAndAutomaticRunsBothPaths(t *testing.T) {
	env := setupEnv(t)
	env.seedTariff(t)
	env.seedAutomaticVehicle(t, "M-EF 56", 2, vehicledomain.DeviceStatusActive)
	env.seedBooking(t, "M-EF 56", 10, 1, bookingdomain.StatusOpen)

	result, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 2, Plate: "M-EF 56",
	})
	require.NoError(t, err)
	assert.True(t, result.BookingClosed)
	assert.True(t, result.Charged)
	assert.Equal(t, "0.75", result.Cost.StringFixed(2))

	var booking bookingdomain.Booking
	require.NoError(t, env.db.First(&booking, "plate = ?", "M-EF 56").Error)
	assert.Equal(t, bookingdomain.StatusClosed, booking.Status)
}

func TestAssess_NoMatchingCategoryChargesZero(t *testing.T) {
	env := setupEnv(t)
	env.db.Create(&tariffdomain.EmissionClass{ID: 1, Name: "EURO6"})
	env.db.Create(&tariffdomain.TollCategory{
		ID: 1, EmissionClassID: 1, AxleRule: ">= 6",
		RatePerKm: decimal.NewFromFloat(3.00),
	})
	env.db.Create(&segmentdomain.TollSegment{
		ID: 10, Name: "A10 Nord", LengthMeters: 50000, SectionType: "motorway",
	})
	env.seedAutomaticVehicle(t, "B-AB 12", 2, vehicledomain.DeviceStatusActive)

	result, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 2, Plate: "B-AB 12",
	})
	require.NoError(t, err)
	assert.True(t, result.Charged)
	assert.Zero(t, result.CategoryID)
	assert.True(t, result.Cost.IsZero())
}

func TestAssess_RejectsMalformedRequests(t *testing.T) {
	env := setupEnv(t)

	_, err := env.svc.Assess(context.Background(), domain.AssessRequest{SegmentID: 10, Axles: 2, Plate: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidPlate)

	_, err = env.svc.Assess(context.Background(), domain.AssessRequest{SegmentID: 0, Axles: 2, Plate: "B-AB 12"})
	assert.ErrorIs(t, err, domain.ErrInvalidSegment)

	_, err = env.svc.Assess(context.Background(), domain.AssessRequest{SegmentID: 10, Axles: 0, Plate: "B-AB 12"})
	assert.ErrorIs(t, err, domain.ErrInvalidAxles)
}

func TestAssess_RebookedPlateConsumesOpenBooking(t *testing.T) {
	env := setupEnv(t)
	env.seedTariff(t)
	env.seedBooking(t, "HH-CD 34", 10, 1, bookingdomain.StatusClosed)
	fresh := env.seedBooking(t, "HH-CD 34", 10, 1, bookingdomain.StatusOpen)

	result, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 2, Plate: "HH-CD 34",
	})
	require.NoError(t, err)
	assert.True(t, result.BookingClosed)

	var booking bookingdomain.Booking
	require.NoError(t, env.db.First(&booking, "id = ?", fresh.ID).Error)
	assert.Equal(t, bookingdomain.StatusClosed, booking.Status)
	require.NotNil(t, booking.TraversedAt)
	assert.True(t, booking.TraversedAt.Equal(env.clock.Now()))
}

func TestAssess_AutomaticIgnoresBookedCategoryRule(t *testing.T) {
	env := setupEnv(t)
	env.seedTariff(t)
	env.seedAutomaticVehicle(t, "M-EF 56", 2, vehicledomain.DeviceStatusActive)
	// Category 2 requires >= 3 axles; the stored vehicle row wins for an
	// automatically registered plate.
	env.seedBooking(t, "M-EF 56", 10, 2, bookingdomain.StatusOpen)

	result, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 2, Plate: "M-EF 56",
	})
	require.NoError(t, err)
	assert.True(t, result.BookingClosed)
	assert.True(t, result.Charged)
	assert.Equal(t, "0.75", result.Cost.StringFixed(2))
}

func TestAssess_ManualMalformedRuleFailsPassage(t *testing.T) {
	env := setupEnv(t)
	env.seedTariff(t)
	env.db.Create(&tariffdomain.TollCategory{
		ID: 3, EmissionClassID: 1, AxleRule: "<= 3",
		RatePerKm: decimal.NewFromFloat(2.00),
	})
	env.seedBooking(t, "HH-CD 34", 10, 3, bookingdomain.StatusOpen)

	_, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 2, Plate: "HH-CD 34",
	})
	assert.ErrorIs(t, err, tariffdomain.ErrUnrecognizedAxleRule)

	var booking bookingdomain.Booking
	require.NoError(t, env.db.First(&booking, "plate = ?", "HH-CD 34").Error)
	assert.Equal(t, bookingdomain.StatusOpen, booking.Status)
}

func TestAssess_AutomaticMalformedRuleFailsPassage(t *testing.T) {
	env := setupEnv(t)
	env.db.Create(&tariffdomain.EmissionClass{ID: 1, Name: "EURO6"})
	env.db.Create(&tariffdomain.TollCategory{
		ID: 1, EmissionClassID: 1, AxleRule: "<= 3",
		RatePerKm: decimal.NewFromFloat(1.50),
	})
	env.db.Create(&segmentdomain.TollSegment{
		ID: 10, Name: "A10 Nord", LengthMeters: 50000, SectionType: "motorway",
	})
	env.seedAutomaticVehicle(t, "B-AB 12", 2, vehicledomain.DeviceStatusActive)

	_, err := env.svc.Assess(context.Background(), domain.AssessRequest{
		SegmentID: 10, Axles: 2, Plate: "B-AB 12",
	})
	assert.ErrorIs(t, err, tariffdomain.ErrUnrecognizedAxleRule)

	var count int64
	env.db.Model(&chargedomain.ChargeRecord{}).Count(&count)
	assert.Zero(t, count)
}
