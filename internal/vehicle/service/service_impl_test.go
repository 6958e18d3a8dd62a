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
	"github.com/tollgrid/tollgrid/internal/clock"
	"github.com/tollgrid/tollgrid/internal/vehicle/domain"
	"github.com/tollgrid/tollgrid/internal/vehicle/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Vehicle{}, &domain.OnBoardUnit{}))

	node, _ := snowflake.NewNode(1)
	fake := clock.NewFakeClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	})
	return svc, db, fake
}

func TestRegister_ProvisionsActiveDevice(t *testing.T) {
	svc, db, fake := setupService(t)

	resp, err := svc.Register(context.Background(), domain.RegisterVehicleRequest{
		Plate:           "B-AB 12",
		OwnerID:         7,
		EmissionClassID: 1,
		Axles:           2,
	})
	require.NoError(t, err)
	assert.Equal(t, "B-AB 12", resp.Vehicle.Plate)
	assert.Equal(t, domain.DeviceStatusActive, resp.Device.Status)
	assert.Equal(t, resp.Vehicle.ID, resp.Device.VehicleID)
	assert.True(t, resp.Vehicle.RegisteredAt.Equal(fake.Now()))

	var count int64
	db.Model(&domain.OnBoardUnit{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterVehicleRequest{OwnerID: 7, EmissionClassID: 1, Axles: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidPlate)

	_, err = svc.Register(ctx, domain.RegisterVehicleRequest{Plate: "B-AB 12", EmissionClassID: 1, Axles: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidOwner)

	_, err = svc.Register(ctx, domain.RegisterVehicleRequest{Plate: "B-AB 12", OwnerID: 7, Axles: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidEmissionClass)

	_, err = svc.Register(ctx, domain.RegisterVehicleRequest{Plate: "B-AB 12", OwnerID: 7, EmissionClassID: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidAxles)
}

func TestRegister_DuplicatePlate(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	req := domain.RegisterVehicleRequest{Plate: "B-AB 12", OwnerID: 7, EmissionClassID: 1, Axles: 2}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrPlateExists)
}

func TestDeregister(t *testing.T) {
	svc, db, fake := setupService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, domain.RegisterVehicleRequest{
		Plate: "B-AB 12", OwnerID: 7, EmissionClassID: 1, Axles: 2,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deregister(ctx, resp.Vehicle.ID.String()))

	var vehicle domain.Vehicle
	require.NoError(t, db.First(&vehicle, "id = ?", resp.Vehicle.ID).Error)
	require.NotNil(t, vehicle.DeregisteredAt)
	assert.True(t, vehicle.DeregisteredAt.Equal(fake.Now()))

	// A second deregistration finds no active row.
	assert.ErrorIs(t, svc.Deregister(ctx, resp.Vehicle.ID.String()), domain.ErrNotFound)

	assert.ErrorIs(t, svc.Deregister(ctx, "not-a-number"), domain.ErrInvalidID)
}

func TestDeviceStatusLifecycle(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, domain.RegisterVehicleRequest{
		Plate: "B-AB 12", OwnerID: 7, EmissionClassID: 1, Axles: 2,
	})
	require.NoError(t, err)
	deviceID := resp.Device.ID.String()

	status, err := svc.DeviceStatus(ctx, deviceID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceStatusActive, status)

	require.NoError(t, svc.SetDeviceStatus(ctx, deviceID, "Defect"))
	status, err = svc.DeviceStatus(ctx, deviceID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceStatusDefect, status)

	assert.ErrorIs(t, svc.SetDeviceStatus(ctx, deviceID, "broken"), domain.ErrInvalidDeviceStatus)
}

func TestOwnerForCharge_NotFound(t *testing.T) {
	svc, db, _ := setupService(t)
	require.NoError(t, db.Exec(
		`CREATE TABLE toll_charges (id INTEGER PRIMARY KEY, segment_id INTEGER, device_id INTEGER, category_id INTEGER, traversed_at DATETIME, cost NUMERIC)`,
	).Error)

	_, err := svc.OwnerForCharge(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.OwnerForCharge(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
