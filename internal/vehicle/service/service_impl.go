package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tollgrid/tollgrid/internal/clock"
	"github.com/tollgrid/tollgrid/internal/vehicle/domain"
	"github.com/tollgrid/tollgrid/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("vehicle.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterVehicleRequest) (domain.RegisterVehicleResponse, error) {
	plate := strings.TrimSpace(req.Plate)
	if plate == "" {
		return domain.RegisterVehicleResponse{}, domain.ErrInvalidPlate
	}
	if req.OwnerID == 0 {
		return domain.RegisterVehicleResponse{}, domain.ErrInvalidOwner
	}
	if req.EmissionClassID == 0 {
		return domain.RegisterVehicleResponse{}, domain.ErrInvalidEmissionClass
	}
	if req.Axles <= 0 {
		return domain.RegisterVehicleResponse{}, domain.ErrInvalidAxles
	}

	now := s.clock.Now()
	vehicle := domain.Vehicle{
		ID:              s.genID.Generate(),
		Plate:           plate,
		VIN:             strings.TrimSpace(req.VIN),
		OwnerID:         req.OwnerID,
		EmissionClassID: req.EmissionClassID,
		Axles:           req.Axles,
		WeightKg:        req.WeightKg,
		Country:         strings.TrimSpace(req.Country),
		Metadata:        datatypes.JSONMap{},
		RegisteredAt:    now,
	}
	unit := domain.OnBoardUnit{
		ID:          s.genID.Generate(),
		VehicleID:   vehicle.ID,
		Status:      domain.DeviceStatusActive,
		InstalledAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &vehicle); err != nil {
			return err
		}
		return s.repo.InsertDevice(ctx, tx, &unit)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.RegisterVehicleResponse{}, domain.ErrPlateExists
		}
		return domain.RegisterVehicleResponse{}, err
	}

	s.log.Info("vehicle registered",
		zap.String("plate", plate),
		zap.Int64("vehicle_id", int64(vehicle.ID)),
		zap.Int64("device_id", int64(unit.ID)),
	)
	return domain.RegisterVehicleResponse{Vehicle: vehicle, Device: unit}, nil
}

func (s *Service) Deregister(ctx context.Context, id string) error {
	vehicleID, err := domain.ParseID(id)
	if err != nil {
		return err
	}

	affected, err := s.repo.Deregister(ctx, s.db, vehicleID, s.clock.Now())
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.log.Info("vehicle deregistered", zap.Int64("vehicle_id", int64(vehicleID)))
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	vehicleID, err := domain.ParseID(id)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, s.db, vehicleID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.log.Info("vehicle deleted", zap.Int64("vehicle_id", int64(vehicleID)))
	return nil
}

func (s *Service) DeviceStatus(ctx context.Context, deviceID string) (string, error) {
	id, err := domain.ParseID(deviceID)
	if err != nil {
		return "", err
	}

	unit, err := s.repo.FindDevice(ctx, s.db, id)
	if err != nil {
		return "", err
	}
	if unit == nil {
		return "", domain.ErrNotFound
	}
	return unit.Status, nil
}

func (s *Service) SetDeviceStatus(ctx context.Context, deviceID, status string) error {
	id, err := domain.ParseID(deviceID)
	if err != nil {
		return err
	}

	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case domain.DeviceStatusActive, domain.DeviceStatusInactive, domain.DeviceStatusDefect:
	default:
		return domain.ErrInvalidDeviceStatus
	}

	affected, err := s.repo.UpdateDeviceStatus(ctx, s.db, id, status)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.log.Info("device status updated",
		zap.Int64("device_id", int64(id)),
		zap.String("status", status),
	)
	return nil
}

func (s *Service) OwnerForCharge(ctx context.Context, chargeID int64) (int64, error) {
	if chargeID <= 0 {
		return 0, domain.ErrInvalidID
	}

	ownerID, err := s.repo.OwnerForCharge(ctx, s.db, chargeID)
	if err != nil {
		return 0, err
	}
	if ownerID == 0 {
		return 0, domain.ErrNotFound
	}
	return ownerID, nil
}
