package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tollgrid/tollgrid/internal/vehicle/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, vehicle *domain.Vehicle) error {
	return db.WithContext(ctx).Create(vehicle).Error
}

func (r *repo) FindByPlate(ctx context.Context, db *gorm.DB, plate string) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM vehicles WHERE plate = ?`,
		plate,
	).Scan(&vehicle).Error
	if err != nil {
		return nil, err
	}
	if vehicle.ID == 0 {
		return nil, nil
	}
	return &vehicle, nil
}

func (r *repo) Deregister(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE vehicles SET deregistered_at = ? WHERE id = ? AND deregistered_at IS NULL`,
		at, id,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM vehicles WHERE id = ?`, id)
	return res.RowsAffected, res.Error
}

func (r *repo) IsAutomaticallyRegistered(ctx context.Context, db *gorm.DB, plate string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM vehicles v
		 JOIN on_board_units u ON u.vehicle_id = v.id
		 WHERE v.plate = ? AND v.deregistered_at IS NULL AND u.status = ?`,
		plate, domain.DeviceStatusActive,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) EmissionClassID(ctx context.Context, db *gorm.DB, plate string, axles int) (int64, error) {
	var classID int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(emission_class_id), 0) FROM vehicles
		 WHERE plate = ? AND axles = ? AND deregistered_at IS NULL`,
		plate, axles,
	).Scan(&classID).Error
	if err != nil {
		return 0, err
	}
	return classID, nil
}

func (r *repo) ActiveDeviceID(ctx context.Context, db *gorm.DB, plate string, axles int, emissionClassID int64) (snowflake.ID, error) {
	var deviceID snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(u.id), 0) FROM on_board_units u
		 JOIN vehicles v ON u.vehicle_id = v.id
		 WHERE v.plate = ? AND v.axles = ? AND v.emission_class_id = ?`,
		plate, axles, emissionClassID,
	).Scan(&deviceID).Error
	if err != nil {
		return 0, err
	}
	return deviceID, nil
}

func (r *repo) InsertDevice(ctx context.Context, db *gorm.DB, unit *domain.OnBoardUnit) error {
	return db.WithContext(ctx).Create(unit).Error
}

func (r *repo) FindDevice(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.OnBoardUnit, error) {
	var unit domain.OnBoardUnit
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM on_board_units WHERE id = ?`,
		id,
	).Scan(&unit).Error
	if err != nil {
		return nil, err
	}
	if unit.ID == 0 {
		return nil, nil
	}
	return &unit, nil
}

func (r *repo) UpdateDeviceStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE on_board_units SET status = ? WHERE id = ?`,
		status, id,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) OwnerForCharge(ctx context.Context, db *gorm.DB, chargeID int64) (int64, error) {
	var ownerID int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(v.owner_id), 0) FROM toll_charges c
		 JOIN on_board_units u ON c.device_id = u.id
		 JOIN vehicles v ON u.vehicle_id = v.id
		 WHERE c.id = ?`,
		chargeID,
	).Scan(&ownerID).Error
	if err != nil {
		return 0, err
	}
	return ownerID, nil
}
