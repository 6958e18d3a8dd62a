package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, vehicle *Vehicle) error
	FindByPlate(ctx context.Context, db *gorm.DB, plate string) (*Vehicle, error)
	Deregister(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)

	// IsAutomaticallyRegistered reports whether the plate belongs to a
	// non-deregistered vehicle with an on-board unit in active status.
	IsAutomaticallyRegistered(ctx context.Context, db *gorm.DB, plate string) (bool, error)

	// EmissionClassID resolves the pollution class for a non-deregistered
	// vehicle whose stored axle count equals the declared one. Returns 0
	// when no such vehicle exists, which doubles as the stored-data check
	// on the automatic path.
	EmissionClassID(ctx context.Context, db *gorm.DB, plate string, axles int) (int64, error)

	// ActiveDeviceID resolves the on-board unit for the matching vehicle.
	ActiveDeviceID(ctx context.Context, db *gorm.DB, plate string, axles int, emissionClassID int64) (snowflake.ID, error)

	InsertDevice(ctx context.Context, db *gorm.DB, unit *OnBoardUnit) error
	FindDevice(ctx context.Context, db *gorm.DB, id snowflake.ID) (*OnBoardUnit, error)
	UpdateDeviceStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string) (int64, error)

	// OwnerForCharge resolves the owner of the vehicle whose device produced
	// the given toll charge.
	OwnerForCharge(ctx context.Context, db *gorm.DB, chargeID int64) (int64, error)
}
