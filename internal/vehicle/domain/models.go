package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Device lifecycle statuses. A unit only participates in automatic toll
// collection while its status is active.
const (
	DeviceStatusActive   = "active"
	DeviceStatusInactive = "inactive"
	DeviceStatusDefect   = "defect"
)

// Vehicle is a registered vehicle. The plate is the natural key; a vehicle
// stays eligible for automatic collection until DeregisteredAt is set.
type Vehicle struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	Plate           string            `gorm:"not null;uniqueIndex" json:"plate"`
	VIN             string            `gorm:"column:vin" json:"vin,omitempty"`
	OwnerID         int64             `gorm:"not null;index" json:"owner_id"`
	EmissionClassID int64             `gorm:"not null" json:"emission_class_id"`
	Axles           int               `gorm:"not null" json:"axles"`
	WeightKg        int               `gorm:"column:weight_kg" json:"weight_kg,omitempty"`
	Country         string            `json:"country,omitempty"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	RegisteredAt    time.Time         `gorm:"not null" json:"registered_at"`
	DeregisteredAt  *time.Time        `gorm:"index" json:"deregistered_at,omitempty"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

// OnBoardUnit is the toll device provisioned for exactly one vehicle.
type OnBoardUnit struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	VehicleID   snowflake.ID `gorm:"not null;uniqueIndex" json:"vehicle_id"`
	Status      string       `gorm:"not null" json:"status"`
	InstalledAt time.Time    `gorm:"not null" json:"installed_at"`
}

func (OnBoardUnit) TableName() string {
	return "on_board_units"
}
