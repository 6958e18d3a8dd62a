package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type RegisterVehicleRequest struct {
	Plate           string
	VIN             string
	OwnerID         int64
	EmissionClassID int64
	Axles           int
	WeightKg        int
	Country         string
}

type RegisterVehicleResponse struct {
	Vehicle Vehicle     `json:"vehicle"`
	Device  OnBoardUnit `json:"device"`
}

type Service interface {
	// Register inserts the vehicle and provisions its on-board unit in
	// active status within one transaction.
	Register(ctx context.Context, req RegisterVehicleRequest) (RegisterVehicleResponse, error)
	Deregister(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	DeviceStatus(ctx context.Context, deviceID string) (string, error)
	SetDeviceStatus(ctx context.Context, deviceID, status string) error

	OwnerForCharge(ctx context.Context, chargeID int64) (int64, error)
}

var (
	ErrInvalidPlate         = errors.New("invalid_plate")
	ErrInvalidOwner         = errors.New("invalid_owner")
	ErrInvalidEmissionClass = errors.New("invalid_emission_class")
	ErrInvalidAxles         = errors.New("invalid_axles")
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidDeviceStatus  = errors.New("invalid_device_status")
	ErrPlateExists          = errors.New("plate_exists")
	ErrNotFound             = errors.New("not_found")
)

// ParseID parses a snowflake identifier from its string form.
func ParseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(value)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
