package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPlate   = errors.New("invalid_plate")
	ErrInvalidSegment = errors.New("invalid_segment")
	ErrInvalidAxles   = errors.New("invalid_axles")

	// ErrUnknownVehicle is returned when a plate is neither registered
	// for automatic collection nor holds a booking for the segment.
	ErrUnknownVehicle = errors.New("unknown_vehicle")

	// ErrInvalidVehicleData is returned when the reported axle count
	// contradicts the stored vehicle or the booked toll category.
	ErrInvalidVehicleData = errors.New("invalid_vehicle_data")

	// ErrAlreadyCruised is returned when the booking for the segment
	// was already consumed by an earlier passage.
	ErrAlreadyCruised = errors.New("already_cruised")

	ErrUnknownSegment = errors.New("unknown_segment")
)

// AssessRequest carries one gantry passage event.
type AssessRequest struct {
	SegmentID int64  `json:"segment_id"`
	Axles     int    `json:"axles"`
	Plate     string `json:"plate"`
}

// AssessResult reports what the engine did for a passage. A vehicle can
// be both booked and automatically registered, in which case the booking
// is closed and a charge is recorded in the same transaction.
type AssessResult struct {
	BookingClosed bool            `json:"booking_closed"`
	Charged       bool            `json:"charged"`
	ChargeID      int64           `json:"charge_id,omitempty"`
	CategoryID    int64           `json:"category_id,omitempty"`
	Cost          decimal.Decimal `json:"cost"`
}

type Service interface {
	Assess(ctx context.Context, req AssessRequest) (*AssessResult, error)
}
