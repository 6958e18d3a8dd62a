package domain

import (
	"context"
	"errors"
)

type CreateBookingRequest struct {
	Plate      string
	SegmentID  int64
	CategoryID int64
}

type Service interface {
	Create(ctx context.Context, req CreateBookingRequest) (*Booking, error)
	// FindAnyForPlate returns the oldest booking held by the plate on any
	// segment, or ErrBookingNotFound when the plate never booked.
	FindAnyForPlate(ctx context.Context, plate string) (*Booking, error)
}

var (
	ErrInvalidPlate    = errors.New("invalid_plate")
	ErrInvalidSegment  = errors.New("invalid_segment")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrBookingExists   = errors.New("booking_exists")
	ErrBookingNotFound = errors.New("booking_not_found")
)
