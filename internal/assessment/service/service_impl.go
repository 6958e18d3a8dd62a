package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tollgrid/tollgrid/internal/assessment/domain"
	bookingdomain "github.com/tollgrid/tollgrid/internal/booking/domain"
	chargedomain "github.com/tollgrid/tollgrid/internal/charge/domain"
	"github.com/tollgrid/tollgrid/internal/clock"
	"github.com/tollgrid/tollgrid/internal/observability/logger"
	"github.com/tollgrid/tollgrid/internal/observability/metrics"
	segmentdomain "github.com/tollgrid/tollgrid/internal/segment/domain"
	tariffdomain "github.com/tollgrid/tollgrid/internal/tariff/domain"
	vehicledomain "github.com/tollgrid/tollgrid/internal/vehicle/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Metrics  *metrics.Metrics `optional:"true"`
	Vehicles vehicledomain.Repository
	Bookings bookingdomain.Repository
	Segments segmentdomain.Repository
	Tariffs  tariffdomain.Repository
	Charges  chargedomain.Repository
}

type assessmentService struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	metrics  *metrics.Metrics
	vehicles vehicledomain.Repository
	bookings bookingdomain.Repository
	segments segmentdomain.Repository
	tariffs  tariffdomain.Repository
	charges  chargedomain.Repository
}

func New(p Params) domain.Service {
	return &assessmentService{
		db:       p.DB,
		log:      p.Log.Named("assessment.service"),
		clock:    p.Clock,
		metrics:  p.Metrics,
		vehicles: p.Vehicles,
		bookings: p.Bookings,
		segments: p.Segments,
		tariffs:  p.Tariffs,
		charges:  p.Charges,
	}
}

// Assess decides, for one gantry passage, whether the vehicle pays via a
// pre-paid booking, via its on-board unit, both, or not at all. All reads
// and writes happen inside a single transaction so a concurrent passage
// for the same plate cannot double-close a booking or skew the charge
// sequence.
func (s *assessmentService) Assess(ctx context.Context, req domain.AssessRequest) (*domain.AssessResult, error) {
	plate := strings.TrimSpace(req.Plate)
	if plate == "" {
		return nil, domain.ErrInvalidPlate
	}
	if req.SegmentID <= 0 {
		return nil, domain.ErrInvalidSegment
	}
	if req.Axles <= 0 {
		return nil, domain.ErrInvalidAxles
	}

	log := logger.WithContext(ctx, s.log).With(
		zap.Int64("segment_id", req.SegmentID),
		zap.Int("axles", req.Axles),
	)

	result := &domain.AssessResult{Cost: decimal.Zero}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		segment, err := s.segments.FindByID(ctx, tx, req.SegmentID)
		if err != nil {
			return err
		}
		if segment == nil {
			return domain.ErrUnknownSegment
		}

		automatic, err := s.vehicles.IsAutomaticallyRegistered(ctx, tx, plate)
		if err != nil {
			return err
		}
		booking, err := s.bookings.FindForPlateAndSegment(ctx, tx, plate, req.SegmentID)
		if err != nil {
			return err
		}
		if !automatic && booking == nil {
			return domain.ErrUnknownVehicle
		}

		// The axle count reported by the gantry has to agree with what we
		// know about the vehicle. An automatic registration is validated
		// against the stored vehicle row; only a plate without one falls
		// back to the axle rule of the booked category. The check runs
		// before the already-cruised check so a misread never consumes a
		// booking.
		var emissionClassID int64
		axleOK := true
		if automatic {
			emissionClassID, err = s.vehicles.EmissionClassID(ctx, tx, plate, req.Axles)
			if err != nil {
				return err
			}
			if emissionClassID == 0 {
				axleOK = false
			}
		} else {
			category, err := s.tariffs.FindByID(ctx, tx, booking.CategoryID)
			if err != nil {
				return err
			}
			if category == nil {
				axleOK = false
			} else {
				ok, err := tariffdomain.MatchAxleRule(category.AxleRule, req.Axles)
				if err != nil {
					return err
				}
				axleOK = ok
			}
		}
		if !axleOK {
			return domain.ErrInvalidVehicleData
		}

		if booking != nil {
			if booking.IsClosed() {
				return domain.ErrAlreadyCruised
			}
			if _, err := bookingdomain.Transition(booking.Status, bookingdomain.EventClose); err != nil {
				return domain.ErrAlreadyCruised
			}
			affected, err := s.bookings.Close(ctx, tx, booking.ID, s.clock.Now())
			if err != nil {
				return err
			}
			if affected == 0 {
				return domain.ErrAlreadyCruised
			}
			result.BookingClosed = true
		}

		if automatic {
			charge, err := s.recordCharge(ctx, tx, plate, req.Axles, emissionClassID, segment)
			if err != nil {
				return err
			}
			result.Charged = true
			result.ChargeID = charge.ID
			result.CategoryID = charge.CategoryID
			result.Cost = charge.Cost
		}
		return nil
	})
	if err != nil {
		s.recordOutcome(ctx, err)
		return nil, err
	}

	s.recordOutcome(ctx, nil)
	if result.BookingClosed {
		if s.metrics != nil {
			s.metrics.RecordBookingClosed(ctx)
		}
		log.Info("booking closed by passage")
	}
	if result.Charged {
		if s.metrics != nil {
			s.metrics.RecordCharge(ctx, result.CategoryID)
		}
		log.Info("passage charged",
			zap.Int64("charge_id", result.ChargeID),
			zap.Int64("category_id", result.CategoryID),
			zap.String("cost", result.Cost.StringFixed(2)),
		)
	}
	return result, nil
}

// recordCharge prices the traversal against the vehicle's emission class
// and writes the charge row. When no category of the class matches the
// axle count the traversal is still recorded, at zero cost, so the
// passage is not silently lost.
func (s *assessmentService) recordCharge(ctx context.Context, tx *gorm.DB, plate string, axles int, emissionClassID int64, segment *segmentdomain.TollSegment) (*chargedomain.ChargeRecord, error) {
	categories, err := s.tariffs.ListByEmissionClass(ctx, tx, emissionClassID)
	if err != nil {
		return nil, err
	}

	var categoryID int64
	cost := decimal.Zero
	category, err := resolveCategory(categories, axles)
	if err != nil {
		return nil, err
	}
	if category != nil {
		categoryID = category.ID
		cost = computeToll(segment.LengthMeters, category.RatePerKm)
	} else {
		logger.WithContext(ctx, s.log).Warn("no toll category matched, charging zero",
			zap.Int64("emission_class_id", emissionClassID),
			zap.Int("axles", axles),
		)
	}

	deviceID, err := s.vehicles.ActiveDeviceID(ctx, tx, plate, axles, emissionClassID)
	if err != nil {
		return nil, err
	}
	chargeID, err := s.charges.NextID(ctx, tx)
	if err != nil {
		return nil, err
	}

	charge := &chargedomain.ChargeRecord{
		ID:          chargeID,
		SegmentID:   segment.ID,
		DeviceID:    deviceID,
		CategoryID:  categoryID,
		TraversedAt: s.clock.Now(),
		Cost:        cost,
	}
	if err := s.charges.Insert(ctx, tx, charge); err != nil {
		return nil, err
	}
	return charge, nil
}

func (s *assessmentService) recordOutcome(ctx context.Context, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "assessed"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUnknownVehicle):
		outcome = "unknown_vehicle"
	case errors.Is(err, domain.ErrInvalidVehicleData):
		outcome = "invalid_vehicle_data"
	case errors.Is(err, domain.ErrAlreadyCruised):
		outcome = "already_cruised"
	case errors.Is(err, tariffdomain.ErrUnrecognizedAxleRule):
		outcome = "unrecognized_axle_rule"
	default:
		outcome = "error"
	}
	s.metrics.RecordAssessment(ctx, outcome)
}
