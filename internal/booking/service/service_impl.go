package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tollgrid/tollgrid/internal/booking/domain"
	"github.com/tollgrid/tollgrid/internal/clock"
	"github.com/tollgrid/tollgrid/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
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

type bookingService struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &bookingService{
		db:    p.DB,
		log:   p.Log.Named("booking.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *bookingService) Create(ctx context.Context, req domain.CreateBookingRequest) (*domain.Booking, error) {
	plate := strings.TrimSpace(req.Plate)
	if plate == "" {
		return nil, domain.ErrInvalidPlate
	}
	if req.SegmentID <= 0 {
		return nil, domain.ErrInvalidSegment
	}
	if req.CategoryID <= 0 {
		return nil, domain.ErrInvalidCategory
	}

	booking := &domain.Booking{
		ID:         s.genID.Generate(),
		Plate:      plate,
		SegmentID:  req.SegmentID,
		CategoryID: req.CategoryID,
		Status:     domain.StatusOpen,
		BookedAt:   s.clock.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindForPlateAndSegment(ctx, tx, plate, req.SegmentID)
		if err != nil {
			return err
		}
		if existing != nil && existing.Status == domain.StatusOpen {
			return domain.ErrBookingExists
		}
		return s.repo.Insert(ctx, tx, booking)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrBookingExists
		}
		return nil, err
	}

	s.log.Info("booking created",
		zap.String("plate", booking.Plate),
		zap.Int64("segment_id", booking.SegmentID),
		zap.Int64("category_id", booking.CategoryID),
	)
	return booking, nil
}

func (s *bookingService) FindAnyForPlate(ctx context.Context, plate string) (*domain.Booking, error) {
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return nil, domain.ErrInvalidPlate
	}

	booking, err := s.repo.AnyForPlate(ctx, s.db, plate)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.ErrBookingNotFound
	}
	return booking, nil
}
