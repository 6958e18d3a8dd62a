package service

import (
	"context"
	"strings"

	"github.com/tollgrid/tollgrid/internal/cache"
	"github.com/tollgrid/tollgrid/internal/segment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	Cache cache.SegmentCache `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	cache cache.SegmentCache
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("segment.service"),
		repo:  p.Repo,
		cache: p.Cache,
	}
}

func (s *Service) Get(ctx context.Context, id int64) (domain.TollSegment, error) {
	if s.cache != nil {
		if segment, ok := s.cache.GetSegment(id); ok {
			return segment, nil
		}
	}

	segment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.TollSegment{}, err
	}
	if segment == nil {
		return domain.TollSegment{}, domain.ErrNotFound
	}
	if s.cache != nil {
		s.cache.SetSegment(*segment)
	}
	return *segment, nil
}

func (s *Service) ListByType(ctx context.Context, sectionType string) ([]domain.TollSegment, error) {
	sectionType = strings.TrimSpace(sectionType)
	if sectionType == "" {
		return nil, domain.ErrInvalidSectionType
	}

	if s.cache != nil {
		if segments, ok := s.cache.GetByType(sectionType); ok {
			return segments, nil
		}
	}

	segments, err := s.repo.ListByType(ctx, s.db, sectionType)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetByType(sectionType, segments)
	}
	return segments, nil
}
