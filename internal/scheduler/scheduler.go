package scheduler

import (
	"context"
	"errors"
	"time"

	bookingdomain "github.com/tollgrid/tollgrid/internal/booking/domain"
	"github.com/tollgrid/tollgrid/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidConfig = errors.New("scheduler configuration is invalid")

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Bookings bookingdomain.Repository
	Config   Config `optional:"true"`
}

// Scheduler periodically cancels open bookings that were never traversed.
// Bookings are pre-paid for a limited validity window; after it passes the
// slot is released so the plate can book the segment again.
type Scheduler struct {
	db       *gorm.DB
	log      *zap.Logger
	cfg      Config
	clock    clock.Clock
	bookings bookingdomain.Repository
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil || p.Bookings == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:       p.DB,
		log:      p.Log.Named("scheduler"),
		cfg:      p.Config.withDefaults(),
		clock:    p.Clock,
		bookings: p.Bookings,
	}, nil
}

// RunOnce performs a single expiry sweep and reports how many bookings
// it cancelled.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	cutoff := s.clock.Now().Add(-s.cfg.BookingMaxAge)

	cancelled := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired, err := s.bookings.ListExpiredOpen(ctx, tx, cutoff, s.cfg.BatchSize)
		if err != nil {
			return err
		}
		for i := range expired {
			if _, err := bookingdomain.Transition(expired[i].Status, bookingdomain.EventCancel); err != nil {
				continue
			}
			affected, err := s.bookings.Cancel(ctx, tx, expired[i].ID)
			if err != nil {
				return err
			}
			cancelled += int(affected)
		}
		return nil
	})
	if err != nil {
		return cancelled, err
	}

	if cancelled > 0 {
		s.log.Info("expired bookings cancelled",
			zap.Int("count", cancelled),
			zap.Time("cutoff", cutoff),
		)
	}
	return cancelled, nil
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.log.Error("booking expiry sweep failed", zap.Error(err))
			}
		}
	}
}

var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, s *Scheduler) {
		ctx, cancel := context.WithCancel(context.Background())
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				go s.loop(ctx)
				return nil
			},
			OnStop: func(context.Context) error {
				cancel()
				return nil
			},
		})
	}),
)
