package migration

import (
	bookingdomain "github.com/tollgrid/tollgrid/internal/booking/domain"
	chargedomain "github.com/tollgrid/tollgrid/internal/charge/domain"
	"github.com/tollgrid/tollgrid/internal/config"
	"github.com/tollgrid/tollgrid/internal/seed"
	segmentdomain "github.com/tollgrid/tollgrid/internal/segment/domain"
	tariffdomain "github.com/tollgrid/tollgrid/internal/tariff/domain"
	vehicledomain "github.com/tollgrid/tollgrid/internal/vehicle/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql are development conveniences; gorm's
			// migrator is good enough there.
			if err := conn.AutoMigrate(
				&tariffdomain.EmissionClass{},
				&tariffdomain.TollCategory{},
				&segmentdomain.TollSegment{},
				&vehicledomain.Vehicle{},
				&vehicledomain.OnBoardUnit{},
				&bookingdomain.Booking{},
				&chargedomain.ChargeRecord{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoData(conn)
		}
		return nil
	}),
)
