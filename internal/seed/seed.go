package seed

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	segmentdomain "github.com/tollgrid/tollgrid/internal/segment/domain"
	tariffdomain "github.com/tollgrid/tollgrid/internal/tariff/domain"
	"gorm.io/gorm"
)

// EnsureDemoData seeds a minimal tariff catalogue and a few segments so a
// fresh local instance can assess passages without any manual setup. It is
// idempotent: existing rows are left untouched.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmissionClasses(ctx, tx); err != nil {
			return err
		}
		if err := ensureTollCategories(ctx, tx); err != nil {
			return err
		}
		return ensureSegments(ctx, tx)
	})
}

func ensureEmissionClasses(ctx context.Context, tx *gorm.DB) error {
	classes := []tariffdomain.EmissionClass{
		{ID: 1, Name: "EURO6"},
		{ID: 2, Name: "EURO5"},
		{ID: 3, Name: "EURO4"},
	}
	for _, class := range classes {
		if err := firstOrCreate(ctx, tx, &tariffdomain.EmissionClass{}, class.ID, &class); err != nil {
			return err
		}
	}
	return nil
}

func ensureTollCategories(ctx context.Context, tx *gorm.DB) error {
	rate := func(s string) decimal.Decimal {
		d, _ := decimal.NewFromString(s)
		return d
	}
	categories := []tariffdomain.TollCategory{
		{ID: 1, EmissionClassID: 1, AxleRule: "= 2", RatePerKm: rate("1.50")},
		{ID: 2, EmissionClassID: 1, AxleRule: "= 3", RatePerKm: rate("2.10")},
		{ID: 3, EmissionClassID: 1, AxleRule: ">= 4", RatePerKm: rate("2.90")},
		{ID: 4, EmissionClassID: 2, AxleRule: "= 2", RatePerKm: rate("1.90")},
		{ID: 5, EmissionClassID: 2, AxleRule: ">= 3", RatePerKm: rate("2.70")},
		{ID: 6, EmissionClassID: 3, AxleRule: ">= 2", RatePerKm: rate("3.40")},
	}
	for _, category := range categories {
		if err := firstOrCreate(ctx, tx, &tariffdomain.TollCategory{}, category.ID, &category); err != nil {
			return err
		}
	}
	return nil
}

func ensureSegments(ctx context.Context, tx *gorm.DB) error {
	segments := []segmentdomain.TollSegment{
		{ID: 1, Name: "A10 Nord", LengthMeters: 50000, StartCoordinate: "52.676,13.285", EndCoordinate: "52.588,13.821", SectionType: "motorway"},
		{ID: 2, Name: "A100 Stadtring", LengthMeters: 21000, StartCoordinate: "52.507,13.280", EndCoordinate: "52.470,13.442", SectionType: "urban"},
		{ID: 3, Name: "B96 Zubringer", LengthMeters: 13700, StartCoordinate: "52.391,13.512", EndCoordinate: "52.289,13.625", SectionType: "federal"},
	}
	for _, segment := range segments {
		if err := firstOrCreate(ctx, tx, &segmentdomain.TollSegment{}, segment.ID, &segment); err != nil {
			return err
		}
	}
	return nil
}

func firstOrCreate(ctx context.Context, tx *gorm.DB, existing any, id int64, row any) error {
	err := tx.WithContext(ctx).First(existing, "id = ?", id).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.WithContext(ctx).Create(row).Error
}
