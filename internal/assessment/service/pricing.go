package service

import (
	"github.com/shopspring/decimal"
	tariffdomain "github.com/tollgrid/tollgrid/internal/tariff/domain"
)

var (
	thousand = decimal.NewFromInt(1000)
	hundred  = decimal.NewFromInt(100)
)

// resolveCategory picks the first category, in ascending ID order, whose
// axle rule matches the reported axle count. A malformed rule means the
// category table is corrupt, so the error propagates and the passage is
// not priced.
func resolveCategory(categories []tariffdomain.TollCategory, axles int) (*tariffdomain.TollCategory, error) {
	for i := range categories {
		ok, err := tariffdomain.MatchAxleRule(categories[i].AxleRule, axles)
		if err != nil {
			return nil, err
		}
		if ok {
			return &categories[i], nil
		}
	}
	return nil, nil
}

// computeToll prices a traversal. The segment length is carried in meters
// and the rate in cents per kilometer; both are converted to their major
// units with half-up rounding before multiplying, and the product is
// rounded to whole cents.
func computeToll(lengthMeters int64, ratePerKm decimal.Decimal) decimal.Decimal {
	lengthKm := decimal.NewFromInt(lengthMeters).DivRound(thousand, 3)
	rateMajor := ratePerKm.DivRound(hundred, 4)
	return lengthKm.Mul(rateMajor).Round(2)
}
