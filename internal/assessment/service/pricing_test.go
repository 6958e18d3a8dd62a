package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	tariffdomain "github.com/tollgrid/tollgrid/internal/tariff/domain"
)

func TestComputeToll(t *testing.T) {
	tests := []struct {
		name         string
		lengthMeters int64
		ratePerKm    string
		want         string
	}{
		{"fifty km at 1.5 cents", 50000, "1.50", "0.75"},
		{"rounds length to three places", 1234, "2.00", "0.02"},
		{"rounds product half up", 12500, "1.00", "0.13"},
		{"zero length", 0, "2.25", "0.00"},
		{"long segment heavy rate", 137000, "4.20", "5.75"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := decimal.NewFromString(tt.ratePerKm)
			assert.NoError(t, err)
			got := computeToll(tt.lengthMeters, rate)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestResolveCategory(t *testing.T) {
	categories := []tariffdomain.TollCategory{
		{ID: 1, AxleRule: "= 2", RatePerKm: decimal.NewFromFloat(1.50)},
		{ID: 2, AxleRule: ">= 3", RatePerKm: decimal.NewFromFloat(2.25)},
	}

	two, err := resolveCategory(categories, 2)
	assert.NoError(t, err)
	assert.NotNil(t, two)
	assert.Equal(t, int64(1), two.ID)

	four, err := resolveCategory(categories, 4)
	assert.NoError(t, err)
	assert.NotNil(t, four)
	assert.Equal(t, int64(2), four.ID)

	one, err := resolveCategory(categories, 1)
	assert.NoError(t, err)
	assert.Nil(t, one)

	none, err := resolveCategory(nil, 2)
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestResolveCategoryMalformedRule(t *testing.T) {
	categories := []tariffdomain.TollCategory{
		{ID: 1, AxleRule: "= 2", RatePerKm: decimal.NewFromFloat(1.50)},
		{ID: 2, AxleRule: "bogus", RatePerKm: decimal.NewFromFloat(9.99)},
		{ID: 3, AxleRule: ">= 3", RatePerKm: decimal.NewFromFloat(2.25)},
	}

	// An earlier category still matches before the bad row is reached.
	two, err := resolveCategory(categories, 2)
	assert.NoError(t, err)
	assert.NotNil(t, two)

	// Scanning past it surfaces the corruption instead of skipping.
	got, err := resolveCategory(categories, 4)
	assert.ErrorIs(t, err, tariffdomain.ErrUnrecognizedAxleRule)
	assert.Nil(t, got)
}
