package curve

import (
	"math"
	"testing"

	"github.com/mcstate/pricer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroRateCurve(t *testing.T) {
	c, err := New("USD", domain.AssetCurve{Kind: domain.KindZeroRates, Table: [][]float64{{1, 0.02}, {2, 0.03}}})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, c.Forward(0), 1e-15)
	assert.InDelta(t, math.Exp(-0.02), c.Discount(1), 1e-15)
	assert.InDelta(t, math.Exp(-0.06), c.Discount(2), 1e-15)
	assert.InDelta(t, math.Exp(-0.025*1.5), c.Discount(1.5), 1e-15, "zero rate interpolated linearly")
	assert.InDelta(t, math.Exp(-0.03*4), c.Discount(4), 1e-15, "flat zero rate beyond the last row")
	assert.InDelta(t, math.Exp(-0.02*0.5), c.Discount(0.5), 1e-15, "flat zero rate before the first row")

	// forward rate over [1, 2] is (0.06 - 0.02) / 1
	assert.InDelta(t, 0.04, c.Rate(2, 1), 1e-12)
	assert.InDelta(t, 0.02, c.Rate(1, 0), 1e-12)
}

func TestSingleRowCurveIsFlat(t *testing.T) {
	c, err := New("USD", domain.AssetCurve{Kind: domain.KindZeroRates, Table: [][]float64{{1, 0.04}}})
	require.NoError(t, err)
	for _, tt := range []struct{ t1, t0 float64 }{{1, 0}, {0.3, 0.1}, {10, 2}} {
		assert.InDelta(t, 0.04, c.Rate(tt.t1, tt.t0), 1e-12)
	}
	assert.InDelta(t, math.Exp(-0.04*3), c.Discount(3), 1e-15)
}

func TestForwardCurve(t *testing.T) {
	spot := 2900.0
	c, err := New("SPX", domain.AssetCurve{Kind: domain.KindForwards, Table: [][]float64{
		{1, spot * math.Exp(0.03)},
		{0, spot},
		{3, spot * math.Exp(0.03+2*0.05)},
	}})
	require.NoError(t, err)

	assert.InDelta(t, spot, c.Forward(0), 1e-9)
	assert.InDelta(t, spot*math.Exp(0.015), c.Forward(0.5), 1e-9, "log-linear between rows")
	assert.InDelta(t, 0.03, c.Rate(1, 0), 1e-12)
	assert.InDelta(t, 0.05, c.Rate(3, 1), 1e-12)
	assert.InDelta(t, (0.03*0.5+0.05*1)/1.5, c.Rate(2, 0.5), 1e-12)
	assert.InDelta(t, 0.05, c.Rate(2, 2), 1e-12, "instantaneous rate for an empty interval")
	assert.InDelta(t, math.Exp(-0.03), c.Discount(1), 1e-12)
}

func TestInstantaneousRate(t *testing.T) {
	spot := 2900.0
	fwd, err := New("SPX", domain.AssetCurve{Kind: domain.KindForwards, Table: [][]float64{
		{0, spot},
		{1, spot * math.Exp(0.03)},
		{3, spot * math.Exp(0.03+2*0.05)},
	}})
	require.NoError(t, err)
	zero, err := New("USD", domain.AssetCurve{Kind: domain.KindZeroRates, Table: [][]float64{{1, 0.02}, {2, 0.03}}})
	require.NoError(t, err)

	tests := []struct {
		name string
		c    *Curve
		t0   float64
		want float64
	}{
		{"forward first segment", fwd, 0.5, 0.03},
		{"forward at a knot takes the next segment", fwd, 1, 0.05},
		{"forward at the origin", fwd, 0, 0.03},
		{"forward beyond the table", fwd, 4, 0},
		{"zero rate before the table", zero, 0.5, 0.02},
		// z(t) + t·z'(t) = 0.025 + 1.5·0.01
		{"zero rate inside the table", zero, 1.5, 0.04},
		{"zero rate at the first knot", zero, 1, 0.03},
		{"zero rate beyond the table", zero, 3, 0.03},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.c.Rate(tt.t0, tt.t0), 1e-12)
			assert.InDelta(t, tt.want, tt.c.Rate(tt.t0-0.1, tt.t0), 1e-12, "reversed interval")
		})
	}
}

func TestCurveErrors(t *testing.T) {
	tests := []struct {
		name string
		ac   domain.AssetCurve
	}{
		{"empty", domain.AssetCurve{Kind: domain.KindZeroRates}},
		{"three columns", domain.AssetCurve{Kind: domain.KindZeroRates, Table: [][]float64{{1, 0.02, 3}}}},
		{"duplicate time", domain.AssetCurve{Kind: domain.KindZeroRates, Table: [][]float64{{1, 0.02}, {1, 0.03}}}},
		{"negative forward", domain.AssetCurve{Kind: domain.KindForwards, Table: [][]float64{{0, -5}}}},
		{"NaN", domain.AssetCurve{Kind: domain.KindForwards, Table: [][]float64{{0, math.NaN()}}}},
		{"unknown kind", domain.AssetCurve{Kind: "SPREADS", Table: [][]float64{{0, 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("X", tt.ac)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidDataset)
			assert.Contains(t, err.Error(), "ASSETS.X")
		})
	}
}

func TestSet(t *testing.T) {
	ds := &domain.Dataset{
		Assets: map[string]domain.AssetCurve{
			"USD": {Kind: domain.KindZeroRates, Table: [][]float64{{1, 0.04}}},
			"SPX": {Kind: domain.KindForwards, Table: [][]float64{{0, 100}}},
		},
		Base: "USD",
	}
	s, err := NewSet(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"SPX", "USD"}, s.Names())
	assert.Equal(t, "USD", s.Base().Name())

	spx, err := s.Get("SPX")
	require.NoError(t, err)
	assert.Equal(t, domain.KindForwards, spx.Kind())

	_, err = s.Get("NDX")
	assert.ErrorIs(t, err, domain.ErrInvalidDataset)

	ds.Base = "EUR"
	_, err = NewSet(ds)
	assert.ErrorIs(t, err, domain.ErrInvalidDataset)
}
