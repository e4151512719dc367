// Package curve turns the dataset's (kind, table) asset entries into
// deterministic forward and discount curves.
//
// Both curve kinds are reduced to a log-growth function L(t):
//
//	ZERO_RATES: L(t) = z(t)·t   (z linearly interpolated)
//	FORWARDS:   L(t) = ln F(t)  (linearly interpolated, i.e. piecewise-constant rates)
//
// from which Forward, Rate and Discount follow.
package curve

import (
	"fmt"
	"math"
	"sort"

	"github.com/mcstate/pricer/internal/domain"
	"gonum.org/v1/gonum/interp"
)

// Forwards is the read-only curve contract the process states consume.
type Forwards interface {
	// Forward returns the deterministic forward level at t.
	Forward(t float64) float64
	// Rate returns the continuously compounded rate implied over [t0, t1].
	Rate(t1, t0 float64) float64
	// Discount returns the discount factor from 0 to t.
	Discount(t float64) float64
}

// Curve is a Forwards built from one dataset asset entry.
type Curve struct {
	name  string
	kind  string
	times []float64
	vals  []float64
	fit   *interp.PiecewiseLinear // nil for single-row tables
	l0    float64
}

// New builds a curve from a validated (kind, table) pair.
func New(name string, ac domain.AssetCurve) (*Curve, error) {
	if len(ac.Table) == 0 {
		return nil, fmt.Errorf("%w: ASSETS.%s: empty table", domain.ErrInvalidDataset, name)
	}
	for i, row := range ac.Table {
		if len(row) != 2 {
			return nil, fmt.Errorf("%w: ASSETS.%s: row %d has %d columns, want 2", domain.ErrInvalidDataset, name, i, len(row))
		}
	}
	rows := make([][]float64, len(ac.Table))
	copy(rows, ac.Table)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

	c := &Curve{name: name, kind: ac.Kind}
	for i, row := range rows {
		t, v := row[0], row[1]
		if math.IsNaN(t) || math.IsNaN(v) || math.IsInf(t, 0) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: ASSETS.%s: row %d is not finite", domain.ErrInvalidDataset, name, i)
		}
		if i > 0 && t <= c.times[i-1] {
			return nil, fmt.Errorf("%w: ASSETS.%s: duplicate time %g", domain.ErrInvalidDataset, name, t)
		}
		switch ac.Kind {
		case domain.KindForwards:
			if v <= 0 {
				return nil, fmt.Errorf("%w: ASSETS.%s: forward %g at t=%g must be positive", domain.ErrInvalidDataset, name, v, t)
			}
			v = math.Log(v)
		case domain.KindZeroRates:
		default:
			return nil, fmt.Errorf("%w: ASSETS.%s: kind %q is not ZERO_RATES or FORWARDS", domain.ErrInvalidDataset, name, ac.Kind)
		}
		c.times = append(c.times, t)
		c.vals = append(c.vals, v)
	}

	if len(c.times) > 1 {
		pl := &interp.PiecewiseLinear{}
		if err := pl.Fit(c.times, c.vals); err != nil {
			return nil, fmt.Errorf("%w: ASSETS.%s: %v", domain.ErrInvalidDataset, name, err)
		}
		c.fit = pl
	}
	c.l0 = c.logGrowth(0)
	return c, nil
}

// Name returns the asset the curve belongs to.
func (c *Curve) Name() string { return c.name }

// Kind returns ZERO_RATES or FORWARDS.
func (c *Curve) Kind() string { return c.kind }

// interpolate is flat outside the table.
func (c *Curve) interpolate(t float64) float64 {
	if c.fit == nil {
		return c.vals[0]
	}
	n := len(c.times)
	if t <= c.times[0] {
		return c.vals[0]
	}
	if t >= c.times[n-1] {
		return c.vals[n-1]
	}
	return c.fit.Predict(t)
}

func (c *Curve) logGrowth(t float64) float64 {
	if c.kind == domain.KindZeroRates {
		return c.interpolate(t) * t
	}
	return c.interpolate(t)
}

// Forward returns exp(L(t)). For a rate curve this is the value of a unit
// money-market deposit, so Forward(0) = 1.
func (c *Curve) Forward(t float64) float64 {
	return math.Exp(c.logGrowth(t))
}

// Rate returns (L(t1) - L(t0)) / (t1 - t0). For an empty interval it returns
// the instantaneous rate L'(t0), taken on the segment starting at t0.
func (c *Curve) Rate(t1, t0 float64) float64 {
	if t1 <= t0 {
		return c.instantaneousRate(t0)
	}
	return (c.logGrowth(t1) - c.logGrowth(t0)) / (t1 - t0)
}

// slope is the right derivative of the interpolated table values, zero in the
// flat regions.
func (c *Curve) slope(t float64) float64 {
	n := len(c.times)
	if c.fit == nil || t < c.times[0] || t >= c.times[n-1] {
		return 0
	}
	i := sort.Search(n, func(i int) bool { return c.times[i] > t }) - 1
	return (c.vals[i+1] - c.vals[i]) / (c.times[i+1] - c.times[i])
}

func (c *Curve) instantaneousRate(t float64) float64 {
	if c.kind == domain.KindZeroRates {
		// L(t) = z(t)·t
		return c.interpolate(t) + t*c.slope(t)
	}
	return c.slope(t)
}

// Discount returns exp(-(L(t) - L(0))).
func (c *Curve) Discount(t float64) float64 {
	return math.Exp(-(c.logGrowth(t) - c.l0))
}

// Set is the collection of curves of one dataset, keyed by asset name.
type Set struct {
	curves map[string]*Curve
	base   string
}

// NewSet builds every curve in the dataset's ASSETS section.
func NewSet(ds *domain.Dataset) (*Set, error) {
	if len(ds.Assets) == 0 {
		return nil, fmt.Errorf("%w: ASSETS is empty", domain.ErrInvalidDataset)
	}
	s := &Set{curves: make(map[string]*Curve, len(ds.Assets)), base: ds.Base}
	for name, ac := range ds.Assets {
		c, err := New(name, ac)
		if err != nil {
			return nil, err
		}
		s.curves[name] = c
	}
	if _, ok := s.curves[ds.Base]; !ok {
		return nil, fmt.Errorf("%w: BASE %q is not listed in ASSETS", domain.ErrInvalidDataset, ds.Base)
	}
	return s, nil
}

// Get returns the curve of the named asset.
func (s *Set) Get(name string) (*Curve, error) {
	c, ok := s.curves[name]
	if !ok {
		return nil, fmt.Errorf("%w: asset %q is not listed in ASSETS", domain.ErrInvalidDataset, name)
	}
	return c, nil
}

// Base returns the settlement currency curve.
func (s *Set) Base() *Curve { return s.curves[s.base] }

// Names returns the asset names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.curves))
	for n := range s.curves {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
