// Package process holds the Monte Carlo process states stepped by the pricer.
//
// A State owns a vector per simulated quantity, one entry per path, and a
// seeded random source. The driver calls Advance for each required time in
// increasing order and reads asset values with Value. A State is not safe for
// concurrent use; parallel pricing runs must each build their own.
package process

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/mcstate/pricer/internal/curve"
	"github.com/mcstate/pricer/internal/domain"
)

// MinStep is the smallest interval Advance will simulate. Shorter or negative
// intervals leave the state untouched and draw no random numbers.
const MinStep = 1e-10

// State is the contract between a process and the Monte Carlo driver.
type State interface {
	// Advance moves the simulation clock to t.
	Advance(t float64)
	// Value returns spot·exp(X) for every path if unit is simulated by this
	// process. The second result is false when the driver should fall back to
	// the deterministic forward instead.
	Value(unit string) ([]float64, bool)
	// DiscountFactor returns the settlement-currency discount factor at Time().
	DiscountFactor() float64
	// Time returns the current simulation time.
	Time() float64
	// Paths returns the number of simulated paths.
	Paths() int
}

// New builds the process selected by the dataset's model family.
func New(ds *domain.Dataset) (State, error) {
	curves, err := curve.NewSet(ds)
	if err != nil {
		return nil, err
	}
	return NewWithCurves(ds, curves)
}

// NewWithCurves is New for a caller that already holds the dataset's curves.
func NewWithCurves(ds *domain.Dataset, curves *curve.Set) (State, error) {
	family, err := ds.ModelFamily()
	if err != nil {
		return nil, err
	}
	switch family {
	case domain.ModelBS:
		return newLognormalAssetProcess(ds, curves)
	case domain.ModelBS2:
		return newCorrelatedLognormalProcess(ds, curves)
	case domain.ModelHeston:
		return newHestonProcess(ds, curves)
	}
	return nil, fmt.Errorf("%w: unsupported model %q", domain.ErrInvalidDataset, family)
}

// clock is the part shared by every process: path count, time and random source.
type clock struct {
	paths    int
	t        float64
	rng      *rand.Rand
	discount curve.Forwards
}

func newClock(ds *domain.Dataset, curves *curve.Set) (clock, error) {
	if ds.MC == nil {
		return clock{}, fmt.Errorf("%w: MC section is missing", domain.ErrInvalidDataset)
	}
	if ds.MC.Paths <= 0 {
		return clock{}, fmt.Errorf("%w: MC.PATHS must be positive, got %d", domain.ErrInvalidDataset, ds.MC.Paths)
	}
	seed := uint64(ds.MC.Seed)
	return clock{
		paths:    ds.MC.Paths,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		discount: curves.Base(),
	}, nil
}

// step returns the interval to simulate, or ok=false for a degenerate one.
func (c *clock) step(t float64) (dt float64, ok bool) {
	dt = t - c.t
	return dt, dt >= MinStep
}

func (c *clock) normals(dst []float64) {
	for i := range dst {
		dst[i] = c.rng.NormFloat64()
	}
}

// Time returns the current simulation time.
func (c *clock) Time() float64 { return c.t }

// Paths returns the number of simulated paths.
func (c *clock) Paths() int { return c.paths }

// DiscountFactor returns the base-currency discount factor at the current time.
func (c *clock) DiscountFactor() float64 { return c.discount.Discount(c.t) }

// assetValues returns spot·exp(x) in a fresh slice.
func assetValues(spot float64, x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = spot * math.Exp(v)
	}
	return out
}

func checkVol(field string, v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite non-negative number, got %g", domain.ErrInvalidDataset, field, v)
	}
	return nil
}

func checkCorr(field string, rho float64) error {
	if math.IsNaN(rho) || rho < -1 || rho > 1 {
		return fmt.Errorf("%w: %s must lie in [-1, 1], got %g", domain.ErrInvalidDataset, field, rho)
	}
	return nil
}
