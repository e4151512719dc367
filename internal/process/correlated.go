package process

import (
	"fmt"
	"math"

	"github.com/mcstate/pricer/internal/curve"
	"github.com/mcstate/pricer/internal/domain"
)

// CorrelatedLognormalProcess simulates two Black-Scholes assets whose
// Brownian drivers have constant correlation ρ.
//
// Asset 1 is driven by Z1 and asset 2 by ρ·Z1 + √(1-ρ²)·Z2, so with ρ = 1 both
// assets see exactly the same shocks.
type CorrelatedLognormalProcess struct {
	clock
	asset1, asset2 string
	vol1, vol2     float64
	corr           float64
	fwd1, fwd2     curve.Forwards
	spot1, spot2   float64
	x1, x2         []float64
	z1, z2         []float64
}

// NewCorrelatedLognormalProcess builds the process from the dataset's BS2 section.
func NewCorrelatedLognormalProcess(ds *domain.Dataset) (*CorrelatedLognormalProcess, error) {
	curves, err := curve.NewSet(ds)
	if err != nil {
		return nil, err
	}
	return newCorrelatedLognormalProcess(ds, curves)
}

func newCorrelatedLognormalProcess(ds *domain.Dataset, curves *curve.Set) (*CorrelatedLognormalProcess, error) {
	cfg := ds.BS2
	if cfg == nil {
		return nil, fmt.Errorf("%w: BS2 section is missing", domain.ErrInvalidDataset)
	}
	if cfg.Asset1 == cfg.Asset2 {
		return nil, fmt.Errorf("%w: BS2.ASSET1 and BS2.ASSET2 are both %q", domain.ErrInvalidDataset, cfg.Asset1)
	}
	if err := checkVol("BS2.VOL1", cfg.Vol1); err != nil {
		return nil, err
	}
	if err := checkVol("BS2.VOL2", cfg.Vol2); err != nil {
		return nil, err
	}
	if err := checkCorr("BS2.CORR", cfg.Corr); err != nil {
		return nil, err
	}
	fwd1, err := curves.Get(cfg.Asset1)
	if err != nil {
		return nil, fmt.Errorf("BS2.ASSET1: %w", err)
	}
	fwd2, err := curves.Get(cfg.Asset2)
	if err != nil {
		return nil, fmt.Errorf("BS2.ASSET2: %w", err)
	}
	c, err := newClock(ds, curves)
	if err != nil {
		return nil, err
	}
	return &CorrelatedLognormalProcess{
		clock:  c,
		asset1: cfg.Asset1,
		asset2: cfg.Asset2,
		vol1:   cfg.Vol1,
		vol2:   cfg.Vol2,
		corr:   cfg.Corr,
		fwd1:   fwd1,
		fwd2:   fwd2,
		spot1:  fwd1.Forward(0),
		spot2:  fwd2.Forward(0),
		x1:     make([]float64, c.paths),
		x2:     make([]float64, c.paths),
		z1:     make([]float64, c.paths),
		z2:     make([]float64, c.paths),
	}, nil
}

// Advance steps both assets from the current time to t.
func (p *CorrelatedLognormalProcess) Advance(t float64) {
	dt, ok := p.step(t)
	if !ok {
		return
	}
	p.normals(p.z1)
	p.normals(p.z2)
	correlate(p.z2, p.z1, p.corr)

	lognormalStep(p.x1, p.z1, p.fwd1.Rate(t, p.t), p.vol1, dt)
	lognormalStep(p.x2, p.z2, p.fwd2.Rate(t, p.t), p.vol2, dt)
	p.t = t
}

// Value returns the simulated level of whichever configured asset unit names.
func (p *CorrelatedLognormalProcess) Value(unit string) ([]float64, bool) {
	switch unit {
	case p.asset1:
		return assetValues(p.spot1, p.x1), true
	case p.asset2:
		return assetValues(p.spot2, p.x2), true
	}
	return nil, false
}

// correlate overwrites z2 with ρ·z1 + √(1-ρ²)·z2.
func correlate(z2, z1 []float64, rho float64) {
	a := math.Sqrt(1 - rho*rho)
	for i := range z2 {
		z2[i] = rho*z1[i] + a*z2[i]
	}
}
