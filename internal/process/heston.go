package process

import (
	"fmt"
	"math"

	"github.com/mcstate/pricer/internal/curve"
	"github.com/mcstate/pricer/internal/domain"
)

// HestonProcess simulates an asset and its instantaneous variance:
//
//	dX = (r - v/2)·dt + √v·dW1
//	dv = κ(θ - v)·dt + ξ·√v·dW2,   d⟨W1, W2⟩ = ρ·dt
//
// using a full-truncation Euler scheme: v may go negative between steps but
// only √max(v, 0) enters any drift or diffusion term. The scheme is biased,
// so MC.TIMESTEP must be small for Heston runs.
type HestonProcess struct {
	clock
	asset string
	p     domain.HestonParams
	fwd   curve.Forwards
	spot  float64
	x     []float64
	v     []float64
	z1    []float64
	z2    []float64
}

// NewHestonProcess builds the process from the dataset's HESTON section.
func NewHestonProcess(ds *domain.Dataset) (*HestonProcess, error) {
	curves, err := curve.NewSet(ds)
	if err != nil {
		return nil, err
	}
	return newHestonProcess(ds, curves)
}

func newHestonProcess(ds *domain.Dataset, curves *curve.Set) (*HestonProcess, error) {
	cfg := ds.Heston
	if cfg == nil {
		return nil, fmt.Errorf("%w: HESTON section is missing", domain.ErrInvalidDataset)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"HESTON.INITIAL_VARIANCE", cfg.InitialVariance},
		{"HESTON.LONG_VARIANCE", cfg.LongVariance},
		{"HESTON.MEAN_REVERSION", cfg.MeanReversion},
		{"HESTON.VOL_OF_VARIANCE", cfg.VolOfVariance},
	} {
		if err := checkVol(f.name, f.v); err != nil {
			return nil, err
		}
	}
	if err := checkCorr("HESTON.CORRELATION", cfg.Correlation); err != nil {
		return nil, err
	}
	fwd, err := curves.Get(cfg.Asset)
	if err != nil {
		return nil, fmt.Errorf("HESTON.ASSET: %w", err)
	}
	c, err := newClock(ds, curves)
	if err != nil {
		return nil, err
	}
	v := make([]float64, c.paths)
	for i := range v {
		v[i] = cfg.InitialVariance
	}
	return &HestonProcess{
		clock: c,
		asset: cfg.Asset,
		p:     *cfg,
		fwd:   fwd,
		spot:  fwd.Forward(0),
		x:     make([]float64, c.paths),
		v:     v,
		z1:    make([]float64, c.paths),
		z2:    make([]float64, c.paths),
	}, nil
}

// Advance steps price and variance from the current time to t.
func (p *HestonProcess) Advance(t float64) {
	dt, ok := p.step(t)
	if !ok {
		return
	}
	p.normals(p.z1)
	p.normals(p.z2)
	correlate(p.z2, p.z1, p.p.Correlation)

	r := p.fwd.Rate(t, p.t)
	sqrtDt := math.Sqrt(dt)
	kappaDt := p.p.MeanReversion * dt
	for i := range p.x {
		vol := math.Sqrt(math.Max(0, p.v[i]))
		p.x[i] += (r-0.5*vol*vol)*dt + vol*sqrtDt*p.z1[i]
		p.v[i] += (p.p.LongVariance-p.v[i])*kappaDt + p.p.VolOfVariance*vol*sqrtDt*p.z2[i]
	}
	p.t = t
}

// Value returns the simulated asset level if unit is the modelled asset.
func (p *HestonProcess) Value(unit string) ([]float64, bool) {
	if unit != p.asset {
		return nil, false
	}
	return assetValues(p.spot, p.x), true
}

// Variance returns a copy of the stored, unfloored variance of every path.
func (p *HestonProcess) Variance() []float64 {
	out := make([]float64, len(p.v))
	copy(out, p.v)
	return out
}
