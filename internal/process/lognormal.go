package process

import (
	"fmt"
	"math"

	"github.com/mcstate/pricer/internal/curve"
	"github.com/mcstate/pricer/internal/domain"
)

// LognormalAssetProcess simulates one asset under Black-Scholes dynamics
// with a deterministic forward curve and flat volatility.
//
// The log step X += (r - σ²/2)·dt + σ·√dt·Z is exact in distribution for
// piecewise-constant r, so event times can be arbitrarily far apart.
type LognormalAssetProcess struct {
	clock
	asset string
	vol   float64
	fwd   curve.Forwards
	spot  float64
	x     []float64
	z     []float64
}

// NewLognormalAssetProcess builds the process from the dataset's BS section.
func NewLognormalAssetProcess(ds *domain.Dataset) (*LognormalAssetProcess, error) {
	curves, err := curve.NewSet(ds)
	if err != nil {
		return nil, err
	}
	return newLognormalAssetProcess(ds, curves)
}

func newLognormalAssetProcess(ds *domain.Dataset, curves *curve.Set) (*LognormalAssetProcess, error) {
	if ds.BS == nil {
		return nil, fmt.Errorf("%w: BS section is missing", domain.ErrInvalidDataset)
	}
	if err := checkVol("BS.VOL", ds.BS.Vol); err != nil {
		return nil, err
	}
	fwd, err := curves.Get(ds.BS.Asset)
	if err != nil {
		return nil, fmt.Errorf("BS.ASSET: %w", err)
	}
	c, err := newClock(ds, curves)
	if err != nil {
		return nil, err
	}
	return &LognormalAssetProcess{
		clock: c,
		asset: ds.BS.Asset,
		vol:   ds.BS.Vol,
		fwd:   fwd,
		spot:  fwd.Forward(0),
		x:     make([]float64, c.paths),
		z:     make([]float64, c.paths),
	}, nil
}

// Advance steps every path from the current time to t.
func (p *LognormalAssetProcess) Advance(t float64) {
	dt, ok := p.step(t)
	if !ok {
		return
	}
	p.normals(p.z)
	lognormalStep(p.x, p.z, p.fwd.Rate(t, p.t), p.vol, dt)
	p.t = t
}

// Value returns the simulated asset level if unit is the modelled asset.
func (p *LognormalAssetProcess) Value(unit string) ([]float64, bool) {
	if unit != p.asset {
		return nil, false
	}
	return assetValues(p.spot, p.x), true
}

// lognormalStep applies x += (r - σ²/2)·dt + σ·√dt·z in place.
func lognormalStep(x, z []float64, r, vol, dt float64) {
	drift := (r - 0.5*vol*vol) * dt
	diffusion := vol * math.Sqrt(dt)
	for i := range x {
		x[i] += drift + diffusion*z[i]
	}
}
