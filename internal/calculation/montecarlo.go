package calculation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/mcstate/pricer/internal/curve"
	"github.com/mcstate/pricer/internal/domain"
	"github.com/mcstate/pricer/internal/process"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// ErrNoEvents is returned for a contract without observation times.
var ErrNoEvents = errors.New("contract has no observation times")

// MaxSteps bounds the number of time steps a single run may simulate.
const MaxSteps = 10_000_000

// MonteCarloPricer drives a process state through a contract's observation
// times and averages the discounted payoff.
type MonteCarloPricer struct {
	logger Logger
	// MaxConcurrent bounds the number of runs PriceStrip executes at once.
	// Zero means GOMAXPROCS.
	MaxConcurrent int
}

// NewMonteCarloPricer creates a pricer logging to logger (nil means no logging).
func NewMonteCarloPricer(logger Logger) *MonteCarloPricer {
	if logger == nil {
		logger = NopLogger{}
	}
	return &MonteCarloPricer{logger: logger}
}

// Price runs one simulation of the dataset's model for contract.
//
// Each observation interval is split into equal sub-steps no longer than
// MC.TIMESTEP. Assets the process does not simulate are observed on their
// deterministic forward curve. A dataset seed of zero is replaced by a fresh
// one, which is reported in the result.
func (mp *MonteCarloPricer) Price(ctx context.Context, c Contract, ds *domain.Dataset) (*domain.PriceResult, error) {
	start := nowFunc()

	times := c.Times()
	if len(times) == 0 {
		return nil, fmt.Errorf("%s: %w", c.Name(), ErrNoEvents)
	}
	for i, t := range times {
		if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("%s: observation time %g must be finite and non-negative", c.Name(), t)
		}
		if i > 0 && t < times[i-1] {
			return nil, fmt.Errorf("%s: observation times must be non-decreasing", c.Name())
		}
	}
	if ds.MC == nil {
		return nil, fmt.Errorf("%w: MC section is missing", domain.ErrInvalidDataset)
	}
	if h := ds.MC.Timestep; !(h >= process.MinStep) || math.IsInf(h, 0) {
		return nil, fmt.Errorf("%w: MC.TIMESTEP must be a finite number of at least %g, got %g",
			domain.ErrInvalidDataset, process.MinStep, h)
	}
	total, from := 0, 0.0
	for _, t := range times {
		total += subSteps(t-from, ds.MC.Timestep)
		from = t
		if total > MaxSteps {
			return nil, fmt.Errorf("%s: %w: MC.TIMESTEP %g needs more than %d steps",
				c.Name(), domain.ErrInvalidDataset, ds.MC.Timestep, MaxSteps)
		}
	}

	run := pinSeed(ds)
	mc := run.MC

	family, err := run.ModelFamily()
	if err != nil {
		return nil, err
	}
	curves, err := curve.NewSet(run)
	if err != nil {
		return nil, err
	}
	state, err := process.NewWithCurves(run, curves)
	if err != nil {
		return nil, err
	}

	mp.logger.Debugf("pricing %s with %s: %d paths, seed %d, %d observations",
		c.Name(), family, mc.Paths, mc.Seed, len(times))

	obs := make(Observations, len(c.Assets()))
	steps := 0
	for _, t := range times {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		steps += advanceTo(state, t, mc.Timestep)
		for _, asset := range c.Assets() {
			values, err := observe(state, curves, asset, t)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", c.Name(), err)
			}
			obs[asset] = append(obs[asset], values)
		}
	}

	df := state.DiscountFactor()
	payoff := c.Payoff(obs)
	for i := range payoff {
		payoff[i] *= df
	}

	mean, std := stat.MeanStdDev(payoff, nil)
	stdErr := 0.0
	if len(payoff) > 1 {
		stdErr = std / math.Sqrt(float64(len(payoff)))
	}

	result := &domain.PriceResult{
		Contract:    c.Name(),
		Model:       family,
		Price:       decimal.NewFromFloat(mean),
		StdError:    decimal.NewFromFloat(stdErr),
		Discount:    decimal.NewFromFloat(df),
		Percentiles: calculatePercentileRanges(payoff),
		Paths:       mc.Paths,
		Seed:        mc.Seed,
		Steps:       steps,
		Maturity:    times[len(times)-1],
		Elapsed:     nowFunc().Sub(start),
	}
	mp.logger.Debugf("%s: price %s ± %s after %d steps", c.Name(),
		result.Price.StringFixed(4), result.StdError.StringFixed(4), steps)
	return result, nil
}

// PriceStrip prices several contracts against the same dataset in parallel.
// Every run builds its own process state from the same seed, so results are
// identical to pricing the contracts one at a time.
func (mp *MonteCarloPricer) PriceStrip(ctx context.Context, contracts []Contract, ds *domain.Dataset) ([]*domain.PriceResult, error) {
	if ds.MC != nil {
		ds = pinSeed(ds)
	}

	limit := mp.MaxConcurrent
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]*domain.PriceResult, len(contracts))
	errs := make([]error, len(contracts))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, limit)

	for i, c := range contracts {
		wg.Add(1)
		go func(idx int, c Contract) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[idx], errs[idx] = mp.Price(ctx, c, ds)
		}(i, c)
	}

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	mp.logger.Infof("priced %d contracts", len(contracts))
	return results, nil
}

// pinSeed returns a shallow copy of ds with its own MC section, drawing a
// fresh seed when the dataset asks for one with SEED 0.
func pinSeed(ds *domain.Dataset) *domain.Dataset {
	run := *ds
	mc := *ds.MC
	if mc.Seed == 0 {
		mc.Seed = seedFunc() & math.MaxInt64
	}
	run.MC = &mc
	return &run
}

// advanceTo steps state to t in equal sub-steps of at most h and returns the
// number of steps simulated.
func advanceTo(state process.State, t, h float64) int {
	from := state.Time()
	span := t - from
	if span < process.MinStep {
		state.Advance(t)
		return 0
	}
	n := subSteps(span, h)
	for i := 1; i < n; i++ {
		state.Advance(from + span*float64(i)/float64(n))
	}
	state.Advance(t)
	return n
}

// subSteps is the number of equal steps of at most h covering span. Every
// step is kept at least process.MinStep long so that none is skipped.
func subSteps(span, h float64) int {
	if span < process.MinStep {
		return 0
	}
	n := 1
	if h > 0 && span > h {
		n = int(math.Ceil(span/h - 1e-9))
	}
	if limit := max(int(span/process.MinStep), 1); n > limit {
		n = limit
	}
	return n
}

// observe returns the simulated levels of asset, or its forward at t for
// every path when the process does not simulate it.
func observe(state process.State, curves *curve.Set, asset string, t float64) ([]float64, error) {
	if values, ok := state.Value(asset); ok {
		return values, nil
	}
	fwd, err := curves.Get(asset)
	if err != nil {
		return nil, err
	}
	level := fwd.Forward(t)
	values := make([]float64, state.Paths())
	for i := range values {
		values[i] = level
	}
	return values, nil
}

// calculatePercentileRanges calculates percentile ranges of discounted payoffs
func calculatePercentileRanges(payoff []float64) domain.PercentileRanges {
	if len(payoff) == 0 {
		return domain.PercentileRanges{}
	}
	sorted := append([]float64(nil), payoff...)
	sort.Float64s(sorted)

	q := func(p float64) decimal.Decimal {
		return decimal.NewFromFloat(stat.Quantile(p, stat.Empirical, sorted, nil))
	}
	return domain.PercentileRanges{
		P10: q(0.10),
		P25: q(0.25),
		P50: q(0.50),
		P75: q(0.75),
		P90: q(0.90),
	}
}
