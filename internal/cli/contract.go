package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mcstate/pricer/internal/calculation"
	"github.com/mcstate/pricer/pkg/dateutil"
	"github.com/spf13/cobra"
)

// Contract types accepted by --type.
const (
	typeCall      = "call"
	typePut       = "put"
	typeAsianCall = "asian-call"
	typeAsianPut  = "asian-put"
	typeSpread    = "spread"
)

// contractFlags describes the contract to price on the command line.
type contractFlags struct {
	kind         string
	asset        string
	asset2       string
	maturity     float64
	expiry       string
	observations string
}

func (f *contractFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.kind, "type", typeCall, "contract type: call, put, asian-call, asian-put, spread")
	fl.StringVar(&f.asset, "asset", "", "underlying asset (long leg for spreads)")
	fl.StringVar(&f.asset2, "asset2", "", "short leg asset for spreads")
	fl.Float64Var(&f.maturity, "maturity", 0, "maturity in years")
	fl.StringVar(&f.expiry, "expiry", "", "expiry as YYYY-MM-DD or a tenor such as 6M, relative to PRICING_TS")
	fl.StringVar(&f.observations, "observations", "", "comma separated Asian observation times (years, dates or tenors)")
}

// build returns the contract struck at strike.
func (f *contractFlags) build(strike float64, asOf time.Time) (calculation.Contract, error) {
	if f.asset == "" {
		return nil, fmt.Errorf("--asset is required")
	}
	kind := strings.ToLower(f.kind)

	if kind == typeAsianCall || kind == typeAsianPut {
		if f.observations == "" {
			return nil, fmt.Errorf("--observations is required for %s", kind)
		}
		times, err := parseTimes(f.observations, asOf)
		if err != nil {
			return nil, err
		}
		return calculation.NewAsian(f.asset, strike, times, kind == typeAsianPut), nil
	}

	maturity, err := f.resolveMaturity(asOf)
	if err != nil {
		return nil, err
	}
	switch kind {
	case typeCall, typePut:
		return calculation.Vanilla{Asset: f.asset, Strike: strike, Maturity: maturity, Put: kind == typePut}, nil
	case typeSpread:
		if f.asset2 == "" {
			return nil, fmt.Errorf("--asset2 is required for spread")
		}
		return calculation.Spread{Long: f.asset, Short: f.asset2, Strike: strike, Maturity: maturity}, nil
	}
	return nil, fmt.Errorf("unknown contract type %q", f.kind)
}

func (f *contractFlags) resolveMaturity(asOf time.Time) (float64, error) {
	if f.expiry == "" {
		if f.maturity <= 0 {
			return 0, fmt.Errorf("--maturity or --expiry is required")
		}
		return f.maturity, nil
	}
	if asOf.IsZero() {
		return 0, fmt.Errorf("--expiry needs PRICING_TS in the dataset")
	}
	return dateutil.ParseExpiry(f.expiry, asOf)
}

// parseTimes parses a comma separated list of year fractions, dates or tenors.
func parseTimes(list string, asOf time.Time) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if v, err := strconv.ParseFloat(field, 64); err == nil {
			out = append(out, v)
			continue
		}
		if asOf.IsZero() {
			return nil, fmt.Errorf("observation %q needs PRICING_TS in the dataset", field)
		}
		v, err := dateutil.ParseExpiry(field, asOf)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parseStrikes parses a comma separated list of strikes.
func parseStrikes(list string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid strike %q: %w", field, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("--strikes is empty")
	}
	return out, nil
}
