package calculation

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Observations holds the simulated levels seen by a contract:
// obs[asset][k][path] is the level of asset at the k-th observation time.
type Observations map[string][][]float64

// Contract describes a payoff the Monte Carlo pricer can evaluate.
type Contract interface {
	// Name is a short human readable description used in reports.
	Name() string
	// Assets lists the units the payoff reads.
	Assets() []string
	// Times returns the observation times in years, non-decreasing. The last
	// one is the payment time.
	Times() []float64
	// Payoff returns the undiscounted payoff of every path.
	Payoff(obs Observations) []float64
}

// Vanilla is a European call or put on a single asset.
type Vanilla struct {
	Asset    string
	Strike   float64
	Maturity float64
	Put      bool
}

func (v Vanilla) Name() string {
	return fmt.Sprintf("%s %s K=%s T=%s", v.Asset, callPut(v.Put), fmtNum(v.Strike), fmtNum(v.Maturity))
}

func (v Vanilla) Assets() []string { return []string{v.Asset} }

func (v Vanilla) Times() []float64 { return []float64{v.Maturity} }

func (v Vanilla) Payoff(obs Observations) []float64 {
	final := last(obs[v.Asset])
	out := make([]float64, len(final))
	for i, s := range final {
		out[i] = intrinsic(s, v.Strike, v.Put)
	}
	return out
}

// Asian pays on the arithmetic average of the asset over its observation
// dates, settled at the last one.
type Asian struct {
	Asset        string
	Strike       float64
	Observations []float64
	Put          bool
}

// NewAsian returns an Asian option with its observation dates sorted.
func NewAsian(asset string, strike float64, observations []float64, put bool) Asian {
	obs := append([]float64(nil), observations...)
	sort.Float64s(obs)
	return Asian{Asset: asset, Strike: strike, Observations: obs, Put: put}
}

func (a Asian) Name() string {
	return fmt.Sprintf("%s asian %s K=%s n=%d", a.Asset, callPut(a.Put), fmtNum(a.Strike), len(a.Observations))
}

func (a Asian) Assets() []string { return []string{a.Asset} }

func (a Asian) Times() []float64 { return a.Observations }

func (a Asian) Payoff(obs Observations) []float64 {
	series := obs[a.Asset]
	if len(series) == 0 {
		return nil
	}
	out := make([]float64, len(series[0]))
	for i := range out {
		var sum float64
		for _, level := range series {
			sum += level[i]
		}
		out[i] = intrinsic(sum/float64(len(series)), a.Strike, a.Put)
	}
	return out
}

// Spread pays max(S1 - S2 - K, 0) at maturity.
type Spread struct {
	Long     string
	Short    string
	Strike   float64
	Maturity float64
}

func (s Spread) Name() string {
	return fmt.Sprintf("%s-%s spread K=%s T=%s", s.Long, s.Short, fmtNum(s.Strike), fmtNum(s.Maturity))
}

func (s Spread) Assets() []string { return []string{s.Long, s.Short} }

func (s Spread) Times() []float64 { return []float64{s.Maturity} }

func (s Spread) Payoff(obs Observations) []float64 {
	long, short := last(obs[s.Long]), last(obs[s.Short])
	out := make([]float64, len(long))
	for i := range out {
		out[i] = math.Max(long[i]-short[i]-s.Strike, 0)
	}
	return out
}

func intrinsic(s, k float64, put bool) float64 {
	if put {
		return math.Max(k-s, 0)
	}
	return math.Max(s-k, 0)
}

func last(series [][]float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	return series[len(series)-1]
}

func callPut(put bool) string {
	if put {
		return "put"
	}
	return "call"
}

func fmtNum(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
