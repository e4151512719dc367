package calculation

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// BlackScholesPrice calculates the price of a European option from the
// forward to expiry.
//
// Parameters:
//   - isCall: true for a call, false for a put
//   - fwd: forward of the underlying to expiry
//   - strike: strike price
//   - t: time to expiry in years
//   - discount: settlement discount factor to expiry
//   - sigma: lognormal volatility
//
// With t or sigma non-positive the discounted intrinsic value is returned.
func BlackScholesPrice(isCall bool, fwd, strike, t, discount, sigma float64) float64 {
	if t <= 0 || sigma <= 0 {
		return discount * intrinsic(fwd, strike, !isCall)
	}

	sd := sigma * math.Sqrt(t)
	d1 := (math.Log(fwd/strike) + 0.5*sd*sd) / sd
	d2 := d1 - sd

	n := distuv.UnitNormal
	if isCall {
		return discount * (fwd*n.CDF(d1) - strike*n.CDF(d2))
	}
	return discount * (strike*n.CDF(-d2) - fwd*n.CDF(-d1))
}
