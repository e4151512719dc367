package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PercentileRanges summarises the distribution of discounted path payoffs.
type PercentileRanges struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// PriceResult is the outcome of one Monte Carlo pricing run.
type PriceResult struct {
	Contract    string           `json:"contract"`
	Model       string           `json:"model"`
	Price       decimal.Decimal  `json:"price"`
	StdError    decimal.Decimal  `json:"std_error"`
	Discount    decimal.Decimal  `json:"discount_factor"`
	Percentiles PercentileRanges `json:"percentiles"`
	Paths       int              `json:"paths"`
	Seed        int64            `json:"seed"`
	Steps       int              `json:"steps"`
	Maturity    float64          `json:"maturity"`
	Elapsed     time.Duration    `json:"elapsed_ns"`
}

// PriceReport groups the results of one CLI invocation for the formatters.
type PriceReport struct {
	Dataset   string         `json:"dataset,omitempty"`
	PricingTS time.Time      `json:"pricing_ts"`
	Base      string         `json:"base"`
	Results   []*PriceResult `json:"results"`
}
