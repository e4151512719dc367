package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/mcstate/pricer/internal/domain"
)

// ConsoleVerboseFormatter renders the detailed console report via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *domain.PriceReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf, "MONTE CARLO PRICING REPORT")
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	if report.Dataset != "" {
		fmt.Fprintf(&buf, "Dataset:    %s\n", report.Dataset)
	}
	if !report.PricingTS.IsZero() {
		fmt.Fprintf(&buf, "Pricing as: %s\n", report.PricingTS.Format("2006-01-02"))
	}
	fmt.Fprintf(&buf, "Settlement: %s\n", report.Base)
	fmt.Fprintln(&buf)

	for i, r := range report.Results {
		fmt.Fprintf(&buf, "CONTRACT %d: %s\n", i+1, r.Contract)
		fmt.Fprintln(&buf, strings.Repeat("-", 50))
		fmt.Fprintf(&buf, "  Model:            %s\n", r.Model)
		fmt.Fprintf(&buf, "  Maturity:         %.4f years\n", r.Maturity)
		fmt.Fprintf(&buf, "  Price:            %s\n", FormatCurrency(r.Price, report.Base))
		fmt.Fprintf(&buf, "  Std error:        %s (%s)\n", FormatPrice(r.StdError), FormatPercentage(RelativeError(r.Price, r.StdError)))
		fmt.Fprintf(&buf, "  Discount factor:  %s\n", r.Discount.StringFixed(6))
		fmt.Fprintln(&buf, "  Discounted payoff percentiles:")
		p := r.Percentiles
		fmt.Fprintf(&buf, "    P10 %12s   P25 %12s   P50 %12s\n", FormatPrice(p.P10), FormatPrice(p.P25), FormatPrice(p.P50))
		fmt.Fprintf(&buf, "    P75 %12s   P90 %12s\n", FormatPrice(p.P75), FormatPrice(p.P90))
		fmt.Fprintf(&buf, "  Paths: %d  Seed: %d  Steps: %d  Elapsed: %s\n", r.Paths, r.Seed, r.Steps, r.Elapsed.Round(time.Millisecond))
		fmt.Fprintln(&buf)
	}
	return buf.Bytes(), nil
}
