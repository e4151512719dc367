package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/mcstate/pricer/internal/domain"
)

// CSVDetailedExporter adds run metadata and payoff percentiles to every row.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(report *domain.PriceReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Contract", "Model", "Maturity", "Price", "StdError", "DiscountFactor",
		"P10", "P25", "P50", "P75", "P90", "Paths", "Seed", "Steps", "ElapsedMs"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range report.Results {
		p := r.Percentiles
		row := []string{
			r.Contract,
			r.Model,
			strconv.FormatFloat(r.Maturity, 'f', -1, 64),
			FormatPrice(r.Price),
			FormatPrice(r.StdError),
			r.Discount.StringFixed(6),
			FormatPrice(p.P10),
			FormatPrice(p.P25),
			FormatPrice(p.P50),
			FormatPrice(p.P75),
			FormatPrice(p.P90),
			intToString(r.Paths),
			strconv.FormatInt(r.Seed, 10),
			intToString(r.Steps),
			intToString(int(r.Elapsed.Milliseconds())),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
