package output

import (
	"bytes"
	"encoding/csv"

	"github.com/mcstate/pricer/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per contract).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.PriceReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Contract", "Model", "Price", "StdError", "DiscountFactor"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range report.Results {
		row := []string{
			r.Contract,
			r.Model,
			FormatPrice(r.Price),
			FormatPrice(r.StdError),
			r.Discount.StringFixed(6),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
