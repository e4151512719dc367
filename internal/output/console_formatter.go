package output

import (
	"bytes"
	"fmt"

	"github.com/mcstate/pricer/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.PriceReport) ([]byte, error) {
	var buf bytes.Buffer
	for _, r := range report.Results {
		fmt.Fprintf(&buf, "%s: %s ± %s (%s, %d paths)\n",
			r.Contract,
			FormatCurrency(r.Price, report.Base),
			FormatPrice(r.StdError),
			r.Model,
			r.Paths,
		)
	}
	return buf.Bytes(), nil
}
