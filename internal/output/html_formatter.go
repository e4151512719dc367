package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"

	"github.com/mcstate/pricer/internal/domain"
)

// HTMLFormatter produces a standalone HTML report with the results table and
// the raw report embedded as JSON for scripting.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"price": FormatPrice,
	"json": func(v interface{}) (template.JS, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return template.JS(b), nil
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.PriceReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
