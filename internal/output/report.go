package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcstate/pricer/internal/domain"
)

// Render formats report with the named formatter.
func Render(report *domain.PriceReport, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
			strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	return f.Format(report)
}

// WriteReport renders report and writes it to path, or to w when path is empty.
func WriteReport(report *domain.PriceReport, format, path string, w io.Writer) error {
	data, err := Render(report, format)
	if err != nil {
		return err
	}
	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// GenerateReport writes report to a timestamped file in dir using the named
// format and returns the file name.
func GenerateReport(report *domain.PriceReport, format, dir string) (string, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return WriteFormatted(f, report, dir, Extension(format))
}
