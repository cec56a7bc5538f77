package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// Formatter renders a projection result into one output format.
type Formatter interface {
	Name() string
	Format(result *domain.ProjectionResult) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(result *domain.ProjectionResult) ([]byte, error)
}

func (ff FormatterFunc) Name() string { return ff.ID }

func (ff FormatterFunc) Format(result *domain.ProjectionResult) ([]byte, error) {
	return ff.F(result)
}

var formatters = map[string]Formatter{}

func registerFormatter(f Formatter) { formatters[f.Name()] = f }

func init() {
	registerFormatter(ConsoleFormatter{})
	registerFormatter(CSVFormatter{})
	registerFormatter(JSONFormatter{})
	registerFormatter(HTMLFormatter{})
}

// GetFormatterByName returns the registered formatter, or nil when the name
// is unknown. Lookup is case-insensitive.
func GetFormatterByName(name string) Formatter {
	return formatters[strings.ToLower(strings.TrimSpace(name))]
}

// FormatterNames lists the registered formatter names, sorted.
func FormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted renders the result and writes it to a timestamped report
// file with the given extension, returning the filename.
func WriteFormatted(f Formatter, result *domain.ProjectionResult, ext string) (string, error) {
	data, err := f.Format(result)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("retirement_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// FormatCurrency formats a decimal as currency.
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatPercent formats a decimal as a percentage.
func FormatPercent(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}
