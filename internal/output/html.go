package output

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-planner/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercent,
}).Parse(htmlTemplateSource))

type htmlMonteCarlo struct {
	NumSimulations      int
	RiskProfile         domain.RiskProfile
	SuccessRate         decimal.Decimal
	MedianEndingBalance decimal.Decimal
	P10                 decimal.Decimal
	P50                 decimal.Decimal
	P90                 decimal.Decimal
}

func (h HTMLFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	if result == nil || len(result.Projections) == 0 {
		return nil, fmt.Errorf("no projection data to format")
	}

	data := struct {
		*domain.ProjectionResult
		First *domain.AnnualProjection
		Final *domain.AnnualProjection
		MC    *htmlMonteCarlo
	}{
		ProjectionResult: result,
		First:            &result.Projections[0],
		Final:            result.FinalProjection(),
	}
	if mc := result.MonteCarlo; mc != nil {
		data.MC = &htmlMonteCarlo{
			NumSimulations:      mc.NumSimulations,
			RiskProfile:         mc.RiskProfile,
			SuccessRate:         mc.SuccessRate,
			MedianEndingBalance: mc.MedianEndingBalance,
			P10:                 bandFinal(mc.Percentiles[domain.Percentile10]),
			P50:                 bandFinal(mc.Percentiles[domain.Percentile50]),
			P90:                 bandFinal(mc.Percentiles[domain.Percentile90]),
		}
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func bandFinal(band []decimal.Decimal) decimal.Decimal {
	if len(band) == 0 {
		return decimal.Zero
	}
	return band[len(band)-1]
}
