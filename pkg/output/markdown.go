package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/iwvelando/rental-cashflow/internal/forecast"
	"github.com/iwvelando/rental-cashflow/pkg/format"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders results as a GitHub-flavoured markdown report.
func Markdown(results []forecast.Forecast, currency string) string {
	var b strings.Builder
	b.WriteString("# Cash-flow projection\n")
	for _, result := range results {
		fmt.Fprintf(&b, "\n## %s\n\n", result.Name)

		b.WriteString("| Indicator | Value |\n|---|---|\n")
		for _, line := range summaryLines(result, currency) {
			fmt.Fprintf(&b, "| %s | %s |\n", line.label, escapeCell(line.value))
		}

		b.WriteString("\n| Month | Period | Rate | Nights | Net Revenue | Expenses | Net Cash Flow | Balance |\n")
		b.WriteString("|---:|---|---:|---:|---:|---:|---:|---:|\n")
		for _, row := range result.Result.Rows {
			period := row.PeriodLabel
			if row.InGrace {
				period += " (grace)"
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s |\n",
				row.Month, period,
				format.DecimalCurrency(row.EffectiveRate, currency),
				row.Nights.StringFixed(2),
				format.DecimalCurrency(row.NetRevenue, currency),
				format.DecimalCurrency(row.TotalExpenses, currency),
				format.DecimalCurrency(row.NetCashFlow, currency),
				format.DecimalCurrency(row.CumulativeBalance, currency))
		}
		t := result.Result.Totals
		fmt.Fprintf(&b, "| **Total** | | %s | %s | %s | %s | %s | %s |\n",
			format.DecimalCurrency(t.AverageEffectiveRate, currency),
			t.Nights.StringFixed(2),
			format.DecimalCurrency(t.NetRevenue, currency),
			format.DecimalCurrency(t.TotalExpenses, currency),
			format.DecimalCurrency(t.NetCashFlow, currency),
			format.DecimalCurrency(t.FinalBalance, currency))
	}
	return b.String()
}

// HTML converts the markdown report into an HTML fragment.
func HTML(results []forecast.Forecast, currency string) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(results, currency)), &buf); err != nil {
		return nil, fmt.Errorf("rendering HTML report: %w", err)
	}
	return buf.Bytes(), nil
}

// Terminal renders the markdown report for a terminal. style is a glamour
// standard style name such as "dark", "light" or "notty".
func Terminal(results []forecast.Forecast, currency, style string, width int) (string, error) {
	if style == "" {
		style = "notty"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}
	return renderer.Render(Markdown(results, currency))
}

func escapeCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
