// Package output provides utilities for formatting and displaying projection results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/iwvelando/rental-cashflow/internal/forecast"
	"github.com/iwvelando/rental-cashflow/internal/projection"
	"github.com/iwvelando/rental-cashflow/pkg/constants"
	"github.com/iwvelando/rental-cashflow/pkg/format"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders results to w in the named format.
func Write(w io.Writer, outputFormat string, results []forecast.Forecast, currency string) error {
	switch outputFormat {
	case constants.OutputFormatPretty, "":
		return PrettyFormat(w, results, currency)
	case constants.OutputFormatCSV:
		return CsvFormat(w, results)
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	case constants.OutputFormatMarkdown:
		_, err := io.WriteString(w, Markdown(results, currency))
		return err
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []forecast.Forecast, currency string) error {
	p := message.NewPrinter(language.English)
	money := func(d decimal.Decimal) string { return format.DecimalCurrency(d, currency) }

	for i, result := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "--- Results for scenario %s ---\n", result.Name)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "Month\tPeriod\tRate\tNights\tGross\tCommission\tNet Revenue\tExpenses\tNet Cash Flow\tBalance\t")
		for _, row := range result.Result.Rows {
			period := row.PeriodLabel
			if row.InGrace {
				period += " *"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
				row.Month, period, money(row.EffectiveRate),
				p.Sprintf("%.2f", row.Nights.InexactFloat64()),
				money(row.GrossRevenue), money(row.Commission), money(row.NetRevenue),
				money(row.TotalExpenses), money(row.NetCashFlow), money(row.CumulativeBalance))
		}
		t := result.Result.Totals
		fmt.Fprintf(tw, "Total\t\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			money(t.AverageEffectiveRate), p.Sprintf("%.2f", t.Nights.InexactFloat64()),
			money(t.GrossRevenue), money(t.Commission), money(t.NetRevenue),
			money(t.TotalExpenses), money(t.NetCashFlow), money(t.FinalBalance))
		if err := tw.Flush(); err != nil {
			return err
		}

		if hasGrace(result.Result.Rows) {
			fmt.Fprintln(w, "* grace month without guests")
		}
		for _, line := range summaryLines(result, currency) {
			fmt.Fprintf(w, "%s: %s\n", line.label, line.value)
		}
	}
	return nil
}

// CsvFormat outputs one ledger row per scenario month in comma-separated
// value format. Amounts are written at full precision.
func CsvFormat(w io.Writer, results []forecast.Forecast) error {
	cw := csv.NewWriter(w)
	header := []string{
		"scenario", "month", "period", "inGrace", "effectiveRate", "nights",
		"grossRevenue", "commission", "netRevenue", "commonCharges", "utilities",
		"maintenanceFund", "rentOrDividend", "totalExpenses", "netCashFlow", "cumulativeBalance",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, result := range results {
		for _, row := range result.Result.Rows {
			record := []string{
				result.Name,
				strconv.Itoa(row.Month),
				row.PeriodLabel,
				strconv.FormatBool(row.InGrace),
				row.EffectiveRate.String(),
				row.Nights.String(),
				row.GrossRevenue.String(),
				row.Commission.String(),
				row.NetRevenue.String(),
				row.CommonCharges.String(),
				row.Utilities.String(),
				row.MaintenanceFund.String(),
				row.RentOrDividend.String(),
				row.TotalExpenses.String(),
				row.NetCashFlow.String(),
				row.CumulativeBalance.String(),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONFormat outputs the full results as indented JSON.
func JSONFormat(w io.Writer, results []forecast.Forecast) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

type summaryLine struct {
	label string
	value string
}

func summaryLines(result forecast.Forecast, currency string) []summaryLine {
	v := result.Result.Valuation
	e := result.Result.Expected
	lines := []summaryLine{
		{"Initial investment", format.DecimalCurrency(result.Result.Parameters.InitialInvestment(), currency)},
		{"Expected monthly margin", format.DecimalCurrency(e.Margin, currency)},
		{"Monthly discount rate", format.Percent(v.MonthlyDiscountRate, 4)},
		{"NPV", format.Currency(v.NPV, currency)},
		{"IRR", v.IRR.String()},
		{"Payback", v.Payback.String()},
	}
	if m := result.Metrics.Mortgage; m != nil {
		lines = append(lines,
			summaryLine{"Mortgage payment", format.Currency(m.MonthlyPayment, currency)},
			summaryLine{"Mortgage interest paid", format.Currency(m.InterestPaid, currency)},
			summaryLine{"Mortgage principal remaining", format.Currency(m.RemainingPrincipal, currency)},
		)
	}
	if be := result.Metrics.BreakEven; be != nil {
		value := fmt.Sprintf("%s %s -> %s", be.Field, be.OriginalDisplay, be.ValueDisplay)
		if !be.Converged {
			value += " (not converged)"
		}
		lines = append(lines, summaryLine{"Break-even (" + be.Target + ")", value})
		for _, note := range be.Notes {
			lines = append(lines, summaryLine{"Note", note})
		}
	}
	return lines
}

func hasGrace(rows []projection.MonthlyRow) bool {
	for _, row := range rows {
		if row.InGrace {
			return true
		}
	}
	return false
}
