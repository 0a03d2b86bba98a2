package integration

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/rental-cashflow/internal/config"
	"github.com/iwvelando/rental-cashflow/internal/forecast"
	"github.com/iwvelando/rental-cashflow/pkg/constants"
	"github.com/iwvelando/rental-cashflow/pkg/output"
	"github.com/iwvelando/rental-cashflow/pkg/testutil"
	"go.uber.org/zap"
)

func loadResults(t *testing.T) (*config.Configuration, []forecast.Forecast) {
	t.Helper()
	logger := zap.NewNop()

	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if warnings := conf.ValidateConfiguration(); len(warnings) != 1 {
		t.Fatalf("expected one warning for the never-rented scenario, got %v", warnings)
	}

	results, err := forecast.GetForecast(logger, *conf)
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	return conf, results
}

func mustFind(t *testing.T, results []forecast.Forecast, name string) *forecast.Forecast {
	t.Helper()
	f := testutil.FindScenario(results, name)
	if f == nil {
		t.Fatalf("scenario %q not found", name)
	}
	return f
}

// TestFurnishedBaseline pins the reference apartment: six months without
// guests, then 21 nights a month at a rate growing 3% a year.
func TestFurnishedBaseline(t *testing.T) {
	_, results := loadResults(t)
	if len(results) != 5 {
		t.Fatalf("expected 5 active scenarios, got %d", len(results))
	}

	f := mustFind(t, results, "Furnished")
	rows := f.Result.Rows
	if len(rows) != 36 {
		t.Fatalf("expected 36 rows, got %d", len(rows))
	}

	for m := 0; m < 6; m++ {
		if got := rows[m].NetCashFlow.String(); got != "-464000" {
			t.Errorf("month %d net cash flow = %s, expected -464000", m+1, got)
		}
	}

	month7 := rows[6]
	checks := map[string]string{
		"grossRevenue": month7.GrossRevenue.String(),
		"commission":   month7.Commission.String(),
		"netRevenue":   month7.NetRevenue.String(),
		"netCashFlow":  month7.NetCashFlow.String(),
	}
	expected := map[string]string{
		"grossRevenue": "798000",
		"commission":   "143640",
		"netRevenue":   "654360",
		"netCashFlow":  "190360",
	}
	for key, want := range expected {
		if checks[key] != want {
			t.Errorf("month 7 %s = %s, expected %s", key, checks[key], want)
		}
	}

	if got := rows[12].EffectiveRate.String(); got != "39140" {
		t.Errorf("month 13 rate = %s, expected 39140", got)
	}
	if got := rows[24].EffectiveRate.String(); got != "40314.2" {
		t.Errorf("month 25 rate = %s, expected 40314.2", got)
	}

	v := f.Result.Valuation
	if !v.Payback.Recovered || v.Payback.Month != 36 {
		t.Errorf("payback = %+v, expected month 36", v.Payback)
	}
	if math.Abs(v.NPV-(-960233.57)) > 0.01 {
		t.Errorf("NPV = %.4f, expected -960233.57", v.NPV)
	}
	if !v.IRR.Determinable || math.Abs(v.IRR.Monthly-0.0010812930888) > 1e-9 {
		t.Errorf("IRR = %+v, expected monthly 0.0010812930888", v.IRR)
	}

	totals := f.Result.Totals
	if got := totals.TotalExpenses.String(); got != "16704000" {
		t.Errorf("total expenses = %s, expected 16704000", got)
	}
	if got := totals.Nights.String(); got != "630" {
		t.Errorf("total nights = %s, expected 630", got)
	}
	if !totals.FinalBalance.Equal(rows[35].CumulativeBalance) {
		t.Errorf("final balance %s does not match last row %s", totals.FinalBalance, rows[35].CumulativeBalance)
	}
}

func TestNeverRented(t *testing.T) {
	_, results := loadResults(t)
	f := mustFind(t, results, "Never Rented")

	for _, row := range f.Result.Rows {
		if !row.InGrace {
			t.Fatalf("month %d should be in grace", row.Month)
		}
		if !row.NetCashFlow.Equal(row.TotalExpenses.Neg()) {
			t.Fatalf("month %d net cash flow %s should equal -expenses %s", row.Month, row.NetCashFlow, row.TotalExpenses)
		}
	}
	if f.Result.Valuation.Payback.String() != "not recovered within horizon" {
		t.Errorf("unexpected payback %s", f.Result.Valuation.Payback)
	}
	if f.Result.Valuation.IRR.String() != "not determinable" {
		t.Errorf("unexpected IRR %s", f.Result.Valuation.IRR)
	}
}

func TestFlatRate(t *testing.T) {
	_, results := loadResults(t)
	f := mustFind(t, results, "Flat Rate")

	for _, row := range f.Result.Rows {
		if row.InGrace {
			continue
		}
		if row.EffectiveRate.String() != "38000" {
			t.Fatalf("month %d rate = %s, expected 38000", row.Month, row.EffectiveRate)
		}
	}
	// grace months contribute a zero rate to the average
	if got := f.Result.Totals.AverageEffectiveRate.StringFixed(2); got != "31666.67" {
		t.Errorf("average rate = %s, expected 31666.67", got)
	}
}

func TestNoInvestment(t *testing.T) {
	_, results := loadResults(t)
	f := mustFind(t, results, "No Investment")
	base := mustFind(t, results, "Furnished")

	if f.Result.Valuation.Payback.Month != 20 {
		t.Errorf("payback month = %d, expected 20", f.Result.Valuation.Payback.Month)
	}
	// without an investment NPV is the present value of the operating flows
	if diff := f.Result.Valuation.NPV - base.Result.Valuation.NPV; math.Abs(diff-3500000) > 1e-6 {
		t.Errorf("NPV difference = %.6f, expected 3500000", diff)
	}
}

func TestBreakEvenRate(t *testing.T) {
	_, results := loadResults(t)
	f := mustFind(t, results, "Break-even Rate")

	be := f.Metrics.BreakEven
	if be == nil {
		t.Fatal("expected break-even metrics")
	}
	if !be.Converged {
		t.Fatalf("expected convergence, notes: %v", be.Notes)
	}
	if be.Value <= 38000 || be.NPV < 0 {
		t.Errorf("unexpected break-even %+v", be)
	}
	if mustFind(t, results, "Furnished").Metrics.BreakEven != nil {
		t.Error("scenarios without an optimizer should not report a break-even")
	}
}

func TestOutputFormats(t *testing.T) {
	conf, results := loadResults(t)

	for _, format := range constants.OutputFormats {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := output.Write(&buf, format, results, conf.Currency); err != nil {
				t.Fatalf("Write(%s) error = %v", format, err)
			}
			if !strings.Contains(buf.String(), "Furnished") {
				t.Errorf("%s output missing scenario name", format)
			}
		})
	}

	var buf bytes.Buffer
	if err := output.CsvFormat(&buf, results); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	if len(records) != 1+5*36 {
		t.Errorf("expected %d CSV records, got %d", 1+5*36, len(records))
	}
}
