package config

import "testing"

func TestCanonicalOptimizerField(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty defaults to nightly rate", input: "", expected: OptimizerFieldBaseNightlyRate},
		{name: "nightly rate casing", input: "BaseNightlyRate", expected: OptimizerFieldBaseNightlyRate},
		{name: "adr alias", input: "ADR", expected: OptimizerFieldBaseNightlyRate},
		{name: "nights snake case", input: "avg_nights_per_month", expected: OptimizerFieldAvgNightsPerMonth},
		{name: "investment alias", input: " investment ", expected: OptimizerFieldInitialInvestment},
		{name: "unknown lowered", input: "Custom", expected: "custom"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := CanonicalOptimizerField(tc.input)
			if actual != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, actual)
			}
		})
	}
}

func TestOptimizerConfigNormalizeDefaults(t *testing.T) {
	cfg := &OptimizerConfig{Target: " PAYBACK ", Min: floatPtr(0), Max: floatPtr(1)}
	cfg.Normalize()

	if cfg.Field != OptimizerFieldBaseNightlyRate {
		t.Fatalf("expected default field, got %q", cfg.Field)
	}
	if cfg.Target != OptimizerTargetPayback {
		t.Fatalf("expected payback target, got %q", cfg.Target)
	}
	if cfg.Tolerance != defaultToleranceAmount {
		t.Fatalf("expected default tolerance %.2f, got %.2f", defaultToleranceAmount, cfg.Tolerance)
	}
	if cfg.MaxIterations != defaultMaxIterations {
		t.Fatalf("expected default max iterations %d, got %d", defaultMaxIterations, cfg.MaxIterations)
	}

	empty := &OptimizerConfig{}
	empty.Normalize()
	if empty.Target != OptimizerTargetNPV {
		t.Fatalf("expected npv default target, got %q", empty.Target)
	}

	var nilCfg *OptimizerConfig
	nilCfg.Normalize()
}

func TestOptimizerConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     *OptimizerConfig
		wantErr bool
	}{
		{name: "valid", cfg: &OptimizerConfig{Min: floatPtr(0), Max: floatPtr(100)}},
		{name: "nil", cfg: nil, wantErr: true},
		{name: "unsupported field", cfg: &OptimizerConfig{Field: "commissionRate", Min: floatPtr(0), Max: floatPtr(1)}, wantErr: true},
		{name: "unsupported target", cfg: &OptimizerConfig{Target: "irr", Min: floatPtr(0), Max: floatPtr(1)}, wantErr: true},
		{name: "missing min", cfg: &OptimizerConfig{Max: floatPtr(1)}, wantErr: true},
		{name: "missing max", cfg: &OptimizerConfig{Min: floatPtr(0)}, wantErr: true},
		{name: "negative min", cfg: &OptimizerConfig{Min: floatPtr(-1), Max: floatPtr(1)}, wantErr: true},
		{name: "min equals max", cfg: &OptimizerConfig{Min: floatPtr(5), Max: floatPtr(5)}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error but got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestOptimizerConfigIncreasing(t *testing.T) {
	if !(&OptimizerConfig{Field: OptimizerFieldBaseNightlyRate}).Increasing() {
		t.Fatal("nightly rate should be increasing")
	}
	if !(&OptimizerConfig{Field: OptimizerFieldAvgNightsPerMonth}).Increasing() {
		t.Fatal("nights should be increasing")
	}
	if (&OptimizerConfig{Field: OptimizerFieldInitialInvestment}).Increasing() {
		t.Fatal("investment should not be increasing")
	}
}

func floatPtr(value float64) *float64 {
	return &value
}

func intPtr(value int) *int {
	return &value
}
