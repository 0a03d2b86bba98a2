package integration

import (
	"testing"
	"time"

	"github.com/iwvelando/rental-cashflow/internal/config"
	"github.com/iwvelando/rental-cashflow/internal/forecast"
	"github.com/iwvelando/rental-cashflow/internal/projection"
	"go.uber.org/zap"
)

// TestPerformance checks that the full pipeline, optimizer included, stays
// interactive.
func TestPerformance(t *testing.T) {
	logger := zap.NewNop()

	start := time.Now()
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	loadTime := time.Since(start)

	start = time.Now()
	results, err := forecast.GetForecast(logger, *conf)
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	forecastTime := time.Since(start)

	t.Logf("Performance: load=%v, forecast=%v, scenarios=%d", loadTime, forecastTime, len(results))

	if forecastTime > 5*time.Second {
		t.Errorf("forecast took too long: %v", forecastTime)
	}
}

func BenchmarkGetForecast(b *testing.B) {
	logger := zap.NewNop()
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		b.Fatalf("LoadConfiguration failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := forecast.GetForecast(logger, *conf); err != nil {
			b.Fatalf("GetForecast failed: %v", err)
		}
	}
}

func BenchmarkProject(b *testing.B) {
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		b.Fatalf("LoadConfiguration failed: %v", err)
	}
	sets, err := conf.ParameterSets()
	if err != nil {
		b.Fatalf("ParameterSets failed: %v", err)
	}
	engine := projection.NewEngine(nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Project(sets[0].Parameters); err != nil {
			b.Fatalf("Project failed: %v", err)
		}
	}
}
