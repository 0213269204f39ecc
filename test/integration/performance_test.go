package integration

import (
	"context"
	"testing"
	"time"

	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/analysis"
	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/config"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/costbenefit"
	"go.uber.org/zap"
)

// TestPerformance checks that a full run with sensitivity stays interactive.
func TestPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}
	logger := zap.NewNop()

	conf, err := config.LoadConfiguration(exampleConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	start := time.Now()
	for i := 0; i < 100; i++ {
		if _, err := analysis.RunScenarios(context.Background(), logger, conf); err != nil {
			t.Fatalf("RunScenarios() error = %v", err)
		}
		if _, err := analysis.RunSensitivity(context.Background(), logger, conf, ""); err != nil {
			t.Fatalf("RunSensitivity() error = %v", err)
		}
	}
	elapsed := time.Since(start)

	t.Logf("100 runs with sensitivity took %v", elapsed)
	if elapsed > 10*time.Second {
		t.Errorf("Expected 100 runs under 10s, took %v", elapsed)
	}
}

func BenchmarkCompute(b *testing.B) {
	conf := config.Default()
	params, err := conf.ScenarioParameters("baseline")
	if err != nil {
		b.Fatalf("ScenarioParameters() error = %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := costbenefit.Compute(params); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSensitivity(b *testing.B) {
	conf := config.Default()
	params, err := conf.ScenarioParameters("baseline")
	if err != nil {
		b.Fatalf("ScenarioParameters() error = %v", err)
	}
	ranges := costbenefit.DefaultRanges()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := costbenefit.Sensitivity(context.Background(), params, ranges); err != nil {
			b.Fatal(err)
		}
	}
}
