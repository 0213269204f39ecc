package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/analysis"
	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/config"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/costbenefit"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/format"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/population"
	"go.uber.org/zap"
)

func projections(t *testing.T, names ...string) []analysis.Projection {
	t.Helper()
	conf := config.Default()
	results, err := analysis.RunScenarios(context.Background(), zap.NewNop(), &conf, names...)
	if err != nil {
		t.Fatalf("RunScenarios() error = %v", err)
	}
	return results
}

func TestWritePrettySingleScenario(t *testing.T) {
	results := projections(t, "baseline")

	var buf bytes.Buffer
	WritePretty(&buf, results)
	output := buf.String()

	expected := []string{
		"--- Results for scenario baseline ---",
		"Revenue (aggregate mode)",
		"Gross Wealth:",
		"Tax @ 5%:",
		"Net Revenue:",
		format.Billions(results[0].Result.Revenue.NetRevenue),
		"Year | Revenue    | GDP Benefit | Costs      | Net        | Cumulative NPV",
		"Benefit-cost ratio:",
		"Breakeven year:        2027",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("WritePretty() missing %q", want)
		}
	}
	if strings.Contains(output, "--- Scenario comparison ---") {
		t.Errorf("WritePretty() should not print a comparison for one scenario")
	}
}

func TestWritePrettyComparison(t *testing.T) {
	results := projections(t)

	var buf bytes.Buffer
	WritePretty(&buf, results)
	output := buf.String()

	if !strings.Contains(output, "--- Scenario comparison ---") {
		t.Fatalf("WritePretty() missing comparison table")
	}
	for _, p := range results {
		if !strings.Contains(output, "--- Results for scenario "+p.Scenario.Name+" ---") {
			t.Errorf("WritePretty() missing section for %s", p.Scenario.Name)
		}
	}
}

func TestWriteComparisonBreakeven(t *testing.T) {
	year := 2030
	rows := []analysis.ComparisonRow{
		{Scenario: "never pays", Summary: costbenefit.Summary{NPV: -5, BenefitCostRatio: 0.5}},
		{Scenario: "pays", Summary: costbenefit.Summary{NPV: 5, BenefitCostRatio: 2, BreakevenYear: &year}},
	}

	var buf bytes.Buffer
	WriteComparison(&buf, rows)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[3], "| never") {
		t.Errorf("expected never breakeven, got %q", lines[3])
	}
	if !strings.HasSuffix(lines[4], "| 2030") || !strings.Contains(lines[4], "2.00x") {
		t.Errorf("expected breakeven 2030 and ratio 2.00x, got %q", lines[4])
	}
}

func TestWriteSensitivity(t *testing.T) {
	report := analysis.SensitivityReport{
		Scenario: "baseline",
		BaseNPV:  100,
		Rows: []costbenefit.SensitivityRow{
			{Parameter: "elasticity", LowValue: 0.06, HighValue: 1, LowNPV: 110, HighNPV: 90, BaseNPV: 100, Swing: 20},
		},
	}

	var buf bytes.Buffer
	WriteSensitivity(&buf, report)
	output := buf.String()

	for _, want := range []string{"--- Sensitivity for scenario baseline ---", "Base NPV: $100.00B", "elasticity", "$110.00B", "$20.00B"} {
		if !strings.Contains(output, want) {
			t.Errorf("WriteSensitivity() missing %q", want)
		}
	}
}

func TestWritePrettyPopulationSummary(t *testing.T) {
	conf := config.Default()
	params, err := conf.ScenarioParameters("baseline")
	if err != nil {
		t.Fatalf("ScenarioParameters() error = %v", err)
	}
	params.Individuals = []population.Individual{
		{Name: "Record A", NetWorth: 12},
		{Name: "Record B", NetWorth: 1.05},
		{Name: "Record C", NetWorth: 3},
	}
	res, err := costbenefit.Compute(params)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	scenario, err := conf.FindScenario("baseline")
	if err != nil {
		t.Fatalf("FindScenario() error = %v", err)
	}

	var buf bytes.Buffer
	WritePretty(&buf, []analysis.Projection{{Scenario: scenario, Parameters: params, Result: res}})
	output := buf.String()

	for _, want := range []string{
		"Population (3 individuals)",
		"Total wealth:         $16.05B",
		"Median:               $3.00B",
		"Range:                $1.05B to $12.00B",
		"Revenue (individual mode)",
		"teacher position-years",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("WritePretty() missing %q", want)
		}
	}
}

func TestWritePrettyAggregateOmitsPopulation(t *testing.T) {
	var buf bytes.Buffer
	WritePretty(&buf, projections(t, "optimistic"))
	if strings.Contains(buf.String(), "individuals)") {
		t.Errorf("WritePretty() printed a population summary without individual records")
	}
}
