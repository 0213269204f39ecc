// Package analysis runs configured scenarios and sensitivity sweeps through the
// cost-benefit model.
package analysis

import (
	"context"
	"fmt"

	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/config"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/costbenefit"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Projection holds the result of running one scenario.
type Projection struct {
	Scenario   config.Scenario        `json:"scenario"`
	Parameters costbenefit.Parameters `json:"parameters"`
	Result     costbenefit.Result     `json:"result"`
}

// ComparisonRow is one line of the scenario comparison table.
type ComparisonRow struct {
	Scenario           string              `json:"scenario"`
	NetRevenue         float64             `json:"netRevenue"`
	Departures         float64             `json:"departures"`
	AnnualMigration    float64             `json:"annualMigrationCost"`
	TotalGDPImpact     float64             `json:"totalGdpImpact"`
	WeightedMultiplier float64             `json:"weightedMultiplier"`
	Summary            costbenefit.Summary `json:"summary"`
}

// SensitivityReport is the tornado sweep of one scenario.
type SensitivityReport struct {
	Scenario string                       `json:"scenario"`
	BaseNPV  float64                      `json:"baseNpv"`
	Rows     []costbenefit.SensitivityRow `json:"rows"`
}

// RunScenarios computes the named scenarios, or every active scenario when no
// names are given. Scenarios are evaluated concurrently; results keep the
// configured order.
func RunScenarios(ctx context.Context, logger *zap.Logger, conf *config.Configuration, names ...string) ([]Projection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	scenarios, err := selectScenarios(logger, conf, names)
	if err != nil {
		return nil, err
	}

	projections := make([]Projection, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	for i, scenario := range scenarios {
		i, scenario := i, scenario
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			params, err := conf.ScenarioParameters(scenario.Name)
			if err != nil {
				return err
			}
			result, err := costbenefit.Compute(params)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", scenario.Name, err)
			}
			for _, warning := range result.Warnings {
				logger.Warn(fmt.Sprintf("scenario %s: %s", scenario.Name, warning),
					zap.String("op", "analysis.RunScenarios"),
				)
			}
			logger.Debug(fmt.Sprintf("computed scenario %s", scenario.Name),
				zap.String("op", "analysis.RunScenarios"),
				zap.Float64("npv", result.Summary.NPV),
			)
			projections[i] = Projection{Scenario: scenario, Parameters: params, Result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return projections, nil
}

func selectScenarios(logger *zap.Logger, conf *config.Configuration, names []string) ([]config.Scenario, error) {
	if len(names) == 0 {
		for _, s := range conf.Scenarios {
			if !s.Active {
				logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", s.Name),
					zap.String("op", "analysis.RunScenarios"),
				)
			}
		}
		return conf.ActiveScenarios(), nil
	}

	scenarios := make([]config.Scenario, 0, len(names))
	for _, name := range names {
		s, err := conf.FindScenario(name)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// Compare summarizes projections side by side.
func Compare(projections []Projection) []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(projections))
	for _, p := range projections {
		r := p.Result
		rows = append(rows, ComparisonRow{
			Scenario:           p.Scenario.Name,
			NetRevenue:         r.Revenue.NetRevenue,
			Departures:         r.Migration.Departures.EstimatedDepartures,
			AnnualMigration:    r.Migration.AnnualTotal,
			TotalGDPImpact:     r.Spending.TotalGDPImpact,
			WeightedMultiplier: r.Spending.WeightedAvgMultiplier,
			Summary:            r.Summary,
		})
	}
	return rows
}

// RunSensitivity sweeps the configured ranges around the named scenario. An
// empty name selects the configured sensitivity scenario.
func RunSensitivity(ctx context.Context, logger *zap.Logger, conf *config.Configuration, scenario string) (SensitivityReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scenario == "" {
		scenario = conf.Sensitivity.Scenario
	}

	params, err := conf.ScenarioParameters(scenario)
	if err != nil {
		return SensitivityReport{}, err
	}

	return Sensitivity(ctx, logger, scenario, params, conf.SensitivityRanges())
}

// Sensitivity sweeps ranges around params and labels the report with scenario.
func Sensitivity(ctx context.Context, logger *zap.Logger, scenario string, params costbenefit.Parameters, ranges []costbenefit.Range) (SensitivityReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rows, err := costbenefit.Sensitivity(ctx, params, ranges)
	if err != nil {
		return SensitivityReport{}, fmt.Errorf("scenario %s: %w", scenario, err)
	}

	report := SensitivityReport{Scenario: scenario, Rows: rows}
	if len(rows) > 0 {
		report.BaseNPV = rows[0].BaseNPV
	} else {
		base, err := costbenefit.Compute(params)
		if err != nil {
			return SensitivityReport{}, fmt.Errorf("scenario %s: %w", scenario, err)
		}
		report.BaseNPV = base.Summary.NPV
	}

	logger.Debug(fmt.Sprintf("swept %d parameters around scenario %s", len(rows), scenario),
		zap.String("op", "analysis.Sensitivity"),
	)
	return report, nil
}
