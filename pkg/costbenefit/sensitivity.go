package costbenefit

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Range is the low and high value swept for one named parameter.
type Range struct {
	Parameter string  `json:"parameter" yaml:"parameter" mapstructure:"parameter"`
	Low       float64 `json:"low" yaml:"low" mapstructure:"low"`
	High      float64 `json:"high" yaml:"high" mapstructure:"high"`
}

// SensitivityRow is the NPV response to sweeping one parameter.
type SensitivityRow struct {
	Parameter string  `json:"parameter"`
	LowValue  float64 `json:"lowValue"`
	HighValue float64 `json:"highValue"`
	LowNPV    float64 `json:"lowNpv"`
	HighNPV   float64 `json:"highNpv"`
	BaseNPV   float64 `json:"baseNpv"`
	Swing     float64 `json:"swing"`
}

// DefaultRanges are the standard tornado sweeps.
func DefaultRanges() []Range {
	return []Range{
		{Parameter: ParamElasticity, Low: 0.06, High: 1.0},
		{Parameter: ParamComplianceRate, Low: 0.70, High: 0.95},
		{Parameter: ParamAdminCostMillions, Low: 15, High: 300},
		{Parameter: ParamHealthcareMultiplier, Low: 1.2, High: 1.8},
		{Parameter: ParamAntiAvoidanceDiscount, Low: 0.10, High: 0.50},
		{Parameter: ParamFirmEffectDiscount, Low: 0.25, High: 0.75},
		{Parameter: ParamDiscountRate, Low: 0.01, High: 0.05},
		{Parameter: ParamInstallmentFraction, Low: 0.20, High: 0.60},
	}
}

// Sensitivity recomputes the NPV with each parameter moved to its low and high
// value, all others held at base. The 2N+1 evaluations run concurrently; rows
// are returned in descending order of swing.
func Sensitivity(ctx context.Context, base Parameters, ranges []Range) ([]SensitivityRow, error) {
	variants := make([]Parameters, 0, 2*len(ranges)+1)
	variants = append(variants, base)
	for _, r := range ranges {
		low, err := base.With(r.Parameter, r.Low)
		if err != nil {
			return nil, fmt.Errorf("sensitivity: %w", err)
		}
		high, err := base.With(r.Parameter, r.High)
		if err != nil {
			return nil, fmt.Errorf("sensitivity: %w", err)
		}
		variants = append(variants, low, high)
	}

	npvs := make([]float64, len(variants))
	g, gctx := errgroup.WithContext(ctx)
	for i := range variants {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Compute(variants[i])
			if err != nil {
				return err
			}
			npvs[i] = res.Summary.NPV
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sensitivity: %w", err)
	}

	baseNPV := npvs[0]
	rows := make([]SensitivityRow, len(ranges))
	for i, r := range ranges {
		lowNPV, highNPV := npvs[1+2*i], npvs[2+2*i]
		rows[i] = SensitivityRow{
			Parameter: r.Parameter,
			LowValue:  r.Low,
			HighValue: r.High,
			LowNPV:    lowNPV,
			HighNPV:   highNPV,
			BaseNPV:   baseNPV,
			Swing:     math.Abs(highNPV - lowNPV),
		}
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Swing > rows[b].Swing
	})
	return rows, nil
}
