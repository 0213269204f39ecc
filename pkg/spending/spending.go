// Package spending allocates net revenue across program categories and
// estimates the GDP impact and social outcomes of that spending.
package spending

import (
	"fmt"

	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/constants"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/mathutil"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/validation"
)

// Category names a spending program.
type Category string

// Spending categories.
const (
	Healthcare     Category = "healthcare"
	Education      Category = "education"
	FoodAssistance Category = "food_assistance"
)

// Allocation holds the fraction of net revenue assigned to each category.
type Allocation struct {
	Healthcare     float64 `json:"healthcare"`
	Education      float64 `json:"education"`
	FoodAssistance float64 `json:"foodAssistance"`
}

// Multipliers holds the fiscal multiplier of each category.
type Multipliers struct {
	Healthcare     float64 `json:"healthcare"`
	Education      float64 `json:"education"`
	FoodAssistance float64 `json:"foodAssistance"`
}

// UnitCosts convert spending into outcome counts. Costs are in dollars.
type UnitCosts struct {
	CostPerEnrolleeYear      float64 `json:"costPerEnrolleeYear"`
	TeacherSalary            float64 `json:"teacherSalary"`
	MonthlyFoodBenefit       float64 `json:"monthlyFoodBenefit"`
	HouseholdSize            float64 `json:"householdSize"`
	HealthcareJobsPerBillion float64 `json:"healthcareJobsPerBillion"`
	UninsuredPopulation      float64 `json:"uninsuredPopulation"`
	FoodInsecureHouseholds   float64 `json:"foodInsecureHouseholds"`
}

// HouseholdYearCost is the annual food benefit for an average household.
func (u UnitCosts) HouseholdYearCost() float64 {
	return u.MonthlyFoodBenefit * constants.MonthsPerYear * u.HouseholdSize
}

// Parameters drive the spending estimate.
type Parameters struct {
	Allocation    Allocation  `json:"allocation"`
	Multipliers   Multipliers `json:"multipliers"`
	SpendingYears int         `json:"spendingYears"`
	UnitCosts     UnitCosts   `json:"unitCosts"`
}

// Validate rejects values that make the estimate undefined.
func (p Parameters) Validate() error {
	return validation.First(
		validation.PositiveInt("spendingYears", p.SpendingYears),
		validation.NonNegative("allocation.healthcare", p.Allocation.Healthcare),
		validation.NonNegative("allocation.education", p.Allocation.Education),
		validation.NonNegative("allocation.foodAssistance", p.Allocation.FoodAssistance),
		validation.NonNegative("healthcareMultiplier", p.Multipliers.Healthcare),
		validation.NonNegative("educationMultiplier", p.Multipliers.Education),
		validation.NonNegative("foodMultiplier", p.Multipliers.FoodAssistance),
		positive("costPerEnrolleeYear", p.UnitCosts.CostPerEnrolleeYear),
		positive("teacherSalary", p.UnitCosts.TeacherSalary),
		positive("householdYearCost", p.UnitCosts.HouseholdYearCost()),
	)
}

// Warnings reports an allocation that does not assign exactly all of net revenue.
func (p Parameters) Warnings() []string {
	a := p.Allocation
	if msg := validation.FractionSumWarning("allocation", true, a.Healthcare, a.Education, a.FoodAssistance); msg != "" {
		return []string{msg}
	}
	return nil
}

func positive(param string, value float64) error {
	if value <= 0 {
		return validation.Invalid(param, value, "must be positive")
	}
	return nil
}

// Amounts is net revenue split by category, in billions.
type Amounts struct {
	Total          float64 `json:"total"`
	Healthcare     float64 `json:"healthcare"`
	Education      float64 `json:"education"`
	FoodAssistance float64 `json:"foodAssistance"`
}

// Allocate splits net revenue by the fractions. Fractions are not normalized.
func Allocate(netRevenue float64, fractions Allocation) Amounts {
	return Amounts{
		Total:          netRevenue,
		Healthcare:     netRevenue * fractions.Healthcare,
		Education:      netRevenue * fractions.Education,
		FoodAssistance: netRevenue * fractions.FoodAssistance,
	}
}

// Impact is the estimated effect of one category's spending.
type Impact struct {
	Category           Category `json:"category"`
	TotalSpending      float64  `json:"totalSpending"`
	AnnualSpending     float64  `json:"annualSpending"`
	SpendingYears      int      `json:"spendingYears"`
	Multiplier         float64  `json:"multiplier"`
	UnitCost           float64  `json:"unitCost"`
	OutcomeCount       float64  `json:"outcomeCount"`
	AnnualOutcomeCount float64  `json:"annualOutcomeCount"`
	CoveragePct        *float64 `json:"coveragePct,omitempty"`
	GDPImpact          float64  `json:"gdpImpact"`
}

// CategoryImpact converts spending (billions) into unit-years at unitCost
// (dollars) and GDP impact. CoveragePct is set only for a positive
// contextDenominator.
func CategoryImpact(category Category, spending, multiplier float64, years int, unitCost, contextDenominator float64) Impact {
	outcomes := mathutil.SafeDivide(spending, unitCost/constants.DollarsPerBillion, 0)
	annualOutcomes := mathutil.SafeDivide(outcomes, float64(years), 0)

	impact := Impact{
		Category:           category,
		TotalSpending:      spending,
		AnnualSpending:     mathutil.SafeDivide(spending, float64(years), 0),
		SpendingYears:      years,
		Multiplier:         multiplier,
		UnitCost:           unitCost,
		OutcomeCount:       outcomes,
		AnnualOutcomeCount: annualOutcomes,
		GDPImpact:          spending * multiplier,
	}
	if contextDenominator > 0 {
		pct := mathutil.CalculatePercentage(annualOutcomes, contextDenominator)
		impact.CoveragePct = &pct
	}
	return impact
}

// Result aggregates the category impacts.
type Result struct {
	Allocation            Amounts `json:"allocation"`
	Healthcare            Impact  `json:"healthcare"`
	Education             Impact  `json:"education"`
	FoodAssistance        Impact  `json:"foodAssistance"`
	SpendingYears         int     `json:"spendingYears"`
	TotalGDPImpact        float64 `json:"totalGdpImpact"`
	WeightedAvgMultiplier float64 `json:"weightedAvgMultiplier"`
	DirectJobs            float64 `json:"directJobs"`
}

// AnnualGDPImpact spreads the total GDP impact evenly over the spending years.
func (r Result) AnnualGDPImpact() float64 {
	return mathutil.SafeDivide(r.TotalGDPImpact, float64(r.SpendingYears), 0)
}

// TotalImpact allocates net revenue and sums the category impacts. The weighted
// multiplier is zero when net revenue is not positive.
func TotalImpact(netRevenue float64, params Parameters) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, fmt.Errorf("spending impact: %w", err)
	}

	years := params.SpendingYears
	units := params.UnitCosts
	amounts := Allocate(netRevenue, params.Allocation)

	res := Result{
		Allocation: amounts,
		Healthcare: CategoryImpact(Healthcare, amounts.Healthcare, params.Multipliers.Healthcare, years,
			units.CostPerEnrolleeYear, units.UninsuredPopulation),
		Education: CategoryImpact(Education, amounts.Education, params.Multipliers.Education, years,
			units.TeacherSalary, 0),
		FoodAssistance: CategoryImpact(FoodAssistance, amounts.FoodAssistance, params.Multipliers.FoodAssistance, years,
			units.HouseholdYearCost(), units.FoodInsecureHouseholds),
		SpendingYears: years,
		DirectJobs:    amounts.Healthcare * units.HealthcareJobsPerBillion / float64(years),
	}
	res.TotalGDPImpact = mathutil.Sum(res.Healthcare.GDPImpact, res.Education.GDPImpact, res.FoodAssistance.GDPImpact)
	if netRevenue > 0 {
		res.WeightedAvgMultiplier = res.TotalGDPImpact / netRevenue
	}
	return res, nil
}
