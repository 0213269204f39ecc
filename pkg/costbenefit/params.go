package costbenefit

import (
	"strings"

	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/migration"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/population"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/revenue"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/spending"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/validation"
)

// Parameters fully determine one projection.
type Parameters struct {
	Population   population.Aggregate    `json:"population"`
	Individuals  []population.Individual `json:"individuals,omitempty"`
	Tax          revenue.TaxParameters   `json:"tax"`
	Migration    migration.Parameters    `json:"migration"`
	Spending     spending.Parameters     `json:"spending"`
	HorizonYears int                     `json:"horizonYears"`
	DiscountRate float64                 `json:"discountRate"`
	StartYear    int                     `json:"startYear"`
}

// Names accepted by Parameters.With.
const (
	ParamElasticity              = "elasticity"
	ParamComplianceRate          = "complianceRate"
	ParamAdminCostMillions       = "adminCostMillions"
	ParamHealthcareMultiplier    = "healthcareMultiplier"
	ParamEducationMultiplier     = "educationMultiplier"
	ParamFoodMultiplier          = "foodMultiplier"
	ParamAntiAvoidanceDiscount   = "antiAvoidanceDiscount"
	ParamFirmEffectDiscount      = "firmEffectDiscount"
	ParamDiscountRate            = "discountRate"
	ParamInstallmentFraction     = "installmentFraction"
	ParamStatutoryRate           = "statutoryRate"
	ParamAvgIncomeTaxMillions    = "avgIncomeTaxMillions"
	ParamInstallmentInterestRate = "installmentInterestRate"
)

// ParameterNames lists every name accepted by With.
func ParameterNames() []string {
	return []string{
		ParamElasticity, ParamComplianceRate, ParamAdminCostMillions,
		ParamHealthcareMultiplier, ParamEducationMultiplier, ParamFoodMultiplier,
		ParamAntiAvoidanceDiscount, ParamFirmEffectDiscount, ParamDiscountRate,
		ParamInstallmentFraction, ParamStatutoryRate, ParamAvgIncomeTaxMillions,
		ParamInstallmentInterestRate,
	}
}

// With returns a copy of p with the named parameter set to value. The receiver
// is not modified. Unknown names are rejected.
func (p Parameters) With(name string, value float64) (Parameters, error) {
	switch name {
	case ParamElasticity:
		p.Migration.Elasticity = value
	case ParamComplianceRate:
		p.Tax.ComplianceRate = value
	case ParamAdminCostMillions:
		p.Tax.AdminCostMillions = value
	case ParamHealthcareMultiplier:
		p.Spending.Multipliers.Healthcare = value
	case ParamEducationMultiplier:
		p.Spending.Multipliers.Education = value
	case ParamFoodMultiplier:
		p.Spending.Multipliers.FoodAssistance = value
	case ParamAntiAvoidanceDiscount:
		p.Migration.AntiAvoidanceDiscount = value
	case ParamFirmEffectDiscount:
		p.Migration.FirmEffectDiscount = value
	case ParamDiscountRate:
		p.DiscountRate = value
	case ParamInstallmentFraction:
		p.Tax.InstallmentFraction = value
	case ParamStatutoryRate:
		p.Tax.StatutoryRate = value
	case ParamAvgIncomeTaxMillions:
		p.Migration.AvgIncomeTaxMillions = value
	case ParamInstallmentInterestRate:
		p.Tax.InstallmentInterestRate = value
	default:
		return p, validation.Invalid(name, value, "unknown parameter, expected one of "+strings.Join(ParameterNames(), ", "))
	}
	return p, nil
}

// Validate checks the timeline settings and every engine's parameters.
func (p Parameters) Validate() error {
	if p.DiscountRate <= -1 {
		return validation.Invalid("discountRate", p.DiscountRate, "must be greater than -1")
	}
	return validation.First(
		validation.PositiveInt("horizonYears", p.HorizonYears),
		p.Tax.Validate(),
		p.Migration.Validate(),
		p.Spending.Validate(),
	)
}

// Warnings collects accepted but questionable settings from every engine.
func (p Parameters) Warnings() []string {
	return append(p.Tax.Warnings(), p.Spending.Warnings()...)
}

// EffectivePopulation is the aggregate used for migration: derived from the
// individual records when present, otherwise Population.
func (p Parameters) EffectivePopulation() population.Aggregate {
	if len(p.Individuals) > 0 {
		return population.AggregateOf(p.Individuals)
	}
	return p.Population
}
