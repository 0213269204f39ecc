package config

import (
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/costbenefit"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/migration"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/population"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/revenue"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/spending"
)

// Overrides are the per-scenario parameter changes. Nil fields keep the baseline value.
type Overrides struct {
	Elasticity              *float64 `mapstructure:"elasticity" yaml:"elasticity,omitempty" json:"elasticity,omitempty"`
	ComplianceRate          *float64 `mapstructure:"complianceRate" yaml:"complianceRate,omitempty" json:"complianceRate,omitempty"`
	AdminCostMillions       *float64 `mapstructure:"adminCostMillions" yaml:"adminCostMillions,omitempty" json:"adminCostMillions,omitempty"`
	HealthcareMultiplier    *float64 `mapstructure:"healthcareMultiplier" yaml:"healthcareMultiplier,omitempty" json:"healthcareMultiplier,omitempty"`
	EducationMultiplier     *float64 `mapstructure:"educationMultiplier" yaml:"educationMultiplier,omitempty" json:"educationMultiplier,omitempty"`
	FoodMultiplier          *float64 `mapstructure:"foodMultiplier" yaml:"foodMultiplier,omitempty" json:"foodMultiplier,omitempty"`
	AntiAvoidanceDiscount   *float64 `mapstructure:"antiAvoidanceDiscount" yaml:"antiAvoidanceDiscount,omitempty" json:"antiAvoidanceDiscount,omitempty"`
	FirmEffectDiscount      *float64 `mapstructure:"firmEffectDiscount" yaml:"firmEffectDiscount,omitempty" json:"firmEffectDiscount,omitempty"`
	DiscountRate            *float64 `mapstructure:"discountRate" yaml:"discountRate,omitempty" json:"discountRate,omitempty"`
	InstallmentFraction     *float64 `mapstructure:"installmentFraction" yaml:"installmentFraction,omitempty" json:"installmentFraction,omitempty"`
	StatutoryRate           *float64 `mapstructure:"statutoryRate" yaml:"statutoryRate,omitempty" json:"statutoryRate,omitempty"`
	AvgIncomeTaxMillions    *float64 `mapstructure:"avgIncomeTaxMillions" yaml:"avgIncomeTaxMillions,omitempty" json:"avgIncomeTaxMillions,omitempty"`
	InstallmentInterestRate *float64 `mapstructure:"installmentInterestRate" yaml:"installmentInterestRate,omitempty" json:"installmentInterestRate,omitempty"`
}

type overrideField struct {
	name  string
	value *float64
}

func (o Overrides) fields() []overrideField {
	return []overrideField{
		{costbenefit.ParamElasticity, o.Elasticity},
		{costbenefit.ParamComplianceRate, o.ComplianceRate},
		{costbenefit.ParamAdminCostMillions, o.AdminCostMillions},
		{costbenefit.ParamHealthcareMultiplier, o.HealthcareMultiplier},
		{costbenefit.ParamEducationMultiplier, o.EducationMultiplier},
		{costbenefit.ParamFoodMultiplier, o.FoodMultiplier},
		{costbenefit.ParamAntiAvoidanceDiscount, o.AntiAvoidanceDiscount},
		{costbenefit.ParamFirmEffectDiscount, o.FirmEffectDiscount},
		{costbenefit.ParamDiscountRate, o.DiscountRate},
		{costbenefit.ParamInstallmentFraction, o.InstallmentFraction},
		{costbenefit.ParamStatutoryRate, o.StatutoryRate},
		{costbenefit.ParamAvgIncomeTaxMillions, o.AvgIncomeTaxMillions},
		{costbenefit.ParamInstallmentInterestRate, o.InstallmentInterestRate},
	}
}

// Apply returns base with every non-nil override set.
func (o Overrides) Apply(base costbenefit.Parameters) (costbenefit.Parameters, error) {
	params := base
	for _, f := range o.fields() {
		if f.value == nil {
			continue
		}
		var err error
		params, err = params.With(f.name, *f.value)
		if err != nil {
			return base, err
		}
	}
	return params, nil
}

// Merge returns o with every non-nil field of other taking precedence.
func (o Overrides) Merge(other Overrides) Overrides {
	pick := func(a, b *float64) *float64 {
		if b != nil {
			return b
		}
		return a
	}
	return Overrides{
		Elasticity:              pick(o.Elasticity, other.Elasticity),
		ComplianceRate:          pick(o.ComplianceRate, other.ComplianceRate),
		AdminCostMillions:       pick(o.AdminCostMillions, other.AdminCostMillions),
		HealthcareMultiplier:    pick(o.HealthcareMultiplier, other.HealthcareMultiplier),
		EducationMultiplier:     pick(o.EducationMultiplier, other.EducationMultiplier),
		FoodMultiplier:          pick(o.FoodMultiplier, other.FoodMultiplier),
		AntiAvoidanceDiscount:   pick(o.AntiAvoidanceDiscount, other.AntiAvoidanceDiscount),
		FirmEffectDiscount:      pick(o.FirmEffectDiscount, other.FirmEffectDiscount),
		DiscountRate:            pick(o.DiscountRate, other.DiscountRate),
		InstallmentFraction:     pick(o.InstallmentFraction, other.InstallmentFraction),
		StatutoryRate:           pick(o.StatutoryRate, other.StatutoryRate),
		AvgIncomeTaxMillions:    pick(o.AvgIncomeTaxMillions, other.AvgIncomeTaxMillions),
		InstallmentInterestRate: pick(o.InstallmentInterestRate, other.InstallmentInterestRate),
	}
}

// BaselineParameters converts the baseline and population into engine parameters.
func (c *Configuration) BaselineParameters() costbenefit.Parameters {
	b := c.Baseline
	return costbenefit.Parameters{
		Population: population.Aggregate{
			Count:       c.Population.Count,
			TotalWealth: c.Population.TotalWealth,
		},
		Individuals: c.individuals,
		Tax: revenue.TaxParameters{
			StatutoryRate:           b.StatutoryRate,
			PhaseInFloor:            b.PhaseInFloor,
			PhaseInCeiling:          b.PhaseInCeiling,
			RealEstateExclusion:     b.RealEstateExclusion,
			PensionExclusion:        b.PensionExclusion,
			ComplianceRate:          b.ComplianceRate,
			AdminCostMillions:       b.AdminCostMillions,
			InstallmentFraction:     b.InstallmentFraction,
			InstallmentYears:        b.InstallmentYears,
			InstallmentInterestRate: b.InstallmentInterestRate,
		},
		Migration: migration.Parameters{
			Elasticity:            b.Elasticity,
			OneTimeAdjustment:     b.OneTimeAdjustment,
			AntiAvoidanceDiscount: b.AntiAvoidanceDiscount,
			AvgIncomeTaxMillions:  b.AvgIncomeTaxMillions,
			FirmEffectDiscount:    b.FirmEffectDiscount,
			FirmEffects: migration.FirmEffects{
				Employment: b.EmploymentEffect,
				ValueAdded: b.ValueAddedEffect,
				TaxPayment: b.TaxPaymentEffect,
			},
			AnnualVCInvestment: b.AnnualVCInvestment,
			BillionaireVCShare: b.BillionaireVCShare,
			VCMultiplier:       b.VCMultiplier,
		},
		Spending: spending.Parameters{
			Allocation: spending.Allocation{
				Healthcare:     b.HealthcareShare,
				Education:      b.EducationShare,
				FoodAssistance: b.FoodShare,
			},
			Multipliers: spending.Multipliers{
				Healthcare:     b.HealthcareMultiplier,
				Education:      b.EducationMultiplier,
				FoodAssistance: b.FoodMultiplier,
			},
			SpendingYears: b.SpendingYears,
			UnitCosts: spending.UnitCosts{
				CostPerEnrolleeYear:      b.CostPerEnrolleeYear,
				TeacherSalary:            b.TeacherSalary,
				MonthlyFoodBenefit:       b.MonthlyFoodBenefit,
				HouseholdSize:            b.HouseholdSize,
				HealthcareJobsPerBillion: b.HealthcareJobsPerBillion,
				UninsuredPopulation:      b.UninsuredPopulation,
				FoodInsecureHouseholds:   b.FoodInsecureHouseholds,
			},
		},
		HorizonYears: b.HorizonYears,
		DiscountRate: b.DiscountRate,
		StartYear:    b.StartYear,
	}
}
