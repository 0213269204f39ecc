package config

import (
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/constants"
)

// Baseline holds every shared parameter of the projection. Scenarios override
// a subset of these values.
type Baseline struct {
	// Tax
	StatutoryRate           float64 `mapstructure:"statutoryRate" yaml:"statutoryRate"`
	PhaseInFloor            float64 `mapstructure:"phaseInFloor" yaml:"phaseInFloor"`
	PhaseInCeiling          float64 `mapstructure:"phaseInCeiling" yaml:"phaseInCeiling"`
	RealEstateExclusion     float64 `mapstructure:"realEstateExclusion" yaml:"realEstateExclusion"`
	PensionExclusion        float64 `mapstructure:"pensionExclusion" yaml:"pensionExclusion"`
	ComplianceRate          float64 `mapstructure:"complianceRate" yaml:"complianceRate"`
	AdminCostMillions       float64 `mapstructure:"adminCostMillions" yaml:"adminCostMillions"`
	InstallmentFraction     float64 `mapstructure:"installmentFraction" yaml:"installmentFraction"`
	InstallmentYears        int     `mapstructure:"installmentYears" yaml:"installmentYears"`
	InstallmentInterestRate float64 `mapstructure:"installmentInterestRate" yaml:"installmentInterestRate"`

	// Migration
	Elasticity            float64 `mapstructure:"elasticity" yaml:"elasticity"`
	OneTimeAdjustment     bool    `mapstructure:"oneTimeAdjustment" yaml:"oneTimeAdjustment"`
	AntiAvoidanceDiscount float64 `mapstructure:"antiAvoidanceDiscount" yaml:"antiAvoidanceDiscount"`
	AvgIncomeTaxMillions  float64 `mapstructure:"avgIncomeTaxMillions" yaml:"avgIncomeTaxMillions"`
	FirmEffectDiscount    float64 `mapstructure:"firmEffectDiscount" yaml:"firmEffectDiscount"`
	EmploymentEffect      float64 `mapstructure:"employmentEffect" yaml:"employmentEffect"`
	ValueAddedEffect      float64 `mapstructure:"valueAddedEffect" yaml:"valueAddedEffect"`
	TaxPaymentEffect      float64 `mapstructure:"taxPaymentEffect" yaml:"taxPaymentEffect"`
	AnnualVCInvestment    float64 `mapstructure:"annualVCInvestment" yaml:"annualVCInvestment"`
	BillionaireVCShare    float64 `mapstructure:"billionaireVCShare" yaml:"billionaireVCShare"`
	VCMultiplier          float64 `mapstructure:"vcMultiplier" yaml:"vcMultiplier"`

	// Spending
	HealthcareShare          float64 `mapstructure:"healthcareShare" yaml:"healthcareShare"`
	EducationShare           float64 `mapstructure:"educationShare" yaml:"educationShare"`
	FoodShare                float64 `mapstructure:"foodShare" yaml:"foodShare"`
	HealthcareMultiplier     float64 `mapstructure:"healthcareMultiplier" yaml:"healthcareMultiplier"`
	EducationMultiplier      float64 `mapstructure:"educationMultiplier" yaml:"educationMultiplier"`
	FoodMultiplier           float64 `mapstructure:"foodMultiplier" yaml:"foodMultiplier"`
	SpendingYears            int     `mapstructure:"spendingYears" yaml:"spendingYears"`
	CostPerEnrolleeYear      float64 `mapstructure:"costPerEnrolleeYear" yaml:"costPerEnrolleeYear"`
	TeacherSalary            float64 `mapstructure:"teacherSalary" yaml:"teacherSalary"`
	MonthlyFoodBenefit       float64 `mapstructure:"monthlyFoodBenefit" yaml:"monthlyFoodBenefit"`
	HouseholdSize            float64 `mapstructure:"householdSize" yaml:"householdSize"`
	HealthcareJobsPerBillion float64 `mapstructure:"healthcareJobsPerBillion" yaml:"healthcareJobsPerBillion"`
	UninsuredPopulation      float64 `mapstructure:"uninsuredPopulation" yaml:"uninsuredPopulation"`
	FoodInsecureHouseholds   float64 `mapstructure:"foodInsecureHouseholds" yaml:"foodInsecureHouseholds"`

	// Timeline
	HorizonYears int     `mapstructure:"horizonYears" yaml:"horizonYears"`
	DiscountRate float64 `mapstructure:"discountRate" yaml:"discountRate"`
	StartYear    int     `mapstructure:"startYear" yaml:"startYear"`
}

// Default returns the built-in configuration: 250 billionaires holding $2,245B,
// the central parameter estimates and the four standard scenarios.
func Default() Configuration {
	return Configuration{
		Population: PopulationConfig{Count: 250, TotalWealth: 2245},
		Baseline:   DefaultBaseline(),
		Scenarios:  DefaultScenarios(),
		Sensitivity: SensitivityConfig{
			Scenario: "baseline",
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Output:  OutputConfig{Format: constants.OutputFormatPretty},
	}
}

// DefaultBaseline returns the central parameter estimates.
func DefaultBaseline() Baseline {
	return Baseline{
		StatutoryRate:           0.05,
		PhaseInFloor:            1.0,
		PhaseInCeiling:          1.1,
		RealEstateExclusion:     0.10,
		PensionExclusion:        0.01,
		ComplianceRate:          0.85,
		AdminCostMillions:       150,
		InstallmentFraction:     0.40,
		InstallmentYears:        5,
		InstallmentInterestRate: 0.05,

		Elasticity:            0.35,
		OneTimeAdjustment:     true,
		AntiAvoidanceDiscount: 0.30,
		AvgIncomeTaxMillions:  50,
		FirmEffectDiscount:    0.50,
		EmploymentEffect:      -0.33,
		ValueAddedEffect:      -0.34,
		TaxPaymentEffect:      -0.50,
		AnnualVCInvestment:    150,
		BillionaireVCShare:    0.15,
		VCMultiplier:          3.0,

		HealthcareShare:          0.90,
		EducationShare:           0.05,
		FoodShare:                0.05,
		HealthcareMultiplier:     1.5,
		EducationMultiplier:      1.2,
		FoodMultiplier:           1.7,
		SpendingYears:            5,
		CostPerEnrolleeYear:      9400,
		TeacherSalary:            92000,
		MonthlyFoodBenefit:       234,
		HouseholdSize:            2.5,
		HealthcareJobsPerBillion: 15000,
		UninsuredPopulation:      2_700_000,
		FoodInsecureHouseholds:   4_200_000,

		HorizonYears: 20,
		DiscountRate: 0.03,
		StartYear:    2027,
	}
}

// DefaultScenarios returns the optimistic, baseline, pessimistic and
// extreme_flight presets, ordered from most to least favorable.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			Name:        "optimistic",
			Description: "Low migration, high compliance, strong fiscal multipliers. Represents the proponent view.",
			Active:      true,
			Overrides: Overrides{
				Elasticity:            float64Ptr(0.06),
				ComplianceRate:        float64Ptr(0.95),
				AdminCostMillions:     float64Ptr(15),
				HealthcareMultiplier:  float64Ptr(1.7),
				EducationMultiplier:   float64Ptr(1.4),
				FoodMultiplier:        float64Ptr(1.9),
				AntiAvoidanceDiscount: float64Ptr(0.50),
				FirmEffectDiscount:    float64Ptr(0.75),
				InstallmentFraction:   float64Ptr(0.30),
			},
		},
		{
			Name:        "baseline",
			Description: "Research-grounded central estimates. Balances optimistic and pessimistic assumptions.",
			Active:      true,
			Overrides: Overrides{
				Elasticity:            float64Ptr(0.35),
				ComplianceRate:        float64Ptr(0.85),
				AdminCostMillions:     float64Ptr(150),
				HealthcareMultiplier:  float64Ptr(1.5),
				EducationMultiplier:   float64Ptr(1.2),
				FoodMultiplier:        float64Ptr(1.7),
				AntiAvoidanceDiscount: float64Ptr(0.30),
				FirmEffectDiscount:    float64Ptr(0.50),
				InstallmentFraction:   float64Ptr(0.40),
			},
		},
		{
			Name:        "pessimistic",
			Description: "Higher migration, lower compliance, moderate multipliers. Represents opponent concerns.",
			Active:      true,
			Overrides: Overrides{
				Elasticity:            float64Ptr(1.0),
				ComplianceRate:        float64Ptr(0.70),
				AdminCostMillions:     float64Ptr(300),
				HealthcareMultiplier:  float64Ptr(1.3),
				EducationMultiplier:   float64Ptr(1.0),
				FoodMultiplier:        float64Ptr(1.5),
				AntiAvoidanceDiscount: float64Ptr(0.15),
				FirmEffectDiscount:    float64Ptr(0.30),
				InstallmentFraction:   float64Ptr(0.50),
			},
		},
		{
			Name:        "extreme_flight",
			Description: "Maximum migration, lowest compliance, weak multipliers. Worst-case stress test.",
			Active:      true,
			Overrides: Overrides{
				Elasticity:            float64Ptr(1.9),
				ComplianceRate:        float64Ptr(0.60),
				AdminCostMillions:     float64Ptr(300),
				HealthcareMultiplier:  float64Ptr(1.2),
				EducationMultiplier:   float64Ptr(0.9),
				FoodMultiplier:        float64Ptr(1.4),
				AntiAvoidanceDiscount: float64Ptr(0.10),
				FirmEffectDiscount:    float64Ptr(0.20),
				InstallmentFraction:   float64Ptr(0.60),
			},
		},
	}
}

func float64Ptr(v float64) *float64 {
	return &v
}
