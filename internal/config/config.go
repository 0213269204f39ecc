// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/constants"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/costbenefit"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/population"
	"github.com/spf13/viper"
)

// ErrUnknownScenario is returned when a scenario name is not configured.
var ErrUnknownScenario = errors.New("unknown scenario")

// Configuration holds all configuration for billionaire-tax.
type Configuration struct {
	Population  PopulationConfig  `mapstructure:"population" yaml:"population,omitempty"`
	Baseline    Baseline          `mapstructure:"baseline" yaml:"baseline,omitempty"`
	Scenarios   []Scenario        `mapstructure:"scenarios" yaml:"scenarios,omitempty"`
	Sensitivity SensitivityConfig `mapstructure:"sensitivity" yaml:"sensitivity,omitempty"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging,omitempty"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output,omitempty"`

	individuals []population.Individual
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv
}

// PopulationConfig describes the taxed population either as an aggregate or
// as a JSON file of individual records. IndividualsFile takes precedence.
type PopulationConfig struct {
	Count           int     `mapstructure:"count" yaml:"count,omitempty"`
	TotalWealth     float64 `mapstructure:"totalWealth" yaml:"totalWealth,omitempty"`
	IndividualsFile string  `mapstructure:"individualsFile" yaml:"individualsFile,omitempty"`
}

// SensitivityConfig selects the scenario and ranges of the tornado sweep.
type SensitivityConfig struct {
	Scenario string              `mapstructure:"scenario" yaml:"scenario,omitempty"`
	Ranges   []costbenefit.Range `mapstructure:"ranges" yaml:"ranges,omitempty"`
}

// Scenario is a named set of overrides applied on top of the baseline.
type Scenario struct {
	Name        string    `mapstructure:"name" yaml:"name" json:"name"`
	Description string    `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
	Active      bool      `mapstructure:"active" yaml:"active" json:"active"`
	Overrides   Overrides `mapstructure:"overrides" yaml:"overrides,omitempty" json:"overrides"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A relative individualsFile is resolved against the
// directory of the config file.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v, filepath.Dir(configPath))
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
// A relative individualsFile is resolved against the working directory.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	return decode(v, "")
}

// LoadDefaultConfiguration returns the built-in configuration with environment
// overrides applied.
func LoadDefaultConfiguration() (*Configuration, error) {
	return decode(newViper(), "")
}

// newViper registers every key of Default so that environment variables such
// as BTAX_BASELINE_DISCOUNTRATE apply even when the key is absent from the file.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, "", reflect.ValueOf(Default()))
	return v
}

// setDefaults walks the mapstructure keys of value. Lists are left to the file.
func setDefaults(v *viper.Viper, prefix string, value reflect.Value) {
	t := value.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := field.Tag.Get("mapstructure")
		if !field.IsExported() || key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}

		switch fv := value.Field(i); fv.Kind() {
		case reflect.Struct:
			setDefaults(v, key, fv)
		case reflect.Slice, reflect.Map:
		default:
			v.SetDefault(key, fv.Interface())
		}
	}
}

func decode(v *viper.Viper, baseDir string) (*Configuration, error) {
	configuration := Default()
	configuration.Scenarios = nil

	if err := v.UnmarshalExact(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if len(configuration.Scenarios) == 0 {
		configuration.Scenarios = DefaultScenarios()
	}

	if path := configuration.Population.IndividualsFile; path != "" {
		if baseDir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		records, err := population.LoadIndividualsFile(path)
		if err != nil {
			return nil, err
		}
		configuration.individuals = records
	}

	return &configuration, nil
}

// Individuals returns the loaded individual records, if any.
func (c *Configuration) Individuals() []population.Individual {
	return c.individuals
}

// ActiveScenarios returns the scenarios flagged active, in configured order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, s := range c.Scenarios {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}

// FindScenario returns the named scenario.
func (c *Configuration) FindScenario(name string) (Scenario, error) {
	for _, s := range c.Scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
}

// ScenarioParameters returns the baseline merged with the named scenario's overrides.
func (c *Configuration) ScenarioParameters(name string) (costbenefit.Parameters, error) {
	return c.ScenarioParametersWith(name, Overrides{})
}

// ScenarioParametersWith layers extra on top of the named scenario's overrides
// before applying them to the baseline.
func (c *Configuration) ScenarioParametersWith(name string, extra Overrides) (costbenefit.Parameters, error) {
	scenario, err := c.FindScenario(name)
	if err != nil {
		return costbenefit.Parameters{}, err
	}
	params, err := scenario.Overrides.Merge(extra).Apply(c.BaselineParameters())
	if err != nil {
		return costbenefit.Parameters{}, fmt.Errorf("scenario %s: %w", name, err)
	}
	return params, nil
}

// SensitivityRanges returns the configured ranges, or the defaults when none are set.
func (c *Configuration) SensitivityRanges() []costbenefit.Range {
	if len(c.Sensitivity.Ranges) == 0 {
		return costbenefit.DefaultRanges()
	}
	return c.Sensitivity.Ranges
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	seen := make(map[string]bool)
	for _, s := range c.Scenarios {
		if seen[s.Name] {
			warnings = append(warnings, fmt.Sprintf("scenario %q is defined more than once; only the first is used", s.Name))
		}
		seen[s.Name] = true
	}

	if len(c.ActiveScenarios()) == 0 {
		warnings = append(warnings, "no active scenarios are configured")
	}

	if c.Sensitivity.Scenario != "" && !seen[c.Sensitivity.Scenario] {
		warnings = append(warnings, fmt.Sprintf("sensitivity scenario %q is not configured", c.Sensitivity.Scenario))
	}

	for _, s := range c.ActiveScenarios() {
		params, err := c.ScenarioParameters(s.Name)
		if err != nil {
			continue
		}
		for _, w := range params.Warnings() {
			warnings = append(warnings, fmt.Sprintf("scenario %s: %s", s.Name, w))
		}
	}

	return warnings
}

// Validate returns the first scenario whose merged parameters are invalid.
func (c *Configuration) Validate() error {
	for _, s := range c.Scenarios {
		params, err := c.ScenarioParameters(s.Name)
		if err != nil {
			return err
		}
		if err := params.Validate(); err != nil {
			return fmt.Errorf("scenario %s: %w", s.Name, err)
		}
	}
	return nil
}
