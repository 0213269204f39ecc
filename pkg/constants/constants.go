// Package constants provides shared constants for the billionaire-tax application.
package constants

// Unit conversions
const (
	// MillionsPerBillion converts amounts expressed in millions into billions.
	MillionsPerBillion = 1000.0

	// DollarsPerBillion converts per-unit dollar costs into billions.
	DollarsPerBillion = 1_000_000_000.0

	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Rounding and comparison
const (
	// CurrencyPlaces is the number of decimals kept when exporting amounts in billions
	// (three places keeps millions visible).
	CurrencyPlaces = 3

	// RatioPlaces is the number of decimals kept for ratios and factors.
	RatioPlaces = 4

	// FractionSumTolerance is the tolerance used when checking that fractions sum to one.
	FractionSumTolerance = 1e-9
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides of configuration keys.
	EnvPrefix = "BTAX"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultCacheEntries bounds the number of cached analysis results.
	DefaultCacheEntries = 128
)
