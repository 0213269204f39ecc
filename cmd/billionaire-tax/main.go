package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/config"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/constants"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

// app carries the state shared by every subcommand once the root command has
// loaded configuration and logging.
type app struct {
	configPath   string
	outputFormat string
	logLevel     string
	envFile      string

	conf   *config.Configuration
	logger *zap.Logger
	format string
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "billionaire-tax",
		Short:         "Fiscal projection of a one-time wealth tax on billionaires",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Flags().Changed("config"), cmd.InOrStdin())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file, or - to read it from stdin")
	cmd.PersistentFlags().StringVar(&a.outputFormat, "output-format", "", "type of output override: pretty, csv")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "optional dotenv file loaded before configuration")

	cmd.AddCommand(
		newRunCmd(a),
		newScenariosCmd(a),
		newSensitivityCmd(a),
		newServeCmd(a),
	)
	return cmd
}

// setup loads the env file, configuration and logger. Without an explicit
// --config the built-in defaults are used when the default file is absent.
func (a *app) setup(explicitConfig bool, stdin io.Reader) error {
	if err := loadEnvFile(a.envFile); err != nil {
		return err
	}

	conf, usedDefaults, err := loadConfiguration(a.configPath, explicitConfig, stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", a.configPath, err)
		return err
	}
	a.conf = conf

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return err
	}
	a.logger = logger

	if usedDefaults {
		logger.Info(fmt.Sprintf("no configuration found at %s, using built-in defaults", a.configPath),
			zap.String("op", "main"),
		)
	}
	if records := conf.Individuals(); len(records) > 0 {
		logger.Info("loaded individual population records",
			zap.String("op", "main"),
			zap.String("file", conf.Population.IndividualsFile),
			zap.Int("count", len(records)),
		)
	}

	a.format = resolveOutputFormat(conf.Output.Format, a.outputFormat)
	if err := validation.ValidateOutputFormat(a.format); err != nil {
		logger.Error(err.Error(), zap.String("op", "main"))
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
	return nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// loadConfiguration returns the configuration at path, or read from stdin when
// path is "-". The bool reports that built-in defaults were used because path
// was not given explicitly and does not exist. Environment overrides apply in
// every case.
func loadConfiguration(path string, explicit bool, stdin io.Reader) (*config.Configuration, bool, error) {
	if path == "-" {
		conf, err := config.LoadConfigurationFromReader(stdin)
		return conf, false, err
	}
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			conf, err := config.LoadDefaultConfiguration()
			return conf, true, err
		}
	}
	conf, err := config.LoadConfiguration(path)
	return conf, false, err
}

// resolveOutputFormat applies the CLI override over the configured format.
func resolveOutputFormat(configured, override string) string {
	format := configured
	if override != "" {
		format = override
	}
	if format == "" {
		format = constants.OutputFormatPretty
	}
	return format
}
