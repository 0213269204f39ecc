package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/analysis"
	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/config"
	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/server"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/constants"
	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd(a *app) *cobra.Command {
	var scenarios []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Project every active scenario, or the ones named with --scenario",
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, err := analysis.RunScenarios(cmd.Context(), a.logger, a.conf, scenarios...)
			if err != nil {
				a.logger.Error("failed to compute projections",
					zap.String("op", "main.run"),
					zap.Error(err),
				)
				return err
			}

			w := cmd.OutOrStdout()
			switch a.format {
			case constants.OutputFormatCSV:
				return output.WriteScenariosCSV(w, results)
			default:
				output.WritePretty(w, results)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&scenarios, "scenario", "s", nil, "scenario to run (repeatable; defaults to all active scenarios)")
	return cmd
}

func newScenariosCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List configured scenarios",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeScenarios(cmd.OutOrStdout(), a.conf.Scenarios, a.format)
		},
	}
}

func writeScenarios(w io.Writer, scenarios []config.Scenario, format string) error {
	if format == constants.OutputFormatCSV {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"name", "active", "description"}); err != nil {
			return err
		}
		for _, s := range scenarios {
			if err := cw.Write([]string{s.Name, strconv.FormatBool(s.Active), s.Description}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}

	for _, s := range scenarios {
		status := "active"
		if !s.Active {
			status = "inactive"
		}
		_, _ = fmt.Fprintf(w, "%-16s %-8s %s\n", s.Name, status, s.Description)
	}
	return nil
}

func newSensitivityCmd(a *app) *cobra.Command {
	var scenario string

	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Sweep each parameter across its range and rank by NPV swing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := analysis.RunSensitivity(cmd.Context(), a.logger, a.conf, scenario)
			if err != nil {
				a.logger.Error("failed to compute sensitivity",
					zap.String("op", "main.sensitivity"),
					zap.Error(err),
				)
				return err
			}

			w := cmd.OutOrStdout()
			if a.format == constants.OutputFormatCSV {
				return output.WriteSensitivityCSV(w, report)
			}
			output.WriteSensitivity(w, report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "scenario to sweep (defaults to sensitivity.scenario)")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var serverConfigPath string
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				a.logger.Error("failed to load server configuration",
					zap.String("op", "main.serve"),
					zap.Error(err),
				)
				return err
			}
			cfg.Address = resolveAddress(cfg.Address, os.Getenv(constants.EnvPrefix+"_SERVER_ADDRESS"), address)

			logger := a.logger
			if cfg.Logging != (config.LoggingConfig{}) {
				logger, err = initializeLogger(mergeLogging(a.conf.Logging, cfg.Logging), a.logLevel)
				if err != nil {
					return err
				}
				defer func() {
					_ = logger.Sync()
				}()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(logger, a.conf, cfg, version).Start(ctx)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}

// resolveAddress picks the flag, then the environment, then the configured address.
func resolveAddress(configured, env, flag string) string {
	switch {
	case flag != "":
		return flag
	case env != "":
		return env
	}
	return configured
}
