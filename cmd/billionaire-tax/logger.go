package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oscarandresgarntor/billionaires-tax-ca/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logFormats = map[string]func() zap.Config{
	"":        zap.NewProductionConfig,
	"json":    zap.NewProductionConfig,
	"console": zap.NewDevelopmentConfig,
}

// initializeLogger builds the command logger. A non-empty levelOverride (the
// --log-level flag) wins over the configured level.
func initializeLogger(logging config.LoggingConfig, levelOverride string) (*zap.Logger, error) {
	if levelOverride != "" {
		logging.Level = levelOverride
	}

	name := strings.ToLower(logging.Level)
	if name == "warning" {
		name = "warn"
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logging.Level, err)
	}

	newConfig, ok := logFormats[logging.Format]
	if !ok {
		return nil, fmt.Errorf("invalid log format %q, expected json or console", logging.Format)
	}
	zapConfig := newConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	// stdout is reserved for reports.
	sink := "stderr"
	if logging.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(logging.OutputFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory for %s: %w", logging.OutputFile, err)
		}
		sink = logging.OutputFile
	}
	zapConfig.OutputPaths = []string{sink}
	zapConfig.ErrorOutputPaths = []string{sink}

	return zapConfig.Build()
}

// mergeLogging overlays the non-empty fields of override onto base.
func mergeLogging(base, override config.LoggingConfig) config.LoggingConfig {
	if override.Level != "" {
		base.Level = override.Level
	}
	if override.Format != "" {
		base.Format = override.Format
	}
	if override.OutputFile != "" {
		base.OutputFile = override.OutputFile
	}
	return base
}
