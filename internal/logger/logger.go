package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/DevVaradPatil/resume-analyzer/internal/config"
)

// New builds the process-wide zap logger from application config and
// replaces the globals. Output is JSON with ISO8601 timestamps in
// deployed environments, console-encoded in development; every entry
// carries the service name and version.
func New(appCfg config.Config) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if appCfg.Environment == "development" {
		cfg = zap.NewDevelopmentConfig()
	}

	level := appCfg.LogLevel
	if level == "" {
		level = "info"
	}
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log, err := cfg.Build(zap.Fields(
		zap.String("service", appCfg.AppName),
		zap.String("version", appCfg.AppVersion),
	))
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(log)
	return log, nil
}
