package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/luutranit2/azure-devops-mcp/pkg/azdo"
)

// newLogger builds the process logger. The MCP transport owns stdout, so
// logs go to stderr and, when the log directory is writable, to the
// configured log file as well.
func newLogger(cfg azdo.Config) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown log level %q", azdo.ErrInvalidConfiguration, cfg.LogLevel)
	}

	outputs := []string{"stderr"}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to set up file logging: %v\n", err)
		} else {
			outputs = append(outputs, cfg.LogFile)
		}
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = outputs
	zcfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Sugar(), nil
}
