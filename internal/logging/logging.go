package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrBadLevel is wrapped by New when level does not name a zap level.
var ErrBadLevel = errors.New("bad log level")

// New builds a console-encoded logger at level writing to path.
// "stderr" and "stdout" are passed to zap as-is; anything else is a file,
// created along with its directory.
func New(level, path string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadLevel, err)
	}
	if path == "" {
		path = "stderr"
	}
	if path != "stderr" && path != "stdout" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("log dir: %w", err)
		}
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:            lvl,
		Encoding:         "console",
		EncoderConfig:    enc,
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{path},
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("log file: %w", err)
	}
	return logger, nil
}
