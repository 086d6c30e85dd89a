package app

import (
	"os"

	"agrimarket-delivery/internal/config"
	"agrimarket-delivery/internal/logx"
)

// NewLogger builds the JSON logger at the configured level; unknown levels fall back to info.
func NewLogger(cfg *config.Config) logx.Logger {
	level, err := logx.ParseLevel(cfg.LogLevel)
	logger := logx.NewJSON(os.Stdout, level)
	if err != nil {
		logger.Warn("falling back to info log level", logx.Err(err))
	}
	return logger
}
