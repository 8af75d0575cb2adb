package config

import (
	"sync"

	"github.com/MonkyMars/gecho"
)

var (
	logger     *gecho.Logger
	loggerOnce sync.Once
)

// GetLogger returns the process logger, leveled by environment
func GetLogger() *gecho.Logger {
	loggerOnce.Do(func() {
		logger = gecho.NewLogger(gecho.NewConfig(
			gecho.WithShowCaller(!IsProduction()),
			gecho.WithLogLevel(gecho.ParseLogLevel(GetLogLevel())),
		))
	})
	return logger
}
