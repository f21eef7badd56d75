package cli

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"log"
)

// newLogger returns a stderr logger; verbosity 1 shows session events and 2
// every protocol line.
func newLogger(verbosity int) logr.Logger {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	config.DisableStacktrace = true

	zapLogger, err := config.Build()

	if err != nil {
		log.Fatalln("Error creating logger:", err)
	}

	return zapr.NewLogger(zapLogger)
}
