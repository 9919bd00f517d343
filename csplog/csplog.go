// Package csplog wires up github.com/op/go-logging the way the
// teacher's logging.go does, with a CSP_LOG_LEVEL environment
// override mirroring the teacher's KR_LOG_LEVEL switch.
package csplog

import (
	"os"

	"github.com/op/go-logging"
)

var log = SetupLogging("csp", logging.NOTICE)

func init() {
	if lvl := os.Getenv("CSP_LOG_LEVEL"); lvl != "" {
		if parsed, err := logging.LogLevel(lvl); err == nil {
			logging.SetLevel(parsed, "csp")
		}
	}
}

// SetupLogging installs a stderr backend with a module-tagged
// formatter and returns a logger scoped to module at level.
func SetupLogging(module string, level logging.Level) *logging.Logger {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{level:.4s} %{module}: %{message}`,
	)
	formatted := logging.NewBackendFormatter(backend, formatter)
	logging.SetBackend(formatted)
	logging.SetLevel(level, module)
	return logging.MustGetLogger(module)
}

// Logger returns the shared logger every CSP package logs through.
func Logger() *logging.Logger { return log }
