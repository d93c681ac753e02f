// Package testlogger builds a per-test Logger honoring NESTEDDKG_TEST_LOGS.
package testlogger

import (
	"os"
	"testing"

	"github.com/nesteddkg/tbls/internal/log"
)

// Level returns the level to default the logger to, based on the
// NESTEDDKG_TEST_LOGS environment variable.
func Level(t testing.TB) int {
	logLevel := log.InfoLevel
	debugEnv, isDebug := os.LookupEnv("NESTEDDKG_TEST_LOGS")
	if isDebug && debugEnv == "DEBUG" {
		t.Log("Enabling DebugLevel logs")
		logLevel = log.DebugLevel
	}
	return logLevel
}

// New returns a logger scoped to the running test.
func New(t testing.TB) log.Logger {
	return log.New(nil, Level(t), true).
		With("testName", t.Name())
}
