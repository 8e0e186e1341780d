package main

import (
	"os"

	"github.com/tendermint/tendermint/libs/log"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func debugMode() bool {
	return env("COSIGN_DEBUG", "") != ""
}

// newLogger returns a logger writing to stderr. Only errors are logged
// unless COSIGN_LOG_LEVEL says otherwise.
func newLogger() log.Logger {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr))
	level, err := log.AllowLevel(env("COSIGN_LOG_LEVEL", "error"))
	if err != nil {
		level = log.AllowError()
	}
	return log.NewFilter(logger, level)
}
