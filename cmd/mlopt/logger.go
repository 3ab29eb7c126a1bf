//go:build !debug
// +build !debug

package main

import "go.uber.org/zap"

// plainLog keeps colour codes out of the JSON log entries.
const plainLog = true

// newLogger returns a new production logger writing to paths.
func newLogger(paths ...string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = paths
	return cfg.Build()
}
