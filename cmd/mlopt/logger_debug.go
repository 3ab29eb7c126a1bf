//go:build debug
// +build debug

package main

import "go.uber.org/zap"

const plainLog = false

// newLogger returns a new development logger writing to paths.
func newLogger(paths ...string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = paths
	return cfg.Build()
}
