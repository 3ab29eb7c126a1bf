package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/nickng/mlpass/config"
	"github.com/nickng/mlpass/ir"
	"github.com/nickng/mlpass/irfile"
	"github.com/nickng/mlpass/lift"
	"github.com/nickng/mlpass/pass"
	"github.com/nickng/mlpass/ssa/build"
	"github.com/pkg/errors"
)

// loadModule reads a module from a YAML IR file or lifts it from Go source.
func loadModule(path string, logger *pass.Logger) (*ir.Module, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return irfile.LoadFile(path)
	case ".go":
		info, err := build.FromFiles([]string{path}).Build()
		if err != nil {
			return nil, errors.Wrap(err, "cannot build SSA")
		}
		l := lift.New(info)
		l.SetLogger(logger)
		return l.Lift()
	}
	return nil, errors.Errorf("%s: unsupported input (want .yaml, .yml or .go)", path)
}

// writeModule writes m in the given format.
func writeModule(w io.Writer, m *ir.Module, emit string) error {
	if emit == config.EmitYAML {
		return irfile.Encode(w, m)
	}
	_, err := m.WriteTo(w)
	return err
}

// output returns the writer for path, or def if path is empty.
func output(path string, def io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return def, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot create output file")
	}
	return f, f.Close, nil
}
