// Command mlopt runs optimisation passes over structured IR.
//
// Input is a YAML IR file (.yaml, .yml) or a Go source file (.go), which is
// built into SSA and lifted to the structured IR first.
//
// Usage:
//
//	mlopt opt [-p pass]... [--pipeline file.cue] [--emit text|yaml] [--no-verify] [-o out] input
//	mlopt print input
//	mlopt ssa [--func name] file.go [files.go...]
//	mlopt passes
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/nickng/mlpass/config"
	"github.com/nickng/mlpass/pass"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	logPath string
	noColor bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("mlopt: %v", err))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "mlopt",
		Short:         "mlopt runs optimisation passes over structured IR",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logPath, "log", "", "Specify log file (use '-' for stderr)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")

	cmd.AddCommand(newOptCommand(opts))
	cmd.AddCommand(newPrintCommand(opts))
	cmd.AddCommand(newSSACommand(opts))
	cmd.AddCommand(newPassesCommand())
	return cmd
}

// loadConfig merges the configuration sources. pipelineFile is optional.
func loadConfig(cmd *cobra.Command, opts *rootOptions, pipelineFile string) (*config.Config, error) {
	cfg := config.Default()
	if pipelineFile != "" {
		if err := cfg.LoadFile(pipelineFile); err != nil {
			return nil, err
		}
	}
	cfg.FromEnv()
	if cmd.Flags().Changed("log") {
		cfg.LogPath = opts.logPath
	}
	if cmd.Flags().Changed("no-color") {
		cfg.NoColor = opts.noColor
	}
	return cfg, nil
}

// setupLogger returns the logger for cfg and a function to flush it.
func setupLogger(cfg *config.Config) (*pass.Logger, func(), error) {
	if cfg.NoColor {
		color.NoColor = true
	}
	switch cfg.LogPath {
	case "":
		return pass.NopLogger(), func() {}, nil
	case "-":
		return buildLogger("stderr")
	}
	return buildLogger(cfg.LogPath)
}

func buildLogger(path string) (*pass.Logger, func(), error) {
	l, err := newLogger(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot create logger")
	}
	logger := pass.NewLogger(l)
	if plainLog {
		logger = pass.NewPlainLogger(l)
	}
	// Sync error ignored. See https://github.com/uber-go/zap/issues/328
	return logger, func() { l.Sync() }, nil
}
