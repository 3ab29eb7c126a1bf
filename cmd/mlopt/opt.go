package main

import (
	"github.com/nickng/mlpass/config"
	"github.com/nickng/mlpass/ir"
	"github.com/nickng/mlpass/passes"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type optOptions struct {
	*rootOptions
	passes   []string
	pipeline string
	emit     string
	noVerify bool
	output   string
}

func newOptCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &optOptions{rootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "opt <input.{yaml,yml,go}>",
		Short: "Run passes over a module",
		Long: `Run a pipeline of passes over a module and write the result.

Passes are given with -p (repeatable, or comma separated), in a CUE pipeline
file or in MLOPT_PASSES. The module is verified before and after every pass
unless verification is disabled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpt(cmd, opts, args[0])
		},
	}
	cmd.Flags().StringSliceVarP(&opts.passes, "pass", "p", nil, "Pass to run (see 'mlopt passes')")
	cmd.Flags().StringVar(&opts.pipeline, "pipeline", "", "Specify CUE pipeline file")
	cmd.Flags().StringVar(&opts.emit, "emit", config.EmitText, "Output format (text|yaml)")
	cmd.Flags().BoolVar(&opts.noVerify, "no-verify", false, "Do not verify the module")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Specify output file (default: stdout)")
	return cmd
}

func runOpt(cmd *cobra.Command, opts *optOptions, input string) error {
	cfg, err := loadConfig(cmd, opts.rootOptions, opts.pipeline)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("pass") {
		cfg.Passes = opts.passes
	}
	if cmd.Flags().Changed("emit") {
		cfg.Emit = opts.emit
	}
	if cmd.Flags().Changed("no-verify") {
		cfg.Verify = !opts.noVerify
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, sync, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer sync()

	m, err := loadModule(input, logger)
	if err != nil {
		return err
	}
	if cfg.Verify {
		if err := ir.VerifyModule(m); err != nil {
			return errors.Wrap(err, "input")
		}
	}
	p, err := passes.Default().Pipeline(cfg.Passes...)
	if err != nil {
		return err
	}
	p.VerifyEach = cfg.Verify
	p.SetLogger(logger)
	changed, err := p.Run(m)
	if err != nil {
		return err
	}
	logger.Infow("pipeline finished", "input", input, "passes", len(cfg.Passes), "changed", changed)

	w, closeOut, err := output(opts.output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := writeModule(w, m, cfg.Emit); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}
