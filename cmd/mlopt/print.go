package main

import (
	"github.com/nickng/mlpass/config"
	"github.com/spf13/cobra"
)

func newPrintCommand(rootOpts *rootOptions) *cobra.Command {
	var emit string
	cmd := &cobra.Command{
		Use:   "print <input.{yaml,yml,go}>",
		Short: "Print a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, rootOpts, "")
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("emit") {
				cfg.Emit = emit
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, sync, err := setupLogger(cfg)
			if err != nil {
				return err
			}
			defer sync()
			m, err := loadModule(args[0], logger)
			if err != nil {
				return err
			}
			return writeModule(cmd.OutOrStdout(), m, cfg.Emit)
		},
	}
	cmd.Flags().StringVar(&emit, "emit", config.EmitText, "Output format (text|yaml)")
	return cmd
}
