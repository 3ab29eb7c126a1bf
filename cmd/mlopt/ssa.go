package main

import (
	"log"
	"os"

	"github.com/nickng/mlpass/ssa/build"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newSSACommand(rootOpts *rootOptions) *cobra.Command {
	var viewFunc string
	cmd := &cobra.Command{
		Use:   "ssa <file.go> [files.go...]",
		Short: "Print the SSA IR of Go source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, rootOpts, "")
			if err != nil {
				return err
			}
			conf := build.FromFiles(args)
			switch cfg.LogPath {
			case "":
			case "-":
				conf = conf.WithBuildLog(cmd.ErrOrStderr(), log.LstdFlags)
			default:
				f, err := os.Create(cfg.LogPath)
				if err != nil {
					return errors.Wrapf(err, "cannot create log %s", cfg.LogPath)
				}
				defer f.Close()
				conf = conf.WithBuildLog(f, log.LstdFlags)
			}
			info, err := conf.Build()
			if err != nil {
				return errors.Wrap(err, "cannot build SSA from files")
			}
			if viewFunc == "" {
				_, err = info.WriteTo(cmd.OutOrStdout())
				return err
			}
			fn := info.FindFunc(viewFunc)
			if fn == nil {
				return errors.Errorf("cannot find function %s", viewFunc)
			}
			_, err = fn.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringVar(&viewFunc, "func", "", "Specify the function to view (format: name, pkg.name or (T).name)")
	return cmd
}
