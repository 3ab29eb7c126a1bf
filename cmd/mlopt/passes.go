package main

import (
	"fmt"

	"github.com/nickng/mlpass/passes"
	"github.com/spf13/cobra"
)

func newPassesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "passes",
		Short: "List the available passes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := passes.Default()
			for _, name := range r.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-32s %s\n", name, r.Describe(name))
			}
			return nil
		},
	}
}
