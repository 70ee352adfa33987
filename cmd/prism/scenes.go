package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taigrr/prism/pkg/scene"
)

func newScenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the built-in scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range scene.Names() {
				if _, err := fmt.Fprintf(out, "%-10s %s\n", name, scene.Describe(name)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
