package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fatpack/fatpack/pkg/registry"
)

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the available merge strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range registry.ListStrategies() {
				strategy, err := registry.GetStrategy(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", formatBold(name), strategy.Description())
			}
			return nil
		},
	}
}
