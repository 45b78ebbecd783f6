package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/auditops/cadence/pkg/node"
)

//nolint:gochecknoglobals // Cobra commands are typically global
var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List the registered node variants",
	Run: func(_ *cobra.Command, _ []string) {
		registry := node.NewRegistry()
		for _, cfg := range registry.All() {
			fmt.Printf("%-4s %s\n", cfg.Name, cfg.FullName)
			if cfg.Description != "" {
				fmt.Printf("     %s\n", cfg.Description)
			}
			fmt.Printf("     core sources: %s\n", strings.Join(cfg.CoreSources, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(nodesCmd)
}
