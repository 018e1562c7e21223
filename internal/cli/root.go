// Package cli implements the debate command line.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the debate command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "debate",
		Short: "Multi-agent debate server",
		Long: `debate coordinates a turn-based argument between registered agents.
Agents register, argue, rebut and judge over numbered rounds; every
submission returns a status snapshot and judge submissions set the verdict.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "config file (environment variables take precedence)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
