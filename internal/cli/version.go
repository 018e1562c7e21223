package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiaot623/debate/internal/domain"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server name and version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", domain.ServerName, domain.ServerVersion)
			return err
		},
	}
}
