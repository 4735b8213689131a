package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the inventoryctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "inventoryctl",
		Short:         "Operational tooling for the inventory application",
		Long:          "inventoryctl runs maintenance tasks against the configured inventory store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSeedCmd())
	return root
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}
