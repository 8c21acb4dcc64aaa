package config

import (
	"github.com/spf13/cobra"
)

var (
	outputFile = ".cardiag.yaml"
)

// Command creates the config command.
func Command() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	configCmd.AddCommand(
		initCommand(),
		showCommand(),
	)
	return configCmd
}
