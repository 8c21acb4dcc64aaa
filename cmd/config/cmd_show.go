package config

import (
	"github.com/nakamasato/cardiag/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

func showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(config.GetConfig().Redacted())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
