package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nakamasato/cardiag/cmd/ask"
	"github.com/nakamasato/cardiag/cmd/check"
	configcmd "github.com/nakamasato/cardiag/cmd/config"
	"github.com/nakamasato/cardiag/cmd/db"
	graphcmd "github.com/nakamasato/cardiag/cmd/graph"
	"github.com/nakamasato/cardiag/cmd/serve"
	"github.com/nakamasato/cardiag/config"
	"github.com/nakamasato/cardiag/internal/observability"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cardiag",
	Short: "Cardiag answers car diagnostics questions from a knowledge graph",
	Long: `Cardiag matches free-text questions against a knowledge graph of car
components, symptoms, problems and maintenance tasks, and shows each match
with its related entities.`,
	SilenceUsage:      true,
	PersistentPreRunE: initialize,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		observability.Sync()
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".cardiag.yaml", "config file; a missing default file is ignored")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides logger.level")

	RootCmd.AddCommand(
		ask.Command(),
		graphcmd.Command(),
		check.Command(),
		serve.Command(),
		db.Command(),
		configcmd.Command(),
	)
}

func initialize(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd.Flags().Changed("config")); err != nil {
		return err
	}
	loggerConfig := config.GetLoggerConfig()
	if logLevel != "" {
		loggerConfig.Level = logLevel
	}
	observability.InitializeLogger(loggerConfig)
	return nil
}

func loadConfig(explicit bool) error {
	f, err := os.Open(cfgFile)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return config.InitConfig(nil)
	}
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()
	return config.InitConfig(f)
}
