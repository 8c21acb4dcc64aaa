package check

import (
	"encoding/json"
	"fmt"

	"github.com/nakamasato/cardiag/config"
	"github.com/nakamasato/cardiag/internal/chat"
	"github.com/nakamasato/cardiag/internal/observability"
	"github.com/nakamasato/cardiag/internal/rules"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	carModel  string
	mileage   int
	symptoms  []string
	diagnosed bool
	rulesPath string
	asJSON    bool
)

// Command creates the check command.
func Command() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check a car against the service rules",
		Example: `  cardiag check --mileage 45000 --diagnosed --symptom Скрип
  cardiag check --mileage 12000 --rules rules.yaml --json`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}

	checkCmd.Flags().StringVar(&carModel, "model", "", "Car model")
	checkCmd.Flags().IntVar(&mileage, "mileage", 0, "Mileage in km")
	checkCmd.Flags().StringArrayVar(&symptoms, "symptom", nil, "Reported symptom, may be repeated")
	checkCmd.Flags().BoolVar(&diagnosed, "diagnosed", false, "The car has passed diagnostics")
	checkCmd.Flags().StringVar(&rulesPath, "rules", "", "Rules YAML file (default rules.path or the built-in rules)")
	checkCmd.Flags().BoolVar(&asJSON, "json", false, "Print the verdict as JSON")

	return checkCmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	if mileage < 0 {
		return fmt.Errorf("mileage must not be negative, got %d", mileage)
	}

	path := rulesPath
	if path == "" {
		path = config.GetConfig().Rules.Path
	}
	rls, err := rules.LoadFile(path)
	if err != nil {
		observability.GetLogger().Error("Failed to load rules", zap.String("path", path), zap.Error(err))
		return err
	}

	verdict := rls.Check(rules.Car{
		Model:       carModel,
		Mileage:     mileage,
		Symptoms:    symptoms,
		IsDiagnosed: diagnosed,
	})

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(verdict)
	}
	fmt.Fprintln(out, chat.Verdict(verdict))
	return nil
}
