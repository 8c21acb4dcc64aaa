package ask

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nakamasato/cardiag/config"
	"github.com/nakamasato/cardiag/internal/chat"
	"github.com/nakamasato/cardiag/internal/graph"
	"github.com/nakamasato/cardiag/internal/llm"
	"github.com/nakamasato/cardiag/internal/observability"
	"github.com/nakamasato/cardiag/internal/resolver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	useLLM       bool
	explain      bool
	asJSON       bool
	topN         int
	openaiAPIKey string
)

// Command creates the ask command.
func Command() *cobra.Command {
	askCmd := &cobra.Command{
		Use:   "ask [text...]",
		Short: "Find the components, symptoms, problems and tasks related to a question.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}

	askCmd.Flags().BoolVar(&useLLM, "llm", false, "Compose the answer with OpenAI from the matches")
	askCmd.Flags().BoolVar(&explain, "explain", false, "Print tokens and per-node scores before the answer")
	askCmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw response as JSON")
	askCmd.Flags().IntVarP(&topN, "top-n", "n", -1, "Maximum number of matches, 0 for all (default search.top_n)")
	askCmd.Flags().StringVarP(&openaiAPIKey, "api-key", "k", "", "OpenAI API key (can also set via OPENAI_API_KEY environment variable)")

	return askCmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.GetConfig()
	logger := observability.GetLogger()
	out := cmd.OutOrStdout()
	text := strings.Join(args, " ")

	limit := cfg.Search.TopN
	if topN >= 0 {
		limit = topN
	}
	g := graph.Default()
	res := resolver.New(g, resolver.WithLimit(limit), resolver.WithLogger(logger))
	resp := res.Resolve(text)

	if explain {
		printExplain(out, text, g.Names())
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(resp)
	}

	if !useLLM {
		fmt.Fprintln(out, chat.Reply(resp))
		return nil
	}

	if openaiAPIKey != "" {
		cfg.OpenAI.APIKey = openaiAPIKey
	}
	if cfg.OpenAI.APIKey == "" {
		return errors.New("OPENAI_API_KEY environment variable is not set")
	}
	client := llm.NewOpenAIClient(cfg.OpenAI.APIKey, llm.WithChatModel(cfg.OpenAI.Model))
	answer, err := llm.NewAnswerer(client, logger).Answer(ctx, resp)
	if err != nil {
		logger.Error("Failed to answer", zap.String("query", text), zap.Error(err))
		return err
	}
	fmt.Fprintln(out, answer.Reply)
	if answer.Urgent {
		fmt.Fprintln(out, "⚠️ Не эксплуатируйте автомобиль до ремонта.")
	}
	return nil
}

func printExplain(out io.Writer, text string, names []string) {
	tokens := resolver.Tokenize(resolver.Normalize(text))
	fmt.Fprintf(out, "Токены: %s\n", strings.Join(tokens, ", "))
	for _, s := range resolver.Score(tokens, names) {
		fmt.Fprintf(out, "  %3d  %s\n", s.Score, s.Name)
	}
	fmt.Fprintln(out)
}
