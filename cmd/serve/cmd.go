package serve

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/nakamasato/cardiag/config"
	"github.com/nakamasato/cardiag/internal/graph"
	"github.com/nakamasato/cardiag/internal/llm"
	"github.com/nakamasato/cardiag/internal/observability"
	"github.com/nakamasato/cardiag/internal/resolver"
	"github.com/nakamasato/cardiag/internal/rules"
	"github.com/nakamasato/cardiag/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	addr   string
	useLLM bool
)

// Command creates the serve command.
func Command() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default server.addr)")
	serveCmd.Flags().BoolVar(&useLLM, "llm", false, "Answer /api/v1/chat with OpenAI")
	return serveCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	logger := observability.GetLogger()

	if addr != "" {
		cfg.Server.Addr = addr
	}

	rls, err := rules.LoadFile(cfg.Rules.Path)
	if err != nil {
		logger.Error("Failed to load rules", zap.String("path", cfg.Rules.Path), zap.Error(err))
		return err
	}

	opts := []server.Option{
		server.WithConfig(cfg.Server),
		server.WithLogger(logger),
	}
	if useLLM {
		if cfg.OpenAI.APIKey == "" {
			return errors.New("OPENAI_API_KEY environment variable is not set")
		}
		client := llm.NewOpenAIClient(cfg.OpenAI.APIKey, llm.WithChatModel(cfg.OpenAI.Model))
		opts = append(opts, server.WithAnswerer(llm.NewAnswerer(client, logger)))
	}

	res := resolver.New(graph.Default(), resolver.WithLimit(cfg.Search.TopN), resolver.WithLogger(logger))
	srv := server.New(res, rls, opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("Server failed", zap.Error(err))
		return err
	}
	return nil
}
