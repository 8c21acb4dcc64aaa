package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nakamasato/cardiag/internal/chat"
	"github.com/nakamasato/cardiag/internal/format"
	"github.com/nakamasato/cardiag/internal/graph"
	"github.com/nakamasato/cardiag/internal/resolver"
	"github.com/spf13/cobra"
)

var outputFile string

// Command creates the graph command.
func Command() *cobra.Command {
	graphCmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect the knowledge graph",
	}
	graphCmd.AddCommand(
		nodesCommand(),
		statsCommand(),
		relatedCommand(),
		dumpCommand(),
	)
	return graphCmd
}

func nodesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "nodes",
		Short: "List node names by entity type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			byType := resolver.New(graph.Default()).NodesByType()
			out := cmd.OutOrStdout()
			for _, t := range graph.EntityTypes {
				fmt.Fprintf(out, "%s (%d):\n", format.TypeLabel(t), len(byType[t]))
				for _, name := range byType[t] {
					fmt.Fprintf(out, "  • %s\n", name)
				}
			}
			return nil
		},
	}
}

func statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show node and edge counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := resolver.New(graph.Default()).Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Узлов: %d\nСвязей: %d\n", stats.NodeCount, stats.EdgeCount)
			for _, t := range graph.EntityTypes {
				fmt.Fprintf(out, "  %s: %d\n", format.TypeLabel(t), stats.CountsByType[t])
			}
			return nil
		},
	}
}

func relatedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "related [name...]",
		Short: "Show a node and its related entities",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := resolver.New(graph.Default()).Related(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), chat.Match(m))
			return nil
		},
	}
}

// Dump is the JSON document written by graph dump.
type Dump struct {
	Stats graph.Stats  `json:"stats"`
	Nodes []graph.Node `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
}

func dumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Export the knowledge graph to a JSON file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFile == "-" {
				return writeDump(cmd.OutOrStdout(), graph.Default())
			}
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outputFile, err)
			}
			defer f.Close()
			if err := writeDump(f, graph.Default()); err != nil {
				return err
			}
			cmd.Printf("Knowledge graph has been written to %s\n", outputFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "graph.json", "Output JSON file, - for stdout")
	return cmd
}

func writeDump(w io.Writer, g *graph.Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Dump{Stats: g.Stats(), Nodes: g.Nodes(), Edges: g.Edges()}); err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}
	return nil
}
