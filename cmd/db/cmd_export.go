package db

import (
	"github.com/nakamasato/cardiag/internal/graph"
	"github.com/nakamasato/cardiag/internal/pgstore"
	"github.com/spf13/cobra"
)

func exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the knowledge graph to PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withStore(ctx, func(s *pgstore.Store) error {
				if err := s.Migrate(ctx); err != nil {
					return err
				}
				res, err := s.Export(ctx, graph.Default())
				if err != nil {
					return err
				}
				nodes, edges, err := s.Counts(ctx)
				if err != nil {
					return err
				}
				cmd.Printf("Exported %d nodes and %d edges at %s (tables now hold %d nodes, %d edges)\n",
					res.Nodes, res.Edges, res.ExportedAt.Format("2006-01-02 15:04:05Z07:00"), nodes, edges)
				return nil
			})
		},
	}
}
