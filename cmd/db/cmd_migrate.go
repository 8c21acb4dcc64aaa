package db

import (
	"github.com/nakamasato/cardiag/internal/pgstore"
	"github.com/spf13/cobra"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the kg_nodes and kg_edges tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(s *pgstore.Store) error {
				if err := s.Migrate(cmd.Context()); err != nil {
					return err
				}
				cmd.Println("db migrate done")
				return nil
			})
		},
	}
}
