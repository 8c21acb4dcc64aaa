package db

import (
	"github.com/nakamasato/cardiag/internal/pgstore"
	"github.com/spf13/cobra"
)

func resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every exported node and edge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(s *pgstore.Store) error {
				if err := s.Migrate(cmd.Context()); err != nil {
					return err
				}
				if err := s.Reset(cmd.Context()); err != nil {
					return err
				}
				cmd.Println("db reset done")
				return nil
			})
		},
	}
}
