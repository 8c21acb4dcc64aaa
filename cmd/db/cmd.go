package db

import (
	"context"

	"github.com/nakamasato/cardiag/config"
	"github.com/nakamasato/cardiag/internal/observability"
	"github.com/nakamasato/cardiag/internal/pgstore"
	"github.com/spf13/cobra"
)

var dbConnString string

// Command creates the db command.
func Command() *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the PostgreSQL export of the knowledge graph",
	}
	dbCmd.PersistentFlags().StringVar(&dbConnString, "db-conn", "", "PostgreSQL connection string (default postgres.url or DATABASE_URL)")
	dbCmd.AddCommand(
		migrateCommand(),
		exportCommand(),
		resetCommand(),
	)
	return dbCmd
}

// withStore opens a pool, runs fn against a store and closes the pool.
func withStore(ctx context.Context, fn func(*pgstore.Store) error) error {
	url := dbConnString
	if url == "" {
		url = config.GetConfig().Postgres.URL
	}
	pool, err := pgstore.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer pool.Close()

	store, err := pgstore.New(ctx, pool, observability.GetLogger())
	if err != nil {
		return err
	}
	return fn(store)
}
