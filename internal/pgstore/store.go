// Package pgstore exports the knowledge graph into PostgreSQL tables that
// the visualization dashboard reads.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nakamasato/cardiag/internal/format"
	"github.com/nakamasato/cardiag/internal/graph"
	"go.uber.org/zap"
)

// DBPool is the subset of *pgxpool.Pool used by the store, so tests can
// swap in a fake.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DBPool = (*pgxpool.Pool)(nil)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kg_nodes (
	name        TEXT PRIMARY KEY,
	entity_type TEXT NOT NULL,
	description TEXT NOT NULL,
	detail      JSONB NOT NULL DEFAULT '{}'::jsonb,
	exported_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS kg_nodes_entity_type_idx ON kg_nodes (entity_type);
CREATE TABLE IF NOT EXISTS kg_edges (
	source      TEXT NOT NULL REFERENCES kg_nodes (name) ON DELETE CASCADE,
	target      TEXT NOT NULL REFERENCES kg_nodes (name) ON DELETE CASCADE,
	relation    TEXT NOT NULL,
	exported_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (source, target)
);`

const upsertNodeSQL = `
INSERT INTO kg_nodes (name, entity_type, description, detail, exported_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (name) DO UPDATE SET
	entity_type = EXCLUDED.entity_type,
	description = EXCLUDED.description,
	detail = EXCLUDED.detail,
	exported_at = EXCLUDED.exported_at;`

const upsertEdgeSQL = `
INSERT INTO kg_edges (source, target, relation, exported_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (source, target) DO UPDATE SET
	relation = EXCLUDED.relation,
	exported_at = EXCLUDED.exported_at;`

// ExportResult reports what an export wrote.
type ExportResult struct {
	Nodes      int       `json:"nodes"`
	Edges      int       `json:"edges"`
	ExportedAt time.Time `json:"exported_at"`
}

// Store writes the graph to PostgreSQL.
type Store struct {
	pool DBPool
	log  *zap.Logger
	now  func() time.Time
}

// Connect opens a pgx pool for url.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, errors.New("postgres url is empty")
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return pool, nil
}

// New creates a store and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		pool: pool,
		log:  logger.Named("pgstore"),
		now:  time.Now,
	}, nil
}

// Migrate creates the export tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	s.log.Info("Schema ready")
	return nil
}

// Reset removes every exported row.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE kg_edges, kg_nodes;`); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	s.log.Info("Tables truncated")
	return nil
}

// Export upserts every node and edge of g in one transaction. Nodes are
// written before edges so the foreign keys hold.
func (s *Store) Export(ctx context.Context, g *graph.Graph) (ExportResult, error) {
	exportedAt := s.now().UTC()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	res := ExportResult{ExportedAt: exportedAt}
	for _, n := range g.Nodes() {
		detail, err := json.Marshal(n.Detail)
		if err != nil {
			return ExportResult{}, fmt.Errorf("failed to marshal detail of '%s': %w", n.Name, err)
		}
		if _, err := tx.Exec(ctx, upsertNodeSQL, n.Name, string(n.Type), format.Describe(n), detail, exportedAt); err != nil {
			return ExportResult{}, fmt.Errorf("failed to upsert node '%s': %w", n.Name, err)
		}
		res.Nodes++
	}
	for _, e := range g.Edges() {
		if _, err := tx.Exec(ctx, upsertEdgeSQL, e.A, e.B, e.Relation, exportedAt); err != nil {
			return ExportResult{}, fmt.Errorf("failed to upsert edge '%s'-'%s': %w", e.A, e.B, err)
		}
		res.Edges++
	}

	if err := tx.Commit(ctx); err != nil {
		return ExportResult{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.log.Info("Graph exported", zap.Int("nodes", res.Nodes), zap.Int("edges", res.Edges))
	return res, nil
}

// Counts returns the number of exported nodes and edges.
func (s *Store) Counts(ctx context.Context) (nodes, edges int, err error) {
	err = s.pool.QueryRow(ctx, `SELECT (SELECT count(*) FROM kg_nodes), (SELECT count(*) FROM kg_edges);`).Scan(&nodes, &edges)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return nodes, edges, nil
}
