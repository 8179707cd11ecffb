// Package postgres provides Postgres-backed persistence for crawled
// sanctions entities.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dateyes-glitch/sanctions-watch/internal/model"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// EntityStoreConfig controls the Postgres connection pool.
type EntityStoreConfig struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// EntityStore upserts sanctions entities into Postgres.
type EntityStore struct {
	pool  execCloser
	table string
}

// NewEntityStore creates a Postgres-backed EntityStore using the provided config.
func NewEntityStore(ctx context.Context, cfg EntityStoreConfig) (*EntityStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "sanction_entities"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &EntityStore{pool: pool, table: table}, nil
}

// NewEntityStoreWithPool constructs a store from an existing pool
// (primarily for testing).
func NewEntityStoreWithPool(pool execCloser, table string) (*EntityStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "sanction_entities"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &EntityStore{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *EntityStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// UpsertEntity inserts one entity, replacing any previous row for the
// same source and entity id. The full document is kept as JSONB next to
// the queryable columns.
func (s *EntityStore) UpsertEntity(ctx context.Context, runID string, entity *model.SanctionEntity) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("entity store is not configured")
	}
	if entity == nil {
		return fmt.Errorf("entity is required")
	}
	if entity.ID == "" {
		return fmt.Errorf("entity id is required")
	}
	doc, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshal entity: %w", err)
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	source,
	run_id,
	name,
	entity_type,
	sanction_status,
	nationality,
	created_at,
	last_updated,
	document
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10
)
ON CONFLICT (source, id) DO UPDATE SET
	run_id = EXCLUDED.run_id,
	name = EXCLUDED.name,
	entity_type = EXCLUDED.entity_type,
	sanction_status = EXCLUDED.sanction_status,
	nationality = EXCLUDED.nationality,
	last_updated = EXCLUDED.last_updated,
	document = EXCLUDED.document`, s.table)

	args := []any{
		entity.ID,
		entity.Source,
		runID,
		entity.Name,
		string(entity.EntityType),
		string(entity.SanctionStatus),
		entity.Nationality,
		entity.CreatedAt,
		entity.LastUpdated,
		doc,
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert entity %s: %w", entity.ID, err)
	}
	return nil
}

// UpsertEntities stores every entity; the first failure aborts the batch.
func (s *EntityStore) UpsertEntities(ctx context.Context, runID string, entities []*model.SanctionEntity) error {
	for _, entity := range entities {
		if err := s.UpsertEntity(ctx, runID, entity); err != nil {
			return err
		}
	}
	return nil
}
