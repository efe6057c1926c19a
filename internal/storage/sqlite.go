package storage

import (
	"context"
	"database/sql"
	"fmt"

	"termxref/internal/merge"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists the merged concept table as a dictionary database for
// downstream entity-linking tools that prefer indexed lookups over the flat
// text outputs.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a dictionary database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS concepts (
			cui TEXT,
			name TEXT,
			type_ids TEXT,
			ontologies TEXT,
			name_status TEXT,
			PRIMARY KEY (cui, name)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_concepts_cui ON concepts(cui);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveConcepts replaces the stored dictionary with the given merged table.
func (s *SQLiteStore) SaveConcepts(ctx context.Context, rows []merge.Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM concepts`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO concepts (cui, name, type_ids, ontologies, name_status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cui, name) DO UPDATE SET
			type_ids=excluded.type_ids,
			ontologies=excluded.ontologies,
			name_status=excluded.name_status
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(row.CUI, row.Name, row.TypeIDs, row.Ontologies, string(row.Status)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetNames returns all surface forms stored for a concept, preferred first.
func (s *SQLiteStore) GetNames(ctx context.Context, cui string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM concepts WHERE cui = ? ORDER BY name_status DESC, name`, cui)
	if err != nil {
		return nil, fmt.Errorf("failed to query names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CountConcepts returns the number of distinct concepts stored.
func (s *SQLiteStore) CountConcepts(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT cui) FROM concepts`).Scan(&count)
	return count, err
}
