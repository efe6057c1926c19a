package storage

import (
	"context"

	"termxref/internal/merge"
)

// DictionaryStore defines the persistence operations for the merged concept
// dictionary.
type DictionaryStore interface {
	// SaveConcepts replaces the stored dictionary with the given table.
	SaveConcepts(ctx context.Context, rows []merge.Row) error

	// GetNames retrieves all surface forms stored for a concept.
	GetNames(ctx context.Context, cui string) ([]string, error)

	// CountConcepts returns the number of distinct concepts stored.
	CountConcepts(ctx context.Context) (int, error)

	Close() error
}
