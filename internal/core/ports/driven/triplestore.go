package driven

import (
	"context"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// TripleStore holds the statements of one ontology graph.
// Implementations must be safe for concurrent use and return triples in
// insertion order.
type TripleStore interface {
	// Add stores t and reports whether it was not present before.
	Add(ctx context.Context, t domain.Triple) (bool, error)

	// Remove deletes t. Removing a missing triple is not an error.
	Remove(ctx context.Context, t domain.Triple) error

	// Has reports whether t is stored.
	Has(ctx context.Context, t domain.Triple) (bool, error)

	// Match returns the triples matching p.
	Match(ctx context.Context, p domain.Pattern) ([]domain.Triple, error)

	// All returns every stored triple.
	All(ctx context.Context) ([]domain.Triple, error)

	// Len returns the number of stored triples.
	Len(ctx context.Context) (int, error)

	// Clear deletes all triples.
	Clear(ctx context.Context) error

	// Close releases resources. The store is unusable afterwards.
	Close() error
}
