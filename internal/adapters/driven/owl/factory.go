package owl

import (
	"context"
	"fmt"

	"github.com/kit-sdq/Ecore2OWL/internal/adapters/driven/storage/memory"
	"github.com/kit-sdq/Ecore2OWL/internal/adapters/driven/storage/sqlite"
	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/core/ports/driven"
	"github.com/kit-sdq/Ecore2OWL/internal/logger"
)

// Ensure Factory implements the interface.
var _ driven.OntologyStoreFactory = (*Factory)(nil)

// Factory opens ontology stores on the configured triple store backend.
type Factory struct{}

// NewFactory creates a new ontology store factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create opens a triple store for settings.Store and wraps it in a Store.
// Persistent backends are cleared first when settings.Store.Reset is set.
func (f *Factory) Create(ctx context.Context, settings domain.AppSettings) (driven.OntologyStore, error) {
	triples, err := openTripleStore(settings.Store)
	if err != nil {
		return nil, err
	}
	if settings.Store.Reset {
		if err := triples.Clear(ctx); err != nil {
			_ = triples.Close()
			return nil, fmt.Errorf("resetting triple store: %w", err)
		}
	}

	store, err := NewStore(ctx, triples, settings.Ontology)
	if err != nil {
		_ = triples.Close()
		return nil, err
	}
	return store, nil
}

func openTripleStore(settings domain.StoreSettings) (driven.TripleStore, error) {
	switch settings.Backend {
	case domain.StoreMemory, "":
		return memory.NewTripleStore(), nil
	case domain.StoreSQLite:
		store, err := sqlite.NewStore(settings.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite triple store: %w", err)
		}
		logger.Debug("Using SQLite triple store at %s", store.Path())
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, settings.Backend)
	}
}
