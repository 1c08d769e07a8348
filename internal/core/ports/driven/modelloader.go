package driven

import (
	"context"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// ModelLoader reads meta-model and instance documents.
// Implementations pick the document syntax from the file extension.
type ModelLoader interface {
	// LoadMetaModel reads a meta-model document and returns its root package.
	// Types declared in packages already held by registry are resolved;
	// anything else becomes a proxy. The caller registers the result.
	// Returns domain.ErrUnsupportedType for unknown document types.
	LoadMetaModel(ctx context.Context, path string, registry *domain.Registry) (*domain.Package, error)

	// LoadModel reads an instance document whose classes are resolved
	// through registry.
	LoadModel(ctx context.Context, path string, registry *domain.Registry) (*domain.Model, error)

	// SupportedExtensions returns the file extensions the loader accepts.
	SupportedExtensions() []string
}
