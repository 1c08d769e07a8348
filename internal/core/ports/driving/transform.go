package driving

import (
	"context"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// TransformService runs end-to-end model-to-ontology transformations.
type TransformService interface {
	// Transform loads the requested documents, lowers them into a fresh
	// ontology and writes the result. Invalid requests fail with
	// domain.ErrInvalidInput before any store is opened.
	Transform(ctx context.Context, req domain.TransformRequest) (*domain.TransformReport, error)

	// SupportedInputs returns the accepted input file extensions.
	SupportedInputs() []string
}
