package domain

import (
	"fmt"
	"io"
	"time"
)

// DiagnosticKind classifies a recoverable problem met during a run.
type DiagnosticKind string

// Diagnostic kinds.
const (
	// DiagnosticProxy records a placeholder synthesized for an unresolved type.
	DiagnosticProxy DiagnosticKind = "unresolved_proxy"

	// DiagnosticUnmappedType records a primitive type missing from the table.
	DiagnosticUnmappedType DiagnosticKind = "unmapped_type"

	// DiagnosticMissingValue records a set feature without a value.
	DiagnosticMissingValue DiagnosticKind = "missing_value"

	// DiagnosticConformance records a model object outside the meta-model.
	DiagnosticConformance DiagnosticKind = "conformance"

	// DiagnosticMissingProperty records a feature whose property could not
	// be created.
	DiagnosticMissingProperty DiagnosticKind = "missing_property"
)

// Diagnostic is one recoverable problem.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
}

// String returns the string representation.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// TransformReport summarizes one transformation run.
type TransformReport struct {
	Packages    int           `json:"packages"`
	Classes     int           `json:"classes"`
	Enums       int           `json:"enums"`
	Properties  int           `json:"properties"`
	Individuals int           `json:"individuals"`
	Statements  int           `json:"statements"`
	Proxies     int           `json:"proxies"`
	Triples     int           `json:"triples"`
	Output      string        `json:"output,omitempty"`
	Format      OutputFormat  `json:"format,omitempty"`
	Duration    time.Duration `json:"duration"`
	Diagnostics []Diagnostic  `json:"diagnostics,omitempty"`
}

// AddDiagnostic appends a diagnostic.
func (r *TransformReport) AddDiagnostic(kind DiagnosticKind, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// CountDiagnostics returns the number of diagnostics of the given kind.
func (r *TransformReport) CountDiagnostics(kind DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// TransformRequest describes one end-to-end transformation.
type TransformRequest struct {
	// MetaModels are meta-model documents, lowered in order.
	MetaModels []string

	// Models are instance documents, lowered after all meta-models.
	Models []string

	// Output is the destination file. Ignored when Writer is set.
	Output string

	// Format overrides the configured or extension derived format.
	Format OutputFormat

	// Namespace overrides the configured namespace.
	Namespace string

	// ResolveMetaModel and CheckConformance override the configured
	// transform settings when non-nil.
	ResolveMetaModel *bool
	CheckConformance *bool

	// Writer receives the serialization instead of Output.
	Writer io.Writer
}

// Validate checks that the request has inputs and a destination.
func (r TransformRequest) Validate() error {
	if len(r.MetaModels) == 0 && len(r.Models) == 0 {
		return fmt.Errorf("%w: no meta-model or model given", ErrInvalidInput)
	}
	if r.Output == "" && r.Writer == nil {
		return fmt.Errorf("%w: no output path given", ErrInvalidInput)
	}
	for _, p := range append(append([]string{}, r.MetaModels...), r.Models...) {
		if p == "" {
			return fmt.Errorf("%w: empty input path", ErrInvalidInput)
		}
	}
	if r.Format != "" && !r.Format.IsValid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, r.Format)
	}
	return nil
}
