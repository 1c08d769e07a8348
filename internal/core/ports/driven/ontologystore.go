package driven

import (
	"context"
	"io"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// OntologyStore is the sink of all lowering output.
// Every create operation is get-or-create: repeating it with the same
// arguments returns a reference to the same artifact and adds nothing.
type OntologyStore interface {
	// Namespace returns the namespace local names are resolved against.
	Namespace() string

	// CreateOrGetClass returns the class namespace+name, creating it if needed.
	CreateOrGetClass(ctx context.Context, name, namespace string) (domain.ClassRef, error)

	// LookupClass returns the class namespace+name if it exists.
	LookupClass(ctx context.Context, name, namespace string) (domain.ClassRef, bool, error)

	// AddSuperClass makes super (a class or restriction) a superclass of class.
	AddSuperClass(ctx context.Context, class domain.ClassRef, super domain.Resource) error

	// RemoveSuperClass removes a direct superclass link.
	RemoveSuperClass(ctx context.Context, class, super domain.ClassRef) error

	// IsSubClassOf reports whether super is a direct superclass of class.
	IsSubClassOf(ctx context.Context, class, super domain.ClassRef) (bool, error)

	// CreateOrGetDatatypeProperty creates a datatype property with the given
	// domain. An unmapped range leaves the property untyped.
	CreateOrGetDatatypeProperty(ctx context.Context, name, namespace string, domainClass domain.ClassRef, rng domain.Datatype) (domain.PropertyRef, error)

	// CreateOrGetObjectProperty creates an object property from domainClass
	// to rangeClass, marked functional when requested.
	CreateOrGetObjectProperty(ctx context.Context, name, namespace string, domainClass, rangeClass domain.ClassRef, functional bool) (domain.PropertyRef, error)

	// LookupProperty returns an existing property of the given kind.
	LookupProperty(ctx context.Context, name, namespace string, kind domain.PropertyKind) (domain.PropertyRef, bool, error)

	// MarkFunctional declares the property functional.
	MarkFunctional(ctx context.Context, property domain.PropertyRef) error

	// AddMinCardinality creates a minCardinality restriction on property.
	AddMinCardinality(ctx context.Context, property domain.PropertyRef, n int) (domain.RestrictionRef, error)

	// AddMaxCardinality creates a maxCardinality restriction on property.
	AddMaxCardinality(ctx context.Context, property domain.PropertyRef, n int) (domain.RestrictionRef, error)

	// AddValueRestriction creates an allValuesFrom restriction of property to class.
	AddValueRestriction(ctx context.Context, property domain.PropertyRef, class domain.ClassRef) (domain.RestrictionRef, error)

	// CreateOrGetEnumeratedClass creates a class defined by its members.
	CreateOrGetEnumeratedClass(ctx context.Context, name, namespace string) (domain.ClassRef, error)

	// AddMember appends an individual to an enumerated class.
	AddMember(ctx context.Context, enumClass domain.ClassRef, individual domain.IndividualRef) error

	// CreateOrGetIndividual creates a named individual of class. An existing
	// individual gains class as an additional type.
	CreateOrGetIndividual(ctx context.Context, class domain.ClassRef, shortID, namespace string) (domain.IndividualRef, error)

	// LookupIndividual returns the individual namespace+shortID if it exists.
	LookupIndividual(ctx context.Context, shortID, namespace string) (domain.IndividualRef, bool, error)

	// AttachTypedValue adds a literal value of property to individual.
	AttachTypedValue(ctx context.Context, individual domain.IndividualRef, property domain.PropertyRef, value domain.Term) error

	// AddLabel attaches a human-readable label.
	AddLabel(ctx context.Context, resource domain.Resource, text string) error

	// AddComment attaches a comment; tag is its language tag and may be empty.
	AddComment(ctx context.Context, resource domain.Resource, text, tag string) error

	// AddStatement links two individuals through an object property.
	AddStatement(ctx context.Context, subject domain.IndividualRef, property domain.PropertyRef, object domain.IndividualRef) error

	// HasStatement reports whether the statement exists.
	HasStatement(ctx context.Context, subject domain.IndividualRef, property domain.PropertyRef, object domain.IndividualRef) (bool, error)

	// Len returns the number of stored triples.
	Len(ctx context.Context) (int, error)

	// Save writes the ontology to path in the format its extension implies.
	Save(ctx context.Context, path string) error

	// Export writes the ontology to w in the given format.
	Export(ctx context.Context, w io.Writer, format domain.OutputFormat) error

	// Close releases the underlying triple store.
	Close() error
}

// OntologyStoreFactory opens the ontology store a run writes to.
type OntologyStoreFactory interface {
	// Create opens a store configured by settings.
	Create(ctx context.Context, settings domain.AppSettings) (OntologyStore, error)
}
