package owl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/kit-sdq/Ecore2OWL/internal/adapters/driven/rdf"
	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.OntologyStore = (*Store)(nil)

// Store is an OWL ontology kept as triples in a driven.TripleStore.
// Restrictions and list cells are blank nodes labelled by a hash of their
// content, so recreating one yields the same node.
type Store struct {
	triples     driven.TripleStore
	namespace   string
	prefix      string
	ontologyIRI string

	// mu serializes read-modify-write sequences such as list appends.
	mu sync.Mutex
}

// NewStore wraps triples and writes the ontology header.
func NewStore(ctx context.Context, triples driven.TripleStore, settings domain.OntologySettings) (*Store, error) {
	if triples == nil {
		return nil, fmt.Errorf("%w: nil triple store", domain.ErrInvalidInput)
	}
	if settings.Namespace == "" {
		return nil, fmt.Errorf("%w: empty namespace", domain.ErrInvalidInput)
	}
	s := &Store{
		triples:     triples,
		namespace:   settings.Namespace,
		prefix:      settings.Prefix,
		ontologyIRI: settings.OntologyIRI(),
	}
	if err := s.add(ctx, domain.IRI(s.ontologyIRI), domain.RDFType, domain.IRI(domain.OWLOntology)); err != nil {
		return nil, fmt.Errorf("writing ontology header: %w", err)
	}
	return s, nil
}

// Namespace returns the namespace local names are resolved against.
func (s *Store) Namespace() string {
	return s.namespace
}

// OntologyIRI returns the IRI of the ontology header.
func (s *Store) OntologyIRI() string {
	return s.ontologyIRI
}

func (s *Store) iri(name, namespace string) string {
	if namespace == "" {
		namespace = s.namespace
	}
	return namespace + name
}

func (s *Store) add(ctx context.Context, subject domain.Term, predicate string, object domain.Term) error {
	_, err := s.triples.Add(ctx, domain.NewTriple(subject, domain.IRI(predicate), object))
	return err
}

func (s *Store) has(ctx context.Context, subject domain.Term, predicate string, object domain.Term) (bool, error) {
	return s.triples.Has(ctx, domain.NewTriple(subject, domain.IRI(predicate), object))
}

// ==================== Classes ====================

// CreateOrGetClass returns the class namespace+name, creating it if needed.
func (s *Store) CreateOrGetClass(ctx context.Context, name, namespace string) (domain.ClassRef, error) {
	ref := domain.ClassRef{IRI: s.iri(name, namespace)}
	if err := s.add(ctx, ref.Term(), domain.RDFType, domain.IRI(domain.OWLClass)); err != nil {
		return domain.ClassRef{}, err
	}
	return ref, nil
}

// LookupClass returns the class namespace+name if it exists.
func (s *Store) LookupClass(ctx context.Context, name, namespace string) (domain.ClassRef, bool, error) {
	ref := domain.ClassRef{IRI: s.iri(name, namespace)}
	ok, err := s.has(ctx, ref.Term(), domain.RDFType, domain.IRI(domain.OWLClass))
	if err != nil || !ok {
		return domain.ClassRef{}, false, err
	}
	return ref, true, nil
}

// AddSuperClass makes super a superclass of class.
func (s *Store) AddSuperClass(ctx context.Context, class domain.ClassRef, super domain.Resource) error {
	return s.add(ctx, class.Term(), domain.RDFSSubClassOf, super.Term())
}

// RemoveSuperClass removes a direct superclass link.
func (s *Store) RemoveSuperClass(ctx context.Context, class, super domain.ClassRef) error {
	return s.triples.Remove(ctx, domain.NewTriple(class.Term(), domain.IRI(domain.RDFSSubClassOf), super.Term()))
}

// IsSubClassOf reports whether super is a direct superclass of class.
func (s *Store) IsSubClassOf(ctx context.Context, class, super domain.ClassRef) (bool, error) {
	return s.has(ctx, class.Term(), domain.RDFSSubClassOf, super.Term())
}

// ==================== Properties ====================

// CreateOrGetDatatypeProperty creates a datatype property on domainClass.
// An unmapped range leaves the property untyped.
func (s *Store) CreateOrGetDatatypeProperty(ctx context.Context, name, namespace string, domainClass domain.ClassRef, rng domain.Datatype) (domain.PropertyRef, error) {
	ref := domain.PropertyRef{IRI: s.iri(name, namespace), Kind: domain.DatatypeProperty}
	if err := s.add(ctx, ref.Term(), domain.RDFType, domain.IRI(domain.OWLDatatypeProperty)); err != nil {
		return domain.PropertyRef{}, err
	}
	if err := s.add(ctx, ref.Term(), domain.RDFSDomain, domainClass.Term()); err != nil {
		return domain.PropertyRef{}, err
	}
	if rng.IsMapped() {
		if err := s.add(ctx, ref.Term(), domain.RDFSRange, domain.IRI(rng.IRI())); err != nil {
			return domain.PropertyRef{}, err
		}
	}
	return ref, nil
}

// CreateOrGetObjectProperty creates an object property from domainClass
// to rangeClass.
func (s *Store) CreateOrGetObjectProperty(ctx context.Context, name, namespace string, domainClass, rangeClass domain.ClassRef, functional bool) (domain.PropertyRef, error) {
	ref := domain.PropertyRef{IRI: s.iri(name, namespace), Kind: domain.ObjectProperty}
	if err := s.add(ctx, ref.Term(), domain.RDFType, domain.IRI(domain.OWLObjectProperty)); err != nil {
		return domain.PropertyRef{}, err
	}
	if err := s.add(ctx, ref.Term(), domain.RDFSDomain, domainClass.Term()); err != nil {
		return domain.PropertyRef{}, err
	}
	if err := s.add(ctx, ref.Term(), domain.RDFSRange, rangeClass.Term()); err != nil {
		return domain.PropertyRef{}, err
	}
	if functional {
		if err := s.MarkFunctional(ctx, ref); err != nil {
			return domain.PropertyRef{}, err
		}
	}
	return ref, nil
}

// LookupProperty returns an existing property of the given kind.
func (s *Store) LookupProperty(ctx context.Context, name, namespace string, kind domain.PropertyKind) (domain.PropertyRef, bool, error) {
	ref := domain.PropertyRef{IRI: s.iri(name, namespace), Kind: kind}
	typ := domain.OWLDatatypeProperty
	if kind == domain.ObjectProperty {
		typ = domain.OWLObjectProperty
	}
	ok, err := s.has(ctx, ref.Term(), domain.RDFType, domain.IRI(typ))
	if err != nil || !ok {
		return domain.PropertyRef{}, false, err
	}
	return ref, true, nil
}

// MarkFunctional declares the property functional.
func (s *Store) MarkFunctional(ctx context.Context, property domain.PropertyRef) error {
	return s.add(ctx, property.Term(), domain.RDFType, domain.IRI(domain.OWLFunctionalProperty))
}

// ==================== Restrictions ====================

// AddMinCardinality creates a minCardinality restriction on property.
func (s *Store) AddMinCardinality(ctx context.Context, property domain.PropertyRef, n int) (domain.RestrictionRef, error) {
	return s.restriction(ctx, property, domain.OWLMinCardinality, cardinality(n))
}

// AddMaxCardinality creates a maxCardinality restriction on property.
func (s *Store) AddMaxCardinality(ctx context.Context, property domain.PropertyRef, n int) (domain.RestrictionRef, error) {
	return s.restriction(ctx, property, domain.OWLMaxCardinality, cardinality(n))
}

// AddValueRestriction creates an allValuesFrom restriction of property to class.
func (s *Store) AddValueRestriction(ctx context.Context, property domain.PropertyRef, class domain.ClassRef) (domain.RestrictionRef, error) {
	return s.restriction(ctx, property, domain.OWLAllValuesFrom, class.Term())
}

func (s *Store) restriction(ctx context.Context, property domain.PropertyRef, kind string, value domain.Term) (domain.RestrictionRef, error) {
	ref := domain.RestrictionRef{Node: nodeLabel("r", kind, property.IRI, value.Key())}
	node := ref.Term()
	if err := s.add(ctx, node, domain.RDFType, domain.IRI(domain.OWLRestriction)); err != nil {
		return domain.RestrictionRef{}, err
	}
	if err := s.add(ctx, node, domain.OWLOnProperty, property.Term()); err != nil {
		return domain.RestrictionRef{}, err
	}
	if err := s.add(ctx, node, kind, value); err != nil {
		return domain.RestrictionRef{}, err
	}
	return ref, nil
}

func cardinality(n int) domain.Term {
	return domain.Term{Kind: domain.TermLiteral, Value: strconv.Itoa(n), Datatype: domain.XSDNonNegativeInteger}
}

// nodeLabel derives a stable blank node label from parts.
func nodeLabel(kind string, parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return kind + hex.EncodeToString(sum[:8])
}

// ==================== Enumerated classes ====================

// CreateOrGetEnumeratedClass creates a class defined by an owl:oneOf list,
// initially empty.
func (s *Store) CreateOrGetEnumeratedClass(ctx context.Context, name, namespace string) (domain.ClassRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, err := s.CreateOrGetClass(ctx, name, namespace)
	if err != nil {
		return domain.ClassRef{}, err
	}
	oneOf := domain.IRI(domain.OWLOneOf)
	subject := ref.Term()
	existing, err := s.triples.Match(ctx, domain.Pattern{Subject: &subject, Predicate: &oneOf})
	if err != nil {
		return domain.ClassRef{}, err
	}
	if len(existing) == 0 {
		if err := s.add(ctx, subject, domain.OWLOneOf, domain.IRI(domain.RDFNil)); err != nil {
			return domain.ClassRef{}, err
		}
	}
	return ref, nil
}

// AddMember appends individual to the oneOf list of enumClass. Members
// already in the list are not added again.
func (s *Store) AddMember(ctx context.Context, enumClass domain.ClassRef, individual domain.IndividualRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// walk the list to its rdf:nil tail
	linkSubject := enumClass.Term()
	linkPredicate := domain.OWLOneOf
	index := 0
	for {
		next, ok, err := s.object(ctx, linkSubject, linkPredicate)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s is not an enumerated class", domain.ErrNotFound, enumClass.IRI)
		}
		if next.IsIRI() && next.Value == domain.RDFNil {
			break
		}
		first, _, err := s.object(ctx, next, domain.RDFFirst)
		if err != nil {
			return err
		}
		if first == individual.Term() {
			return nil
		}
		linkSubject, linkPredicate = next, domain.RDFRest
		index++
	}

	cell := domain.Blank(nodeLabel("l", enumClass.IRI, strconv.Itoa(index)))
	if err := s.add(ctx, cell, domain.RDFFirst, individual.Term()); err != nil {
		return err
	}
	if err := s.add(ctx, cell, domain.RDFRest, domain.IRI(domain.RDFNil)); err != nil {
		return err
	}
	if err := s.triples.Remove(ctx, domain.NewTriple(linkSubject, domain.IRI(linkPredicate), domain.IRI(domain.RDFNil))); err != nil {
		return err
	}
	return s.add(ctx, linkSubject, linkPredicate, cell)
}

// Members returns the individuals of an enumerated class in list order.
func (s *Store) Members(ctx context.Context, enumClass domain.ClassRef) ([]domain.IndividualRef, error) {
	var members []domain.IndividualRef
	node, ok, err := s.object(ctx, enumClass.Term(), domain.OWLOneOf)
	for err == nil && ok && !(node.IsIRI() && node.Value == domain.RDFNil) {
		var first domain.Term
		if first, _, err = s.object(ctx, node, domain.RDFFirst); err != nil {
			break
		}
		members = append(members, domain.IndividualRef{IRI: first.Value})
		node, ok, err = s.object(ctx, node, domain.RDFRest)
	}
	return members, err
}

// object returns the first object of subject and predicate.
func (s *Store) object(ctx context.Context, subject domain.Term, predicate string) (domain.Term, bool, error) {
	p := domain.IRI(predicate)
	found, err := s.triples.Match(ctx, domain.Pattern{Subject: &subject, Predicate: &p})
	if err != nil || len(found) == 0 {
		return domain.Term{}, false, err
	}
	return found[0].Object, true, nil
}

// ==================== Individuals ====================

// CreateOrGetIndividual creates a named individual of class. An existing
// individual gains class as an additional type.
func (s *Store) CreateOrGetIndividual(ctx context.Context, class domain.ClassRef, shortID, namespace string) (domain.IndividualRef, error) {
	ref := domain.IndividualRef{IRI: s.iri(shortID, namespace)}
	if err := s.add(ctx, ref.Term(), domain.RDFType, domain.IRI(domain.OWLNamedIndividual)); err != nil {
		return domain.IndividualRef{}, err
	}
	if err := s.add(ctx, ref.Term(), domain.RDFType, class.Term()); err != nil {
		return domain.IndividualRef{}, err
	}
	return ref, nil
}

// LookupIndividual returns the individual namespace+shortID if it exists.
func (s *Store) LookupIndividual(ctx context.Context, shortID, namespace string) (domain.IndividualRef, bool, error) {
	ref := domain.IndividualRef{IRI: s.iri(shortID, namespace)}
	ok, err := s.has(ctx, ref.Term(), domain.RDFType, domain.IRI(domain.OWLNamedIndividual))
	if err != nil || !ok {
		return domain.IndividualRef{}, false, err
	}
	return ref, true, nil
}

// AttachTypedValue adds a literal value of property to individual.
func (s *Store) AttachTypedValue(ctx context.Context, individual domain.IndividualRef, property domain.PropertyRef, value domain.Term) error {
	if !value.IsLiteral() {
		return fmt.Errorf("%w: %s is not a literal", domain.ErrInvalidInput, value.Value)
	}
	return s.add(ctx, individual.Term(), property.IRI, value)
}

// AddStatement links two individuals through an object property.
func (s *Store) AddStatement(ctx context.Context, subject domain.IndividualRef, property domain.PropertyRef, object domain.IndividualRef) error {
	return s.add(ctx, subject.Term(), property.IRI, object.Term())
}

// HasStatement reports whether the statement exists.
func (s *Store) HasStatement(ctx context.Context, subject domain.IndividualRef, property domain.PropertyRef, object domain.IndividualRef) (bool, error) {
	return s.has(ctx, subject.Term(), property.IRI, object.Term())
}

// ==================== Annotations ====================

// AddLabel attaches an rdfs:label.
func (s *Store) AddLabel(ctx context.Context, resource domain.Resource, text string) error {
	return s.add(ctx, resource.Term(), domain.RDFSLabel, domain.PlainLiteral(text, ""))
}

// AddComment attaches an rdfs:comment with tag as its language tag.
func (s *Store) AddComment(ctx context.Context, resource domain.Resource, text, tag string) error {
	return s.add(ctx, resource.Term(), domain.RDFSComment, domain.PlainLiteral(text, tag))
}

// ==================== Output ====================

// Len returns the number of stored triples.
func (s *Store) Len(ctx context.Context) (int, error) {
	return s.triples.Len(ctx)
}

// Graph returns the stored triples with the prefixes used for output.
func (s *Store) Graph(ctx context.Context) (rdf.Graph, error) {
	triples, err := s.triples.All(ctx)
	if err != nil {
		return rdf.Graph{}, err
	}
	g := rdf.NewGraph(triples)
	g.Base = s.ontologyIRI
	if s.prefix != "" {
		g.SetPrefix(s.prefix, s.namespace)
	}
	return g, nil
}

// Export writes the ontology to w in the given format.
func (s *Store) Export(ctx context.Context, w io.Writer, format domain.OutputFormat) error {
	if !format.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
	g, err := s.Graph(ctx)
	if err != nil {
		return err
	}
	return rdf.Write(w, format, g)
}

// Save writes the ontology to path in the format its extension implies.
func (s *Store) Save(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty output path", domain.ErrInvalidInput)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := s.Export(ctx, f, domain.FormatForPath(path)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Close releases the underlying triple store.
func (s *Store) Close() error {
	return s.triples.Close()
}
