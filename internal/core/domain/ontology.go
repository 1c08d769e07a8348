package domain

import "strings"

// Standard vocabulary namespaces.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// Vocabulary IRIs used by the ontology store.
const (
	RDFType  = RDFNamespace + "type"
	RDFFirst = RDFNamespace + "first"
	RDFRest  = RDFNamespace + "rest"
	RDFNil   = RDFNamespace + "nil"

	RDFSSubClassOf = RDFSNamespace + "subClassOf"
	RDFSDomain     = RDFSNamespace + "domain"
	RDFSRange      = RDFSNamespace + "range"
	RDFSLabel      = RDFSNamespace + "label"
	RDFSComment    = RDFSNamespace + "comment"
	RDFSLiteral    = RDFSNamespace + "Literal"

	OWLOntology           = OWLNamespace + "Ontology"
	OWLClass              = OWLNamespace + "Class"
	OWLThing              = OWLNamespace + "Thing"
	OWLNamedIndividual    = OWLNamespace + "NamedIndividual"
	OWLDatatypeProperty   = OWLNamespace + "DatatypeProperty"
	OWLObjectProperty     = OWLNamespace + "ObjectProperty"
	OWLFunctionalProperty = OWLNamespace + "FunctionalProperty"
	OWLRestriction        = OWLNamespace + "Restriction"
	OWLOnProperty         = OWLNamespace + "onProperty"
	OWLMinCardinality     = OWLNamespace + "minCardinality"
	OWLMaxCardinality     = OWLNamespace + "maxCardinality"
	OWLAllValuesFrom      = OWLNamespace + "allValuesFrom"
	OWLOneOf              = OWLNamespace + "oneOf"

	XSDNonNegativeInteger = XSDNamespace + "nonNegativeInteger"
)

// DefaultPrefixes returns the standard namespace prefixes for serialization.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":  RDFNamespace,
		"rdfs": RDFSNamespace,
		"owl":  OWLNamespace,
		"xsd":  XSDNamespace,
	}
}

// TermKind distinguishes IRIs, blank nodes and literals.
type TermKind int

// Term kinds.
const (
	TermIRI TermKind = iota + 1
	TermBlank
	TermLiteral
)

// String returns the string representation.
func (k TermKind) String() string {
	switch k {
	case TermIRI:
		return "iri"
	case TermBlank:
		return "blank"
	case TermLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is a node of the RDF graph. Blank node values are labels without
// the "_:" prefix. Literals carry either a datatype IRI or a language tag.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
	Lang     string
}

// IRI creates an IRI term.
func IRI(iri string) Term { return Term{Kind: TermIRI, Value: iri} }

// Blank creates a blank node term.
func Blank(label string) Term { return Term{Kind: TermBlank, Value: label} }

// PlainLiteral creates a literal with an optional language tag.
func PlainLiteral(text, lang string) Term {
	return Term{Kind: TermLiteral, Value: text, Lang: lang}
}

// StringLiteral creates an xsd:string literal.
func StringLiteral(text string) Term {
	return Term{Kind: TermLiteral, Value: text, Datatype: XSDNamespace + "string"}
}

// IsIRI reports whether t is an IRI.
func (t Term) IsIRI() bool { return t.Kind == TermIRI }

// IsBlank reports whether t is a blank node.
func (t Term) IsBlank() bool { return t.Kind == TermBlank }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.Kind == TermLiteral }

// IsZero reports whether t is unset.
func (t Term) IsZero() bool { return t.Kind == 0 }

// Key returns a string that identifies t uniquely.
func (t Term) Key() string {
	var sb strings.Builder
	sb.WriteString(t.Kind.String())
	sb.WriteByte('|')
	sb.WriteString(t.Value)
	if t.Kind == TermLiteral {
		sb.WriteByte('|')
		sb.WriteString(t.Datatype)
		sb.WriteByte('|')
		sb.WriteString(t.Lang)
	}
	return sb.String()
}

// Triple is one statement of the graph.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewTriple creates a triple.
func NewTriple(s, p, o Term) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}

// Key returns a string that identifies t uniquely.
func (t Triple) Key() string {
	return t.Subject.Key() + " " + t.Predicate.Key() + " " + t.Object.Key()
}

// Pattern selects triples; nil positions match anything.
type Pattern struct {
	Subject   *Term
	Predicate *Term
	Object    *Term
}

// Matches reports whether t satisfies the pattern.
func (p Pattern) Matches(t Triple) bool {
	if p.Subject != nil && *p.Subject != t.Subject {
		return false
	}
	if p.Predicate != nil && *p.Predicate != t.Predicate {
		return false
	}
	if p.Object != nil && *p.Object != t.Object {
		return false
	}
	return true
}

// Resource is anything that can be the subject of an annotation.
type Resource interface {
	Term() Term
}

// ClassRef refers to an ontology class.
type ClassRef struct {
	IRI string
}

// Term implements Resource.
func (r ClassRef) Term() Term { return IRI(r.IRI) }

// PropertyKind distinguishes datatype from object properties.
type PropertyKind int

// Property kinds.
const (
	DatatypeProperty PropertyKind = iota + 1
	ObjectProperty
)

// PropertyRef refers to an ontology property.
type PropertyRef struct {
	IRI  string
	Kind PropertyKind
}

// Term implements Resource.
func (r PropertyRef) Term() Term { return IRI(r.IRI) }

// IndividualRef refers to a named individual.
type IndividualRef struct {
	IRI string
}

// Term implements Resource.
func (r IndividualRef) Term() Term { return IRI(r.IRI) }

// RestrictionRef refers to an anonymous restriction class.
type RestrictionRef struct {
	Node string
}

// Term implements Resource.
func (r RestrictionRef) Term() Term { return Blank(r.Node) }

// LocalName returns the part of iri after namespace, or after the last
// '#' or '/' when namespace does not match.
func LocalName(iri, namespace string) string {
	if namespace != "" && strings.HasPrefix(iri, namespace) {
		return iri[len(namespace):]
	}
	if i := strings.LastIndexAny(iri, "#/"); i >= 0 {
		return iri[i+1:]
	}
	return iri
}
