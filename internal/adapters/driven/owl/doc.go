// Package owl implements the ontology store on top of a triple store.
//
// Every OWL construct the lowering engine needs is expressed as plain RDF:
// classes, datatype and object properties, cardinality and value
// restrictions, enumerated classes (owl:oneOf lists) and named individuals.
// All create operations are idempotent because the underlying triple store
// is a set.
package owl
