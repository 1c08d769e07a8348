// Package rdf serializes ontology graphs.
//
// Four syntaxes are supported: RDF/XML, Turtle, N-Triples and JSON-LD.
// Writers consume a Graph, an ordered list of triples plus the namespace
// prefixes to abbreviate with, and emit subjects in order of first
// appearance so repeated runs over the same input produce identical files.
package rdf
