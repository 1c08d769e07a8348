package rdf

import (
	"encoding/json"
	"io"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// JSONLDDocument represents a JSON-LD document structure. The graph is
// the default graph; the ontology IRI appears only as a node.
type JSONLDDocument struct {
	Context map[string]any `json:"@context"`
	Graph   []JSONLDNode   `json:"@graph"`
}

// JSONLDNode represents a node in a JSON-LD graph.
type JSONLDNode struct {
	ID         string
	Type       []string
	Properties map[string][]any
}

// MarshalJSON implements custom JSON marshaling for JSONLDNode.
func (n JSONLDNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Properties)+2)
	m["@id"] = n.ID
	if len(n.Type) > 0 {
		m["@type"] = n.Type
	}
	for k, v := range n.Properties {
		m[k] = v
	}
	return json.Marshal(m)
}

// NewJSONLDDocument builds the JSON-LD form of g, one node per subject in
// order of first appearance.
func NewJSONLDDocument(g Graph) JSONLDDocument {
	doc := JSONLDDocument{
		Context: make(map[string]any, len(g.Prefixes)),
		Graph:   make([]JSONLDNode, 0),
	}
	for prefix, ns := range g.Prefixes {
		doc.Context[prefix] = ns
	}

	for _, group := range groupBySubject(g.Triples) {
		node := JSONLDNode{
			ID:         jsonldID(group.Subject, g.Prefixes),
			Properties: make(map[string][]any),
		}
		for _, t := range group.Triples {
			if t.Predicate.Value == domain.RDFType && !t.Object.IsLiteral() {
				node.Type = append(node.Type, jsonldID(t.Object, g.Prefixes))
				continue
			}
			key := jsonldID(t.Predicate, g.Prefixes)
			node.Properties[key] = append(node.Properties[key], jsonldObject(t.Object, g.Prefixes))
		}
		doc.Graph = append(doc.Graph, node)
	}
	return doc
}

// WriteJSONLD writes g as an indented JSON-LD document.
func WriteJSONLD(w io.Writer, g Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(NewJSONLDDocument(g))
}

func jsonldID(t domain.Term, prefixes map[string]string) string {
	if t.IsBlank() {
		return "_:" + t.Value
	}
	if name, ok := compact(t.Value, prefixes); ok {
		return name
	}
	return t.Value
}

func jsonldObject(t domain.Term, prefixes map[string]string) map[string]string {
	if !t.IsLiteral() {
		return map[string]string{"@id": jsonldID(t, prefixes)}
	}
	obj := map[string]string{"@value": t.Value}
	switch {
	case t.Lang != "":
		obj["@language"] = t.Lang
	case t.Datatype != "":
		obj["@type"] = jsonldID(domain.IRI(t.Datatype), prefixes)
	}
	return obj
}
