package rdf

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// WriteRDFXML writes g as RDF/XML with one rdf:Description per subject.
// Predicate namespaces without a prefix are bound to generated ns<N>
// prefixes.
func WriteRDFXML(w io.Writer, g Graph) error {
	names, err := newQNames(g)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(xml.Header)
	bw.WriteString("<rdf:RDF")
	for _, prefix := range sortedPrefixes(names.byPrefix) {
		fmt.Fprintf(bw, "\n    xmlns:%s=\"%s\"", prefix, escapeXML(names.byPrefix[prefix]))
	}
	if g.Base != "" {
		fmt.Fprintf(bw, "\n    xml:base=\"%s\"", escapeXML(g.Base))
	}
	bw.WriteString(">\n")

	for _, group := range groupBySubject(g.Triples) {
		bw.WriteString("  <rdf:Description ")
		bw.WriteString(nodeAttr("rdf:about", group.Subject))
		bw.WriteString(">\n")
		for _, t := range group.Triples {
			writeProperty(bw, names.qname(t.Predicate.Value), t.Object)
		}
		bw.WriteString("  </rdf:Description>\n")
	}
	bw.WriteString("</rdf:RDF>\n")
	return bw.Flush()
}

func writeProperty(bw *bufio.Writer, qname string, object domain.Term) {
	bw.WriteString("    <")
	bw.WriteString(qname)
	switch object.Kind {
	case domain.TermIRI, domain.TermBlank:
		bw.WriteByte(' ')
		bw.WriteString(nodeAttr("rdf:resource", object))
		bw.WriteString("/>\n")
		return
	}
	if object.Lang != "" {
		fmt.Fprintf(bw, " xml:lang=\"%s\"", escapeXML(object.Lang))
	} else if object.Datatype != "" {
		fmt.Fprintf(bw, " rdf:datatype=\"%s\"", escapeXML(object.Datatype))
	}
	bw.WriteByte('>')
	bw.WriteString(escapeXML(object.Value))
	bw.WriteString("</")
	bw.WriteString(qname)
	bw.WriteString(">\n")
}

// nodeAttr returns the attribute naming a node: attr for IRIs, rdf:nodeID
// for blank nodes.
func nodeAttr(attr string, t domain.Term) string {
	if t.IsBlank() {
		return fmt.Sprintf("rdf:nodeID=\"%s\"", escapeXML(t.Value))
	}
	return fmt.Sprintf("%s=\"%s\"", attr, escapeXML(EncodeIRI(t.Value)))
}

func escapeXML(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

// qnames maps predicate IRIs to prefixed element names.
type qnames struct {
	byPrefix    map[string]string
	byNamespace map[string]string
	local       map[string]string
}

func newQNames(g Graph) (*qnames, error) {
	q := &qnames{
		byPrefix:    make(map[string]string),
		byNamespace: make(map[string]string),
		local:       make(map[string]string),
	}
	q.bind("rdf", domain.RDFNamespace)
	for _, prefix := range sortedPrefixes(g.Prefixes) {
		if prefix == "rdf" || prefix == "" {
			continue
		}
		q.bind(prefix, g.Prefixes[prefix])
	}

	generated := 0
	for _, t := range g.Triples {
		iri := t.Predicate.Value
		if _, done := q.local[iri]; done {
			continue
		}
		ns, local, ok := splitIRI(iri)
		if !ok {
			return nil, fmt.Errorf("%w: predicate %s has no XML element name", domain.ErrInvalidInput, iri)
		}
		prefix, bound := q.byNamespace[ns]
		if !bound {
			for {
				generated++
				prefix = fmt.Sprintf("ns%d", generated)
				if _, taken := q.byPrefix[prefix]; !taken {
					break
				}
			}
			q.bind(prefix, ns)
		}
		q.local[iri] = prefix + ":" + local
	}
	return q, nil
}

// bind records prefix for ns. The first prefix bound to a namespace wins.
func (q *qnames) bind(prefix, ns string) {
	q.byPrefix[prefix] = ns
	if _, ok := q.byNamespace[ns]; !ok {
		q.byNamespace[ns] = prefix
	}
}

func (q *qnames) qname(iri string) string {
	return q.local[iri]
}
