package rdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// TurtleWriter writes RDF in Turtle format.
type TurtleWriter struct {
	prefixes map[string]string
	sb       strings.Builder
}

// NewTurtleWriter creates a new Turtle writer with default prefixes.
func NewTurtleWriter() *TurtleWriter {
	return &TurtleWriter{
		prefixes: domain.DefaultPrefixes(),
	}
}

// SetPrefix sets a namespace prefix.
func (w *TurtleWriter) SetPrefix(prefix, iri string) {
	w.prefixes[prefix] = iri
}

// WritePrefixes writes prefix declarations.
func (w *TurtleWriter) WritePrefixes() {
	for _, prefix := range sortedPrefixes(w.prefixes) {
		w.sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, EncodeIRI(w.prefixes[prefix])))
	}
	w.sb.WriteString("\n")
}

// WriteSubject writes all triples of one subject as a single block,
// folding repeated predicates into object lists.
func (w *TurtleWriter) WriteSubject(subject domain.Term, triples []domain.Triple) {
	w.sb.WriteString(w.term(subject))

	type predicateObjects struct {
		predicate domain.Term
		objects   []domain.Term
	}
	var preds []predicateObjects
	index := make(map[string]int)
	for _, t := range triples {
		key := t.Predicate.Key()
		i, ok := index[key]
		if !ok {
			i = len(preds)
			index[key] = i
			preds = append(preds, predicateObjects{predicate: t.Predicate})
		}
		preds[i].objects = append(preds[i].objects, t.Object)
	}

	for i, p := range preds {
		w.sb.WriteString("\n    ")
		if p.predicate.Value == domain.RDFType {
			w.sb.WriteString("a")
		} else {
			w.sb.WriteString(w.term(p.predicate))
		}
		for j, o := range p.objects {
			if j > 0 {
				w.sb.WriteString(" ,\n        ")
			} else {
				w.sb.WriteByte(' ')
			}
			w.sb.WriteString(w.term(o))
		}
		if i < len(preds)-1 {
			w.sb.WriteString(" ;")
		}
	}
	w.sb.WriteString(" .\n\n")
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

func (w *TurtleWriter) term(t domain.Term) string {
	switch t.Kind {
	case domain.TermIRI:
		if name, ok := compact(t.Value, w.prefixes); ok {
			return name
		}
		return "<" + EncodeIRI(t.Value) + ">"
	case domain.TermBlank:
		return "_:" + t.Value
	default:
		lit := `"` + escapeString(t.Value) + `"`
		if t.Lang != "" {
			return lit + "@" + t.Lang
		}
		if t.Datatype != "" {
			return lit + "^^" + w.term(domain.IRI(t.Datatype))
		}
		return lit
	}
}

// WriteTurtle writes g as Turtle grouped by subject.
func WriteTurtle(w io.Writer, g Graph) error {
	tw := &TurtleWriter{prefixes: make(map[string]string, len(g.Prefixes))}
	for prefix, ns := range g.Prefixes {
		tw.SetPrefix(prefix, ns)
	}
	if g.Base != "" {
		tw.sb.WriteString(fmt.Sprintf("@base <%s> .\n", EncodeIRI(g.Base)))
	}
	tw.WritePrefixes()
	for _, group := range groupBySubject(g.Triples) {
		tw.WriteSubject(group.Subject, group.Triples)
	}
	_, err := io.WriteString(w, tw.String())
	return err
}
