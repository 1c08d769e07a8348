package rdf

import (
	"bufio"
	"io"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// WriteNTriples writes one triple per line. Prefixes are ignored.
func WriteNTriples(w io.Writer, g Graph) error {
	bw := bufio.NewWriter(w)
	for _, t := range g.Triples {
		bw.WriteString(formatTermNTriples(t.Subject))
		bw.WriteByte(' ')
		bw.WriteString(formatTermNTriples(t.Predicate))
		bw.WriteByte(' ')
		bw.WriteString(formatTermNTriples(t.Object))
		bw.WriteString(" .\n")
	}
	return bw.Flush()
}

// formatTermNTriples formats a term in its full N-Triples form.
func formatTermNTriples(t domain.Term) string {
	switch t.Kind {
	case domain.TermIRI:
		return "<" + EncodeIRI(t.Value) + ">"
	case domain.TermBlank:
		return "_:" + t.Value
	default:
		lit := `"` + escapeString(t.Value) + `"`
		if t.Lang != "" {
			return lit + "@" + t.Lang
		}
		if t.Datatype != "" {
			return lit + "^^<" + EncodeIRI(t.Datatype) + ">"
		}
		return lit
	}
}
