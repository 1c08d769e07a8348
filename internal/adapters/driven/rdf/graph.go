package rdf

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// Graph is an ordered set of triples with the prefixes used to abbreviate
// IRIs. Base, when set, is the IRI of the ontology document.
type Graph struct {
	Base     string
	Prefixes map[string]string
	Triples  []domain.Triple
}

// NewGraph creates a graph with the standard prefixes.
func NewGraph(triples []domain.Triple) Graph {
	return Graph{Prefixes: domain.DefaultPrefixes(), Triples: triples}
}

// SetPrefix binds prefix to namespace.
func (g *Graph) SetPrefix(prefix, namespace string) {
	if g.Prefixes == nil {
		g.Prefixes = make(map[string]string)
	}
	g.Prefixes[prefix] = namespace
}

// Write serializes g to w in the given format.
func Write(w io.Writer, format domain.OutputFormat, g Graph) error {
	switch format {
	case domain.FormatRDFXML:
		return WriteRDFXML(w, g)
	case domain.FormatTurtle:
		return WriteTurtle(w, g)
	case domain.FormatNTriples:
		return WriteNTriples(w, g)
	case domain.FormatJSONLD:
		return WriteJSONLD(w, g)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
}

// subjectGroup holds the triples of one subject in insertion order.
type subjectGroup struct {
	Subject domain.Term
	Triples []domain.Triple
}

// groupBySubject groups triples by subject, ordered by first appearance.
func groupBySubject(triples []domain.Triple) []subjectGroup {
	var groups []subjectGroup
	index := make(map[string]int)
	for _, t := range triples {
		key := t.Subject.Key()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, subjectGroup{Subject: t.Subject})
		}
		groups[i].Triples = append(groups[i].Triples, t)
	}
	return groups
}

// sortedPrefixes returns prefix names in lexical order.
func sortedPrefixes(prefixes map[string]string) []string {
	keys := make([]string, 0, len(prefixes))
	for k := range prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// iriEscaper percent-encodes characters that IRIREF forbids.
var iriEscaper = strings.NewReplacer(
	" ", "%20",
	"<", "%3C",
	">", "%3E",
	`"`, "%22",
	"{", "%7B",
	"}", "%7D",
	"|", "%7C",
	"^", "%5E",
	"`", "%60",
	`\`, "%5C",
)

// EncodeIRI percent-encodes the characters an IRI reference may not hold.
func EncodeIRI(iri string) string {
	return iriEscaper.Replace(iri)
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}

// safeLocal matches local names that can be written as prefixed names in
// Turtle and JSON-LD.
var safeLocal = regexp.MustCompile(`^[\p{L}_][\p{L}\p{Nd}_\-]*$`)

// compact returns "prefix:local" for iri when a prefix covers it and the
// remainder is a safe local name.
func compact(iri string, prefixes map[string]string) (string, bool) {
	best := ""
	for prefix, ns := range prefixes {
		if ns == "" || !strings.HasPrefix(iri, ns) {
			continue
		}
		local := iri[len(ns):]
		if !safeLocal.MatchString(local) {
			continue
		}
		// prefer the shortest name, then the lexically smallest
		candidate := prefix + ":" + local
		if best == "" || len(candidate) < len(best) || (len(candidate) == len(best) && candidate < best) {
			best = candidate
		}
	}
	return best, best != ""
}

// isNameStart reports whether r may start an XML NCName.
func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isNameChar reports whether r may continue an XML NCName.
func isNameChar(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r) || r == '-' || r == '.'
}

// splitIRI splits iri into a namespace and the longest suffix that is an
// XML NCName, usable as an element name. ok is false when no such suffix
// exists.
func splitIRI(iri string) (ns, local string, ok bool) {
	start := len(iri)
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(iri[:start])
		if !isNameChar(r) {
			break
		}
		start -= size
	}
	for start < len(iri) {
		r, size := utf8.DecodeRuneInString(iri[start:])
		if isNameStart(r) {
			break
		}
		start += size
	}
	if start == len(iri) {
		return "", "", false
	}
	return iri[:start], iri[start:], true
}
