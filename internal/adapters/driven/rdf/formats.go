package rdf

import "github.com/kit-sdq/Ecore2OWL/internal/core/domain"

// FormatInfo provides metadata about a serialization format.
type FormatInfo struct {
	// Name is the format identifier.
	Name domain.OutputFormat

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[domain.OutputFormat]FormatInfo{
	domain.FormatRDFXML: {
		Name:        domain.FormatRDFXML,
		MIMEType:    "application/rdf+xml",
		Extension:   ".owl",
		Description: "RDF/XML - the OWL exchange syntax",
	},
	domain.FormatTurtle: {
		Name:        domain.FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	domain.FormatNTriples: {
		Name:        domain.FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	domain.FormatJSONLD: {
		Name:        domain.FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format domain.OutputFormat) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// AllFormatInfo returns metadata for every format in display order.
func AllFormatInfo() []FormatInfo {
	formats := domain.AllOutputFormats()
	result := make([]FormatInfo, 0, len(formats))
	for _, f := range formats {
		result = append(result, FormatRegistry[f])
	}
	return result
}
