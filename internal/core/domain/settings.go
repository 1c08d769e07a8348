package domain

import (
	"path/filepath"
	"strings"
)

const unknownDescription = "Unknown"

// DefaultNamespace is the namespace of generated ontology artifacts.
const DefaultNamespace = "https://informalin.github.io/knowledgebases/examples/ontology.owl#"

// DefaultPrefix is the prefix bound to DefaultNamespace.
const DefaultPrefix = "model"

// OutputFormat is an ontology serialization format.
type OutputFormat string

// Available output formats.
const (
	// FormatRDFXML is RDF/XML, the classic OWL exchange syntax.
	FormatRDFXML OutputFormat = "rdfxml"

	// FormatTurtle is the Terse RDF Triple Language.
	FormatTurtle OutputFormat = "turtle"

	// FormatNTriples is the line based N-Triples syntax.
	FormatNTriples OutputFormat = "ntriples"

	// FormatJSONLD is JSON for Linked Data.
	FormatJSONLD OutputFormat = "jsonld"
)

// IsValid returns true if the format is recognised.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatRDFXML, FormatTurtle, FormatNTriples, FormatJSONLD:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f OutputFormat) String() string {
	return string(f)
}

// Description returns a human-readable description of the format.
func (f OutputFormat) Description() string {
	switch f {
	case FormatRDFXML:
		return "RDF/XML (OWL exchange syntax)"
	case FormatTurtle:
		return "Turtle (terse triples)"
	case FormatNTriples:
		return "N-Triples (one triple per line)"
	case FormatJSONLD:
		return "JSON-LD (linked data JSON)"
	default:
		return unknownDescription
	}
}

// AllOutputFormats returns all available output formats.
func AllOutputFormats() []OutputFormat {
	return []OutputFormat{
		FormatRDFXML,
		FormatTurtle,
		FormatNTriples,
		FormatJSONLD,
	}
}

// FormatForPath picks the format matching a file extension, falling back
// to RDF/XML.
func FormatForPath(path string) OutputFormat {
	if f, ok := FormatForExtension(path); ok {
		return f
	}
	return FormatRDFXML
}

// FormatForExtension returns the format a file extension names. ok is
// false for extensions that name no format.
func FormatForExtension(path string) (OutputFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".owl", ".rdf":
		return FormatRDFXML, true
	case ".ttl":
		return FormatTurtle, true
	case ".nt":
		return FormatNTriples, true
	case ".jsonld", ".json":
		return FormatJSONLD, true
	default:
		return "", false
	}
}

// StoreBackend selects the triple store implementation.
type StoreBackend string

// Available store backends.
const (
	// StoreMemory keeps triples in process memory.
	StoreMemory StoreBackend = "memory"

	// StoreSQLite persists triples in a SQLite database.
	StoreSQLite StoreBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	return b == StoreMemory || b == StoreSQLite
}

// String returns the string representation.
func (b StoreBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StoreBackend) Description() string {
	switch b {
	case StoreMemory:
		return "In-memory (discarded after the run)"
	case StoreSQLite:
		return "SQLite (persistent triple table)"
	default:
		return unknownDescription
	}
}

// AllStoreBackends returns all available store backends.
func AllStoreBackends() []StoreBackend {
	return []StoreBackend{StoreMemory, StoreSQLite}
}

// OntologySettings controls naming and serialization of the output.
type OntologySettings struct {
	// Namespace is prepended to every generated local name.
	Namespace string

	// Prefix is bound to Namespace in serializations.
	Prefix string

	// Format is the default serialization format.
	Format OutputFormat
}

// OntologyIRI returns the IRI of the ontology header: the namespace
// without its trailing '#'.
func (s OntologySettings) OntologyIRI() string {
	return strings.TrimSuffix(s.Namespace, "#")
}

// StoreSettings selects and configures the triple store.
type StoreSettings struct {
	// Backend is the store implementation.
	Backend StoreBackend

	// Path is the SQLite database file. Empty uses the default location.
	Path string

	// Reset clears existing triples when a run starts.
	Reset bool
}

// TransformSettings controls traversal behaviour.
type TransformSettings struct {
	// CheckConformance warns when model objects belong to packages
	// outside the lowered meta-model.
	CheckConformance bool

	// ResolveMetaModel lowers the meta-model of each model's first object
	// before the model itself.
	ResolveMetaModel bool
}

// WatchSettings controls the watch command.
type WatchSettings struct {
	// DebounceMillis is the quiet period before a re-run.
	DebounceMillis int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Ontology  OntologySettings
	Store     StoreSettings
	Transform TransformSettings
	Watch     WatchSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Ontology: OntologySettings{
			Namespace: DefaultNamespace,
			Prefix:    DefaultPrefix,
			Format:    FormatRDFXML,
		},
		Store: StoreSettings{
			Backend: StoreMemory,
			Reset:   true,
		},
		Transform: TransformSettings{
			CheckConformance: true,
		},
		Watch: WatchSettings{
			DebounceMillis: 500,
		},
	}
}
