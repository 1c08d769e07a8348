package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/core/ports/driven"
	"github.com/kit-sdq/Ecore2OWL/internal/logger"
)

// Names of the well-known ontology classes.
const (
	RootClassName        = "EClass"
	PackageRootClassName = "EPackage"
	EnumRootClassName    = "EEnum"
	ProxyRootClassName   = "ProxyEClass"

	// EnumLiteralPropertySuffix and EnumValuePropertySuffix name the
	// datatype properties carrying a literal's label and integer value.
	EnumLiteralPropertySuffix = "ELiteral"
	EnumValuePropertySuffix   = "EValue"
)

// Comment language tags.
const (
	TagNamespace = "nsURI"
	TagClassType = "classType"
	TagID        = "id"
)

// TransformerOptions configures a Transformer.
type TransformerOptions struct {
	// Namespace of generated names. Defaults to the store's namespace.
	Namespace string

	// CheckConformance warns about model objects whose package is not part
	// of a lowered meta-model.
	CheckConformance bool

	// ResolveMetaModel lowers the meta-model of a model's first object
	// before the model itself.
	ResolveMetaModel bool

	// Metrics observes emitted artifacts. May be nil.
	Metrics driven.MetricsRecorder

	// Namer names instance objects. Defaults to NewNamer().
	Namer *Namer
}

// Transformer lowers meta-models and models into an ontology store. One
// Transformer holds the traversal state of exactly one run and is not safe
// for concurrent use.
type Transformer struct {
	store   driven.OntologyStore
	ns      string
	opts    TransformerOptions
	namer   *Namer
	metrics driven.MetricsRecorder
	report  domain.TransformReport

	packages   map[*domain.Package]bool
	inProgress map[*domain.Package]bool
	classes    map[*domain.Class]bool
	properties map[string]bool
	enums      map[string]domain.ClassRef
	proxies    map[string]domain.ClassRef
	objects    map[string]bool
	metaRoots  []*domain.Package

	entityRoot  domain.ClassRef
	packageRoot domain.ClassRef
	enumRoot    domain.ClassRef
}

// NewTransformer creates the root classes in store and returns an engine
// ready to lower meta-models and models into it.
func NewTransformer(ctx context.Context, store driven.OntologyStore, opts TransformerOptions) (*Transformer, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil ontology store", domain.ErrInvalidInput)
	}
	ns := opts.Namespace
	if ns == "" {
		ns = store.Namespace()
	}
	if ns == "" {
		return nil, fmt.Errorf("%w: empty namespace", domain.ErrInvalidInput)
	}
	namer := opts.Namer
	if namer == nil {
		namer = NewNamer()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	t := &Transformer{
		store:      store,
		ns:         ns,
		opts:       opts,
		namer:      namer,
		metrics:    metrics,
		packages:   make(map[*domain.Package]bool),
		inProgress: make(map[*domain.Package]bool),
		classes:    make(map[*domain.Class]bool),
		properties: make(map[string]bool),
		enums:      make(map[string]domain.ClassRef),
		proxies:    make(map[string]domain.ClassRef),
		objects:    make(map[string]bool),
	}

	var err error
	if t.entityRoot, err = store.CreateOrGetClass(ctx, RootClassName, ns); err != nil {
		return nil, fmt.Errorf("creating root class: %w", err)
	}
	if t.packageRoot, err = store.CreateOrGetClass(ctx, PackageRootClassName, ns); err != nil {
		return nil, fmt.Errorf("creating package root class: %w", err)
	}
	if t.enumRoot, err = store.CreateOrGetClass(ctx, EnumRootClassName, ns); err != nil {
		return nil, fmt.Errorf("creating enumeration root class: %w", err)
	}
	return t, nil
}

// TransformMetaModel lowers pkg, its enumerations, sub-packages and
// classes. Lowering a package twice is a no-op.
func (t *Transformer) TransformMetaModel(ctx context.Context, pkg *domain.Package) error {
	if err := pkg.Validate(); err != nil {
		return err
	}
	logger.Section("Meta-model " + pkg.Name)
	t.addMetaRoot(pkg.Root())
	return t.lowerPackage(ctx, pkg)
}

// TransformModel lowers every top-level object of m together with all
// objects reachable from it.
func (t *Transformer) TransformModel(ctx context.Context, m *domain.Model) error {
	if err := m.Validate(); err != nil {
		return err
	}
	logger.Section("Model " + m.URI)

	if t.opts.ResolveMetaModel && len(m.Contents) > 0 {
		if pkg := m.Contents[0].Class.Package; pkg != nil {
			root := pkg.Root()
			logger.Debug("Resolving meta-model %s from model", root.NsURI)
			t.addMetaRoot(root)
			if err := t.lowerPackage(ctx, root); err != nil {
				return err
			}
		}
	}
	if t.opts.CheckConformance {
		t.checkConformance(m)
	}

	for _, obj := range m.Contents {
		if err := ctx.Err(); err != nil {
			return err
		}
		id, err := t.namer.ObjectIdentifier(obj)
		if err != nil {
			return err
		}
		if t.objects[id] {
			continue
		}
		if err := t.lowerObject(ctx, obj); err != nil {
			return fmt.Errorf("lowering %s: %w", id, err)
		}
	}
	return nil
}

func (t *Transformer) addMetaRoot(root *domain.Package) {
	for _, existing := range t.metaRoots {
		if existing == root {
			return
		}
	}
	t.metaRoots = append(t.metaRoots, root)
}

// checkConformance warns about top-level objects whose package is not a
// lowered meta-model package. It never fails.
func (t *Transformer) checkConformance(m *domain.Model) {
	if len(t.metaRoots) == 0 {
		logger.Debug("No meta-model lowered yet, skipping conformance check")
		return
	}
	for _, obj := range m.Contents {
		pkg := obj.Class.Package
		nsURI := ""
		if pkg != nil {
			nsURI = pkg.NsURI
		}
		conforms := false
		for _, root := range t.metaRoots {
			if nsURI != "" && root.ContainsNsURI(nsURI) {
				conforms = true
				break
			}
		}
		if !conforms {
			logger.Warn("Model %s does not conform to the lowered meta-model: %s has namespace %q", m.URI, obj.Class.ClassifierName(), nsURI)
			t.diagnose(domain.DiagnosticConformance, "%s (namespace %q) is outside the lowered meta-model", obj.Class.ClassifierName(), nsURI)
		}
	}
}

// ProcessedObjects returns how many distinct objects have been lowered.
func (t *Transformer) ProcessedObjects() int {
	return len(t.objects)
}

// ProcessedPackages returns how many packages have been lowered.
func (t *Transformer) ProcessedPackages() int {
	return len(t.packages)
}

// Report returns a copy of the run's counters and diagnostics.
func (t *Transformer) Report() domain.TransformReport {
	r := t.report
	r.Diagnostics = append([]domain.Diagnostic(nil), t.report.Diagnostics...)
	return r
}

func (t *Transformer) diagnose(kind domain.DiagnosticKind, format string, args ...any) {
	t.report.AddDiagnostic(kind, format, args...)
	t.metrics.IncDiagnostic(string(kind))
}

func (t *Transformer) annotateNamespace(ctx context.Context, r domain.Resource, nsURI string) error {
	if nsURI == "" {
		return nil
	}
	return t.store.AddComment(ctx, r, nsURI, TagNamespace)
}

func packageNsURI(p *domain.Package) string {
	if p == nil {
		return ""
	}
	return p.NsURI
}

type noopMetrics struct{}

func (noopMetrics) IncArtifact(string) {}
func (noopMetrics) IncDiagnostic(string) {}
func (noopMetrics) ObserveRun(string, time.Duration) {}
