package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kit-sdq/Ecore2OWL/internal/adapters/driven/owl"
	"github.com/kit-sdq/Ecore2OWL/internal/adapters/driven/storage/memory"
	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

const testNS = "http://example.org/onto#"

var eString = &domain.DataType{Name: "EString", InstanceType: "java.lang.String"}

type harness struct {
	t       *testing.T
	ctx     context.Context
	store   *owl.Store
	triples *memory.TripleStore
	tr      *Transformer
}

func newHarness(t *testing.T, opts TransformerOptions) *harness {
	t.Helper()
	ctx := context.Background()
	triples := memory.NewTripleStore()
	store, err := owl.NewStore(ctx, triples, domain.OntologySettings{Namespace: testNS, Prefix: "model"})
	require.NoError(t, err)

	if opts.Namer == nil {
		n := 0
		opts.Namer = NewNamerWithTokens(func() string {
			n++
			return fmt.Sprintf("_t%d", n)
		})
	}
	tr, err := NewTransformer(ctx, store, opts)
	require.NoError(t, err)
	return &harness{t: t, ctx: ctx, store: store, triples: triples, tr: tr}
}

func (h *harness) has(s domain.Term, p string, o domain.Term) bool {
	h.t.Helper()
	ok, err := h.triples.Has(h.ctx, domain.NewTriple(s, domain.IRI(p), o))
	require.NoError(h.t, err)
	return ok
}

func (h *harness) match(s *domain.Term, p string, o *domain.Term) []domain.Triple {
	h.t.Helper()
	pred := domain.IRI(p)
	found, err := h.triples.Match(h.ctx, domain.Pattern{Subject: s, Predicate: &pred, Object: o})
	require.NoError(h.t, err)
	return found
}

func (h *harness) count(p string, o domain.Term) int {
	return len(h.match(nil, p, &o))
}

// restrictions returns the restriction kinds and values attached to owner
// for prop, e.g. {"minCardinality": "2"}.
func (h *harness) restrictions(owner, prop string) map[string]string {
	h.t.Helper()
	result := make(map[string]string)
	subject := iri(owner)
	for _, link := range h.match(&subject, domain.RDFSSubClassOf, nil) {
		node := link.Object
		if !node.IsBlank() || !h.has(node, domain.OWLOnProperty, iri(prop)) {
			continue
		}
		for _, kind := range []string{domain.OWLMinCardinality, domain.OWLMaxCardinality, domain.OWLAllValuesFrom} {
			for _, v := range h.match(&node, kind, nil) {
				result[domain.LocalName(kind, domain.OWLNamespace)] = domain.LocalName(v.Object.Value, testNS)
			}
		}
	}
	return result
}

func iri(name string) domain.Term {
	return domain.IRI(testNS + name)
}

func nodeMetaModel() (*domain.Package, *domain.Class, *domain.Feature) {
	p := domain.NewPackage("p", "ns:p")
	node := p.AddClass(domain.NewClass("Node"))
	ref := node.AddReference("ref", node, 0, domain.Unbounded)
	return p, node, ref
}

func TestNewTransformer(t *testing.T) {
	h := newHarness(t, TransformerOptions{})

	for _, root := range []string{RootClassName, PackageRootClassName, EnumRootClassName} {
		assert.True(t, h.has(iri(root), domain.RDFType, domain.IRI(domain.OWLClass)), root)
	}
	assert.Equal(t, 0, h.tr.ProcessedObjects())
	assert.Equal(t, 0, h.tr.ProcessedPackages())
}

func TestNewTransformer_NilStore(t *testing.T) {
	_, err := NewTransformer(context.Background(), nil, TransformerOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransformer_Scenario(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	p, node, ref := nodeMetaModel()

	a := domain.NewObject(node)
	b := domain.NewObject(node)
	a.Set(ref, []*domain.Object{b})
	b.Set(ref, []*domain.Object{a})

	require.NoError(t, h.tr.TransformMetaModel(h.ctx, p))
	require.NoError(t, h.tr.TransformModel(h.ctx, &domain.Model{URI: "nodes.xmi", Contents: []*domain.Object{a, b}}))

	report := h.tr.Report()
	assert.Equal(t, 1, report.Classes)
	assert.Equal(t, 1, report.Properties)
	assert.Equal(t, 2, report.Individuals)
	assert.Equal(t, 2, report.Statements)
	assert.Equal(t, 2, h.tr.ProcessedObjects())

	assert.True(t, h.has(iri("Node"), domain.RDFSSubClassOf, iri(RootClassName)))
	assert.Zero(t, report.Proxies)
	assert.True(t, h.has(iri("ref_-_Node"), domain.RDFType, domain.IRI(domain.OWLObjectProperty)))
	assert.Equal(t, 2, h.count(domain.RDFType, iri("Node")))
	assert.True(t, h.has(iri("Node_t1"), testNS+"ref_-_Node", iri("Node_t2")))
	assert.True(t, h.has(iri("Node_t2"), testNS+"ref_-_Node", iri("Node_t1")))
}

func TestTransformer_CycleTerminates(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	_, node, ref := nodeMetaModel()

	a := domain.NewObject(node)
	b := domain.NewObject(node)
	a.Set(ref, b)
	b.Set(ref, a)

	require.NoError(t, h.tr.TransformModel(h.ctx, &domain.Model{Contents: []*domain.Object{a}}))

	assert.Equal(t, 2, h.tr.ProcessedObjects())
	assert.Equal(t, 2, h.count(domain.RDFType, iri("Node")))
	assert.Equal(t, 2, h.tr.Report().Statements)
}

func TestTransformer_NoDuplicateEdges(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	_, node, ref := nodeMetaModel()

	a := domain.NewObject(node)
	b := domain.NewObject(node)
	c := domain.NewObject(node)
	a.ID, b.ID, c.ID = "a", "b", "c"
	a.Set(ref, []*domain.Object{b, b, c})
	c.Set(ref, []*domain.Object{b})

	require.NoError(t, h.tr.TransformModel(h.ctx, &domain.Model{Contents: []*domain.Object{a, c}}))

	prop := testNS + "ref_-_Node"
	subject := iri("Nodea")
	assert.Len(t, h.match(&subject, prop, nil), 2)
	assert.Equal(t, 3, h.tr.Report().Statements)
}

func TestTransformer_CardinalityMapping(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	p := domain.NewPackage("p", "ns:p")
	c := p.AddClass(domain.NewClass("C"))
	c.AddAttribute("one", eString, 1, 1)
	c.AddAttribute("five", eString, 0, 5)
	c.AddReference("many", c, 2, domain.Unbounded)
	c.AddAttribute("optional", eString, 0, 1)

	require.NoError(t, h.tr.TransformMetaModel(h.ctx, p))

	functional := domain.IRI(domain.OWLFunctionalProperty)
	assert.True(t, h.has(iri("one_-_C"), domain.RDFType, functional))
	assert.Empty(t, h.restrictions("C", "one_-_C"))

	assert.False(t, h.has(iri("five_-_C"), domain.RDFType, functional))
	assert.Equal(t, map[string]string{"maxCardinality": "5"}, h.restrictions("C", "five_-_C"))

	assert.False(t, h.has(iri("many_-_C"), domain.RDFType, functional))
	assert.Equal(t, map[string]string{"minCardinality": "2"}, h.restrictions("C", "many_-_C"))

	assert.Equal(t, map[string]string{"maxCardinality": "1"}, h.restrictions("C", "optional_-_C"))
}

func TestTransformer_AttributeRange(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	p := domain.NewPackage("p", "ns:p")
	c := p.AddClass(domain.NewClass("C"))
	c.AddAttribute("count", &domain.DataType{Name: "EInt"}, 0, 1)
	c.AddAttribute("money", &domain.DataType{Name: "Money", InstanceType: "java.util.Currency"}, 0, 1)
	c.AddAttribute("blob", &domain.DataType{Name: "Variant"}, 0, 1)

	require.NoError(t, h.tr.TransformMetaModel(h.ctx, p))

	assert.True(t, h.has(iri("count_-_C"), domain.RDFSRange, domain.IRI(domain.XSDNamespace+"integer")))
	assert.True(t, h.has(iri("money_-_C"), domain.RDFSRange, domain.IRI(domain.XSDNamespace+"decimal")), "instance type fallback")

	blob := iri("blob_-_C")
	assert.True(t, h.has(blob, domain.RDFType, domain.IRI(domain.OWLDatatypeProperty)))
	assert.Empty(t, h.match(&blob, domain.RDFSRange, nil), "unmapped types stay untyped")

	report := h.tr.Report()
	assert.Equal(t, 1, report.CountDiagnostics(domain.DiagnosticUnmappedType))
	assert.Equal(t, 3, report.Properties)
}

func TestTransformer_ProxyTotality(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	p := domain.NewPackage("p", "ns:p")
	a := p.AddClass(domain.NewClass("A"))
	a.AddReference("other", domain.NewProxyClass("other.ecore#//Foo"), 0, 1)
	a.SuperTypes = []*domain.Class{domain.NewProxyClass("base.ecore#//Base")}

	require.NoError(t, h.tr.TransformMetaModel(h.ctx, p))

	assert.True(t, h.has(iri(ProxyRootClassName), domain.RDFSSubClassOf, iri(RootClassName)))
	assert.True(t, h.has(iri("Foo"), domain.RDFSSubClassOf, iri(ProxyRootClassName)))
	assert.True(t, h.has(iri("Foo"), domain.RDFSComment, domain.PlainLiteral("other.ecore#//Foo", TagNamespace)))
	assert.True(t, h.has(iri("other_-_A"), domain.RDFSRange, iri("Foo")))

	assert.True(t, h.has(iri("A"), domain.RDFSSubClassOf, iri("Base")))
	assert.False(t, h.has(iri("A"), domain.RDFSSubClassOf, iri(RootClassName)))

	report := h.tr.Report()
	assert.Equal(t, 2, report.Proxies)
	assert.Equal(t, 2, report.CountDiagnostics(domain.DiagnosticProxy))
}

func TestTransformer_EnumLiteralShape(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	p := domain.NewPackage("p", "ns:p")
	p.AddEnum(domain.NewEnum("Color", "RED", "GREEN"))

	require.NoError(t, h.tr.TransformMetaModel(h.ctx, p))

	red := iri("Color_RED")
	assert.True(t, h.has(red, domain.RDFType, domain.IRI(domain.OWLNamedIndividual)))
	assert.True(t, h.has(red, domain.RDFType, iri("Color")))
	assert.True(t, h.has(iri("Color"), domain.RDFSSubClassOf, iri(EnumRootClassName)))
	assert.True(t, h.has(iri("Color"), domain.RDFSComment, domain.PlainLiteral("ns:p", TagNamespace)))

	members, err := h.store.Members(h.ctx, domain.ClassRef{IRI: testNS + "Color"})
	require.NoError(t, err)
	assert.Equal(t, []domain.IndividualRef{{IRI: testNS + "Color_RED"}, {IRI: testNS + "Color_GREEN"}}, members)

	assert.True(t, h.has(red, testNS+"ELiteral_-_EEnum", domain.TypedLiteral("RED", domain.DatatypeString)))
	assert.True(t, h.has(red, testNS+"EValue_-_EEnum", domain.TypedLiteral(0, domain.DatatypeInteger)))
	assert.True(t, h.has(iri("EValue_-_EEnum"), domain.RDFSDomain, iri(EnumRootClassName)))
	assert.Equal(t, 1, h.tr.Report().Enums)
}

func TestTransformer_PackageHierarchy(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	root := domain.NewPackage("library", "ns:library")
	media := root.AddSubPackage(domain.NewPackage("media", "ns:library/media"))
	media.AddClass(domain.NewClass("Item"))

	require.NoError(t, h.tr.TransformMetaModel(h.ctx, root))
	require.NoError(t, h.tr.TransformMetaModel(h.ctx, root), "lowering twice is a no-op")

	assert.True(t, h.has(iri("library"), domain.RDFSSubClassOf, iri(PackageRootClassName)))
	assert.True(t, h.has(iri("media"), domain.RDFSSubClassOf, iri("library")))
	assert.True(t, h.has(iri("media"), domain.RDFSComment, domain.PlainLiteral("ns:library/media", TagNamespace)))
	assert.True(t, h.has(iri("Item"), domain.RDFSComment, domain.PlainLiteral("ns:library/media", TagNamespace)))
	assert.Equal(t, 2, h.tr.ProcessedPackages())
	assert.Equal(t, 2, h.tr.Report().Packages)
}

func TestTransformer_SuperTypes(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	p := domain.NewPackage("p", "ns:p")
	book := p.AddClass(domain.NewClass("Book"))
	item := p.AddClass(domain.NewClass("Item"))
	item.Abstract = true
	book.SuperTypes = []*domain.Class{item}

	require.NoError(t, h.tr.TransformMetaModel(h.ctx, p))

	assert.True(t, h.has(iri("Book"), domain.RDFSSubClassOf, iri("Item")))
	assert.False(t, h.has(iri("Book"), domain.RDFSSubClassOf, iri(RootClassName)), "root linkage is replaced")
	assert.True(t, h.has(iri("Item"), domain.RDFSSubClassOf, iri(RootClassName)))
	assert.True(t, h.has(iri("Item"), domain.RDFSComment, domain.PlainLiteral("abstract", TagClassType)))
	assert.Equal(t, 2, h.tr.Report().Classes)
}

func TestTransformer_EnumAttribute(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	p := domain.NewPackage("p", "ns:p")
	genre := p.AddEnum(domain.NewEnum("Genre", "FICTION", "SCIENCE"))
	book := p.AddClass(domain.NewClass("Book"))
	book.AddAttribute("genre", genre, 1, 1)
	book.AddAttribute("tags", genre, 0, domain.Unbounded)

	require.NoError(t, h.tr.TransformMetaModel(h.ctx, p))

	prop := iri("genre_-_Book")
	assert.True(t, h.has(prop, domain.RDFType, domain.IRI(domain.OWLObjectProperty)))
	assert.True(t, h.has(prop, domain.RDFSRange, iri("Genre")))
	assert.True(t, h.has(prop, domain.RDFType, domain.IRI(domain.OWLFunctionalProperty)))
	assert.Equal(t, map[string]string{"allValuesFrom": "Genre"}, h.restrictions("Book", "genre_-_Book"))
	assert.Empty(t, h.restrictions("Book", "tags_-_Book")["maxCardinality"])
	assert.Equal(t, "Genre", h.restrictions("Book", "tags_-_Book")["allValuesFrom"])
}

func TestTransformer_InstanceAttributes(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	p := domain.NewPackage("p", "ns:p")
	book := p.AddClass(domain.NewClass("Book"))
	name := book.AddAttribute("name", eString, 0, 1)
	id := book.AddAttribute("id", eString, 0, 1)
	pages := book.AddAttribute("pages", &domain.DataType{Name: "EInt"}, 0, 1)
	keywords := book.AddAttribute("keywords", eString, 0, domain.Unbounded)
	blob := book.AddAttribute("blob", &domain.DataType{Name: "EJavaObject"}, 0, 1)

	obj := domain.NewObject(book)
	obj.ID = "42"
	obj.Set(name, "Dune")
	obj.Set(id, "b-42")
	obj.Set(pages, 412)
	obj.Set(keywords, []any{"sand", "spice"})
	obj.Set(blob, struct{}{})

	require.NoError(t, h.tr.TransformMetaModel(h.ctx, p))
	require.NoError(t, h.tr.TransformModel(h.ctx, &domain.Model{Contents: []*domain.Object{obj}}))

	ind := iri("Book42")
	assert.True(t, h.has(ind, testNS+"name_-_Book", domain.TypedLiteral("Dune", domain.DatatypeString)))
	assert.True(t, h.has(ind, domain.RDFSLabel, domain.PlainLiteral("Dune", "")))
	assert.True(t, h.has(ind, domain.RDFSComment, domain.PlainLiteral("b-42", TagID)))
	assert.True(t, h.has(ind, testNS+"pages_-_Book", domain.TypedLiteral(412, domain.DatatypeInteger)))
	assert.True(t, h.has(ind, testNS+"keywords_-_Book", domain.TypedLiteral("sand", domain.DatatypeString)))
	assert.True(t, h.has(ind, testNS+"keywords_-_Book", domain.TypedLiteral("spice", domain.DatatypeString)))
	assert.Empty(t, h.match(&ind, testNS+"blob_-_Book", nil), "unmapped values are skipped")

	assert.GreaterOrEqual(t, countDiagnostics(h.tr, domain.DiagnosticUnmappedType), 1)
}

func TestTransformer_EnumFeature(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	p := domain.NewPackage("p", "ns:p")
	genre := p.AddEnum(domain.NewEnum("Genre", "FICTION", "SCIENCE"))
	book := p.AddClass(domain.NewClass("Book"))
	g := book.AddAttribute("genre", genre, 0, domain.Unbounded)

	obj := domain.NewObject(book)
	obj.ID = "1"
	obj.Set(g, []any{genre.Literals[0], "SCIENCE", 0, "POETRY"})

	require.NoError(t, h.tr.TransformMetaModel(h.ctx, p))
	require.NoError(t, h.tr.TransformModel(h.ctx, &domain.Model{Contents: []*domain.Object{obj}}))

	ind := iri("Book1")
	assert.True(t, h.has(ind, testNS+"genre_-_Book", iri("Genre_FICTION")))
	assert.True(t, h.has(ind, testNS+"genre_-_Book", iri("Genre_SCIENCE")))
	assert.False(t, h.has(ind, testNS+"genre_-_Book", iri("Genre_POETRY")))
	poetry := iri("Genre_POETRY")
	assert.Empty(t, h.match(&poetry, domain.RDFType, nil), "unknown labels create no individual")
	assert.Equal(t, 2, h.tr.Report().Statements)
	assert.Equal(t, 1, countDiagnostics(h.tr, domain.DiagnosticMissingValue))
}

func TestLiteralLabel(t *testing.T) {
	genre := domain.NewEnum("Genre", "FICTION", "SCIENCE")

	tests := []struct {
		name  string
		value any
		label string
		ok    bool
	}{
		{"literal", genre.Literals[1], "SCIENCE", true},
		{"label", "FICTION", "FICTION", true},
		{"value", 1, "SCIENCE", true},
		{"unknown label", "POETRY", "", false},
		{"empty label", "", "", false},
		{"unknown value", 7, "", false},
		{"nil literal", (*domain.Literal)(nil), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, ok := literalLabel(genre, tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestTransformer_LazyClassLowering(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	p, node, _ := nodeMetaModel()
	q := p.AddSubPackage(domain.NewPackage("q", "ns:p/q"))
	leaf := q.AddClass(domain.NewClass("Leaf"))

	require.NoError(t, h.tr.TransformModel(h.ctx, &domain.Model{Contents: []*domain.Object{domain.NewObject(leaf), domain.NewObject(node)}}))

	assert.True(t, h.has(iri("Leaf"), domain.RDFType, domain.IRI(domain.OWLClass)))
	assert.True(t, h.has(iri("q"), domain.RDFSSubClassOf, iri("p")))
	assert.True(t, h.has(iri("ref_-_Node"), domain.RDFType, domain.IRI(domain.OWLObjectProperty)))
	assert.Equal(t, 2, h.tr.ProcessedPackages())
}

func TestTransformer_NullValue(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	_, node, ref := nodeMetaModel()

	obj := domain.NewObject(node)
	obj.Set(ref, nil)

	require.NoError(t, h.tr.TransformModel(h.ctx, &domain.Model{Contents: []*domain.Object{obj}}))
	assert.Equal(t, 1, countDiagnostics(h.tr, domain.DiagnosticMissingValue))
	assert.Equal(t, 1, h.tr.ProcessedObjects())
}

func TestTransformer_Conformance(t *testing.T) {
	p, _, _ := nodeMetaModel()
	other := domain.NewPackage("other", "ns:other")
	stranger := other.AddClass(domain.NewClass("Stranger"))

	t.Run("mismatch is a warning", func(t *testing.T) {
		h := newHarness(t, TransformerOptions{CheckConformance: true})
		require.NoError(t, h.tr.TransformMetaModel(h.ctx, p))
		require.NoError(t, h.tr.TransformModel(h.ctx, &domain.Model{Contents: []*domain.Object{domain.NewObject(stranger)}}))
		assert.Equal(t, 1, countDiagnostics(h.tr, domain.DiagnosticConformance))
		assert.Equal(t, 1, h.tr.ProcessedObjects())
	})

	t.Run("disabled", func(t *testing.T) {
		h := newHarness(t, TransformerOptions{})
		require.NoError(t, h.tr.TransformMetaModel(h.ctx, p))
		require.NoError(t, h.tr.TransformModel(h.ctx, &domain.Model{Contents: []*domain.Object{domain.NewObject(stranger)}}))
		assert.Zero(t, countDiagnostics(h.tr, domain.DiagnosticConformance))
	})
}

func TestTransformer_ResolveMetaModel(t *testing.T) {
	h := newHarness(t, TransformerOptions{ResolveMetaModel: true})
	p := domain.NewPackage("p", "ns:p")
	node := p.AddClass(domain.NewClass("Node"))
	p.AddClass(domain.NewClass("Unused"))

	require.NoError(t, h.tr.TransformModel(h.ctx, &domain.Model{Contents: []*domain.Object{domain.NewObject(node)}}))
	assert.True(t, h.has(iri("Unused"), domain.RDFType, domain.IRI(domain.OWLClass)))
}

func TestTransformer_StructuralIdentity(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	p := domain.NewPackage("p", "ns:p")
	tag := p.AddClass(domain.NewClass("Tag"))
	label := tag.AddAttribute("label", eString, 0, 1)

	a := domain.NewObject(tag)
	b := domain.NewObject(tag)
	a.Set(label, "x")
	b.Set(label, "x")

	require.NoError(t, h.tr.TransformModel(h.ctx, &domain.Model{Contents: []*domain.Object{a, b}}))
	assert.Equal(t, 1, h.tr.ProcessedObjects())
	assert.Equal(t, 1, h.count(domain.RDFType, iri("Tag")))
}

func TestTransformer_InvalidInput(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	before, _ := h.triples.Len(h.ctx)

	assert.ErrorIs(t, h.tr.TransformMetaModel(h.ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, h.tr.TransformModel(h.ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, h.tr.TransformMetaModel(h.ctx, domain.NewPackage("", "ns:x")), domain.ErrInvalidInput)

	after, _ := h.triples.Len(h.ctx)
	assert.Equal(t, before, after, "invalid input leaves the store untouched")
}

func TestTransformer_Canceled(t *testing.T) {
	h := newHarness(t, TransformerOptions{})
	_, node, _ := nodeMetaModel()
	ctx, cancel := context.WithCancel(h.ctx)
	cancel()

	err := h.tr.TransformModel(ctx, &domain.Model{Contents: []*domain.Object{domain.NewObject(node)}})
	assert.ErrorIs(t, err, context.Canceled)
}

// countDiagnostics reads the report into an addressable value so the
// pointer-receiver CountDiagnostics can be called on it.
func countDiagnostics(tr *Transformer, kind domain.DiagnosticKind) int {
	report := tr.Report()
	return report.CountDiagnostics(kind)
}
