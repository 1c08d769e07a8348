package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kit-sdq/Ecore2OWL/internal/adapters/driven/owl"
	"github.com/kit-sdq/Ecore2OWL/internal/adapters/driven/storage/memory"
	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/core/ports/driven"
)

// fakeLoader serves prebuilt documents by path.
type fakeLoader struct {
	metaModels map[string]*domain.Package
	models     map[string]func(*domain.Registry) *domain.Model
}

func (l *fakeLoader) LoadMetaModel(_ context.Context, path string, _ *domain.Registry) (*domain.Package, error) {
	pkg, ok := l.metaModels[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return pkg, nil
}

func (l *fakeLoader) LoadModel(_ context.Context, path string, registry *domain.Registry) (*domain.Model, error) {
	build, ok := l.models[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return build(registry), nil
}

func (l *fakeLoader) SupportedExtensions() []string {
	return []string{".ecore", ".xmi"}
}

type recordingMetrics struct {
	mu          sync.Mutex
	artifacts   map[string]int
	diagnostics map[string]int
	runs        []string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{artifacts: map[string]int{}, diagnostics: map[string]int{}}
}

func (m *recordingMetrics) IncArtifact(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifacts[kind]++
}

func (m *recordingMetrics) IncDiagnostic(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diagnostics[kind]++
}

func (m *recordingMetrics) ObserveRun(status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, status)
}

func nodeLoader() *fakeLoader {
	p, node, ref := nodeMetaModel()
	return &fakeLoader{
		metaModels: map[string]*domain.Package{"node.ecore": p},
		models: map[string]func(*domain.Registry) *domain.Model{
			"nodes.xmi": func(*domain.Registry) *domain.Model {
				a := domain.NewObject(node)
				b := domain.NewObject(node)
				a.Set(ref, b)
				b.Set(ref, a)
				return &domain.Model{URI: "nodes.xmi", Contents: []*domain.Object{a, b}}
			},
		},
	}
}

func newTestTransformService(loader *fakeLoader, metrics *recordingMetrics) *TransformService {
	settings := NewSettingsService(memory.NewConfigStore())
	_ = settings.Set("ontology.namespace", testNS)
	var recorder driven.MetricsRecorder
	if metrics != nil {
		recorder = metrics
	}
	service := NewTransformService(loader, owl.NewFactory(), settings, recorder)
	service.SetNamerFactory(func() *Namer { return NewNamerWithTokens(counterTokens()) })
	return service
}

func TestTransformService_Transform_Writer(t *testing.T) {
	metrics := newRecordingMetrics()
	service := newTestTransformService(nodeLoader(), metrics)

	var buf bytes.Buffer
	report, err := service.Transform(context.Background(), domain.TransformRequest{
		MetaModels: []string{"node.ecore"},
		Models:     []string{"nodes.xmi"},
		Writer:     &buf,
		Format:     domain.FormatNTriples,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Classes)
	assert.Equal(t, 2, report.Individuals)
	assert.Equal(t, 2, report.Statements)
	assert.Equal(t, domain.FormatNTriples, report.Format)
	assert.Equal(t, len(strings.Split(strings.TrimSpace(buf.String()), "\n")), report.Triples)
	assert.Contains(t, buf.String(), "<"+testNS+"Node-1> <"+testNS+"ref_-_Node> <"+testNS+"Node-2> .")

	assert.Equal(t, []string{"success"}, metrics.runs)
	assert.Equal(t, 2, metrics.artifacts["individual"])
}

func TestTransformService_Transform_OutputFile(t *testing.T) {
	service := newTestTransformService(nodeLoader(), nil)
	dir := t.TempDir()

	tests := []struct {
		name   string
		output string
		format domain.OutputFormat
		want   domain.OutputFormat
		marker string
	}{
		{"extension picks turtle", "out.ttl", "", domain.FormatTurtle, "@prefix"},
		{"default is rdfxml", "out.owl", "", domain.FormatRDFXML, "<rdf:RDF"},
		{"explicit format wins", "out.owl", domain.FormatJSONLD, domain.FormatJSONLD, "@graph"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.output)
			report, err := service.Transform(context.Background(), domain.TransformRequest{
				MetaModels: []string{"node.ecore"},
				Output:     path,
				Format:     tt.format,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Format)
			assert.Equal(t, path, report.Output)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.marker)
		})
	}
}

func TestTransformService_Transform_UnknownExtensionUsesSetting(t *testing.T) {
	settings := NewSettingsService(memory.NewConfigStore())
	require.NoError(t, settings.Set("ontology.namespace", testNS))
	require.NoError(t, settings.Set("ontology.format", "turtle"))
	service := NewTransformService(nodeLoader(), owl.NewFactory(), settings, nil)

	path := filepath.Join(t.TempDir(), "out.txt")
	report, err := service.Transform(context.Background(), domain.TransformRequest{
		MetaModels: []string{"node.ecore"},
		Output:     path,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FormatTurtle, report.Format)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "@prefix")
	assert.NotContains(t, string(data), "<rdf:RDF")
}

func TestTransformService_Transform_Overrides(t *testing.T) {
	service := newTestTransformService(nodeLoader(), nil)
	off := false

	var buf bytes.Buffer
	_, err := service.Transform(context.Background(), domain.TransformRequest{
		MetaModels:       []string{"node.ecore"},
		Writer:           &buf,
		Format:           domain.FormatNTriples,
		Namespace:        "urn:other#",
		CheckConformance: &off,
	})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<urn:other#Node>")
	assert.NotContains(t, buf.String(), testNS)
}

func TestTransformService_Transform_InvalidRequest(t *testing.T) {
	metrics := newRecordingMetrics()
	service := newTestTransformService(nodeLoader(), metrics)

	_, err := service.Transform(context.Background(), domain.TransformRequest{Output: "x.owl"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Transform(context.Background(), domain.TransformRequest{Models: []string{"nodes.xmi"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, metrics.runs, "rejected requests are not runs")
}

func TestTransformService_Transform_LoadError(t *testing.T) {
	metrics := newRecordingMetrics()
	service := newTestTransformService(nodeLoader(), metrics)

	_, err := service.Transform(context.Background(), domain.TransformRequest{
		MetaModels: []string{"missing.ecore"},
		Writer:     &bytes.Buffer{},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Contains(t, err.Error(), "missing.ecore")
	assert.Equal(t, []string{"error"}, metrics.runs)
}

func TestTransformService_Transform_NotConfigured(t *testing.T) {
	service := NewTransformService(nil, nil, nil, nil)

	_, err := service.Transform(context.Background(), domain.TransformRequest{
		Models: []string{"nodes.xmi"},
		Writer: &bytes.Buffer{},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, service.SupportedInputs())
}

func TestTransformService_SupportedInputs(t *testing.T) {
	service := newTestTransformService(nodeLoader(), nil)
	assert.Equal(t, []string{".ecore", ".xmi"}, service.SupportedInputs())
}

func TestResolveFormat(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Ontology.Format = domain.FormatTurtle

	assert.Equal(t, domain.FormatJSONLD, resolveFormat(domain.TransformRequest{Format: domain.FormatJSONLD, Output: "a.nt"}, settings))
	assert.Equal(t, domain.FormatNTriples, resolveFormat(domain.TransformRequest{Output: "a.nt"}, settings))
	assert.Equal(t, domain.FormatRDFXML, resolveFormat(domain.TransformRequest{Output: "a.owl"}, settings))
	assert.Equal(t, domain.FormatTurtle, resolveFormat(domain.TransformRequest{Output: "a.txt"}, settings))
	assert.Equal(t, domain.FormatTurtle, resolveFormat(domain.TransformRequest{Output: "noext"}, settings))
	assert.Equal(t, domain.FormatTurtle, resolveFormat(domain.TransformRequest{Writer: &bytes.Buffer{}}, settings))
}
