package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/core/ports/driven"
	"github.com/kit-sdq/Ecore2OWL/internal/core/ports/driving"
	"github.com/kit-sdq/Ecore2OWL/internal/logger"
)

// Ensure TransformService implements the interface.
var _ driving.TransformService = (*TransformService)(nil)

// TransformService runs end-to-end transformations: load documents, lower
// them into a fresh ontology store and serialize the result.
type TransformService struct {
	loader   driven.ModelLoader
	stores   driven.OntologyStoreFactory
	settings driving.SettingsService
	metrics  driven.MetricsRecorder
	newNamer func() *Namer
}

// NewTransformService creates a new transform service. settings and
// metrics may be nil.
func NewTransformService(
	loader driven.ModelLoader,
	stores driven.OntologyStoreFactory,
	settings driving.SettingsService,
	metrics driven.MetricsRecorder,
) *TransformService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &TransformService{
		loader:   loader,
		stores:   stores,
		settings: settings,
		metrics:  metrics,
		newNamer: NewNamer,
	}
}

// SetNamerFactory replaces how each run names objects.
func (s *TransformService) SetNamerFactory(fn func() *Namer) {
	s.newNamer = fn
}

// Transform loads every meta-model and model of req, lowers them in order
// and writes the ontology.
func (s *TransformService) Transform(ctx context.Context, req domain.TransformRequest) (report *domain.TransformReport, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.loader == nil || s.stores == nil {
		return nil, fmt.Errorf("%w: transform service not configured", domain.ErrInvalidInput)
	}

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		s.metrics.ObserveRun(status, time.Since(start))
	}()

	settings, err := s.effectiveSettings(req)
	if err != nil {
		return nil, err
	}
	format := resolveFormat(req, settings)

	registry := domain.NewRegistry()
	metaModels := make([]*domain.Package, 0, len(req.MetaModels))
	for _, path := range req.MetaModels {
		logger.Info("Loading meta-model %s", path)
		pkg, err := s.loader.LoadMetaModel(ctx, path, registry)
		if err != nil {
			return nil, fmt.Errorf("load meta-model %s: %w", path, err)
		}
		registry.Register(pkg)
		metaModels = append(metaModels, pkg)
	}
	models := make([]*domain.Model, 0, len(req.Models))
	for _, path := range req.Models {
		logger.Info("Loading model %s", path)
		m, err := s.loader.LoadModel(ctx, path, registry)
		if err != nil {
			return nil, fmt.Errorf("load model %s: %w", path, err)
		}
		models = append(models, m)
	}

	store, err := s.stores.Create(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("open ontology store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close ontology store: %w", cerr)
		}
	}()

	t, err := NewTransformer(ctx, store, TransformerOptions{
		Namespace:        settings.Ontology.Namespace,
		CheckConformance: settings.Transform.CheckConformance,
		ResolveMetaModel: settings.Transform.ResolveMetaModel,
		Metrics:          s.metrics,
		Namer:            s.newNamer(),
	})
	if err != nil {
		return nil, err
	}
	for _, pkg := range metaModels {
		if err := t.TransformMetaModel(ctx, pkg); err != nil {
			return nil, fmt.Errorf("transform meta-model %s: %w", pkg.Name, err)
		}
	}
	for _, m := range models {
		if err := t.TransformModel(ctx, m); err != nil {
			return nil, fmt.Errorf("transform model %s: %w", m.URI, err)
		}
	}

	if err := s.write(ctx, store, req, format); err != nil {
		return nil, err
	}

	r := t.Report()
	if r.Triples, err = store.Len(ctx); err != nil {
		return nil, err
	}
	r.Output = req.Output
	r.Format = format
	r.Duration = time.Since(start)
	logger.Info("Wrote %d triples (%d classes, %d individuals)", r.Triples, r.Classes, r.Individuals)
	return &r, nil
}

// SupportedInputs returns the document extensions the loader accepts.
func (s *TransformService) SupportedInputs() []string {
	if s.loader == nil {
		return nil
	}
	return s.loader.SupportedExtensions()
}

func (s *TransformService) effectiveSettings(req domain.TransformRequest) (domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	if s.settings != nil {
		stored, err := s.settings.Get()
		if err != nil {
			return settings, fmt.Errorf("load settings: %w", err)
		}
		settings = *stored
	}
	if req.Namespace != "" {
		settings.Ontology.Namespace = req.Namespace
	}
	if req.ResolveMetaModel != nil {
		settings.Transform.ResolveMetaModel = *req.ResolveMetaModel
	}
	if req.CheckConformance != nil {
		settings.Transform.CheckConformance = *req.CheckConformance
	}
	return settings, nil
}

// resolveFormat prefers an explicit format, then a recognised output
// extension, then the configured default.
func resolveFormat(req domain.TransformRequest, settings domain.AppSettings) domain.OutputFormat {
	if req.Format != "" {
		return req.Format
	}
	if req.Writer == nil && req.Output != "" {
		if f, ok := domain.FormatForExtension(req.Output); ok {
			return f
		}
	}
	if settings.Ontology.Format.IsValid() {
		return settings.Ontology.Format
	}
	return domain.FormatRDFXML
}

func (s *TransformService) write(ctx context.Context, store driven.OntologyStore, req domain.TransformRequest, format domain.OutputFormat) error {
	if req.Writer != nil {
		return store.Export(ctx, req.Writer, format)
	}

	f, err := os.Create(req.Output)
	if err != nil {
		return fmt.Errorf("create %s: %w", req.Output, err)
	}
	if err := store.Export(ctx, f, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
