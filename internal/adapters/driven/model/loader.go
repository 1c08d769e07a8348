package model

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/core/ports/driven"
	"github.com/kit-sdq/Ecore2OWL/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.ModelLoader = (*Loader)(nil)

// Document extensions.
const (
	extEcore = ".ecore"
	extXMI   = ".xmi"
	extXML   = ".xml"
	extYAML  = ".yaml"
	extYML   = ".yml"
	extJSON  = ".json"
)

// Loader reads documents from the local filesystem.
type Loader struct{}

// NewLoader creates a new document loader.
func NewLoader() *Loader {
	return &Loader{}
}

// SupportedExtensions returns the file extensions the loader accepts.
// Models with any other extension are read as XMI.
func (l *Loader) SupportedExtensions() []string {
	return []string{extEcore, extXMI, extXML, extYAML, extYML, extJSON}
}

// LoadMetaModel reads an Ecore or YAML meta-model. The package is aliased
// in registry under its file name so later documents can refer to it as
// "<file>#//<Name>".
func (l *Loader) LoadMetaModel(ctx context.Context, path string, registry *domain.Registry) (*domain.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if registry == nil {
		registry = domain.NewRegistry()
	}

	var parse func([]byte, *resolver) (*domain.Package, error)
	switch ext := extension(path); ext {
	case extEcore:
		parse = parseEcore
	case extYAML, extYML, extJSON:
		parse = parseYAMLPackage
	default:
		return nil, fmt.Errorf("%w: meta-model %s (want .ecore, .yaml or .json)", domain.ErrUnsupportedType, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	pkg, err := parse(data, newResolver(registry))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	registry.Alias(filepath.Base(path), pkg)
	logger.Debug("Loaded meta-model %s (%s, %d sub-packages)", pkg.Name, pkg.NsURI, len(pkg.AllPackages())-1)
	return pkg, nil
}

// LoadModel reads an XMI or YAML instance document whose classes resolve
// through registry.
func (l *Loader) LoadModel(ctx context.Context, path string, registry *domain.Registry) (*domain.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if registry == nil {
		registry = domain.NewRegistry()
	}

	var parse func([]byte, string, *domain.Registry) (*domain.Model, error)
	switch extension(path) {
	case extEcore:
		return nil, fmt.Errorf("%w: %s is a meta-model", domain.ErrUnsupportedType, path)
	case extYAML, extYML, extJSON:
		parse = parseYAMLModel
	default:
		parse = parseXMI
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	m, err := parse(data, path, registry)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	logger.Debug("Loaded model %s (%d top-level objects)", path, len(m.Contents))
	return m, nil
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
