package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// uriScheme is the custom URI scheme for ecore2owl resources.
const uriScheme = "ecore2owl://"

type formatInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type settingsInfo struct {
	Namespace        string   `json:"namespace"`
	Prefix           string   `json:"prefix"`
	Format           string   `json:"format"`
	StoreBackend     string   `json:"store_backend"`
	StorePath        string   `json:"store_path,omitempty"`
	StoreReset       bool     `json:"store_reset"`
	CheckConformance bool     `json:"check_conformance"`
	ResolveMetaModel bool     `json:"resolve_meta_model"`
	DebounceMillis   int      `json:"watch_debounce_ms"`
	Inputs           []string `json:"inputs"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "formats",
		Name:        "formats",
		Description: "Ontology serialization formats",
		MIMEType:    "application/json",
	}, s.handleFormatsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Effective configuration and accepted input extensions",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

// handleFormatsResource lists the output formats.
func (s *Server) handleFormatsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	formats := domain.AllOutputFormats()
	infos := make([]formatInfo, len(formats))
	for i, f := range formats {
		infos[i] = formatInfo{Name: f.String(), Description: f.Description()}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleSettingsResource reports the settings a transform would use.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	settings := domain.DefaultAppSettings()
	if s.ports.Settings != nil {
		stored, err := s.ports.Settings.Get()
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
		settings = *stored
	}

	return jsonResource(req.Params.URI, settingsInfo{
		Namespace:        settings.Ontology.Namespace,
		Prefix:           settings.Ontology.Prefix,
		Format:           settings.Ontology.Format.String(),
		StoreBackend:     settings.Store.Backend.String(),
		StorePath:        settings.Store.Path,
		StoreReset:       settings.Store.Reset,
		CheckConformance: settings.Transform.CheckConformance,
		ResolveMetaModel: settings.Transform.ResolveMetaModel,
		DebounceMillis:   settings.Watch.DebounceMillis,
		Inputs:           s.ports.Transform.SupportedInputs(),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
