package mcp

import (
	"github.com/kit-sdq/Ecore2OWL/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	// Transform runs transformations.
	Transform driving.TransformService

	// Settings exposes the configuration. Optional; defaults are reported
	// when nil.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Transform == nil {
		return ErrMissingTransformService
	}
	return nil
}
