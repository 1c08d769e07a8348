// Package mcp provides an MCP (Model Context Protocol) server adapter for
// ecore2owl. It lets AI assistants lower Ecore models into OWL ontologies.
package mcp

import "errors"

// ErrMissingTransformService is returned when the transform service is not provided.
var ErrMissingTransformService = errors.New("mcp: transform service is required")
