package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// TransformInput is the input schema for the transform tool.
type TransformInput struct {
	MetaModels       []string `json:"meta_models,omitempty" jsonschema:"meta-model files (.ecore, .yaml, .json), lowered in order"`
	Models           []string `json:"models,omitempty" jsonschema:"instance model files (.xmi, .yaml, .json), lowered after the meta-models"`
	Output           string   `json:"output,omitempty" jsonschema:"file to write; when empty the ontology is returned inline"`
	Format           string   `json:"format,omitempty" jsonschema:"rdfxml, turtle, ntriples or jsonld"`
	Namespace        string   `json:"namespace,omitempty" jsonschema:"namespace of generated names, overriding the configured one"`
	ResolveMetaModel *bool    `json:"resolve_meta_model,omitempty" jsonschema:"lower the meta-model of each model before the model"`
	CheckConformance *bool    `json:"check_conformance,omitempty" jsonschema:"report model objects outside the lowered meta-models"`
}

// TransformOutput is the output schema for the transform tool.
type TransformOutput struct {
	Report   *domain.TransformReport `json:"report"`
	Ontology string                  `json:"ontology,omitempty"`
}

// DatatypeInput is the input schema for the lookup_datatype tool.
type DatatypeInput struct {
	TypeName string `json:"type_name" jsonschema:"primitive type name such as EInt or java.lang.String"`
}

// DatatypeOutput is the output schema for the lookup_datatype tool.
type DatatypeOutput struct {
	TypeName string `json:"type_name"`
	Mapped   bool   `json:"mapped"`
	Datatype string `json:"datatype"`
	IRI      string `json:"iri,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "transform",
		Description: "Lower Ecore meta-models and instance models into an OWL ontology",
	}, s.handleTransform)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "lookup_datatype",
		Description: "Show the XML Schema datatype a primitive type name maps to",
	}, s.handleLookupDatatype)
}

// handleTransform handles the transform tool invocation.
func (s *Server) handleTransform(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TransformInput,
) (*mcp.CallToolResult, TransformOutput, error) {
	req := domain.TransformRequest{
		MetaModels:       input.MetaModels,
		Models:           input.Models,
		Output:           input.Output,
		Format:           domain.OutputFormat(input.Format),
		Namespace:        input.Namespace,
		ResolveMetaModel: input.ResolveMetaModel,
		CheckConformance: input.CheckConformance,
	}

	var buf bytes.Buffer
	if input.Output == "" {
		req.Writer = &buf
	}

	report, err := s.ports.Transform.Transform(ctx, req)
	if err != nil {
		return nil, TransformOutput{}, fmt.Errorf("transform: %w", err)
	}

	return nil, TransformOutput{Report: report, Ontology: buf.String()}, nil
}

// handleLookupDatatype handles the lookup_datatype tool invocation.
func (s *Server) handleLookupDatatype(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DatatypeInput,
) (*mcp.CallToolResult, DatatypeOutput, error) {
	if input.TypeName == "" {
		return nil, DatatypeOutput{}, fmt.Errorf("%w: type_name is required", domain.ErrInvalidInput)
	}

	dt := domain.DatatypeFor(&domain.DataType{Name: input.TypeName, InstanceType: input.TypeName})
	return nil, DatatypeOutput{
		TypeName: input.TypeName,
		Mapped:   dt.IsMapped(),
		Datatype: dt.String(),
		IRI:      dt.IRI(),
	}, nil
}
