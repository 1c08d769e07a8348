package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

func TestServer_handleTransform(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the ontology inline", func(t *testing.T) {
		mock := &mockTransformService{
			report:   &domain.TransformReport{Classes: 2, Individuals: 3, Format: domain.FormatTurtle},
			ontology: "@prefix model: <http://example.org/onto#> .\n",
		}
		server, err := NewServer(&Ports{Transform: mock})
		require.NoError(t, err)

		resolve := true
		_, output, err := server.handleTransform(ctx, nil, TransformInput{
			MetaModels:       []string{"library.ecore"},
			Models:           []string{"library.xmi"},
			Format:           "turtle",
			Namespace:        "http://example.org/onto#",
			ResolveMetaModel: &resolve,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Report.Classes)
		assert.Equal(t, mock.ontology, output.Ontology)

		require.Len(t, mock.requests, 1)
		req := mock.requests[0]
		assert.Equal(t, []string{"library.ecore"}, req.MetaModels)
		assert.Equal(t, []string{"library.xmi"}, req.Models)
		assert.Equal(t, domain.FormatTurtle, req.Format)
		assert.Equal(t, "http://example.org/onto#", req.Namespace)
		assert.NotNil(t, req.Writer)
		assert.Same(t, &resolve, req.ResolveMetaModel)
		assert.Nil(t, req.CheckConformance)
	})

	t.Run("writes to a file when output is given", func(t *testing.T) {
		mock := &mockTransformService{
			report:   &domain.TransformReport{Output: "out.owl"},
			ontology: "unused",
		}
		server, err := NewServer(&Ports{Transform: mock})
		require.NoError(t, err)

		_, output, err := server.handleTransform(ctx, nil, TransformInput{MetaModels: []string{"a.ecore"}, Output: "out.owl"})

		require.NoError(t, err)
		assert.Empty(t, output.Ontology)
		assert.Equal(t, "out.owl", output.Report.Output)
		require.Len(t, mock.requests, 1)
		assert.Nil(t, mock.requests[0].Writer)
		assert.Equal(t, "out.owl", mock.requests[0].Output)
	})

	t.Run("returns error on transform failure", func(t *testing.T) {
		mock := &mockTransformService{err: domain.ErrNotFound}
		server, err := NewServer(&Ports{Transform: mock})
		require.NoError(t, err)

		_, _, err = server.handleTransform(ctx, nil, TransformInput{MetaModels: []string{"missing.ecore"}})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestServer_handleLookupDatatype(t *testing.T) {
	server, err := NewServer(&Ports{Transform: &mockTransformService{}})
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		typeName string
		mapped   bool
		datatype string
		iri      string
	}{
		{typeName: "EInt", mapped: true, datatype: "xsd:integer", iri: domain.XSDNamespace + "integer"},
		{typeName: "java.lang.String", mapped: true, datatype: "xsd:string", iri: domain.XSDNamespace + "string"},
		{typeName: "double", mapped: true, datatype: "xsd:double", iri: domain.XSDNamespace + "double"},
		{typeName: "Variant", mapped: false, datatype: "unmapped"},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			_, output, err := server.handleLookupDatatype(ctx, nil, DatatypeInput{TypeName: tt.typeName})
			require.NoError(t, err)
			assert.Equal(t, tt.typeName, output.TypeName)
			assert.Equal(t, tt.mapped, output.Mapped)
			assert.Equal(t, tt.datatype, output.Datatype)
			assert.Equal(t, tt.iri, output.IRI)
		})
	}

	t.Run("empty name", func(t *testing.T) {
		_, _, err := server.handleLookupDatatype(ctx, nil, DatatypeInput{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
