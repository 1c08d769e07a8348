package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleFormatsResource(t *testing.T) {
	server, err := NewServer(&Ports{Transform: &mockTransformService{}})
	require.NoError(t, err)

	result, err := server.handleFormatsResource(context.Background(), readRequest(uriScheme+"formats"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var formats []formatInfo
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &formats))
	require.Len(t, formats, len(domain.AllOutputFormats()))
	assert.Equal(t, "rdfxml", formats[0].Name)
	assert.NotEmpty(t, formats[0].Description)
}

func TestServer_handleSettingsResource(t *testing.T) {
	ctx := context.Background()
	inputs := []string{".ecore", ".xmi"}

	t.Run("stored settings", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.Ontology.Prefix = "lib"
		settings.Store.Backend = domain.StoreSQLite

		server, err := NewServer(&Ports{
			Transform: &mockTransformService{inputs: inputs},
			Settings:  &mockSettingsService{settings: &settings},
		})
		require.NoError(t, err)

		result, err := server.handleSettingsResource(ctx, readRequest(uriScheme+"settings"))
		require.NoError(t, err)

		var info settingsInfo
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &info))
		assert.Equal(t, "lib", info.Prefix)
		assert.Equal(t, "sqlite", info.StoreBackend)
		assert.Equal(t, inputs, info.Inputs)
	})

	t.Run("defaults without settings service", func(t *testing.T) {
		server, err := NewServer(&Ports{Transform: &mockTransformService{inputs: inputs}})
		require.NoError(t, err)

		result, err := server.handleSettingsResource(ctx, readRequest(uriScheme+"settings"))
		require.NoError(t, err)

		var info settingsInfo
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &info))
		defaults := domain.DefaultAppSettings()
		assert.Equal(t, defaults.Ontology.Namespace, info.Namespace)
		assert.Equal(t, defaults.Watch.DebounceMillis, info.DebounceMillis)
		assert.True(t, info.CheckConformance)
	})

	t.Run("settings error", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Transform: &mockTransformService{},
			Settings:  &mockSettingsService{err: errors.New("disk on fire")},
		})
		require.NoError(t, err)

		_, err = server.handleSettingsResource(ctx, readRequest(uriScheme+"settings"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk on fire")
	})
}
