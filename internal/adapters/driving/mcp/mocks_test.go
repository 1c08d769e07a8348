package mcp

import (
	"context"
	"io"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// mockTransformService is a mock implementation of driving.TransformService.
type mockTransformService struct {
	report   *domain.TransformReport
	ontology string
	inputs   []string
	err      error

	requests []domain.TransformRequest
}

func (m *mockTransformService) Transform(_ context.Context, req domain.TransformRequest) (*domain.TransformReport, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if req.Writer != nil {
		if _, err := io.WriteString(req.Writer, m.ontology); err != nil {
			return nil, err
		}
	}
	return m.report, nil
}

func (m *mockTransformService) SupportedInputs() []string {
	return m.inputs
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) Set(_, _ string) error { return m.err }

func (m *mockSettingsService) Reset(_ string) error { return m.err }

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) Validate() error { return m.err }

func (m *mockSettingsService) Path() string { return ":mock:" }
