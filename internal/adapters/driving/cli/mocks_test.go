package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// mockTransformService is a mock implementation of driving.TransformService.
type mockTransformService struct {
	report   *domain.TransformReport
	ontology string
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
	report := m.report
	if report == nil {
		report = &domain.TransformReport{}
	}
	return report, nil
}

func (m *mockTransformService) SupportedInputs() []string {
	return []string{".ecore", ".xmi", ".yaml"}
}

func (m *mockTransformService) lastRequest() domain.TransformRequest {
	if len(m.requests) == 0 {
		return domain.TransformRequest{}
	}
	return m.requests[len(m.requests)-1]
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    *domain.AppSettings
	validateErr error

	set   map[string]string
	reset []string
	saved *domain.AppSettings
}

func newMockSettingsService() *mockSettingsService {
	s := domain.DefaultAppSettings()
	return &mockSettingsService{settings: &s, set: make(map[string]string)}
}

var mockKeys = []string{"ontology.format", "ontology.namespace", "store.backend"}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	copied := *m.settings
	return &copied, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.saved = settings
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if !m.known(key) {
		return domain.ErrNotFound
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Reset(key string) error {
	if !m.known(key) {
		return domain.ErrNotFound
	}
	m.reset = append(m.reset, key)
	return nil
}

func (m *mockSettingsService) known(key string) bool {
	for _, k := range mockKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (m *mockSettingsService) Keys() []string { return mockKeys }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) Path() string { return "/home/test/.ecore2owl/config.toml" }

// withServices installs mock services for the duration of a test.
func withServices(t *testing.T, transform *mockTransformService, settings *mockSettingsService) {
	t.Helper()
	s := &Services{}
	if transform != nil {
		s.Transform = transform
	}
	if settings != nil {
		s.Settings = settings
	}
	SetServices(s)
	t.Cleanup(func() { SetServices(nil) })
}

// execute runs the root command with args and returns everything written
// to stdout and stderr.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	return executeContext(context.Background(), t, input, args...)
}

func executeContext(ctx context.Context, t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

// resetFlags restores every flag to its default so that values do not leak
// from one execution into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if s, ok := f.Value.(pflag.SliceValue); ok {
			_ = s.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
