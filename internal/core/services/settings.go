package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/core/ports/driven"
	"github.com/kit-sdq/Ecore2OWL/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyNamespace        = "ontology.namespace"
	keyPrefix           = "ontology.prefix"
	keyFormat           = "ontology.format"
	keyStoreBackend     = "store.backend"
	keyStorePath        = "store.path"
	keyStoreReset       = "store.reset"
	keyCheckConformance = "transform.check_conformance"
	keyResolveMetaModel = "transform.resolve_metamodel"
	keyWatchDebounce    = "watch.debounce_ms"
)

var settingKeys = []string{
	keyNamespace,
	keyPrefix,
	keyFormat,
	keyStoreBackend,
	keyStorePath,
	keyStoreReset,
	keyCheckConformance,
	keyResolveMetaModel,
	keyWatchDebounce,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Ontology: domain.OntologySettings{
			Namespace: s.getString(keyNamespace, defaults.Ontology.Namespace),
			Prefix:    s.getString(keyPrefix, defaults.Ontology.Prefix),
			Format:    s.getFormat(defaults.Ontology.Format),
		},
		Store: domain.StoreSettings{
			Backend: s.getBackend(defaults.Store.Backend),
			Path:    s.configStore.GetString(keyStorePath), // empty selects the default location
			Reset:   s.getBool(keyStoreReset, defaults.Store.Reset),
		},
		Transform: domain.TransformSettings{
			CheckConformance: s.getBool(keyCheckConformance, defaults.Transform.CheckConformance),
			ResolveMetaModel: s.getBool(keyResolveMetaModel, defaults.Transform.ResolveMetaModel),
		},
		Watch: domain.WatchSettings{
			DebounceMillis: s.getInt(keyWatchDebounce, defaults.Watch.DebounceMillis),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyNamespace, settings.Ontology.Namespace},
		{keyPrefix, settings.Ontology.Prefix},
		{keyFormat, settings.Ontology.Format.String()},
		{keyStoreBackend, settings.Store.Backend.String()},
		{keyStorePath, settings.Store.Path},
		{keyStoreReset, settings.Store.Reset},
		{keyCheckConformance, settings.Transform.CheckConformance},
		{keyResolveMetaModel, settings.Transform.ResolveMetaModel},
		{keyWatchDebounce, settings.Watch.DebounceMillis},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set updates one setting from its string form and persists it.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case keyNamespace:
		if value == "" {
			return fmt.Errorf("%w: namespace must not be empty", domain.ErrInvalidInput)
		}
		settings.Ontology.Namespace = value
	case keyPrefix:
		settings.Ontology.Prefix = value
	case keyFormat:
		format := domain.OutputFormat(strings.ToLower(value))
		if !format.IsValid() {
			return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, value)
		}
		settings.Ontology.Format = format
	case keyStoreBackend:
		backend := domain.StoreBackend(strings.ToLower(value))
		if !backend.IsValid() {
			return fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, value)
		}
		settings.Store.Backend = backend
	case keyStorePath:
		settings.Store.Path = value
	case keyStoreReset:
		if settings.Store.Reset, err = parseBool(key, value); err != nil {
			return err
		}
	case keyCheckConformance:
		if settings.Transform.CheckConformance, err = parseBool(key, value); err != nil {
			return err
		}
	case keyResolveMetaModel:
		if settings.Transform.ResolveMetaModel, err = parseBool(key, value); err != nil {
			return err
		}
	case keyWatchDebounce:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		settings.Watch.DebounceMillis = n
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrNotFound, key)
	}

	return s.Save(settings)
}

// Reset removes a stored setting so its default applies again.
func (s *SettingsService) Reset(key string) error {
	for _, known := range settingKeys {
		if known == key {
			return s.configStore.Delete(key)
		}
	}
	return fmt.Errorf("%w: unknown setting %q", domain.ErrNotFound, key)
}

// Keys returns all known setting keys.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Validate checks that the stored settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Ontology.Namespace == "" {
		return fmt.Errorf("%w: namespace must not be empty", domain.ErrInvalidInput)
	}
	if raw := s.configStore.GetString(keyFormat); raw != "" && !domain.OutputFormat(raw).IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, raw)
	}
	if raw := s.configStore.GetString(keyStoreBackend); raw != "" && !domain.StoreBackend(raw).IsValid() {
		return fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, raw)
	}
	if settings.Watch.DebounceMillis <= 0 {
		return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, keyWatchDebounce)
	}
	return nil
}

// Path returns where settings are persisted.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getFormat(defaultVal domain.OutputFormat) domain.OutputFormat {
	format := domain.OutputFormat(s.configStore.GetString(keyFormat))
	if !format.IsValid() {
		return defaultVal
	}
	return format
}

func (s *SettingsService) getBackend(defaultVal domain.StoreBackend) domain.StoreBackend {
	backend := domain.StoreBackend(s.configStore.GetString(keyStoreBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
	}
	return b, nil
}
