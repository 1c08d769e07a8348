package driving

import "github.com/kit-sdq/Ecore2OWL/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting from its string form.
	// Returns domain.ErrNotFound for unknown keys and
	// domain.ErrInvalidInput for values that do not parse.
	Set(key, value string) error

	// Reset restores a single setting to its default.
	// Returns domain.ErrNotFound for unknown keys.
	Reset(key string) error

	// Keys returns all known setting keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Validate checks that the stored settings are usable.
	Validate() error

	// Path returns where settings are persisted.
	Path() string
}
