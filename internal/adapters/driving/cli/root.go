// Package cli provides the ecore2owl command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/kit-sdq/Ecore2OWL/internal/core/ports/driving"
	"github.com/kit-sdq/Ecore2OWL/internal/logger"
)

var (
	version = "dev"

	transformService driving.TransformService
	settingsService  driving.SettingsService
	metricsHandler   http.Handler
	serviceFactory   ServiceFactory

	verbose  bool
	quiet    bool
	noConfig bool
)

var errTransformNotConfigured = errors.New("transform service not configured")
var errSettingsNotConfigured = errors.New("settings service not configured")

// Options are the root flags that influence how services are built.
type Options struct {
	// NoConfig keeps settings in memory instead of reading the config file.
	NoConfig bool
}

// Services are the core services the commands drive.
type Services struct {
	Transform driving.TransformService
	Settings  driving.SettingsService

	// Metrics is served on /metrics by "mcp serve --port". Optional.
	Metrics http.Handler
}

// ServiceFactory builds the services once the root flags are parsed.
type ServiceFactory func(opts Options) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "ecore2owl",
	Short: "Transform Ecore meta-models and models into OWL ontologies",
	Long: `ecore2owl lowers Ecore meta-models (packages, classes, attributes,
references, enumerations) and their instance models into an OWL ontology.

Meta-models are read from .ecore files or YAML/JSON documents; models from
XMI or YAML/JSON documents. The ontology is written as RDF/XML, Turtle,
N-Triples or JSON-LD.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug and progress output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress warnings")
	rootCmd.PersistentFlags().BoolVar(&noConfig, "no-config", false, "ignore the config file and use defaults")
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetQuiet(quiet)

	if serviceFactory == nil || transformService != nil {
		return nil
	}
	s, err := serviceFactory(Options{NoConfig: noConfig})
	if err != nil {
		return fmt.Errorf("initialise services: %w", err)
	}
	SetServices(s)
	return nil
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetServiceFactory registers how services are built on first use.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// SetServices injects ready-made services.
func SetServices(s *Services) {
	if s == nil {
		transformService, settingsService, metricsHandler = nil, nil, nil
		return
	}
	transformService = s.Transform
	settingsService = s.Settings
	metricsHandler = s.Metrics
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
