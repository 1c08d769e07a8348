// Command ecore2owl transforms Ecore meta-models and models into OWL
// ontologies.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kit-sdq/Ecore2OWL/internal/adapters/driven/config/file"
	"github.com/kit-sdq/Ecore2OWL/internal/adapters/driven/metrics"
	"github.com/kit-sdq/Ecore2OWL/internal/adapters/driven/model"
	"github.com/kit-sdq/Ecore2OWL/internal/adapters/driven/owl"
	"github.com/kit-sdq/Ecore2OWL/internal/adapters/driven/storage/memory"
	"github.com/kit-sdq/Ecore2OWL/internal/adapters/driving/cli"
	"github.com/kit-sdq/Ecore2OWL/internal/core/ports/driven"
	"github.com/kit-sdq/Ecore2OWL/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cli.SetVersion(version)
	cli.SetServiceFactory(newServices)

	if err := cli.Execute(context.Background()); err != nil {
		return 1
	}
	return 0
}

// newServices wires the adapters into the core services.
func newServices(opts cli.Options) (*cli.Services, error) {
	var configStore driven.ConfigStore
	if opts.NoConfig {
		configStore = memory.NewConfigStore()
	} else {
		store, err := file.NewConfigStore("")
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		configStore = store
	}

	settings := services.NewSettingsService(configStore)
	recorder := metrics.NewRecorder(true)
	transform := services.NewTransformService(model.NewLoader(), owl.NewFactory(), settings, recorder)

	return &cli.Services{
		Transform: transform,
		Settings:  settings,
		Metrics:   recorder.Handler(),
	}, nil
}
