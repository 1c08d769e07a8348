package cli

import (
	"github.com/spf13/cobra"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

var formatExtensions = map[domain.OutputFormat]string{
	domain.FormatRDFXML:   ".owl .rdf",
	domain.FormatTurtle:   ".ttl",
	domain.FormatNTriples: ".nt",
	domain.FormatJSONLD:   ".jsonld .json",
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List output formats",
	Args:  cobra.NoArgs,
	RunE:  runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, _ []string) error {
	current := domain.DefaultAppSettings().Ontology.Format
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			current = settings.Ontology.Format
		}
	}

	cmd.Println("Output formats:")
	for _, f := range domain.AllOutputFormats() {
		marker := " "
		if f == current {
			marker = "*"
		}
		cmd.Printf(" %s %-9s %-32s %s\n", marker, f, f.Description(), formatExtensions[f])
	}
	cmd.Println()
	cmd.Println("* configured default")
	return nil
}
