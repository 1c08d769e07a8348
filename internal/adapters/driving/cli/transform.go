package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// transformFlags are shared by the transform and watch commands.
type transformFlags struct {
	metaModels       []string
	models           []string
	output           string
	format           string
	namespace        string
	resolveMetaModel bool
	checkConformance bool
	json             bool
}

var transformOpts transformFlags

var transformCmd = &cobra.Command{
	Use:   "transform [model...]",
	Short: "Transform meta-models and models into an ontology",
	Long: `Loads the given meta-models and models, lowers them into a fresh
ontology and writes it.

Meta-models are lowered first, in the order given; positional arguments
are treated as additional models. Without --output the ontology is
written to stdout and the summary to stderr.

The format is taken from --format, else from the output file extension
(.owl/.rdf, .ttl, .nt, .jsonld), else from the configured default.
Interactive stdout defaults to Turtle.

Examples:
  ecore2owl transform -m library.ecore -o library.owl
  ecore2owl transform -m library.ecore library.xmi -o library.ttl
  ecore2owl transform -m shop.yaml --model orders.json --format jsonld`,
	RunE: runTransform,
}

func init() {
	addTransformFlags(transformCmd, &transformOpts)
	transformCmd.Flags().BoolVar(&transformOpts.json, "json", false, "print the report as JSON")
	rootCmd.AddCommand(transformCmd)
}

func addTransformFlags(cmd *cobra.Command, f *transformFlags) {
	cmd.Flags().StringArrayVarP(&f.metaModels, "metamodel", "m", nil, "meta-model document (repeatable)")
	cmd.Flags().StringArrayVarP(&f.models, "model", "i", nil, "model document (repeatable)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format (rdfxml, turtle, ntriples, jsonld)")
	cmd.Flags().StringVar(&f.namespace, "namespace", "", "namespace of generated names")
	cmd.Flags().BoolVar(&f.resolveMetaModel, "resolve-metamodel", false, "lower the meta-model of each model first")
	cmd.Flags().BoolVar(&f.checkConformance, "check-conformance", true, "warn about objects outside the meta-model")
}

// request builds a transform request from the parsed flags. Boolean
// overrides are only set when the flag was given, so configured values
// apply otherwise.
func (f *transformFlags) request(cmd *cobra.Command, args []string) domain.TransformRequest {
	req := domain.TransformRequest{
		MetaModels: f.metaModels,
		Models:     append(append([]string{}, f.models...), args...),
		Output:     f.output,
		Format:     domain.OutputFormat(f.format),
		Namespace:  f.namespace,
	}
	if cmd.Flags().Changed("resolve-metamodel") {
		v := f.resolveMetaModel
		req.ResolveMetaModel = &v
	}
	if cmd.Flags().Changed("check-conformance") {
		v := f.checkConformance
		req.CheckConformance = &v
	}
	return req
}

func runTransform(cmd *cobra.Command, args []string) error {
	if transformService == nil {
		return errTransformNotConfigured
	}

	req := transformOpts.request(cmd, args)
	summary := cmd.OutOrStdout()
	if req.Output == "" {
		req.Writer = cmd.OutOrStdout()
		summary = cmd.ErrOrStderr()
		if req.Format == "" && isTerminal(req.Writer) {
			req.Format = domain.FormatTurtle
		}
	}

	report, err := transformService.Transform(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}

	if transformOpts.json {
		return writeReportJSON(summary, report)
	}
	fmt.Fprint(summary, renderSummary(report))
	return nil
}

func writeReportJSON(w io.Writer, report *domain.TransformReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
