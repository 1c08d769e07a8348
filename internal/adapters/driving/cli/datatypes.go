package cli

import (
	"github.com/spf13/cobra"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

var datatypesCmd = &cobra.Command{
	Use:   "datatypes [type-name...]",
	Short: "Show how primitive types map to XML Schema datatypes",
	Long: `Without arguments, prints the whole primitive type table.

With arguments, resolves each name the way a data type declaration is
resolved: by name first, then by the simple name of a Java instance type
(java.util.Date resolves like Date, int like Int).

Examples:
  ecore2owl datatypes
  ecore2owl datatypes EInt java.math.BigInteger Variant`,
	RunE: runDatatypes,
}

func init() {
	rootCmd.AddCommand(datatypesCmd)
}

func runDatatypes(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range domain.KnownTypeNames() {
			cmd.Printf("%-18s %s\n", name, domain.LookupDatatype(name))
		}
		return nil
	}

	for _, name := range args {
		dt := domain.DatatypeFor(&domain.DataType{Name: name, InstanceType: name})
		if !dt.IsMapped() {
			cmd.Printf("%s -> unmapped\n", name)
			continue
		}
		cmd.Printf("%s -> %s (%s)\n", name, dt, dt.IRI())
	}
	return nil
}
