package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

func TestDatatypesCmd_Table(t *testing.T) {
	out, err := execute(t, "datatypes")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(domain.KnownTypeNames()))
	assert.Contains(t, out, "EInt")
	assert.Contains(t, out, "xsd:integer")
	assert.Contains(t, out, "UnlimitedNatural")
	assert.NotContains(t, out, "unmapped")
}

func TestDatatypesCmd_Lookup(t *testing.T) {
	out, err := execute(t, "datatypes", "EInt", "java.util.Date", "int", "Variant")

	require.NoError(t, err)
	assert.Contains(t, out, "EInt -> xsd:integer ("+domain.XSDNamespace+"integer)")
	assert.Contains(t, out, "java.util.Date -> xsd:date")
	assert.Contains(t, out, "int -> xsd:integer")
	assert.Contains(t, out, "Variant -> unmapped")
}
