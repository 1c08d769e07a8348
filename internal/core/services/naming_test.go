package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Book", CleanName(`"Book"`))
	assert.Equal(t, "Bobs", CleanName("Bob's"))
	assert.Equal(t, `List\<T\>`, CleanName("List<T>"))
}

func TestPropertyName(t *testing.T) {
	assert.Equal(t, "title_-_Book", PropertyName("title", "Book"))
	assert.Equal(t, `items_-_List\<T\>`, PropertyName("items", "List<T>"))
}

func TestLiteralIdentifier(t *testing.T) {
	assert.Equal(t, "Color_RED", LiteralIdentifier("Color", "RED"))
}

func counterTokens() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("-%d", n)
	}
}

func TestNamer_ProviderID(t *testing.T) {
	namer := NewNamerWithTokens(counterTokens())
	obj := domain.NewObject(domain.NewClass("Book"))
	obj.ID = "b1"

	id, err := namer.ObjectIdentifier(obj)
	require.NoError(t, err)
	assert.Equal(t, "Bookb1", id)
}

func TestNamer_StableAcrossCalls(t *testing.T) {
	namer := NewNamerWithTokens(counterTokens())
	obj := domain.NewObject(domain.NewClass("Book"))

	first, err := namer.ObjectIdentifier(obj)
	require.NoError(t, err)
	second, err := namer.ObjectIdentifier(obj)
	require.NoError(t, err)

	assert.Equal(t, "Book-1", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, namer.Len())
}

func TestNamer_StructurallyEqualObjectsShareName(t *testing.T) {
	book := domain.NewClass("Book")
	title := book.AddAttribute("title", eString, 0, 1)
	namer := NewNamerWithTokens(counterTokens())

	a := domain.NewObject(book)
	b := domain.NewObject(book)
	c := domain.NewObject(book)
	a.Set(title, "Dune")
	b.Set(title, "Dune")
	c.Set(title, "Emma")

	idA, _ := namer.ObjectIdentifier(a)
	idB, _ := namer.ObjectIdentifier(b)
	idC, _ := namer.ObjectIdentifier(c)

	assert.Equal(t, idA, idB)
	assert.NotEqual(t, idA, idC)
	assert.Equal(t, 2, namer.Len())
}

func TestNamer_DefaultTokensAreUnique(t *testing.T) {
	book := domain.NewClass("Book")
	title := book.AddAttribute("title", eString, 0, 1)
	namer := NewNamer()

	a := domain.NewObject(book)
	b := domain.NewObject(book)
	a.Set(title, "Dune")
	b.Set(title, "Emma")

	idA, _ := namer.ObjectIdentifier(a)
	idB, _ := namer.ObjectIdentifier(b)
	assert.NotEqual(t, idA, idB)
}

func TestNamer_InvalidObject(t *testing.T) {
	namer := NewNamer()

	_, err := namer.ObjectIdentifier(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = namer.ObjectIdentifier(&domain.Object{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
