package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func libraryPackage() *Package {
	root := NewPackage("library", "http://example.org/library")
	root.NsPrefix = "lib"
	root.AddClass(NewClass("Library"))
	media := root.AddSubPackage(NewPackage("media", "http://example.org/library/media"))
	media.AddClass(NewClass("Book"))
	media.AddDataType(&DataType{Name: "ISBN", InstanceType: "java.lang.String"})
	return root
}

func TestNewRegistry_KnowsEcore(t *testing.T) {
	r := NewRegistry()

	require.NotNil(t, r.Package(EcoreNsURI))
	assert.Equal(t, r.Ecore(), r.PackageByPrefix("ecore"))
	assert.Empty(t, r.Packages(), "ecore is not a registered root")

	d := r.FindDataType("EString")
	require.NotNil(t, d)
	assert.Equal(t, "java.lang.String", d.InstanceType)
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	lib := libraryPackage()

	r.Register(lib)
	r.Register(lib)
	r.Register(nil)

	assert.Equal(t, []*Package{lib}, r.Packages())
	assert.Equal(t, lib, r.Package("http://example.org/library"))
	assert.Equal(t, lib.SubPackages[0], r.Package("http://example.org/library/media"))
	assert.Equal(t, lib, r.PackageByPrefix("lib"))
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	r.Register(libraryPackage())

	tests := []struct {
		uri  string
		want string
	}{
		{"http://example.org/library#//Library", "Library"},
		{"http://example.org/library#//media/Book", "Book"},
		{"http://example.org/library/media#//ISBN", "ISBN"},
		{EcoreNsURI + "#//EInt", "EInt"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			c := r.Resolve(tt.uri)
			require.NotNil(t, c)
			assert.Equal(t, tt.want, c.ClassifierName())
		})
	}

	assert.Nil(t, r.Resolve("http://unknown#//Library"))
	assert.Nil(t, r.Resolve("no-fragment"))
}

func TestRegistry_FindClass(t *testing.T) {
	r := NewRegistry()
	r.Register(libraryPackage())

	assert.Equal(t, "Book", r.FindClass("Book").Name)
	assert.Equal(t, "Library", r.FindClass("lib.Library").Name)
	assert.Equal(t, "Book", r.FindClass("http://example.org/library#//media/Book").Name)
	assert.Nil(t, r.FindClass("ISBN"), "data types are not classes")
	assert.Nil(t, r.FindClass("Missing"))
}

func TestRegistry_Alias(t *testing.T) {
	r := NewRegistry()
	lib := libraryPackage()
	other := NewPackage("other", "other.ecore")

	r.Register(other)
	r.Alias("library.ecore", lib)
	r.Alias("other.ecore", lib)
	r.Alias("", lib)

	c := r.Resolve("library.ecore#//media/Book")
	require.NotNil(t, c)
	assert.Equal(t, "Book", c.ClassifierName())
	assert.Equal(t, other, r.Package("other.ecore"), "aliases never shadow a namespace")
}
