package domain

import "strings"

// EcoreNsURI is the namespace of the built-in Ecore data types.
const EcoreNsURI = "http://www.eclipse.org/emf/2002/Ecore"

var ecoreDataTypes = []struct{ name, instance string }{
	{"EString", "java.lang.String"},
	{"EChar", "char"},
	{"ECharacterObject", "java.lang.Character"},
	{"EInt", "int"},
	{"EIntegerObject", "java.lang.Integer"},
	{"EBoolean", "boolean"},
	{"EBooleanObject", "java.lang.Boolean"},
	{"EByte", "byte"},
	{"EByteObject", "java.lang.Byte"},
	{"EShort", "short"},
	{"EShortObject", "java.lang.Short"},
	{"ELong", "long"},
	{"ELongObject", "java.lang.Long"},
	{"EFloat", "float"},
	{"EFloatObject", "java.lang.Float"},
	{"EDouble", "double"},
	{"EDoubleObject", "java.lang.Double"},
	{"EDate", "java.util.Date"},
	{"EBigInteger", "java.math.BigInteger"},
	{"EBigDecimal", "java.math.BigDecimal"},
	{"EJavaObject", "java.lang.Object"},
}

// NewEcorePackage returns a package holding the built-in Ecore data types.
func NewEcorePackage() *Package {
	p := NewPackage("ecore", EcoreNsURI)
	p.NsPrefix = "ecore"
	for _, dt := range ecoreDataTypes {
		p.AddDataType(&DataType{Name: dt.name, InstanceType: dt.instance})
	}
	return p
}

// Registry maps namespace URIs to loaded packages so that documents can
// refer to types declared in other documents.
type Registry struct {
	byNsURI  map[string]*Package
	byPrefix map[string]*Package
	roots    []*Package
	ecore    *Package
}

// NewRegistry creates a registry that already knows the Ecore data types.
func NewRegistry() *Registry {
	r := &Registry{
		byNsURI:  make(map[string]*Package),
		byPrefix: make(map[string]*Package),
		ecore:    NewEcorePackage(),
	}
	r.index(r.ecore)
	return r
}

// Register adds a root package and all its sub-packages.
func (r *Registry) Register(p *Package) {
	if p == nil {
		return
	}
	for _, existing := range r.roots {
		if existing == p {
			return
		}
	}
	r.roots = append(r.roots, p)
	for _, pkg := range p.AllPackages() {
		r.index(pkg)
	}
}

func (r *Registry) index(p *Package) {
	if p.NsURI != "" {
		r.byNsURI[p.NsURI] = p
	}
	if p.NsPrefix != "" {
		if _, taken := r.byPrefix[p.NsPrefix]; !taken {
			r.byPrefix[p.NsPrefix] = p
		}
	}
}

// Alias makes p resolvable under a document location such as
// "library.ecore", so that references of the form "library.ecore#//Book"
// resolve. An existing namespace URI is never shadowed.
func (r *Registry) Alias(location string, p *Package) {
	if location == "" || p == nil {
		return
	}
	if _, taken := r.byNsURI[location]; !taken {
		r.byNsURI[location] = p
	}
}

// Packages returns the registered root packages in registration order.
func (r *Registry) Packages() []*Package {
	out := make([]*Package, len(r.roots))
	copy(out, r.roots)
	return out
}

// Package returns the package registered under nsURI.
func (r *Registry) Package(nsURI string) *Package {
	return r.byNsURI[nsURI]
}

// PackageByPrefix returns the package registered under a namespace prefix.
func (r *Registry) PackageByPrefix(prefix string) *Package {
	return r.byPrefix[prefix]
}

// Ecore returns the built-in Ecore package.
func (r *Registry) Ecore() *Package {
	return r.ecore
}

// Resolve looks up a classifier by an URI of the form "nsURI#//Name" or
// "nsURI#//sub/Name". It returns nil when the namespace is unknown.
func (r *Registry) Resolve(uri string) Classifier {
	nsURI, fragment, ok := strings.Cut(uri, "#")
	if !ok {
		return nil
	}
	pkg := r.byNsURI[nsURI]
	if pkg == nil {
		return nil
	}
	return pkg.FindClassifier(strings.TrimPrefix(fragment, "//"))
}

// FindClass resolves a class by name across all registered packages.
// A name qualified as "prefix.Name" or "nsURI#//Name" is looked up in the
// matching package only.
func (r *Registry) FindClass(name string) *Class {
	if strings.Contains(name, "#") {
		c, _ := r.Resolve(name).(*Class)
		return c
	}
	if prefix, local, ok := strings.Cut(name, "."); ok {
		if pkg := r.byPrefix[prefix]; pkg != nil {
			c, _ := pkg.FindClassifier(local).(*Class)
			return c
		}
	}
	for _, root := range r.roots {
		if c, ok := root.FindClassifier(name).(*Class); ok {
			return c
		}
	}
	return nil
}

// FindDataType resolves a data type by name, falling back to Ecore.
func (r *Registry) FindDataType(name string) *DataType {
	for _, root := range r.roots {
		if d, ok := root.FindClassifier(name).(*DataType); ok {
			return d
		}
	}
	d, _ := r.ecore.Classifier(name).(*DataType)
	return d
}
