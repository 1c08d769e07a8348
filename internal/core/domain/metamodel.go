package domain

import (
	"fmt"
	"strings"
)

// Unbounded is the upper bound of a feature without an upper limit.
const Unbounded = -1

// ClassifierKind identifies what a feature's value type is.
type ClassifierKind int

// Classifier kinds.
const (
	KindClass ClassifierKind = iota + 1
	KindEnum
	KindDataType
)

// String returns the string representation.
func (k ClassifierKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	case KindDataType:
		return "datatype"
	default:
		return "unknown"
	}
}

// Classifier is the value type of a feature: a class, an enumeration
// or a primitive data type.
type Classifier interface {
	// ClassifierName returns the declared name. Unresolved classifiers
	// return the name derived from their proxy URI.
	ClassifierName() string

	// ClassifierKind returns what kind of classifier this is.
	ClassifierKind() ClassifierKind

	// OwningPackage returns the package declaring the classifier, or nil.
	OwningPackage() *Package

	// ProxyURI returns the identifying URI of an unresolved classifier.
	// Resolved classifiers return "".
	ProxyURI() string
}

// Package is a namespace node of a meta-model.
type Package struct {
	Name        string
	NsURI       string
	NsPrefix    string
	Super       *Package
	SubPackages []*Package
	Classes     []*Class
	Enums       []*Enum
	DataTypes   []*DataType
}

// NewPackage creates an empty package.
func NewPackage(name, nsURI string) *Package {
	return &Package{Name: name, NsURI: nsURI}
}

// AddSubPackage appends a child package and links it back to p.
func (p *Package) AddSubPackage(sub *Package) *Package {
	sub.Super = p
	p.SubPackages = append(p.SubPackages, sub)
	return sub
}

// AddClass appends a class and links it back to p.
func (p *Package) AddClass(c *Class) *Class {
	c.Package = p
	p.Classes = append(p.Classes, c)
	return c
}

// AddEnum appends an enumeration and links it back to p.
func (p *Package) AddEnum(e *Enum) *Enum {
	e.Package = p
	p.Enums = append(p.Enums, e)
	return e
}

// AddDataType appends a data type and links it back to p.
func (p *Package) AddDataType(d *DataType) *DataType {
	d.Package = p
	p.DataTypes = append(p.DataTypes, d)
	return d
}

// Root returns the top-most super package of p.
func (p *Package) Root() *Package {
	root := p
	seen := map[*Package]bool{root: true}
	for root.Super != nil && !seen[root.Super] {
		root = root.Super
		seen[root] = true
	}
	return root
}

// AllPackages returns p and all its transitive sub-packages in pre-order.
func (p *Package) AllPackages() []*Package {
	var out []*Package
	seen := make(map[*Package]bool)
	var walk func(*Package)
	walk = func(pkg *Package) {
		if pkg == nil || seen[pkg] {
			return
		}
		seen[pkg] = true
		out = append(out, pkg)
		for _, sub := range pkg.SubPackages {
			walk(sub)
		}
	}
	walk(p)
	return out
}

// ContainsNsURI reports whether p or one of its transitive sub-packages
// declares the namespace URI.
func (p *Package) ContainsNsURI(nsURI string) bool {
	for _, pkg := range p.AllPackages() {
		if pkg.NsURI == nsURI {
			return true
		}
	}
	return false
}

// Classifier returns the directly declared classifier with the given name.
func (p *Package) Classifier(name string) Classifier {
	for _, c := range p.Classes {
		if c.Name == name {
			return c
		}
	}
	for _, e := range p.Enums {
		if e.Name == name {
			return e
		}
	}
	for _, d := range p.DataTypes {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// FindClassifier resolves a classifier by name in p and its sub-packages.
// A slash separated path ("sub/Name") is resolved relative to p.
func (p *Package) FindClassifier(name string) Classifier {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		pkg := p
		for _, seg := range strings.Split(name[:i], "/") {
			if seg == "" {
				continue
			}
			pkg = pkg.subPackage(seg)
			if pkg == nil {
				return nil
			}
		}
		return pkg.Classifier(name[i+1:])
	}
	for _, pkg := range p.AllPackages() {
		if c := pkg.Classifier(name); c != nil {
			return c
		}
	}
	return nil
}

func (p *Package) subPackage(name string) *Package {
	for _, sub := range p.SubPackages {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

// Validate checks that every required name in the package tree is present.
func (p *Package) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil package", ErrInvalidInput)
	}
	for _, pkg := range p.AllPackages() {
		if pkg.Name == "" {
			return fmt.Errorf("%w: package with namespace %q has no name", ErrInvalidInput, pkg.NsURI)
		}
		for _, e := range pkg.Enums {
			if err := e.validate(); err != nil {
				return err
			}
		}
		for _, c := range pkg.Classes {
			if err := c.validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Class is a meta-type. A class with a non-empty Proxy is an unresolved
// cross-document reference whose structure is unknown.
type Class struct {
	Name       string
	Package    *Package
	SuperTypes []*Class
	Abstract   bool
	Interface  bool
	Features   []*Feature
	Proxy      string
}

// NewClass creates a class without features.
func NewClass(name string) *Class {
	return &Class{Name: name}
}

// NewProxyClass creates an unresolved class standing in for uri.
func NewProxyClass(uri string) *Class {
	return &Class{Proxy: uri}
}

// AddAttribute declares an attribute on c.
func (c *Class) AddAttribute(name string, typ Classifier, lower, upper int) *Feature {
	f := &Feature{Name: name, Kind: FeatureAttribute, Owner: c, Lower: lower, Upper: upper, Type: typ}
	c.Features = append(c.Features, f)
	return f
}

// AddReference declares a reference on c.
func (c *Class) AddReference(name string, target *Class, lower, upper int) *Feature {
	f := &Feature{Name: name, Kind: FeatureReference, Owner: c, Lower: lower, Upper: upper, Type: target}
	c.Features = append(c.Features, f)
	return f
}

// IsProxy reports whether c is unresolved.
func (c *Class) IsProxy() bool { return c.Proxy != "" }

// ClassifierName implements Classifier.
func (c *Class) ClassifierName() string {
	if c.Name == "" && c.Proxy != "" {
		return ProxyName(c.Proxy)
	}
	return c.Name
}

// ClassifierKind implements Classifier.
func (c *Class) ClassifierKind() ClassifierKind { return KindClass }

// OwningPackage implements Classifier.
func (c *Class) OwningPackage() *Package { return c.Package }

// ProxyURI implements Classifier.
func (c *Class) ProxyURI() string { return c.Proxy }

// AllFeatures returns the features of c's super-types followed by its own,
// without duplicates.
func (c *Class) AllFeatures() []*Feature {
	var out []*Feature
	seenClass := make(map[*Class]bool)
	seenFeature := make(map[*Feature]bool)
	var walk func(*Class)
	walk = func(cls *Class) {
		if cls == nil || seenClass[cls] {
			return
		}
		seenClass[cls] = true
		for _, super := range cls.SuperTypes {
			walk(super)
		}
		for _, f := range cls.Features {
			if !seenFeature[f] {
				seenFeature[f] = true
				out = append(out, f)
			}
		}
	}
	walk(c)
	return out
}

// Feature returns the feature with the given name, searching super-types.
func (c *Class) Feature(name string) *Feature {
	for _, f := range c.AllFeatures() {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// IDAttribute returns the attribute flagged as identifier, or nil.
func (c *Class) IDAttribute() *Feature {
	for _, f := range c.AllFeatures() {
		if f.ID && f.IsAttribute() {
			return f
		}
	}
	return nil
}

// IsSubTypeOf reports whether c equals other or inherits from it.
func (c *Class) IsSubTypeOf(other *Class) bool {
	seen := make(map[*Class]bool)
	var walk func(*Class) bool
	walk = func(cls *Class) bool {
		if cls == nil || seen[cls] {
			return false
		}
		if SameClass(cls, other) {
			return true
		}
		seen[cls] = true
		for _, super := range cls.SuperTypes {
			if walk(super) {
				return true
			}
		}
		return false
	}
	return walk(c)
}

// SameClass reports whether a and b denote the same meta-type.
func SameClass(a, b *Class) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.IsProxy() || b.IsProxy() {
		return a.Proxy == b.Proxy
	}
	return a.Name == b.Name && nsURIOf(a.Package) == nsURIOf(b.Package)
}

func nsURIOf(p *Package) string {
	if p == nil {
		return ""
	}
	return p.NsURI
}

func (c *Class) validate() error {
	if c.Name == "" && !c.IsProxy() {
		return fmt.Errorf("%w: class without name", ErrInvalidInput)
	}
	for _, f := range c.Features {
		if f.Name == "" {
			return fmt.Errorf("%w: feature without name in class %s", ErrInvalidInput, c.Name)
		}
		if f.Type == nil {
			return fmt.Errorf("%w: feature %s.%s has no type", ErrInvalidInput, c.Name, f.Name)
		}
	}
	return nil
}

// FeatureKind distinguishes attributes from references.
type FeatureKind int

// Feature kinds.
const (
	FeatureAttribute FeatureKind = iota + 1
	FeatureReference
)

// Feature is an attribute or reference of a class.
type Feature struct {
	Name        string
	Kind        FeatureKind
	Owner       *Class
	Lower       int
	Upper       int
	Type        Classifier
	ID          bool
	Containment bool
}

// IsAttribute reports whether f is an attribute.
func (f *Feature) IsAttribute() bool { return f.Kind == FeatureAttribute }

// IsReference reports whether f is a reference.
func (f *Feature) IsReference() bool { return f.Kind == FeatureReference }

// IsMany reports whether f holds a collection.
func (f *Feature) IsMany() bool { return f.Upper == Unbounded || f.Upper > 1 }

// IsFunctional reports whether f has the exact bounds [1,1].
func (f *Feature) IsFunctional() bool { return f.Lower == 1 && f.Upper == 1 }

// EnumType returns the enumeration f ranges over, if any.
func (f *Feature) EnumType() (*Enum, bool) {
	e, ok := f.Type.(*Enum)
	return e, ok
}

// TargetClass returns the class a reference points to.
func (f *Feature) TargetClass() (*Class, bool) {
	c, ok := f.Type.(*Class)
	return c, ok
}

// Enum is an enumeration type.
type Enum struct {
	Name     string
	Package  *Package
	Literals []*Literal
	Proxy    string
}

// NewEnum creates an enumeration with the given literal labels valued
// 0..n-1.
func NewEnum(name string, labels ...string) *Enum {
	e := &Enum{Name: name}
	for i, label := range labels {
		e.AddLiteral(label, i)
	}
	return e
}

// AddLiteral appends a literal whose name and label are both label.
func (e *Enum) AddLiteral(label string, value int) *Literal {
	l := &Literal{Name: label, Literal: label, Value: value, Enum: e}
	e.Literals = append(e.Literals, l)
	return l
}

// LiteralByLabel finds a literal by label or name.
func (e *Enum) LiteralByLabel(label string) *Literal {
	for _, l := range e.Literals {
		if l.Label() == label || l.Name == label {
			return l
		}
	}
	return nil
}

// ClassifierName implements Classifier.
func (e *Enum) ClassifierName() string {
	if e.Name == "" && e.Proxy != "" {
		return ProxyName(e.Proxy)
	}
	return e.Name
}

// ClassifierKind implements Classifier.
func (e *Enum) ClassifierKind() ClassifierKind { return KindEnum }

// OwningPackage implements Classifier.
func (e *Enum) OwningPackage() *Package { return e.Package }

// ProxyURI implements Classifier.
func (e *Enum) ProxyURI() string { return e.Proxy }

func (e *Enum) validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: enumeration without name", ErrInvalidInput)
	}
	for _, l := range e.Literals {
		if l.Label() == "" {
			return fmt.Errorf("%w: literal without label in enumeration %s", ErrInvalidInput, e.Name)
		}
	}
	return nil
}

// Literal is one value of an enumeration.
type Literal struct {
	Name    string
	Literal string
	Value   int
	Enum    *Enum
}

// Label returns the literal string, defaulting to the name.
func (l *Literal) Label() string {
	if l.Literal != "" {
		return l.Literal
	}
	return l.Name
}

// String returns the label.
func (l *Literal) String() string { return l.Label() }

// DataType is a primitive value type. InstanceType names the
// implementation type, e.g. "java.lang.String" or "int".
type DataType struct {
	Name         string
	InstanceType string
	Package      *Package
	Proxy        string
}

// ClassifierName implements Classifier.
func (d *DataType) ClassifierName() string {
	if d.Name == "" && d.Proxy != "" {
		return ProxyName(d.Proxy)
	}
	return d.Name
}

// ClassifierKind implements Classifier.
func (d *DataType) ClassifierKind() ClassifierKind { return KindDataType }

// OwningPackage implements Classifier.
func (d *DataType) OwningPackage() *Package { return d.Package }

// ProxyURI implements Classifier.
func (d *DataType) ProxyURI() string { return d.Proxy }

// ProxyName derives a class name from an unresolved URI: the fragment with
// its first "//" removed.
func ProxyName(uri string) string {
	fragment := uri
	if i := strings.Index(uri, "#"); i >= 0 {
		fragment = uri[i+1:]
	}
	return strings.Replace(fragment, "//", "", 1)
}
