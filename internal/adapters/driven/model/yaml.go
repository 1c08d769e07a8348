package model

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/logger"
)

// yamlDocument is the top level of a YAML or JSON document. Exactly one of
// Package and Model is expected.
type yamlDocument struct {
	Package *yamlPackage `yaml:"package"`
	Model   *yamlModel   `yaml:"model"`
}

type yamlPackage struct {
	Name        string         `yaml:"name"`
	NsURI       string         `yaml:"nsURI"`
	NsPrefix    string         `yaml:"nsPrefix"`
	Enums       []yamlEnum     `yaml:"enums"`
	DataTypes   []yamlDataType `yaml:"dataTypes"`
	Classes     []yamlClass    `yaml:"classes"`
	SubPackages []yamlPackage  `yaml:"subPackages"`
}

type yamlEnum struct {
	Name     string        `yaml:"name"`
	Literals []yamlLiteral `yaml:"literals"`
}

// yamlLiteral accepts either a bare label or a mapping.
type yamlLiteral struct {
	Name    string `yaml:"name"`
	Value   *int   `yaml:"value"`
	Literal string `yaml:"literal"`
}

func (l *yamlLiteral) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		l.Name = node.Value
		return nil
	}
	type plain yamlLiteral
	return node.Decode((*plain)(l))
}

type yamlDataType struct {
	Name         string `yaml:"name"`
	InstanceType string `yaml:"instanceType"`
}

type yamlClass struct {
	Name       string        `yaml:"name"`
	Abstract   bool          `yaml:"abstract"`
	Interface  bool          `yaml:"interface"`
	SuperTypes []string      `yaml:"superTypes"`
	Attributes []yamlFeature `yaml:"attributes"`
	References []yamlFeature `yaml:"references"`
}

type yamlFeature struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Lower       int    `yaml:"lower"`
	Upper       *int   `yaml:"upper"`
	ID          bool   `yaml:"id"`
	Containment bool   `yaml:"containment"`
}

type yamlModel struct {
	URI     string       `yaml:"uri"`
	NsURI   string       `yaml:"nsURI"`
	Objects []yamlObject `yaml:"objects"`
}

// yamlObject is one instance. Values map feature names to scalars, lists,
// nested objects (mappings with a "class" key) or references (mappings
// with a "ref" or "href" key).
type yamlObject struct {
	Class  string         `yaml:"class"`
	ID     string         `yaml:"id"`
	Values map[string]any `yaml:"values"`
}

func decodeYAML(data []byte) (*yamlDocument, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return &doc, nil
}

// parseYAMLPackage reads a meta-model document.
func parseYAMLPackage(data []byte, r *resolver) (*domain.Package, error) {
	doc, err := decodeYAML(data)
	if err != nil {
		return nil, err
	}
	if doc.Package == nil {
		return nil, fmt.Errorf("%w: document has no package", domain.ErrInvalidInput)
	}

	type pending struct {
		class *domain.Class
		yaml  *yamlClass
	}
	var classes []pending
	var build func(y *yamlPackage) *domain.Package
	build = func(y *yamlPackage) *domain.Package {
		pkg := domain.NewPackage(y.Name, y.NsURI)
		pkg.NsPrefix = y.NsPrefix
		for _, e := range y.Enums {
			enum := pkg.AddEnum(&domain.Enum{Name: e.Name})
			for i, l := range e.Literals {
				value := i
				if l.Value != nil {
					value = *l.Value
				}
				enum.Literals = append(enum.Literals, &domain.Literal{Name: l.Name, Literal: l.Literal, Value: value, Enum: enum})
			}
		}
		for _, d := range y.DataTypes {
			pkg.AddDataType(&domain.DataType{Name: d.Name, InstanceType: d.InstanceType})
		}
		for i := range y.Classes {
			c := &y.Classes[i]
			class := pkg.AddClass(domain.NewClass(c.Name))
			class.Abstract = c.Abstract
			class.Interface = c.Interface
			classes = append(classes, pending{class: class, yaml: c})
		}
		for i := range y.SubPackages {
			pkg.AddSubPackage(build(&y.SubPackages[i]))
		}
		return pkg
	}

	root := build(doc.Package)
	r.root = root
	for _, p := range classes {
		for _, ref := range p.yaml.SuperTypes {
			p.class.SuperTypes = append(p.class.SuperTypes, r.class(ref))
		}
		for _, a := range p.yaml.Attributes {
			f := p.class.AddAttribute(a.Name, r.valueType(a.Type), a.Lower, yamlUpper(a.Upper))
			f.ID = a.ID
		}
		for _, ref := range p.yaml.References {
			f := p.class.AddReference(ref.Name, r.class(ref.Type), ref.Lower, yamlUpper(ref.Upper))
			f.Containment = ref.Containment
		}
	}
	if err := root.Validate(); err != nil {
		return nil, err
	}
	return root, nil
}

func yamlUpper(upper *int) int {
	if upper == nil {
		return 1
	}
	if *upper < 0 {
		return domain.Unbounded
	}
	return *upper
}

type yamlParser struct {
	registry *domain.Registry
	pkg      *domain.Package
	path     string
	ids      map[string]*domain.Object
	proxies  proxySet
	pending  []pendingRef
}

// parseYAMLModel reads an instance document. Classes are looked up in the
// package named by nsURI first, then across the registry.
func parseYAMLModel(data []byte, path string, registry *domain.Registry) (*domain.Model, error) {
	doc, err := decodeYAML(data)
	if err != nil {
		return nil, err
	}
	if doc.Model == nil {
		return nil, fmt.Errorf("%w: document has no model", domain.ErrInvalidInput)
	}

	p := &yamlParser{
		registry: registry,
		path:     path,
		ids:      make(map[string]*domain.Object),
		proxies:  make(proxySet),
	}
	if doc.Model.NsURI != "" {
		if p.pkg = registry.Package(doc.Model.NsURI); p.pkg == nil {
			logger.Warn("Namespace %s of %s is not loaded", doc.Model.NsURI, path)
		}
	}

	m := &domain.Model{URI: path}
	if doc.Model.URI != "" {
		m.URI = doc.Model.URI
	}
	for i, y := range doc.Model.Objects {
		obj, err := p.object(y.Class, y.ID, y.Values, "/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		m.Contents = append(m.Contents, obj)
	}

	for _, ref := range p.pending {
		for _, id := range ref.refs {
			target, ok := p.ids[id]
			if !ok {
				logger.Warn("Unresolved reference %q from %s.%s in %s", id, ref.object.Class.ClassifierName(), ref.feature.Name, path)
				continue
			}
			setValue(ref.object, ref.feature, target)
		}
	}
	return m, nil
}

func (p *yamlParser) class(name string) *domain.Class {
	if p.pkg != nil {
		if c, ok := p.pkg.FindClassifier(name).(*domain.Class); ok {
			return c
		}
	}
	return p.registry.FindClass(name)
}

func (p *yamlParser) object(className, id string, values map[string]any, fragment string) (*domain.Object, error) {
	class := p.class(className)
	if class == nil {
		return nil, fmt.Errorf("%w: no class %q", domain.ErrNotFound, className)
	}

	obj := domain.NewObject(class)
	obj.ID = id
	obj.URI = p.path + "#" + fragment
	if id != "" {
		p.ids[id] = obj
	}

	for name := range values {
		if class.Feature(name) == nil {
			logger.Debug("Ignoring unknown feature %s on %s", name, class.Name)
		}
	}
	// declaration order keeps the output deterministic
	for _, f := range class.AllFeatures() {
		raw, ok := values[f.Name]
		if !ok {
			continue
		}
		if raw == nil {
			obj.Set(f, nil)
			continue
		}
		items, isList := raw.([]any)
		if !isList {
			items = []any{raw}
		}
		for i, item := range items {
			if err := p.value(obj, f, item, fmt.Sprintf("%s/@%s.%d", fragment, f.Name, i)); err != nil {
				return nil, err
			}
		}
	}

	if obj.ID == "" {
		if idAttr := class.IDAttribute(); idAttr != nil && obj.IsSet(idAttr) {
			obj.ID = domain.FormatValue(obj.Get(idAttr))
			p.ids[obj.ID] = obj
		}
	}
	return obj, nil
}

func (p *yamlParser) value(obj *domain.Object, f *domain.Feature, item any, fragment string) error {
	if f.IsAttribute() {
		setValue(obj, f, coerce(f, item))
		return nil
	}

	switch v := item.(type) {
	case map[string]any:
		if ref, ok := v["ref"]; ok {
			p.pending = append(p.pending, pendingRef{object: obj, feature: f, refs: []string{fmt.Sprint(ref)}})
			return nil
		}
		if href, ok := v["href"]; ok {
			setValue(obj, f, p.proxies.get(fmt.Sprint(href), targetOf(f)))
			return nil
		}
		className, _ := v["class"].(string)
		if className == "" {
			if target := targetOf(f); target != nil {
				className = target.Name
			}
		}
		id := ""
		if raw, ok := v["id"]; ok {
			id = fmt.Sprint(raw)
		}
		values, _ := v["values"].(map[string]any)
		child, err := p.object(className, id, values, fragment)
		if err != nil {
			return err
		}
		setValue(obj, f, child)
	case string:
		p.pending = append(p.pending, pendingRef{object: obj, feature: f, refs: []string{v}})
	default:
		logger.Warn("Ignoring value %v of reference %s.%s", item, obj.Class.Name, f.Name)
	}
	return nil
}
