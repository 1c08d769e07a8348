package model

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/logger"
)

// xmlNode is a generic XML element. Instance documents name their
// elements after features and classes, so no fixed structure applies.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
	Text     string     `xml:",chardata"`
}

func (n *xmlNode) attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local && !isXMI(a.Name.Space) && !isXSI(a.Name.Space) {
			return a.Value
		}
	}
	return ""
}

func (n *xmlNode) xsiType() string {
	for _, a := range n.Attrs {
		if a.Name.Local == "type" && isXSI(a.Name.Space) {
			return a.Value
		}
	}
	return ""
}

func isXMI(space string) bool {
	return space == "xmi" || strings.Contains(space, "omg.org/XMI") || strings.Contains(space, "omg.org/spec/XMI")
}

func isXSI(space string) bool {
	return space == xsiNamespace || space == "xsi"
}

func isNamespaceDecl(a xml.Attr) bool {
	return a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns")
}

type pendingRef struct {
	object  *domain.Object
	feature *domain.Feature
	refs    []string
}

type xmiParser struct {
	registry *domain.Registry
	path     string
	ids      map[string]*domain.Object
	paths    map[string]*domain.Object
	proxies  proxySet
	pending  []pendingRef
}

// parseXMI reads an XMI instance document. Non-containment references are
// collected while parsing and resolved afterwards by xmi:id, by ID
// attribute value or by fragment path ("//@books.0").
func parseXMI(data []byte, path string, registry *domain.Registry) (*domain.Model, error) {
	var root xmlNode
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	p := &xmiParser{
		registry: registry,
		path:     path,
		ids:      make(map[string]*domain.Object),
		paths:    make(map[string]*domain.Object),
		proxies:  make(proxySet),
	}
	m := &domain.Model{URI: path}
	ns := scope(nil, &root)

	if root.XMLName.Local == "XMI" && isXMI(root.XMLName.Space) {
		for i := range root.Children {
			obj, err := p.object(&root.Children[i], ns, nil, "/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			m.Contents = append(m.Contents, obj)
		}
	} else {
		obj, err := p.object(&root, ns, nil, "/")
		if err != nil {
			return nil, err
		}
		m.Contents = append(m.Contents, obj)
	}

	p.resolveReferences()
	return m, nil
}

// scope returns the prefix bindings in effect inside n.
func scope(parent map[string]string, n *xmlNode) map[string]string {
	var ns map[string]string
	for _, a := range n.Attrs {
		if !isNamespaceDecl(a) {
			continue
		}
		if ns == nil {
			ns = make(map[string]string, len(parent)+1)
			for k, v := range parent {
				ns[k] = v
			}
		}
		if a.Name.Space == "xmlns" {
			ns[a.Name.Local] = a.Value
		} else {
			ns[""] = a.Value
		}
	}
	if ns == nil {
		return parent
	}
	return ns
}

func (p *xmiParser) object(n *xmlNode, ns map[string]string, declared *domain.Class, fragment string) (*domain.Object, error) {
	ns = scope(ns, n)
	class := p.classOf(n, ns, declared)
	if class == nil {
		return nil, fmt.Errorf("%w: no class for element %s (namespace %q)", domain.ErrNotFound, n.XMLName.Local, n.XMLName.Space)
	}

	obj := domain.NewObject(class)
	obj.URI = p.path + "#" + fragment
	xmiID := ""

	for _, a := range n.Attrs {
		switch {
		case isNamespaceDecl(a), isXSI(a.Name.Space):
			continue
		case isXMI(a.Name.Space):
			if a.Name.Local == "id" {
				xmiID = a.Value
			}
			continue
		}
		f := class.Feature(a.Name.Local)
		if f == nil {
			logger.Debug("Ignoring unknown attribute %s on %s", a.Name.Local, class.ClassifierName())
			continue
		}
		if f.IsReference() {
			p.pending = append(p.pending, pendingRef{object: obj, feature: f, refs: strings.Fields(a.Value)})
			continue
		}
		if f.IsMany() {
			for _, v := range strings.Fields(a.Value) {
				obj.Add(f, parseValue(f, v))
			}
			continue
		}
		obj.Set(f, parseValue(f, a.Value))
	}

	index := make(map[*domain.Feature]int)
	for i := range n.Children {
		child := &n.Children[i]
		f := class.Feature(child.XMLName.Local)
		if f == nil {
			logger.Debug("Ignoring unknown element %s in %s", child.XMLName.Local, class.ClassifierName())
			continue
		}
		if f.IsAttribute() {
			setValue(obj, f, parseValue(f, child.Text))
			continue
		}
		if href := child.attr("href"); href != "" {
			setValue(obj, f, p.proxies.get(href, p.classOf(child, scope(ns, child), targetOf(f))))
			continue
		}

		childFragment := fragment + "/@" + f.Name
		if f.IsMany() {
			childFragment += "." + strconv.Itoa(index[f])
			index[f]++
		}
		contained, err := p.object(child, ns, targetOf(f), childFragment)
		if err != nil {
			return nil, err
		}
		setValue(obj, f, contained)
	}

	if idAttr := class.IDAttribute(); idAttr != nil && obj.IsSet(idAttr) {
		obj.ID = domain.FormatValue(obj.Get(idAttr))
	} else {
		obj.ID = xmiID
	}
	p.paths[fragment] = obj
	if xmiID != "" {
		p.ids[xmiID] = obj
	}
	if obj.ID != "" {
		if _, taken := p.ids[obj.ID]; !taken {
			p.ids[obj.ID] = obj
		}
	}
	return obj, nil
}

// classOf determines the class of an element: its xsi:type, else the
// type declared by the containing feature, else the element name itself
// qualified by its namespace.
func (p *xmiParser) classOf(n *xmlNode, ns map[string]string, declared *domain.Class) *domain.Class {
	if t := n.xsiType(); t != "" {
		prefix, name, qualified := strings.Cut(t, ":")
		if !qualified {
			name, prefix = prefix, ""
		}
		if c := p.classIn(ns[prefix], prefix, name); c != nil {
			return c
		}
		logger.Warn("Unknown type %s in %s, using %s", t, p.path, className(declared))
	}
	if declared != nil {
		return declared
	}
	return p.classIn(n.XMLName.Space, n.XMLName.Space, n.XMLName.Local)
}

func (p *xmiParser) classIn(nsURI, prefix, name string) *domain.Class {
	pkg := p.registry.Package(nsURI)
	if pkg == nil && prefix != "" {
		pkg = p.registry.PackageByPrefix(prefix)
	}
	if pkg != nil {
		if c, ok := pkg.FindClassifier(name).(*domain.Class); ok {
			return c
		}
		return nil
	}
	return p.registry.FindClass(name)
}

// proxySet holds the placeholder objects standing in for references into
// other documents. All references to the same URI share one placeholder.
type proxySet map[string]*domain.Object

func (s proxySet) get(uri string, class *domain.Class) *domain.Object {
	if obj, ok := s[uri]; ok {
		return obj
	}
	if class == nil {
		class = domain.NewProxyClass(uri)
	}
	obj := domain.NewObject(class)
	obj.URI = uri
	obj.Proxy = true
	s[uri] = obj
	return obj
}

func (p *xmiParser) resolveReferences() {
	for _, ref := range p.pending {
		for _, token := range ref.refs {
			target := p.lookup(token, targetOf(ref.feature))
			if target == nil {
				logger.Warn("Unresolved reference %q from %s.%s in %s", token, ref.object.Class.ClassifierName(), ref.feature.Name, p.path)
				continue
			}
			setValue(ref.object, ref.feature, target)
		}
	}
}

func (p *xmiParser) lookup(token string, class *domain.Class) *domain.Object {
	if doc, fragment, ok := strings.Cut(token, "#"); ok {
		if doc != "" && doc != p.path && doc != filepath.Base(p.path) {
			return p.proxies.get(token, class)
		}
		token = fragment
	}
	if strings.HasPrefix(token, "/") {
		return p.paths[token]
	}
	return p.ids[token]
}

func setValue(obj *domain.Object, f *domain.Feature, v any) {
	if f.IsMany() {
		obj.Add(f, v)
		return
	}
	obj.Set(f, v)
}

func targetOf(f *domain.Feature) *domain.Class {
	c, _ := f.TargetClass()
	return c
}

func className(c *domain.Class) string {
	if c == nil {
		return "the element name"
	}
	return c.ClassifierName()
}
