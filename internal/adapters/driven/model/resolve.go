package model

import (
	"path"
	"strings"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// resolver turns type references into classifiers. References take the
// forms used by Ecore documents:
//
//	#//Book                    local, relative to the document root
//	#//media/Book              local, in a sub-package
//	library.ecore#//Book       another document, by file name
//	http://x/library#//Book    another document, by namespace URI
//	ecore:EDataType http://www.eclipse.org/emf/2002/Ecore#//EString
//
// A bare name ("Book", "EString", "lib.Book") is searched in the document,
// the built-in Ecore types and the registry, in that order.
type resolver struct {
	registry *domain.Registry
	root     *domain.Package
	proxies  map[string]*domain.Class
}

func newResolver(registry *domain.Registry) *resolver {
	return &resolver{registry: registry, proxies: make(map[string]*domain.Class)}
}

// normalizeRef drops the "ecore:EClass " style type prefix.
func normalizeRef(ref string) string {
	fields := strings.Fields(ref)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// classifier resolves ref, returning nil when nothing matches.
func (r *resolver) classifier(ref string) domain.Classifier {
	ref = normalizeRef(ref)
	if ref == "" {
		return nil
	}

	doc, fragment, qualified := strings.Cut(ref, "#")
	if !qualified {
		return r.byName(ref)
	}
	name := strings.TrimLeft(fragment, "/")
	if doc == "" || (r.root != nil && doc == r.root.NsURI) {
		if r.root == nil {
			return nil
		}
		return r.root.FindClassifier(name)
	}
	if c := r.registry.Resolve(ref); c != nil {
		return c
	}
	// relative document paths are aliased by file name
	if base := path.Base(doc); base != doc {
		return r.registry.Resolve(base + "#" + fragment)
	}
	return nil
}

func (r *resolver) byName(name string) domain.Classifier {
	if r.root != nil {
		if c := r.root.FindClassifier(name); c != nil {
			return c
		}
	}
	if c := r.registry.Ecore().Classifier(name); c != nil {
		return c
	}
	if c := r.registry.FindClass(name); c != nil {
		return c
	}
	for _, root := range r.registry.Packages() {
		if c := root.FindClassifier(name); c != nil {
			return c
		}
	}
	return nil
}

// class resolves ref to a class, or to a proxy class standing in for it.
// One proxy is shared by every reference to the same URI.
func (r *resolver) class(ref string) *domain.Class {
	if c, ok := r.classifier(ref).(*domain.Class); ok {
		return c
	}
	uri := normalizeRef(ref)
	if proxy, ok := r.proxies[uri]; ok {
		return proxy
	}
	proxy := domain.NewProxyClass(uri)
	r.proxies[uri] = proxy
	return proxy
}

// valueType resolves the type of an attribute: an enumeration or data
// type, or an unresolved data type.
func (r *resolver) valueType(ref string) domain.Classifier {
	switch c := r.classifier(ref).(type) {
	case *domain.DataType, *domain.Enum:
		return c
	}
	return &domain.DataType{Proxy: normalizeRef(ref)}
}
