package model

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/logger"
)

const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

// Ecore XMI structure. Classifier and feature kinds are told apart by
// xsi:type ("ecore:EClass", "ecore:EReference", ...).

type ecorePackage struct {
	XMLName     xml.Name
	Name        string            `xml:"name,attr"`
	NsURI       string            `xml:"nsURI,attr"`
	NsPrefix    string            `xml:"nsPrefix,attr"`
	Classifiers []ecoreClassifier `xml:"eClassifiers"`
	SubPackages []ecorePackage    `xml:"eSubpackages"`
}

type ecoreClassifier struct {
	Type              string             `xml:"http://www.w3.org/2001/XMLSchema-instance type,attr"`
	Name              string             `xml:"name,attr"`
	Abstract          bool               `xml:"abstract,attr"`
	Interface         bool               `xml:"interface,attr"`
	SuperTypes        string             `xml:"eSuperTypes,attr"`
	GenericSupers     []ecoreGenericType `xml:"eGenericSuperTypes"`
	InstanceClassName string             `xml:"instanceClassName,attr"`
	Features          []ecoreFeature     `xml:"eStructuralFeatures"`
	Literals          []ecoreLiteral     `xml:"eLiterals"`
}

type ecoreFeature struct {
	Type        string            `xml:"http://www.w3.org/2001/XMLSchema-instance type,attr"`
	Name        string            `xml:"name,attr"`
	EType       string            `xml:"eType,attr"`
	GenericType *ecoreGenericType `xml:"eGenericType"`
	LowerBound  string            `xml:"lowerBound,attr"`
	UpperBound  string            `xml:"upperBound,attr"`
	ID          bool              `xml:"iD,attr"`
	Containment bool              `xml:"containment,attr"`
}

type ecoreGenericType struct {
	Classifier string `xml:"eClassifier,attr"`
}

type ecoreLiteral struct {
	Name    string `xml:"name,attr"`
	Value   string `xml:"value,attr"`
	Literal string `xml:"literal,attr"`
}

// pendingClass holds what can only be resolved once every classifier of
// the document exists.
type pendingClass struct {
	class *domain.Class
	xml   *ecoreClassifier
}

// parseEcore reads an Ecore XMI document. Classifiers are created first
// and type references resolved in a second pass, so forward references
// within the document work.
func parseEcore(data []byte, r *resolver) (*domain.Package, error) {
	var doc ecorePackage
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if doc.XMLName.Local != "EPackage" {
		return nil, fmt.Errorf("%w: root element %s is not an EPackage", domain.ErrInvalidInput, doc.XMLName.Local)
	}

	var pending []pendingClass
	root := buildPackage(&doc, &pending)
	r.root = root

	for _, p := range pending {
		resolveClass(p, r)
	}
	if err := root.Validate(); err != nil {
		return nil, err
	}
	return root, nil
}

func buildPackage(x *ecorePackage, pending *[]pendingClass) *domain.Package {
	pkg := domain.NewPackage(x.Name, x.NsURI)
	pkg.NsPrefix = x.NsPrefix

	for i := range x.Classifiers {
		c := &x.Classifiers[i]
		switch classifierKind(c.Type) {
		case "EClass":
			class := pkg.AddClass(domain.NewClass(c.Name))
			class.Abstract = c.Abstract
			class.Interface = c.Interface
			*pending = append(*pending, pendingClass{class: class, xml: c})
		case "EEnum":
			e := pkg.AddEnum(&domain.Enum{Name: c.Name})
			for _, l := range c.Literals {
				lit := &domain.Literal{Name: l.Name, Literal: l.Literal, Value: atoi(l.Value, 0), Enum: e}
				e.Literals = append(e.Literals, lit)
			}
		case "EDataType":
			pkg.AddDataType(&domain.DataType{Name: c.Name, InstanceType: c.InstanceClassName})
		default:
			logger.Warn("Skipping classifier %s of unknown type %q", c.Name, c.Type)
		}
	}
	for i := range x.SubPackages {
		pkg.AddSubPackage(buildPackage(&x.SubPackages[i], pending))
	}
	return pkg
}

func resolveClass(p pendingClass, r *resolver) {
	for _, ref := range strings.Fields(p.xml.SuperTypes) {
		p.class.SuperTypes = append(p.class.SuperTypes, r.class(ref))
	}
	for _, g := range p.xml.GenericSupers {
		p.class.SuperTypes = append(p.class.SuperTypes, r.class(g.Classifier))
	}

	for _, f := range p.xml.Features {
		ref := f.EType
		if ref == "" && f.GenericType != nil {
			ref = f.GenericType.Classifier
		}
		lower := atoi(f.LowerBound, 0)
		upper := upperBound(f.UpperBound)

		switch classifierKind(f.Type) {
		case "EReference":
			feature := p.class.AddReference(f.Name, r.class(ref), lower, upper)
			feature.Containment = f.Containment
		case "EAttribute":
			feature := p.class.AddAttribute(f.Name, r.valueType(ref), lower, upper)
			feature.ID = f.ID
		default:
			logger.Warn("Skipping feature %s.%s of unknown type %q", p.class.Name, f.Name, f.Type)
		}
	}
}

// classifierKind strips the namespace prefix from an xsi:type value.
func classifierKind(xsiType string) string {
	if _, local, ok := strings.Cut(xsiType, ":"); ok {
		return local
	}
	return xsiType
}

// upperBound parses an upper bound. Missing bounds default to 1 and the
// "unspecified" bound -2 is treated as unbounded.
func upperBound(s string) int {
	n := atoi(s, 1)
	if n < 0 {
		return domain.Unbounded
	}
	return n
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
