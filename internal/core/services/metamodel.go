package services

import (
	"context"
	"fmt"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/logger"
)

// lowerPackage emits the package class, then the package's enumerations,
// sub-packages and classes, in that order. A package is lowered once.
func (t *Transformer) lowerPackage(ctx context.Context, pkg *domain.Package) error {
	if pkg == nil || t.packages[pkg] || t.inProgress[pkg] {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	t.inProgress[pkg] = true
	defer delete(t.inProgress, pkg)

	logger.Debug("Lowering package %s (%s)", pkg.Name, pkg.NsURI)
	pkgClass, err := t.store.CreateOrGetClass(ctx, pkg.Name, t.ns)
	if err != nil {
		return err
	}
	parent := t.packageRoot
	if pkg.Super != nil {
		if parent, err = t.store.CreateOrGetClass(ctx, pkg.Super.Name, t.ns); err != nil {
			return err
		}
	}
	if err := t.store.AddSuperClass(ctx, pkgClass, parent); err != nil {
		return err
	}
	if err := t.annotateNamespace(ctx, pkgClass, pkg.NsURI); err != nil {
		return err
	}

	for _, e := range pkg.Enums {
		if err := t.lowerEnum(ctx, e); err != nil {
			return fmt.Errorf("enumeration %s: %w", e.Name, err)
		}
	}
	for _, sub := range pkg.SubPackages {
		if err := t.lowerPackage(ctx, sub); err != nil {
			return err
		}
	}
	for _, c := range pkg.Classes {
		if err := t.lowerClass(ctx, c); err != nil {
			return fmt.Errorf("class %s: %w", c.Name, err)
		}
	}

	t.packages[pkg] = true
	t.report.Packages++
	t.metrics.IncArtifact("package")
	return nil
}

// lowerClass emits cls below the root entity class or its declared
// super-types, then lowers its own features. It may run more than once
// for the same class; every store call it makes is idempotent.
func (t *Transformer) lowerClass(ctx context.Context, cls *domain.Class) error {
	if cls.IsProxy() {
		_, err := t.proxyClass(ctx, cls.Proxy)
		return err
	}
	classRef, err := t.store.CreateOrGetClass(ctx, cls.Name, t.ns)
	if err != nil {
		return err
	}
	if !t.classes[cls] {
		t.classes[cls] = true
		t.report.Classes++
		t.metrics.IncArtifact("class")
		logger.Debug("Lowering class %s", cls.Name)
	}
	if err := t.store.AddSuperClass(ctx, classRef, t.entityRoot); err != nil {
		return err
	}
	if cls.Abstract {
		if err := t.store.AddComment(ctx, classRef, "abstract", TagClassType); err != nil {
			return err
		}
	}
	if cls.Interface {
		if err := t.store.AddComment(ctx, classRef, "interface", TagClassType); err != nil {
			return err
		}
	}

	for _, super := range cls.SuperTypes {
		if super == nil || (super.Name == "" && !super.IsProxy()) {
			continue
		}
		superRef, err := t.superClass(ctx, super)
		if err != nil {
			return err
		}
		rooted, err := t.store.IsSubClassOf(ctx, classRef, t.entityRoot)
		if err != nil {
			return err
		}
		if rooted {
			if err := t.store.RemoveSuperClass(ctx, classRef, t.entityRoot); err != nil {
				return err
			}
		}
		if err := t.store.AddSuperClass(ctx, classRef, superRef); err != nil {
			return err
		}
	}
	if err := t.annotateNamespace(ctx, classRef, packageNsURI(cls.Package)); err != nil {
		return err
	}

	for _, f := range cls.Features {
		switch {
		case f.IsAttribute():
			err = t.lowerAttribute(ctx, f)
		case f.IsReference():
			err = t.lowerReference(ctx, f)
		}
		if err != nil {
			return fmt.Errorf("feature %s: %w", f.Name, err)
		}
	}
	return nil
}

// superClass returns the ontology class of a declared super-type, creating
// unseen ones below the root entity class.
func (t *Transformer) superClass(ctx context.Context, super *domain.Class) (domain.ClassRef, error) {
	if super.IsProxy() {
		return t.proxyClass(ctx, super.Proxy)
	}
	ref, exists, err := t.store.LookupClass(ctx, super.Name, t.ns)
	if err != nil {
		return domain.ClassRef{}, err
	}
	if !exists {
		if ref, err = t.store.CreateOrGetClass(ctx, super.Name, t.ns); err != nil {
			return domain.ClassRef{}, err
		}
		if err := t.store.AddSuperClass(ctx, ref, t.entityRoot); err != nil {
			return domain.ClassRef{}, err
		}
	}
	if err := t.annotateNamespace(ctx, ref, packageNsURI(super.Package)); err != nil {
		return domain.ClassRef{}, err
	}
	return ref, nil
}

func (t *Transformer) lowerAttribute(ctx context.Context, attr *domain.Feature) error {
	if e, ok := attr.EnumType(); ok {
		return t.lowerEnumAttribute(ctx, attr, e)
	}
	owner, err := t.store.CreateOrGetClass(ctx, attr.Owner.Name, t.ns)
	if err != nil {
		return err
	}

	name := PropertyName(attr.Name, attr.Owner.Name)
	dt := domain.DatatypeUnmapped
	if d, ok := attr.Type.(*domain.DataType); ok {
		dt = domain.DatatypeFor(d)
	}
	if !dt.IsMapped() {
		logger.Debug("Unmapped type %s of attribute %s, creating untyped property", attr.Type.ClassifierName(), name)
		t.diagnose(domain.DiagnosticUnmappedType, "attribute %s has unmapped type %s", name, attr.Type.ClassifierName())
	}

	prop, err := t.store.CreateOrGetDatatypeProperty(ctx, name, t.ns, owner, dt)
	if err != nil {
		return err
	}
	t.countProperty(name)
	if err := t.applyCardinality(ctx, owner, prop, attr); err != nil {
		return err
	}
	return t.annotateNamespace(ctx, prop, packageNsURI(attr.Owner.Package))
}

// lowerEnumAttribute emits an object property from the owner class to the
// enumerated class, restricted to values of that class.
func (t *Transformer) lowerEnumAttribute(ctx context.Context, attr *domain.Feature, e *domain.Enum) error {
	owner, err := t.store.CreateOrGetClass(ctx, attr.Owner.Name, t.ns)
	if err != nil {
		return err
	}
	enumRef, err := t.enumClass(ctx, e)
	if err != nil {
		return err
	}

	name := PropertyName(attr.Name, attr.Owner.Name)
	prop, err := t.store.CreateOrGetObjectProperty(ctx, name, t.ns, owner, enumRef, attr.IsFunctional())
	if err != nil {
		return err
	}
	t.countProperty(name)
	if err := t.applyBounds(ctx, owner, prop, attr); err != nil {
		return err
	}

	restriction, err := t.store.AddValueRestriction(ctx, prop, enumRef)
	if err != nil {
		return err
	}
	if err := t.store.AddSuperClass(ctx, owner, restriction); err != nil {
		return err
	}
	if err := t.annotateNamespace(ctx, enumRef, packageNsURI(e.Package)); err != nil {
		return err
	}
	return t.annotateNamespace(ctx, prop, packageNsURI(attr.Owner.Package))
}

// lowerReference emits an object property from the owner class to the
// target class. Unresolved targets are replaced by a placeholder class.
func (t *Transformer) lowerReference(ctx context.Context, ref *domain.Feature) error {
	owner, exists, err := t.store.LookupClass(ctx, ref.Owner.Name, t.ns)
	if err != nil {
		return err
	}
	if !exists {
		if err := t.lowerPackage(ctx, ref.Owner.Package); err != nil {
			return err
		}
		if owner, err = t.store.CreateOrGetClass(ctx, ref.Owner.Name, t.ns); err != nil {
			return err
		}
	}

	target, ok := ref.TargetClass()
	if !ok {
		t.diagnose(domain.DiagnosticMissingProperty, "reference %s.%s does not point to a class", ref.Owner.Name, ref.Name)
		return nil
	}
	var rangeRef domain.ClassRef
	if target.IsProxy() {
		if rangeRef, err = t.proxyClass(ctx, target.Proxy); err != nil {
			return err
		}
	} else if rangeRef, err = t.superClass(ctx, target); err != nil {
		return err
	}

	name := PropertyName(ref.Name, ref.Owner.Name)
	prop, err := t.store.CreateOrGetObjectProperty(ctx, name, t.ns, owner, rangeRef, ref.IsFunctional())
	if err != nil {
		return err
	}
	t.countProperty(name)
	if err := t.applyBounds(ctx, owner, prop, ref); err != nil {
		return err
	}
	return t.annotateNamespace(ctx, prop, packageNsURI(ref.Owner.Package))
}

// lowerEnum emits the enumerated class and one member individual per
// literal carrying the literal's label and value.
func (t *Transformer) lowerEnum(ctx context.Context, e *domain.Enum) error {
	enumRef, err := t.store.CreateOrGetEnumeratedClass(ctx, e.Name, t.ns)
	if err != nil {
		return err
	}
	if err := t.store.AddSuperClass(ctx, enumRef, t.enumRoot); err != nil {
		return err
	}
	if _, seen := t.enums[e.Name]; !seen {
		t.report.Enums++
		t.metrics.IncArtifact("enum")
	}
	t.enums[e.Name] = enumRef
	if err := t.annotateNamespace(ctx, enumRef, packageNsURI(e.Package)); err != nil {
		return err
	}

	literalProp, err := t.store.CreateOrGetDatatypeProperty(ctx,
		PropertyName(EnumLiteralPropertySuffix, EnumRootClassName), t.ns, t.enumRoot, domain.DatatypeString)
	if err != nil {
		return err
	}
	valueProp, err := t.store.CreateOrGetDatatypeProperty(ctx,
		PropertyName(EnumValuePropertySuffix, EnumRootClassName), t.ns, t.enumRoot, domain.DatatypeInteger)
	if err != nil {
		return err
	}

	for _, l := range e.Literals {
		label := l.Label()
		ind, err := t.store.CreateOrGetIndividual(ctx, enumRef, LiteralIdentifier(e.Name, label), t.ns)
		if err != nil {
			return err
		}
		if err := t.store.AddMember(ctx, enumRef, ind); err != nil {
			return err
		}
		if err := t.store.AttachTypedValue(ctx, ind, literalProp, domain.TypedLiteral(label, domain.DatatypeString)); err != nil {
			return err
		}
		if err := t.store.AttachTypedValue(ctx, ind, valueProp, domain.TypedLiteral(l.Value, domain.DatatypeInteger)); err != nil {
			return err
		}
	}
	return nil
}

// enumClass returns the class of an enumeration, falling back to a plain
// class when the enumeration has not been lowered yet.
func (t *Transformer) enumClass(ctx context.Context, e *domain.Enum) (domain.ClassRef, error) {
	if e.Proxy != "" && e.Name == "" {
		return t.proxyClass(ctx, e.Proxy)
	}
	if ref, ok := t.enums[e.Name]; ok {
		return ref, nil
	}
	return t.store.CreateOrGetClass(ctx, e.Name, t.ns)
}

// applyCardinality marks [1,1] features functional and restricts all
// others by their bounds.
func (t *Transformer) applyCardinality(ctx context.Context, owner domain.ClassRef, prop domain.PropertyRef, f *domain.Feature) error {
	if f.IsFunctional() {
		return t.store.MarkFunctional(ctx, prop)
	}
	return t.applyBounds(ctx, owner, prop, f)
}

// applyBounds adds min and max cardinality restrictions to owner for bounds
// other than [1,1]. Zero and unbounded limits are not restricted.
func (t *Transformer) applyBounds(ctx context.Context, owner domain.ClassRef, prop domain.PropertyRef, f *domain.Feature) error {
	if f.IsFunctional() {
		return nil
	}
	if f.Lower > 0 {
		r, err := t.store.AddMinCardinality(ctx, prop, f.Lower)
		if err != nil {
			return err
		}
		if err := t.store.AddSuperClass(ctx, owner, r); err != nil {
			return err
		}
	}
	if f.Upper > 0 {
		r, err := t.store.AddMaxCardinality(ctx, prop, f.Upper)
		if err != nil {
			return err
		}
		if err := t.store.AddSuperClass(ctx, owner, r); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transformer) countProperty(name string) {
	if t.properties[name] {
		return
	}
	t.properties[name] = true
	t.report.Properties++
	t.metrics.IncArtifact("property")
}
