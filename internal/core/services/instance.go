package services

import (
	"context"
	"fmt"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/logger"
)

// Attribute names whose values double as labels or id comments.
var (
	labelAttributes = map[string]bool{"name": true, "entityName": true}
	idAttribute     = "id"
)

// lowerObject emits the individual of obj and its feature values, then
// recurses into referenced objects not yet lowered. The object is marked
// before its features so reference cycles terminate.
func (t *Transformer) lowerObject(ctx context.Context, obj *domain.Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	classRef, err := t.ensureClass(ctx, obj.Class)
	if err != nil {
		return err
	}
	id, err := t.namer.ObjectIdentifier(obj)
	if err != nil {
		return err
	}
	ind, err := t.store.CreateOrGetIndividual(ctx, classRef, id, t.ns)
	if err != nil {
		return err
	}
	if t.objects[id] {
		return nil
	}
	t.objects[id] = true
	t.report.Individuals++
	t.metrics.IncArtifact("individual")

	for _, f := range obj.Class.AllFeatures() {
		if !obj.IsSet(f) {
			continue
		}
		value := obj.Get(f)
		if value == nil {
			logger.Warn("Value of %s.%s is null", id, f.Name)
			t.diagnose(domain.DiagnosticMissingValue, "%s has no value for %s", id, f.Name)
			continue
		}
		switch {
		case f.IsReference():
			err = t.lowerReferenceFeature(ctx, ind, id, f, value)
		default:
			if e, ok := f.EnumType(); ok {
				err = t.lowerEnumFeature(ctx, ind, id, f, e, value)
			} else {
				err = t.lowerAttributeFeature(ctx, ind, id, f, value)
			}
		}
		if err != nil {
			return fmt.Errorf("%s.%s: %w", id, f.Name, err)
		}
	}
	return nil
}

// featureProperty looks up the property of f, lowering the declaring class
// on demand. ok is false when the property still does not exist.
func (t *Transformer) featureProperty(ctx context.Context, f *domain.Feature, kind domain.PropertyKind) (domain.PropertyRef, bool, error) {
	name := PropertyName(f.Name, f.Owner.Name)
	prop, ok, err := t.store.LookupProperty(ctx, name, t.ns, kind)
	if err != nil || ok {
		return prop, ok, err
	}
	if err := t.lowerClass(ctx, f.Owner); err != nil {
		return domain.PropertyRef{}, false, err
	}
	prop, ok, err = t.store.LookupProperty(ctx, name, t.ns, kind)
	if err != nil {
		return domain.PropertyRef{}, false, err
	}
	if !ok {
		logger.Warn("Could not find property %s", name)
		t.diagnose(domain.DiagnosticMissingProperty, "no property %s", name)
	}
	return prop, ok, nil
}

func (t *Transformer) lowerReferenceFeature(ctx context.Context, ind domain.IndividualRef, id string, f *domain.Feature, value any) error {
	prop, ok, err := t.featureProperty(ctx, f, domain.ObjectProperty)
	if err != nil || !ok {
		return err
	}
	for _, v := range domain.Values(value) {
		target, isObject := v.(*domain.Object)
		if !isObject || target == nil || target.Class == nil {
			logger.Warn("Value of %s.%s is not an object", id, f.Name)
			t.diagnose(domain.DiagnosticMissingValue, "%s.%s holds a non-object value", id, f.Name)
			continue
		}
		targetClass, err := t.ensureClass(ctx, target.Class)
		if err != nil {
			return err
		}
		targetID, err := t.namer.ObjectIdentifier(target)
		if err != nil {
			return err
		}
		targetInd, err := t.store.CreateOrGetIndividual(ctx, targetClass, targetID, t.ns)
		if err != nil {
			return err
		}

		exists, err := t.store.HasStatement(ctx, ind, prop, targetInd)
		if err != nil {
			return err
		}
		if !exists {
			if err := t.store.AddStatement(ctx, ind, prop, targetInd); err != nil {
				return err
			}
			t.report.Statements++
			t.metrics.IncArtifact("statement")
		}

		if !t.objects[targetID] {
			if err := t.lowerObject(ctx, target); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Transformer) lowerEnumFeature(ctx context.Context, ind domain.IndividualRef, id string, f *domain.Feature, e *domain.Enum, value any) error {
	prop, ok, err := t.featureProperty(ctx, f, domain.ObjectProperty)
	if err != nil || !ok {
		return err
	}
	for _, v := range domain.Values(value) {
		label, ok := literalLabel(e, v)
		if !ok {
			logger.Warn("Value %v of %s.%s is not a literal of %s", v, id, f.Name, e.Name)
			t.diagnose(domain.DiagnosticMissingValue, "%s.%s: %v is not a literal of %s", id, f.Name, v, e.Name)
			continue
		}
		literalID := LiteralIdentifier(e.Name, label)
		literal, exists, err := t.store.LookupIndividual(ctx, literalID, t.ns)
		if err != nil {
			return err
		}
		if !exists {
			enumRef, err := t.enumClass(ctx, e)
			if err != nil {
				return err
			}
			if literal, err = t.store.CreateOrGetIndividual(ctx, enumRef, literalID, t.ns); err != nil {
				return err
			}
		}

		has, err := t.store.HasStatement(ctx, ind, prop, literal)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if err := t.store.AddStatement(ctx, ind, prop, literal); err != nil {
			return err
		}
		t.report.Statements++
		t.metrics.IncArtifact("statement")
	}
	return nil
}

// literalLabel returns the label of an enumeration value given as a
// literal, its label or its integer value. Values naming no literal of e
// are rejected.
func literalLabel(e *domain.Enum, v any) (string, bool) {
	switch x := v.(type) {
	case *domain.Literal:
		if x == nil {
			return "", false
		}
		return x.Label(), true
	case string:
		if l := e.LiteralByLabel(x); l != nil {
			return l.Label(), true
		}
	case int:
		for _, l := range e.Literals {
			if l.Value == x {
				return l.Label(), true
			}
		}
	}
	return "", false
}

func (t *Transformer) lowerAttributeFeature(ctx context.Context, ind domain.IndividualRef, id string, f *domain.Feature, value any) error {
	for _, v := range domain.Values(value) {
		typeName := domain.ValueTypeName(v)
		dt := domain.LookupDatatype(typeName)
		if !dt.IsMapped() {
			logger.Debug("Unmapped value type %T of %s.%s, skipping", v, id, f.Name)
			t.diagnose(domain.DiagnosticUnmappedType, "%s.%s: value of type %T has no datatype", id, f.Name, v)
			continue
		}
		prop, ok, err := t.featureProperty(ctx, f, domain.DatatypeProperty)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := t.store.AttachTypedValue(ctx, ind, prop, domain.TypedLiteral(v, dt)); err != nil {
			return err
		}

		switch {
		case labelAttributes[f.Name]:
			err = t.store.AddLabel(ctx, ind, domain.FormatValue(v))
		case f.Name == idAttribute:
			err = t.store.AddComment(ctx, ind, domain.FormatValue(v), TagID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
