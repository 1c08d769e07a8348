package domain

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Object is an instance node conforming to exactly one class. Reference
// values are *Object or []*Object; attribute values are Go scalars,
// *Literal for enumerations, or slices of those for many-valued features.
type Object struct {
	Class *Class

	// ID is the provider assigned identifier (the ID attribute value or the
	// document's xmi:id). Empty when the provider has none.
	ID string

	// URI locates the object in its document. Unresolved cross-document
	// objects carry the URI they were referenced by and Proxy set.
	URI   string
	Proxy bool

	values map[*Feature]any
	order  []*Feature
}

// NewObject creates an object of the given class with no features set.
func NewObject(class *Class) *Object {
	return &Object{Class: class, values: make(map[*Feature]any)}
}

// Set assigns a value to f. A nil value still marks the feature as set.
func (o *Object) Set(f *Feature, value any) {
	if o.values == nil {
		o.values = make(map[*Feature]any)
	}
	if _, ok := o.values[f]; !ok {
		o.order = append(o.order, f)
	}
	o.values[f] = value
}

// SetByName assigns a value to the feature named name.
func (o *Object) SetByName(name string, value any) error {
	if o.Class == nil {
		return fmt.Errorf("%w: object has no class", ErrInvalidInput)
	}
	f := o.Class.Feature(name)
	if f == nil {
		return fmt.Errorf("%w: class %s has no feature %q", ErrNotFound, o.Class.Name, name)
	}
	o.Set(f, value)
	return nil
}

// Add appends a value to a many-valued feature.
func (o *Object) Add(f *Feature, value any) {
	current, ok := o.values[f]
	if !ok || current == nil {
		if f.IsReference() {
			if target, isObj := value.(*Object); isObj {
				o.Set(f, []*Object{target})
				return
			}
		}
		o.Set(f, []any{value})
		return
	}
	switch list := current.(type) {
	case []*Object:
		if target, isObj := value.(*Object); isObj {
			o.values[f] = append(list, target)
			return
		}
		converted := make([]any, 0, len(list)+1)
		for _, item := range list {
			converted = append(converted, item)
		}
		o.values[f] = append(converted, value)
	case []any:
		o.values[f] = append(list, value)
	default:
		o.values[f] = []any{list, value}
	}
}

// Unset clears f.
func (o *Object) Unset(f *Feature) {
	if _, ok := o.values[f]; !ok {
		return
	}
	delete(o.values, f)
	for i, existing := range o.order {
		if existing == f {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// IsSet reports whether f was explicitly set.
func (o *Object) IsSet(f *Feature) bool {
	_, ok := o.values[f]
	return ok
}

// Get returns the value of f, or nil when unset.
func (o *Object) Get(f *Feature) any {
	return o.values[f]
}

// SetFeatures returns the set features in the order they were set.
func (o *Object) SetFeatures() []*Feature {
	out := make([]*Feature, len(o.order))
	copy(out, o.order)
	return out
}

// Key returns the provider identity of o: its ID, else its URI.
func (o *Object) Key() string {
	if o.ID != "" {
		return o.ID
	}
	return o.URI
}

// Values flattens a feature value into its elements. Scalars yield one
// element and nil yields none.
func Values(value any) []any {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		return v
	case []*Object:
		out := make([]any, len(v))
		for i, obj := range v {
			out[i] = obj
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []*Literal:
		out := make([]any, len(v))
		for i, l := range v {
			out[i] = l
		}
		return out
	default:
		return []any{v}
	}
}

// Equal reports whether a and b denote the same logical instance: the same
// pointer, or the same class with equal identifiers where both carry one,
// equal attribute values and references to the same targets. References
// are compared by target pointer or target key, never recursively.
func Equal(a, b *Object) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if !SameClass(a.Class, b.Class) {
		return false
	}
	if a.ID != "" && b.ID != "" && a.ID != b.ID {
		return false
	}
	if a.URI != "" && b.URI != "" && a.URI != b.URI {
		return false
	}
	if len(a.values) != len(b.values) {
		return false
	}
	for _, fa := range a.order {
		fb := b.featureNamed(fa.Name)
		if fb == nil {
			return false
		}
		if fa.IsReference() {
			if !sameTargets(Values(a.values[fa]), Values(b.values[fb])) {
				return false
			}
			continue
		}
		if !equalAttribute(a.values[fa], b.values[fb]) {
			return false
		}
	}
	return true
}

func (o *Object) featureNamed(name string) *Feature {
	for _, f := range o.order {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func sameTargets(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		oa, okA := a[i].(*Object)
		ob, okB := b[i].(*Object)
		if !okA || !okB {
			if okA != okB {
				return false
			}
			continue
		}
		if oa == ob {
			continue
		}
		if oa == nil || ob == nil || oa.Key() == "" || oa.Key() != ob.Key() {
			return false
		}
	}
	return true
}

func equalAttribute(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	la, okA := a.(*Literal)
	lb, okB := b.(*Literal)
	if okA && okB {
		return la.Label() == lb.Label() && la.Value == lb.Value
	}
	return reflect.DeepEqual(a, b)
}

// Digest returns a content key used to bucket candidate matches for Equal:
// objects that are Equal always share the same digest.
func Digest(o *Object) string {
	var sb strings.Builder
	if o.Class != nil {
		sb.WriteString(nsURIOf(o.Class.Package))
		sb.WriteString("#")
		sb.WriteString(o.Class.ClassifierName())
	}
	parts := make([]string, 0, len(o.order))
	for _, f := range o.order {
		if f.IsReference() {
			continue
		}
		parts = append(parts, f.Name+"="+FormatValue(o.values[f]))
	}
	sort.Strings(parts)
	for _, p := range parts {
		sb.WriteString("|")
		sb.WriteString(p)
	}
	return sb.String()
}

// FormatValue renders an attribute value the way it appears as a label.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *Literal:
		return x.Label()
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = FormatValue(item)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprint(x)
	}
}

// Model is a loaded instance document.
type Model struct {
	URI      string
	Contents []*Object
}

// Validate checks that every top-level object has a class.
func (m *Model) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil model", ErrInvalidInput)
	}
	for i, obj := range m.Contents {
		if obj == nil || obj.Class == nil {
			return fmt.Errorf("%w: top-level object %d has no class", ErrInvalidInput, i)
		}
		if obj.Class.ClassifierName() == "" {
			return fmt.Errorf("%w: top-level object %d has an unnamed class", ErrInvalidInput, i)
		}
	}
	return nil
}
