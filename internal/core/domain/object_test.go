package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodeClass() (*Class, *Feature, *Feature) {
	p := NewPackage("p", "ns:p")
	node := p.AddClass(NewClass("Node"))
	name := node.AddAttribute("name", &DataType{Name: "EString"}, 0, 1)
	ref := node.AddReference("ref", node, 0, Unbounded)
	return node, name, ref
}

func TestObject_SetGet(t *testing.T) {
	node, name, ref := nodeClass()
	obj := NewObject(node)

	assert.False(t, obj.IsSet(name))
	assert.Nil(t, obj.Get(name))

	obj.Set(name, "a")
	obj.Set(ref, nil)
	assert.True(t, obj.IsSet(name))
	assert.True(t, obj.IsSet(ref), "nil values still count as set")
	assert.Equal(t, "a", obj.Get(name))
	assert.Equal(t, []*Feature{name, ref}, obj.SetFeatures())

	obj.Unset(name)
	assert.False(t, obj.IsSet(name))
	assert.Equal(t, []*Feature{ref}, obj.SetFeatures())
}

func TestObject_SetByName(t *testing.T) {
	node, name, _ := nodeClass()
	obj := NewObject(node)

	require.NoError(t, obj.SetByName("name", "x"))
	assert.Equal(t, "x", obj.Get(name))
	assert.ErrorIs(t, obj.SetByName("missing", 1), ErrNotFound)
	assert.ErrorIs(t, (&Object{}).SetByName("name", 1), ErrInvalidInput)
}

func TestObject_Add(t *testing.T) {
	node, name, ref := nodeClass()
	a := NewObject(node)
	b := NewObject(node)
	c := NewObject(node)

	a.Add(ref, b)
	a.Add(ref, c)
	assert.Equal(t, []*Object{b, c}, a.Get(ref))

	a.Add(name, "x")
	a.Add(name, "y")
	assert.Equal(t, []any{"x", "y"}, a.Get(name))
}

func TestValues(t *testing.T) {
	node, _, _ := nodeClass()
	obj := NewObject(node)

	assert.Nil(t, Values(nil))
	assert.Equal(t, []any{"x"}, Values("x"))
	assert.Equal(t, []any{obj}, Values([]*Object{obj}))
	assert.Equal(t, []any{"a", "b"}, Values([]string{"a", "b"}))
	assert.Equal(t, []any{1, 2}, Values([]any{1, 2}))
}

func TestEqual(t *testing.T) {
	node, name, ref := nodeClass()

	t.Run("same pointer", func(t *testing.T) {
		a := NewObject(node)
		assert.True(t, Equal(a, a))
	})

	t.Run("nil", func(t *testing.T) {
		assert.False(t, Equal(NewObject(node), nil))
	})

	t.Run("equal attributes", func(t *testing.T) {
		a := NewObject(node)
		b := NewObject(node)
		a.Set(name, "x")
		b.Set(name, "x")
		assert.True(t, Equal(a, b))
		assert.Equal(t, Digest(a), Digest(b))
	})

	t.Run("different attributes", func(t *testing.T) {
		a := NewObject(node)
		b := NewObject(node)
		a.Set(name, "x")
		b.Set(name, "y")
		assert.False(t, Equal(a, b))
	})

	t.Run("different ids", func(t *testing.T) {
		a := NewObject(node)
		b := NewObject(node)
		a.ID, b.ID = "1", "2"
		assert.False(t, Equal(a, b))
	})

	t.Run("different uris", func(t *testing.T) {
		a := NewObject(node)
		b := NewObject(node)
		a.URI, b.URI = "doc#//@a.0", "doc#//@a.1"
		assert.False(t, Equal(a, b))
	})

	t.Run("different classes", func(t *testing.T) {
		other := NewClass("Other")
		assert.False(t, Equal(NewObject(node), NewObject(other)))
	})

	t.Run("mutual references stay distinct", func(t *testing.T) {
		a := NewObject(node)
		b := NewObject(node)
		a.Set(ref, []*Object{b})
		b.Set(ref, []*Object{a})
		assert.False(t, Equal(a, b))
	})

	t.Run("references to the same target", func(t *testing.T) {
		target := NewObject(node)
		a := NewObject(node)
		b := NewObject(node)
		a.Set(ref, []*Object{target})
		b.Set(ref, []*Object{target})
		assert.True(t, Equal(a, b))
	})

	t.Run("references to targets with the same key", func(t *testing.T) {
		t1 := NewObject(node)
		t2 := NewObject(node)
		t1.ID, t2.ID = "n1", "n1"
		a := NewObject(node)
		b := NewObject(node)
		a.Set(ref, t1)
		b.Set(ref, t2)
		assert.True(t, Equal(a, b))
	})

	t.Run("dates compare by instant", func(t *testing.T) {
		created := node.AddAttribute("created", &DataType{Name: "EDate"}, 0, 1)
		a := NewObject(node)
		b := NewObject(node)
		instant := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		a.Set(created, instant)
		b.Set(created, instant.In(time.FixedZone("x", 3600)))
		assert.True(t, Equal(a, b))
	})
}

func TestDigest_IgnoresReferences(t *testing.T) {
	node, name, ref := nodeClass()
	a := NewObject(node)
	b := NewObject(node)
	a.Set(name, "x")
	b.Set(name, "x")
	a.Set(ref, []*Object{b})

	assert.Equal(t, Digest(a), Digest(b))
	assert.Contains(t, Digest(a), "ns:p#Node")
}

func TestFormatValue(t *testing.T) {
	lit := &Literal{Name: "RED", Literal: "red"}
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"int", 42, "42"},
		{"bool", true, "true"},
		{"literal", lit, "red"},
		{"list", []any{1, "a"}, "[1,a]"},
		{"date", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02T03:04:05Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.value))
		})
	}
}

func TestModel_Validate(t *testing.T) {
	node, _, _ := nodeClass()

	var nilModel *Model
	assert.ErrorIs(t, nilModel.Validate(), ErrInvalidInput)
	assert.NoError(t, (&Model{Contents: []*Object{NewObject(node)}}).Validate())
	assert.ErrorIs(t, (&Model{Contents: []*Object{{}}}).Validate(), ErrInvalidInput)
	assert.ErrorIs(t, (&Model{Contents: []*Object{nil}}).Validate(), ErrInvalidInput)
	assert.ErrorIs(t, (&Model{Contents: []*Object{NewObject(NewClass(""))}}).Validate(), ErrInvalidInput)
}
