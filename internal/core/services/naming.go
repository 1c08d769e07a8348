package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
)

// PropertySeparator joins a feature name and its owner class name.
const PropertySeparator = "_-_"

var nameCleaner = strings.NewReplacer(`"`, "", "'", "", "<", `\<`, ">", `\>`)

// CleanName removes quotes and escapes angle brackets.
func CleanName(name string) string {
	return nameCleaner.Replace(name)
}

// PropertyName returns the ontology property name of a feature declared by
// the class named owner. Attributes and references share the scheme.
func PropertyName(feature, owner string) string {
	return CleanName(feature + PropertySeparator + owner)
}

// LiteralIdentifier returns the individual name of an enumeration literal.
func LiteralIdentifier(enumName, label string) string {
	return CleanName(enumName + "_" + label)
}

type namedObject struct {
	object *domain.Object
	token  string
}

// Namer assigns one stable name per logical instance object within a run.
// Objects are matched by domain.Equal; candidates are bucketed by
// domain.Digest so a lookup scans only objects with the same content.
type Namer struct {
	byPointer map[*domain.Object]string
	buckets   map[string][]namedObject
	size      int
	newToken  func() string
}

// NewNamer creates a namer drawing fresh tokens from random UUIDs.
func NewNamer() *Namer {
	return NewNamerWithTokens(uuid.NewString)
}

// NewNamerWithTokens creates a namer with a custom fresh token source.
func NewNamerWithTokens(newToken func() string) *Namer {
	return &Namer{
		byPointer: make(map[*domain.Object]string),
		buckets:   make(map[string][]namedObject),
		newToken:  newToken,
	}
}

// ObjectIdentifier returns the cleaned "<ClassName><token>" name of obj.
// The token is the provider id, or a fresh token for objects without one,
// and is reused for every object Equal to one seen before.
func (n *Namer) ObjectIdentifier(obj *domain.Object) (string, error) {
	if obj == nil || obj.Class == nil {
		return "", fmt.Errorf("%w: object without class", domain.ErrInvalidInput)
	}
	return CleanName(obj.Class.ClassifierName() + n.token(obj)), nil
}

func (n *Namer) token(obj *domain.Object) string {
	if token, ok := n.byPointer[obj]; ok {
		return token
	}
	digest := domain.Digest(obj)
	for _, candidate := range n.buckets[digest] {
		if domain.Equal(candidate.object, obj) {
			n.byPointer[obj] = candidate.token
			return candidate.token
		}
	}
	token := obj.ID
	if token == "" {
		token = n.newToken()
	}
	n.buckets[digest] = append(n.buckets[digest], namedObject{object: obj, token: token})
	n.byPointer[obj] = token
	n.size++
	return token
}

// Len returns the number of distinct objects named so far.
func (n *Namer) Len() int {
	return n.size
}
