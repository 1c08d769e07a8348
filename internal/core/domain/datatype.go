package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Datatype is a canonical primitive datatype of the ontology.
type Datatype int

// Canonical datatypes. DatatypeUnmapped is the explicit outcome for type
// names the table does not know.
const (
	DatatypeUnmapped Datatype = iota
	DatatypeString
	DatatypeInteger
	DatatypeBoolean
	DatatypeByte
	DatatypeDecimal
	DatatypeDate
	DatatypeDouble
	DatatypeFloat
	DatatypeLong
	DatatypeShort
)

var datatypeIRIs = map[Datatype]string{
	DatatypeString:  XSDNamespace + "string",
	DatatypeInteger: XSDNamespace + "integer",
	DatatypeBoolean: XSDNamespace + "boolean",
	DatatypeByte:    XSDNamespace + "byte",
	DatatypeDecimal: XSDNamespace + "decimal",
	DatatypeDate:    XSDNamespace + "date",
	DatatypeDouble:  XSDNamespace + "double",
	DatatypeFloat:   XSDNamespace + "float",
	DatatypeLong:    XSDNamespace + "long",
	DatatypeShort:   XSDNamespace + "short",
}

var datatypeTable = map[string]Datatype{
	"EString":          DatatypeString,
	"String":           DatatypeString,
	"Char":             DatatypeString,
	"EChar":            DatatypeString,
	"ECharObject":      DatatypeString,
	"EInt":             DatatypeInteger,
	"EIntegerObject":   DatatypeInteger,
	"Integer":          DatatypeInteger,
	"Int":              DatatypeInteger,
	"EBoolean":         DatatypeBoolean,
	"EBooleanObject":   DatatypeBoolean,
	"Boolean":          DatatypeBoolean,
	"EByte":            DatatypeByte,
	"EByteObject":      DatatypeByte,
	"Byte":             DatatypeByte,
	"Currency":         DatatypeDecimal,
	"EDate":            DatatypeDate,
	"Date":             DatatypeDate,
	"Double":           DatatypeDouble,
	"EDouble":          DatatypeDouble,
	"EDoubleObject":    DatatypeDouble,
	"Float":            DatatypeFloat,
	"EFloat":           DatatypeFloat,
	"EFloatObject":     DatatypeFloat,
	"ELong":            DatatypeLong,
	"ELongObject":      DatatypeLong,
	"Long":             DatatypeLong,
	"UnlimitedNatural": DatatypeLong,
	"EBigInteger":      DatatypeLong,
	"BigInteger":       DatatypeLong,
	"Single":           DatatypeShort,
	"EShort":           DatatypeShort,
	"EShortObject":     DatatypeShort,
}

// LookupDatatype maps a primitive type name to its canonical datatype.
// Unknown names, including "Variant", yield DatatypeUnmapped.
func LookupDatatype(name string) Datatype {
	return datatypeTable[name]
}

// KnownTypeNames returns the primitive type names of the table, sorted.
func KnownTypeNames() []string {
	names := make([]string, 0, len(datatypeTable))
	for name := range datatypeTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DatatypeFor resolves the datatype of a declared data type: by its name
// first, then by the simple name of its instance type.
func DatatypeFor(d *DataType) Datatype {
	if d == nil {
		return DatatypeUnmapped
	}
	if dt := LookupDatatype(d.ClassifierName()); dt != DatatypeUnmapped {
		return dt
	}
	return LookupDatatype(simpleTypeName(d.InstanceType))
}

func simpleTypeName(instanceType string) string {
	if i := strings.LastIndex(instanceType, "."); i >= 0 {
		instanceType = instanceType[i+1:]
	}
	if instanceType == "" {
		return ""
	}
	// primitive instance types such as "int" map like their boxed names
	return strings.ToUpper(instanceType[:1]) + instanceType[1:]
}

// IsMapped reports whether d is a known datatype.
func (d Datatype) IsMapped() bool {
	_, ok := datatypeIRIs[d]
	return ok
}

// IRI returns the XML Schema IRI, or "" when unmapped.
func (d Datatype) IRI() string {
	return datatypeIRIs[d]
}

// String returns the XML Schema local name, or "unmapped".
func (d Datatype) String() string {
	if iri, ok := datatypeIRIs[d]; ok {
		return "xsd:" + strings.TrimPrefix(iri, XSDNamespace)
	}
	return "unmapped"
}

// ValueTypeName returns the primitive type name of a Go value, following
// the same naming convention the table uses for boxed types.
func ValueTypeName(v any) string {
	switch v.(type) {
	case string:
		return "String"
	case int, int32, uint16, uint32:
		return "Integer"
	case int64, uint, uint64:
		return "Long"
	case int16:
		return "Short"
	case int8, uint8:
		return "Byte"
	case float32:
		return "Float"
	case float64:
		return "Double"
	case bool:
		return "Boolean"
	case time.Time:
		return "Date"
	default:
		return ""
	}
}

// TypedLiteral builds the literal term of a value in datatype d.
func TypedLiteral(v any, d Datatype) Term {
	return Term{Kind: TermLiteral, Value: lexicalForm(v, d), Datatype: d.IRI()}
}

func lexicalForm(v any, d Datatype) string {
	switch x := v.(type) {
	case time.Time:
		if d == DatatypeDate {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return FormatValue(v)
	}
}
