package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/kit-sdq/Ecore2OWL/internal/core/domain"
	"github.com/kit-sdq/Ecore2OWL/internal/logger"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseValue converts the lexical form of an attribute value to the Go
// type matching the attribute's declared type. Enumeration values become
// their *domain.Literal. Text that does not parse stays a string.
func parseValue(f *domain.Feature, raw string) any {
	if e, ok := f.EnumType(); ok {
		if lit := e.LiteralByLabel(raw); lit != nil {
			return lit
		}
		return raw
	}

	dt, _ := f.Type.(*domain.DataType)
	text := strings.TrimSpace(raw)
	var (
		v   any
		err error
	)
	switch domain.DatatypeFor(dt) {
	case domain.DatatypeInteger:
		v, err = strconv.Atoi(text)
	case domain.DatatypeLong:
		v, err = strconv.ParseInt(text, 10, 64)
	case domain.DatatypeShort:
		var n int64
		n, err = strconv.ParseInt(text, 10, 16)
		v = int16(n)
	case domain.DatatypeByte:
		var n int64
		n, err = strconv.ParseInt(text, 10, 8)
		v = int8(n)
	case domain.DatatypeDouble, domain.DatatypeDecimal:
		v, err = strconv.ParseFloat(text, 64)
	case domain.DatatypeFloat:
		var n float64
		n, err = strconv.ParseFloat(text, 32)
		v = float32(n)
	case domain.DatatypeBoolean:
		v, err = strconv.ParseBool(text)
	case domain.DatatypeDate:
		v, err = parseDate(text)
	default:
		return raw
	}
	if err != nil {
		logger.Debug("Keeping %s.%s value %q as text: %v", ownerName(f), f.Name, raw, err)
		return raw
	}
	return v
}

// coerce adapts a natively typed value (as decoded from YAML or JSON) to
// the attribute's declared type.
func coerce(f *domain.Feature, v any) any {
	switch x := v.(type) {
	case string:
		return parseValue(f, x)
	case int:
		if e, ok := f.EnumType(); ok {
			for _, lit := range e.Literals {
				if lit.Value == x {
					return lit
				}
			}
			return x
		}
		dt, _ := f.Type.(*domain.DataType)
		switch domain.DatatypeFor(dt) {
		case domain.DatatypeLong:
			return int64(x)
		case domain.DatatypeShort:
			return int16(x)
		case domain.DatatypeByte:
			return int8(x)
		case domain.DatatypeDouble, domain.DatatypeDecimal:
			return float64(x)
		case domain.DatatypeFloat:
			return float32(x)
		}
		return x
	case float64:
		dt, _ := f.Type.(*domain.DataType)
		if domain.DatatypeFor(dt) == domain.DatatypeFloat {
			return float32(x)
		}
		return x
	default:
		return v
	}
}

func parseDate(text string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func ownerName(f *domain.Feature) string {
	if f.Owner == nil {
		return ""
	}
	return f.Owner.Name
}
