// Package dataset materializes sheets into the generic row/cell storage and
// reads typed pages back out of it.
package dataset

import (
	"strconv"
	"strings"
	"time"

	"github.com/isvialnva/excel-processor/internal/dateparse"
	"github.com/isvialnva/excel-processor/internal/entity"
	"github.com/isvialnva/excel-processor/internal/schema"
)

// Kind tags which slot of a Value is populated.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInteger
	KindFloat
	KindDate
	KindDatetime
	KindBoolean
)

// Value is the coercion result: a tagged union with exactly one populated
// slot. Fallback marks a string-tagged value produced because the raw input
// could not be cast to the column's declared type.
type Value struct {
	Kind     Kind
	Str      string
	Int      int64
	Float    float64
	Time     time.Time
	Bool     bool
	Fallback bool
}

// Apply writes the value into the matching typed slot of a cell. A null value
// leaves every slot unset.
func (v Value) Apply(c *entity.DataCell) {
	switch v.Kind {
	case KindString:
		s := v.Str
		c.StringValue = &s
	case KindInteger:
		n := v.Int
		c.IntegerValue = &n
	case KindFloat:
		f := v.Float
		c.FloatValue = &f
	case KindDate:
		t := v.Time
		c.DateValue = &t
	case KindDatetime:
		t := v.Time
		c.DatetimeValue = &t
	case KindBoolean:
		b := v.Bool
		c.BooleanValue = &b
	}
}

// Coerce converts one raw value into the storage representation for the
// declared column type. Unconvertible values fall back to the stringified
// original rather than failing, so no source data is lost. Null and empty
// raw values produce a null cell regardless of the declared type.
func Coerce(raw any, t entity.DataType) Value {
	if schema.IsNull(raw) {
		return Value{Kind: KindNull}
	}

	switch t {
	case entity.TypeInteger:
		if n, ok := toInt64(raw); ok {
			return Value{Kind: KindInteger, Int: n}
		}
		return fallback(raw)
	case entity.TypeFloat:
		if f, ok := toFloat64(raw); ok {
			return Value{Kind: KindFloat, Float: f}
		}
		return fallback(raw)
	case entity.TypeDate:
		if ts, ok := toTime(raw); ok {
			return Value{Kind: KindDate, Time: dateparse.DateOnly(ts)}
		}
		return fallback(raw)
	case entity.TypeDatetime:
		if ts, ok := toTime(raw); ok {
			return Value{Kind: KindDatetime, Time: ts}
		}
		return fallback(raw)
	case entity.TypeBoolean:
		// Never fails: unrecognized forms resolve to false.
		return Value{Kind: KindBoolean, Bool: toBool(raw)}
	default:
		// string and unknown columns store text unconditionally.
		return Value{Kind: KindString, Str: schema.Stringify(raw)}
	}
}

func fallback(raw any) Value {
	return Value{Kind: KindString, Str: schema.Stringify(raw), Fallback: true}
}

func toInt64(raw any) (int64, bool) {
	switch x := raw.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	case float32:
		return int64(x), true
	case float64:
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func toFloat64(raw any) (float64, bool) {
	switch x := raw.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	if n, ok := toInt64(raw); ok {
		return float64(n), true
	}
	return 0, false
}

func toTime(raw any) (time.Time, bool) {
	switch x := raw.(type) {
	case time.Time:
		return x, true
	case string:
		return dateparse.Parse(x)
	}
	return time.Time{}, false
}

func toBool(raw any) bool {
	switch x := raw.(type) {
	case bool:
		return x
	case string:
		v, ok := schema.BoolToken(x)
		return ok && v
	}
	if f, ok := toFloat64(raw); ok {
		return f > 0
	}
	return false
}
