// Package schema infers column types from raw sheet values, normalizes header
// names into storage-safe identifiers, and persists the resulting column
// definitions.
package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/isvialnva/excel-processor/internal/dateparse"
	"github.com/isvialnva/excel-processor/internal/entity"
)

// dateSampleSize caps how many values the date-likeness pre-check inspects.
// Columns at or below the cap are checked exhaustively; larger columns use an
// evenly spaced sample, so inference of a given column is deterministic.
const dateSampleSize = 20

// dateSampleThreshold is the fraction of the sample that must look date-like
// before a full-column parse is attempted.
const dateSampleThreshold = 0.8

var (
	numericDatePattern   = regexp.MustCompile(`^\d{1,4}[-/]\d{1,2}[-/]\d{1,4}(?:[T\s]|$)`)
	monthNameDatePattern = regexp.MustCompile(`^\d{1,2}[-/][A-Za-z]{3,}[-/]\d{2,4}$`)
)

// boolTokens maps the recognized boolean vocabulary (lowercase) to its truth
// value. The same vocabulary backs inference and cell coercion.
var boolTokens = map[string]bool{
	"true": true, "1": true, "yes": true, "si": true, "verdadero": true,
	"false": false, "0": false, "no": false,
}

// BoolToken looks up s in the boolean vocabulary, case-insensitively.
func BoolToken(s string) (value, ok bool) {
	value, ok = boolTokens[strings.ToLower(strings.TrimSpace(s))]
	return value, ok
}

// Infer decides the canonical data type for one column. values must already
// have nulls removed (see IsNull); an empty input classifies as string.
//
// Precedence: native integers, native floats, boolean vocabulary, lossless
// integer conversion, float conversion, date/datetime detection, native
// temporal values, string. Numeric and boolean checks run before date
// detection because numeric strings can spuriously match date patterns.
func Infer(values []any) entity.DataType {
	if len(values) == 0 {
		return entity.TypeString
	}
	if all(values, isNativeInt) {
		return entity.TypeInteger
	}
	if all(values, isNativeFloat) {
		return entity.TypeFloat
	}
	if all(values, isBoolToken) {
		return entity.TypeBoolean
	}
	if all(values, intCastable) {
		return entity.TypeInteger
	}
	if all(values, floatCastable) {
		return entity.TypeFloat
	}
	if t, ok := detectTemporal(values); ok {
		return t
	}
	if all(values, isNativeTime) {
		return entity.TypeDatetime
	}
	return entity.TypeString
}

// Nullable reports whether the raw column (nulls included) has at least one
// null entry. It is an independent signal from the inferred type.
func Nullable(values []any) bool {
	for _, v := range values {
		if IsNull(v) {
			return true
		}
	}
	return false
}

// DropNulls returns the non-null values in order.
func DropNulls(values []any) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		if !IsNull(v) {
			out = append(out, v)
		}
	}
	return out
}

// IsNull treats nil and blank strings as missing values.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func all(values []any, pred func(any) bool) bool {
	for _, v := range values {
		if !pred(v) {
			return false
		}
	}
	return true
}

func isNativeInt(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func isNativeFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

func isNativeTime(v any) bool {
	_, ok := v.(time.Time)
	return ok
}

func isBoolToken(v any) bool {
	switch x := v.(type) {
	case bool:
		return true
	case string:
		_, ok := BoolToken(x)
		return ok
	default:
		if n, ok := asInt64(v); ok {
			return n == 0 || n == 1
		}
		if f, ok := asFloat64(v); ok {
			return f == 0 || f == 1
		}
	}
	return false
}

// intCastable reports whether v converts to an integer without loss: integer
// literals for strings, whole values for floats.
func intCastable(v any) bool {
	switch x := v.(type) {
	case bool:
		return true
	case string:
		_, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return err == nil
	default:
		if _, ok := asInt64(v); ok {
			return true
		}
		if f, ok := asFloat64(v); ok {
			return !math.IsNaN(f) && !math.IsInf(f, 0) && math.Trunc(f) == f
		}
	}
	return false
}

func floatCastable(v any) bool {
	switch x := v.(type) {
	case bool:
		return true
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return err == nil
	default:
		if _, ok := asInt64(v); ok {
			return true
		}
		_, ok := asFloat64(v)
		return ok
	}
}

// detectTemporal applies the sampled date-likeness pre-check, then a full
// column parse. A failed full parse falls through to the later checks.
func detectTemporal(values []any) (entity.DataType, bool) {
	sample := sampleValues(values)
	dateLike := 0
	for _, v := range sample {
		s := Stringify(v)
		if numericDatePattern.MatchString(s) || monthNameDatePattern.MatchString(s) {
			dateLike++
		}
	}
	if float64(dateLike) < dateSampleThreshold*float64(len(sample)) {
		return "", false
	}

	hasClock := false
	for _, v := range values {
		if t, ok := v.(time.Time); ok {
			if !dateparse.DateOnly(t).Equal(t) {
				hasClock = true
			}
			continue
		}
		s := Stringify(v)
		if _, ok := dateparse.Parse(s); !ok {
			return "", false
		}
		if dateparse.HasClock(s) {
			hasClock = true
		}
	}
	if hasClock {
		return entity.TypeDatetime, true
	}
	return entity.TypeDate, true
}

// sampleValues picks at most dateSampleSize values, evenly spaced.
func sampleValues(values []any) []any {
	n := len(values)
	if n <= dateSampleSize {
		return values
	}
	// Round the stride up so the sample spans the whole column; flooring
	// would degenerate to the first 20 values for columns just over the cap.
	step := (n + dateSampleSize - 1) / dateSampleSize
	sample := make([]any, 0, dateSampleSize)
	for i := 0; i < n && len(sample) < dateSampleSize; i += step {
		sample = append(sample, values[i])
	}
	return sample
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
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
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// Stringify renders any raw cell value as text, the representation used for
// the string slot and for fallbacks.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		if n, ok := asInt64(v); ok {
			return strconv.FormatInt(n, 10)
		}
		return fmt.Sprintf("%v", v)
	}
}
