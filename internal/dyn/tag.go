package dyn

import (
	"strconv"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/dyn/internal/codec"
)

// Tag identifies one representation type in the closed catalog.
//
// The catalog is deliberately closed: every value a container can hold
// classifies into exactly one tag, and tag acceptance is an explicit table
// rather than an open-ended runtime type walk.
type Tag string

const (
	// TagEmpty marks a representation set from an absent (nil) value.
	TagEmpty Tag = "empty"

	TagString  Tag = "string"
	TagInt     Tag = "int"
	TagDecimal Tag = "decimal"
	TagBool    Tag = "bool"
	TagList    Tag = "list"
	TagMap     Tag = "map"
	TagTime    Tag = "time"
)

// Tags lists the full catalog in declaration order.
var Tags = []Tag{TagEmpty, TagString, TagInt, TagDecimal, TagBool, TagList, TagMap, TagTime}

// ParseTag resolves a tag name. The second return is false for names outside
// the catalog.
func ParseTag(name string) (Tag, bool) {
	for _, t := range Tags {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// accepts is the explicit widening table: a requested tag accepts a stored
// tag when the stored value can stand in for the requested type unchanged.
var accepts = map[Tag][]Tag{
	TagDecimal: {TagInt},
}

// Accepts reports whether a value tagged stored satisfies a request for t.
// Every tag accepts itself; widenings come from the acceptance table.
func (t Tag) Accepts(stored Tag) bool {
	if t == stored {
		return true
	}
	for _, s := range accepts[t] {
		if s == stored {
			return true
		}
	}
	return false
}

// numeric reports whether the tag holds a number.
func (t Tag) numeric() bool {
	return t == TagInt || t == TagDecimal
}

// Shape maps the tag onto the codec's structural target.
func (t Tag) Shape() codec.Shape {
	return codec.Shape(t)
}

// TagOf classifies a runtime value into the closed catalog.
//
// Integer kinds normalize to int64 under TagInt; float kinds classify as
// TagDecimal (the value itself is normalized separately, see normalize).
// Values outside the closed set classify as TagEmpty only when nil.
func TagOf(v any) Tag {
	switch v.(type) {
	case nil:
		return TagEmpty
	case string:
		return TagString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		return TagInt
	case *apd.Decimal, float32, float64:
		return TagDecimal
	case bool:
		return TagBool
	case []any:
		return TagList
	case map[string]any:
		return TagMap
	case time.Time:
		return TagTime
	default:
		return TagEmpty
	}
}

// normalize maps a raw Go value onto its canonical in-container form:
// integer kinds to int64, float kinds to *apd.Decimal. Other closed-set
// values pass through unchanged.
func normalize(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case float32:
		return floatToDecimal(float64(val))
	case float64:
		return floatToDecimal(val)
	default:
		return v
	}
}

// floatToDecimal converts through the shortest round-tripping decimal text so
// 0.1 becomes the decimal 0.1, not the nearest binary fraction.
func floatToDecimal(f float64) *apd.Decimal {
	d, _, err := apd.NewFromString(strconv.FormatFloat(f, 'g', -1, 64))
	if err != nil {
		// FormatFloat output is always parseable; non-finite floats are the
		// one exception and have no decimal form.
		return apd.New(0, 0)
	}
	return d
}
