package dyn

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/dyn/internal/codec"
)

// representation is one (tag, value) pair held by a container.
type representation struct {
	tag   Tag
	value any
}

// Container holds several simultaneous type-tagged representations of one
// logical value.
//
// Representations are kept in insertion order; writing an existing tag
// replaces the value in place without changing its position. The typed-lookup
// fallback scans in this order, so lookup results are deterministic.
//
// A Container is not safe for concurrent mutation. Callers sharing a
// container across goroutines must serialize access themselves.
type Container struct {
	reps      []representation
	primary   Tag
	hasValue  bool
	nullSafe  bool
	immutable bool
}

// Of creates a container seeded with one representation of v.
func Of(v any) *Container {
	c := &Container{}
	// A fresh container is never immutable, so Set cannot fail here.
	_ = c.Set(v)
	return c
}

// OfAs creates a container seeded with one representation of v stored under
// an explicit tag.
func OfAs(v any, tag Tag) *Container {
	c := &Container{}
	_ = c.SetAs(v, tag)
	return c
}

// Immutable creates a container holding v that rejects all mutation.
func Immutable(v any) *Container {
	c := Of(v)
	c.immutable = true
	return c
}

// Optional creates a null-safe container holding v. Missing-value lookups on
// it return nil instead of NOT_FOUND.
func Optional(v any) *Container {
	c := Of(v)
	c.nullSafe = true
	return c
}

// List creates a container holding a list of the given elements.
// Elements that are themselves containers are unwrapped to their primary
// values before storage.
func List(elems ...any) *Container {
	list := make([]any, 0, len(elems))
	for _, e := range elems {
		list = append(list, unwrap(e))
	}
	c := &Container{}
	_ = c.SetAs(list, TagList)
	return c
}

// Date creates a container holding a calendar date at midnight UTC.
func Date(year int, month time.Month, day int) *Container {
	return Of(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateTime creates a container holding a timestamp at UTC.
func DateTime(year int, month time.Month, day, hour, minute int) *Container {
	return Of(time.Date(year, month, day, hour, minute, 0, 0, time.UTC))
}

// Map creates a container holding a map built from alternating key/value
// pairs. Keys are rendered to strings; container values are unwrapped.
// Fails with MALFORMED_INPUT on an odd number of arguments.
func Map(pairs ...any) (*Container, error) {
	if len(pairs)%2 != 0 {
		return nil, &Error{
			Code:    ErrCodeMalformedInput,
			Message: fmt.Sprintf("map construction requires even key-value pairs, got %d", len(pairs)),
		}
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key := renderValue(unwrap(pairs[i]))
		m[key] = unwrap(pairs[i+1])
	}
	c := &Container{}
	_ = c.SetAs(m, TagMap)
	return c, nil
}

// FromJSON creates a container by parsing serialized text through the codec.
// Fails with MALFORMED_INPUT on unparsable text.
func FromJSON(text string) (*Container, error) {
	v, err := codec.Parse(text)
	if err != nil {
		return nil, &Error{
			Code:    ErrCodeMalformedInput,
			Message: "invalid JSON input",
			Err:     err,
		}
	}
	return Of(v), nil
}

// Set stores v under its runtime tag and makes that tag primary.
//
// If v is itself a container, its representations are merged into this one
// (later entries win on tag collision) and its primary tag and null-safety
// flag are adopted.
//
// Fails with IMMUTABLE_VIOLATION if the container is immutable.
func (c *Container) Set(v any) error {
	return c.SetAs(v, "")
}

// SetAs stores v under an explicit tag and makes that tag primary.
// An empty tag means "classify v's runtime type".
func (c *Container) SetAs(v any, tag Tag) error {
	if c.immutable {
		return newImmutableViolation("set")
	}

	if other, ok := v.(*Container); ok {
		for _, rep := range other.reps {
			c.setRep(rep.tag, rep.value)
		}
		c.primary = other.primary
		c.hasValue = other.hasValue
		c.nullSafe = other.nullSafe
		return nil
	}

	v = normalize(v)
	if tag == "" {
		tag = TagOf(v)
	}
	c.setRep(tag, v)
	c.primary = tag
	c.hasValue = true
	return nil
}

// setRep writes a (tag, value) pair, replacing in place on tag collision so
// insertion order survives overwrites.
func (c *Container) setRep(tag Tag, value any) {
	for i := range c.reps {
		if c.reps[i].tag == tag {
			c.reps[i].value = value
			return
		}
	}
	c.reps = append(c.reps, representation{tag: tag, value: value})
}

// Get returns the primary representation's value.
// Fails with NOT_FOUND if the value is absent or nil, unless the container is
// null-safe, in which case it returns nil.
func (c *Container) Get() (any, error) {
	v, ok := c.lookup(c.primary)
	if !ok || v == nil {
		if c.nullSafe {
			return nil, nil
		}
		return nil, newNotFound(c.primary)
	}
	return v, nil
}

// GetTag returns the value stored under tag. Lookup is exact first; if no
// non-nil exact match exists, representations are scanned in insertion order
// and the first whose stored tag the requested tag accepts is returned.
//
// Fails with NOT_FOUND unless the container is null-safe.
func (c *Container) GetTag(tag Tag) (any, error) {
	if v, ok := c.lookup(tag); ok && v != nil {
		return v, nil
	}
	for _, rep := range c.reps {
		if rep.value != nil && tag.Accepts(rep.tag) {
			return rep.value, nil
		}
	}
	if c.nullSafe {
		return nil, nil
	}
	return nil, &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("no value found for tag %s (available: %s)", tag, strings.Join(c.tagNames(), ", ")),
		Target:  tag,
	}
}

// lookup finds the exact representation for a tag.
func (c *Container) lookup(tag Tag) (any, bool) {
	for _, rep := range c.reps {
		if rep.tag == tag {
			return rep.value, true
		}
	}
	return nil, false
}

// Representation is the exported view of one stored (tag, value) pair,
// used by persistence layers to snapshot and rehydrate containers.
type Representation struct {
	Tag   Tag
	Value any
}

// Representations returns the stored pairs in insertion order.
func (c *Container) Representations() []Representation {
	out := make([]Representation, len(c.reps))
	for i, rep := range c.reps {
		out[i] = Representation{Tag: rep.tag, Value: rep.value}
	}
	return out
}

// Rehydrate reconstructs a container from snapshotted state. Representations
// keep their given order; the primary tag and policy flags are restored
// as-is, so an immutable snapshot reloads as an immutable container.
func Rehydrate(reps []Representation, primary Tag, nullSafe, immutable bool) *Container {
	c := &Container{nullSafe: nullSafe}
	for _, rep := range reps {
		c.setRep(rep.Tag, rep.Value)
	}
	c.primary = primary
	c.hasValue = len(reps) > 0
	c.immutable = immutable
	return c
}

// PrimaryTag returns the tag of the most recently written representation.
// The second return is false for a container with no representations.
func (c *Container) PrimaryTag() (Tag, bool) {
	return c.primary, c.hasValue
}

// StoredTags returns the stored tags in insertion order.
func (c *Container) StoredTags() []Tag {
	tags := make([]Tag, len(c.reps))
	for i, rep := range c.reps {
		tags[i] = rep.tag
	}
	return tags
}

// NullSafe reports whether missing-value lookups return nil.
func (c *Container) NullSafe() bool {
	return c.nullSafe
}

// IsImmutable reports whether mutation is rejected.
func (c *Container) IsImmutable() bool {
	return c.immutable
}

// Freeze makes the container immutable. Immutability never reverts.
func (c *Container) Freeze() {
	c.immutable = true
}

// StringValue returns the string representation.
func (c *Container) StringValue() (string, error) {
	v, err := c.GetTag(TagString)
	if err != nil || v == nil {
		return "", err
	}
	return v.(string), nil
}

// IntValue returns the first numeric representation as an int64, truncating
// any fractional part.
func (c *Container) IntValue() (int64, error) {
	d, err := c.NumberValue()
	if err != nil || d == nil {
		return 0, err
	}
	truncated := new(apd.Decimal)
	if _, err := intContext.Quantize(truncated, d, 0); err != nil {
		return 0, newConversion(TagDecimal, TagInt, err)
	}
	i, err := truncated.Int64()
	if err != nil {
		return 0, newConversion(TagDecimal, TagInt, err)
	}
	return i, nil
}

// NumberValue returns the first numeric representation as a decimal.
// Integer representations widen to decimals.
func (c *Container) NumberValue() (*apd.Decimal, error) {
	for _, rep := range c.reps {
		if rep.value == nil || !rep.tag.numeric() {
			continue
		}
		switch val := rep.value.(type) {
		case int64:
			return apd.New(val, 0), nil
		case *apd.Decimal:
			return val, nil
		}
	}
	if c.nullSafe {
		return nil, nil
	}
	return nil, newNotFound(TagDecimal)
}

// BoolValue returns the boolean representation.
func (c *Container) BoolValue() (bool, error) {
	v, err := c.GetTag(TagBool)
	if err != nil || v == nil {
		return false, err
	}
	return v.(bool), nil
}

// ListValue returns the list representation.
func (c *Container) ListValue() ([]any, error) {
	v, err := c.GetTag(TagList)
	if err != nil || v == nil {
		return nil, err
	}
	return v.([]any), nil
}

// MapValue returns the map representation.
func (c *Container) MapValue() (map[string]any, error) {
	v, err := c.GetTag(TagMap)
	if err != nil || v == nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

// TimeValue returns the time representation.
func (c *Container) TimeValue() (time.Time, error) {
	v, err := c.GetTag(TagTime)
	if err != nil || v == nil {
		return time.Time{}, err
	}
	return v.(time.Time), nil
}

// Equal reports whether both containers' primary values are equal.
// Numbers compare numerically regardless of int/decimal representation.
func (c *Container) Equal(other *Container) bool {
	a, _ := c.lookup(c.primary)
	b, _ := other.lookup(other.primary)
	return valueEqual(a, b)
}

// valueEqual compares two closed-set values.
func valueEqual(a, b any) bool {
	da, aNum := asDecimal(a)
	db, bNum := asDecimal(b)
	if aNum && bNum {
		return da.Cmp(db) == 0
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return reflect.DeepEqual(a, b)
}

// asDecimal widens a numeric value to a decimal.
func asDecimal(v any) (*apd.Decimal, bool) {
	switch val := v.(type) {
	case int64:
		return apd.New(val, 0), true
	case *apd.Decimal:
		return val, true
	}
	return nil, false
}

// Try executes action against the container and, on failure, routes the
// container and the failure to the recovery function instead of propagating.
// This is the only built-in local recovery point.
func (c *Container) Try(action func(*Container) error, recovery func(*Container, error)) *Container {
	if err := action(c); err != nil {
		recovery(c, err)
	}
	return c
}

// String renders the primary value's textual form, or "null" when absent.
func (c *Container) String() string {
	v, _ := c.lookup(c.primary)
	return renderValue(v)
}

// Debug returns a dump of the container's internal state.
func (c *Container) Debug() string {
	parts := make([]string, len(c.reps))
	for i, rep := range c.reps {
		parts[i] = fmt.Sprintf("%s=%s", rep.tag, renderValue(rep.value))
	}
	return fmt.Sprintf("Container{primary=%s, values=[%s], nullSafe=%t, immutable=%t}",
		c.primary, strings.Join(parts, ", "), c.nullSafe, c.immutable)
}

// renderValue produces the plain textual form of a closed-set value.
func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case *apd.Decimal:
		return val.Text('f')
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		if text, err := codec.Stringify(val); err == nil {
			return text
		}
		return fmt.Sprintf("%v", val)
	}
}

// tagNames lists stored tags for error messages.
func (c *Container) tagNames() []string {
	names := make([]string, len(c.reps))
	for i, rep := range c.reps {
		names[i] = string(rep.tag)
	}
	return names
}

// unwrap reduces a container argument to its raw primary value; other values
// pass through unchanged.
func unwrap(v any) any {
	if c, ok := v.(*Container); ok {
		raw, _ := c.lookup(c.primary)
		return raw
	}
	return normalize(v)
}
