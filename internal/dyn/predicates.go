package dyn

import "fmt"

// Capability predicates report whether some stored representation satisfies a
// requirement. Operations consult these before reading their operands; a
// failed predicate surfaces as UNSUPPORTED_OPERATION, never as a panic.

// IsString reports whether some representation holds a string.
func (c *Container) IsString() bool { return c.hasTag(TagString) }

// IsNumber reports whether some representation holds an int or decimal.
func (c *Container) IsNumber() bool { return c.hasTag(TagInt) || c.hasTag(TagDecimal) }

// IsBool reports whether some representation holds a boolean.
func (c *Container) IsBool() bool { return c.hasTag(TagBool) }

// IsList reports whether some representation holds a list.
func (c *Container) IsList() bool { return c.hasTag(TagList) }

// IsMap reports whether some representation holds a map.
func (c *Container) IsMap() bool { return c.hasTag(TagMap) }

// IsTime reports whether some representation holds a time.
func (c *Container) IsTime() bool { return c.hasTag(TagTime) }

// Has reports whether some stored representation satisfies the tag,
// using the same acceptance relation as typed lookup.
func (c *Container) Has(tag Tag) bool {
	for _, rep := range c.reps {
		if rep.value != nil && tag.Accepts(rep.tag) {
			return true
		}
	}
	return false
}

// Validate fails with VALIDATION_FAILED iff no stored representation
// satisfies the tag.
func (c *Container) Validate(tag Tag) error {
	if c.Has(tag) {
		return nil
	}
	return &Error{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("container does not hold a value of tag %s", tag),
		Target:  tag,
	}
}

// hasTag checks for a non-nil representation under the exact tag.
func (c *Container) hasTag(tag Tag) bool {
	v, ok := c.lookup(tag)
	return ok && v != nil
}
