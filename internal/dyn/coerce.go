package dyn

import (
	"strconv"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/dyn/internal/codec"
)

// To converts the primary value to the target tag.
//
// Conversion attempts, in order:
//  1. identity - the value already satisfies the target tag
//  2. primitive parse - textual/numeric/boolean primitives parse the value's
//     textual form
//  3. structural fallback - serialize through the codec and structurally
//     convert the serialized form
//
// A failure at step 2 or 3 yields CONVERSION_FAILED carrying the source tag,
// the target tag, and the underlying cause. An absent primary value converts
// to nil without error.
func (c *Container) To(target Tag) (any, error) {
	v, ok := c.lookup(c.primary)
	if !ok || v == nil {
		return nil, nil
	}
	sourceTag := TagOf(v)

	// Identity: the stored value already satisfies the target.
	if target.Accepts(sourceTag) {
		if target == TagDecimal && sourceTag == TagInt {
			return apd.New(v.(int64), 0), nil
		}
		return v, nil
	}

	// Primitive parse from the textual form.
	switch target {
	case TagString:
		return renderValue(v), nil
	case TagInt:
		i, err := strconv.ParseInt(renderValue(v), 10, 64)
		if err != nil {
			return nil, newConversion(sourceTag, target, err)
		}
		return i, nil
	case TagDecimal:
		d, _, err := apd.NewFromString(renderValue(v))
		if err != nil {
			return nil, newConversion(sourceTag, target, err)
		}
		return d, nil
	case TagBool:
		b, err := strconv.ParseBool(renderValue(v))
		if err != nil {
			return nil, newConversion(sourceTag, target, err)
		}
		return b, nil
	}

	// Structural fallback through the serializer.
	converted, err := codec.ConvertStructurally(v, target.Shape())
	if err != nil {
		return nil, newConversion(sourceTag, target, err)
	}
	return converted, nil
}

// ToJSON serializes the primary value through the codec.
func (c *Container) ToJSON() (string, error) {
	v, _ := c.lookup(c.primary)
	text, err := codec.Stringify(v)
	if err != nil {
		return "", newConversion(c.primary, TagString, err)
	}
	return text, nil
}
