package dyn

import (
	"fmt"
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upperCaser = cases.Upper(language.Und)

// Concat joins two string-capable containers into a new one.
func (c *Container) Concat(other *Container) (*Container, error) {
	if !c.IsString() || !other.IsString() {
		return nil, newUnsupported("concat", "strings")
	}
	a, err := c.StringValue()
	if err != nil {
		return nil, err
	}
	b, err := other.StringValue()
	if err != nil {
		return nil, err
	}
	return Of(a + b), nil
}

// Substring extracts the byte range [begin, end) of the string
// representation. An out-of-range index pair fails with OUT_OF_RANGE.
func (c *Container) Substring(begin, end int) (*Container, error) {
	if !c.IsString() {
		return nil, newUnsupported("substring", "a string")
	}
	s, err := c.StringValue()
	if err != nil {
		return nil, err
	}
	if begin < 0 || end > len(s) || begin > end {
		return nil, &Error{
			Code:    ErrCodeOutOfRange,
			Message: fmt.Sprintf("substring range [%d, %d) out of bounds for length %d", begin, end, len(s)),
		}
	}
	return Of(s[begin:end]), nil
}

// ToUpper converts the string representation to upper case using full
// Unicode case mapping, not ASCII-only folding.
func (c *Container) ToUpper() (*Container, error) {
	if !c.IsString() {
		return nil, newUnsupported("toUpper", "a string")
	}
	s, err := c.StringValue()
	if err != nil {
		return nil, err
	}
	return Of(upperCaser.String(s)), nil
}

// Matches reports whether the entire string representation matches the
// regular expression.
func (c *Container) Matches(pattern string) (bool, error) {
	if !c.IsString() {
		return false, newUnsupported("matches", "a string")
	}
	s, err := c.StringValue()
	if err != nil {
		return false, err
	}
	re, err := compileAnchored(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

// ReplaceAll replaces every match of the regular expression in the string
// representation with the replacement text.
func (c *Container) ReplaceAll(pattern, replacement string) (*Container, error) {
	if !c.IsString() {
		return nil, newUnsupported("replaceAll", "a string")
	}
	s, err := c.StringValue()
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &Error{
			Code:    ErrCodeMalformedInput,
			Message: fmt.Sprintf("invalid pattern %q", pattern),
			Err:     err,
		}
	}
	return Of(re.ReplaceAllString(s, replacement)), nil
}

// compileAnchored compiles a pattern that must match the whole string,
// matching the whole-string semantics of Matches.
func compileAnchored(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, &Error{
			Code:    ErrCodeMalformedInput,
			Message: fmt.Sprintf("invalid pattern %q", pattern),
			Err:     err,
		}
	}
	return re, nil
}
