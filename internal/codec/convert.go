package codec

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Shape identifies the structural target of a conversion.
// Shapes mirror the container's closed tag catalog one-to-one.
type Shape string

const (
	ShapeString  Shape = "string"
	ShapeInt     Shape = "int"
	ShapeDecimal Shape = "decimal"
	ShapeBool    Shape = "bool"
	ShapeList    Shape = "list"
	ShapeMap     Shape = "map"
	ShapeTime    Shape = "time"
)

// ConvertStructurally coerces a value into the target shape by serializing it
// and reshaping the decoded form. This is the last-resort conversion path:
// callers should try identity and primitive parsing first.
//
// Returns a *ConvertError when the decoded form cannot satisfy the shape.
func ConvertStructurally(v any, target Shape) (any, error) {
	text, err := Stringify(v)
	if err != nil {
		return nil, &ConvertError{Target: target, Err: err}
	}

	decoded, err := Parse(text)
	if err != nil {
		return nil, &ConvertError{Target: target, Err: err}
	}

	return reshape(decoded, target)
}

// reshape fits a decoded value into the target shape.
func reshape(v any, target Shape) (any, error) {
	switch target {
	case ShapeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		text, err := Stringify(v)
		if err != nil {
			return nil, &ConvertError{Target: target, Err: err}
		}
		return text, nil

	case ShapeInt:
		switch val := v.(type) {
		case int64:
			return val, nil
		case *apd.Decimal:
			i, err := val.Int64()
			if err != nil {
				return nil, &ConvertError{Target: target, Err: err}
			}
			return i, nil
		case string:
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, &ConvertError{Target: target, Err: err}
			}
			return i, nil
		}

	case ShapeDecimal:
		switch val := v.(type) {
		case *apd.Decimal:
			return val, nil
		case int64:
			return apd.New(val, 0), nil
		case string:
			d, _, err := apd.NewFromString(val)
			if err != nil {
				return nil, &ConvertError{Target: target, Err: err}
			}
			return d, nil
		}

	case ShapeBool:
		switch val := v.(type) {
		case bool:
			return val, nil
		case string:
			b, err := strconv.ParseBool(val)
			if err != nil {
				return nil, &ConvertError{Target: target, Err: err}
			}
			return b, nil
		}

	case ShapeList:
		if l, ok := v.([]any); ok {
			return l, nil
		}

	case ShapeMap:
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}

	case ShapeTime:
		switch val := v.(type) {
		case time.Time:
			return val, nil
		case string:
			t, err := time.Parse(time.RFC3339Nano, val)
			if err != nil {
				return nil, &ConvertError{Target: target, Err: err}
			}
			return t, nil
		}

	default:
		return nil, &ConvertError{Target: target, Err: fmt.Errorf("unknown shape")}
	}

	return nil, &ConvertError{Target: target, Err: fmt.Errorf("value %T does not fit shape", v)}
}

// ConvertError reports a failed structural conversion.
type ConvertError struct {
	Target Shape
	Err    error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("cannot convert to %s: %v", e.Target, e.Err)
}

func (e *ConvertError) Unwrap() error {
	return e.Err
}
