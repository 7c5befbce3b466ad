package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/text/unicode/norm"
)

// Parse decodes JSON text into the closed runtime value set.
//
// Decoding rules:
//   - JSON integers become int64
//   - all other JSON numbers become *apd.Decimal (never float64)
//   - objects become map[string]any, arrays []any, null becomes nil
//
// Returns a *SyntaxError if the text is not valid JSON.
func Parse(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &SyntaxError{Text: text, Err: err}
	}

	// Reject trailing garbage after the first JSON value.
	if dec.More() {
		return nil, &SyntaxError{Text: text, Err: fmt.Errorf("trailing data after JSON value")}
	}

	return fromDecoded(raw)
}

// fromDecoded recursively converts a json-decoded value into the closed set.
func fromDecoded(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string:
		return val, nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, nil
		}
		d, _, err := apd.NewFromString(string(val))
		if err != nil {
			return nil, &SyntaxError{Text: string(val), Err: err}
		}
		return d, nil
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			conv, err := fromDecoded(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			out[i] = conv
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			conv, err := fromDecoded(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			out[k] = conv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported decoded type: %T", v)
	}
}

// Stringify produces the deterministic JSON form of a value from the closed
// runtime set. Object keys are emitted in sorted order and strings are NFC
// normalized, so equal values always stringify identically.
func Stringify(v any) (string, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case string:
		return writeString(buf, val)
	case int64:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case int:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case *apd.Decimal:
		buf.WriteString(val.Text('f'))
		return nil
	case time.Time:
		return writeString(buf, val.Format(time.RFC3339Nano))
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		buf.WriteByte('{')
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, k); err != nil {
				return fmt.Errorf("object key %q: %w", k, err)
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, val[k]); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("unsupported value type: %T", v)
	}
}

// writeString emits an NFC-normalized JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) error {
	normalized := norm.NFC.String(s)
	b, err := json.Marshal(normalized)
	if err != nil {
		return err
	}
	// json.Marshal escapes <, >, & for HTML embedding; undo for stable text.
	b = bytes.ReplaceAll(b, []byte("\\u003c"), []byte("<"))
	b = bytes.ReplaceAll(b, []byte("\\u003e"), []byte(">"))
	b = bytes.ReplaceAll(b, []byte("\\u0026"), []byte("&"))
	buf.Write(b)
	return nil
}

// SyntaxError reports unparsable input text.
type SyntaxError struct {
	Text string
	Err  error
}

func (e *SyntaxError) Error() string {
	text := e.Text
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	return fmt.Sprintf("invalid JSON %q: %v", text, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
