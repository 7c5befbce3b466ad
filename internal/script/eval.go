package script

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"

	"github.com/roach88/dyn/internal/dyn"
)

// Trace is the complete record of one script evaluation.
// All fields serialize deterministically for golden comparison.
type Trace struct {
	ScriptName string  `json:"script_name"`
	RunToken   string  `json:"run_token"`
	Events     []Event `json:"events"`
}

// Event records one evaluated step.
type Event struct {
	Seq       int    `json:"seq"`
	Op        string `json:"op"`
	Target    string `json:"target,omitempty"`
	Result    string `json:"result,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

// Options configures evaluation.
type Options struct {
	// TokenGenerator overrides the run token source (for testing).
	// Ignored when the script fixes its own run_token.
	TokenGenerator func() string
}

// UUIDv7Token is the default run token generator.
func UUIDv7Token() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Eval executes a script against a fresh variable environment and returns
// its trace.
//
// A step that fails with its declared expect_error code records the code and
// evaluation continues. Any undeclared failure (or a declared failure that
// does not happen) stops evaluation; the partial trace is returned alongside
// the error.
func Eval(s *Script, opts Options) (*Trace, error) {
	token := s.RunToken
	if token == "" {
		gen := opts.TokenGenerator
		if gen == nil {
			gen = UUIDv7Token
		}
		token = gen()
	}

	trace := &Trace{
		ScriptName: s.Name,
		RunToken:   token,
		Events:     make([]Event, 0, len(s.Steps)),
	}

	env := make(map[string]*dyn.Container)

	for i, step := range s.Steps {
		seq := i + 1
		result, err := evalStep(env, step)

		if step.ExpectError != "" {
			if err == nil {
				return trace, fmt.Errorf("step %d (%s): expected error %s but step succeeded", seq, step.Op, step.ExpectError)
			}
			code := string(dyn.CodeOf(err))
			if code != step.ExpectError {
				return trace, fmt.Errorf("step %d (%s): expected error %s, got %s: %w", seq, step.Op, step.ExpectError, code, err)
			}
			trace.Events = append(trace.Events, Event{Seq: seq, Op: step.Op, Target: step.Target, ErrorCode: code})
			continue
		}

		if err != nil {
			trace.Events = append(trace.Events, Event{Seq: seq, Op: step.Op, Target: step.Target, ErrorCode: string(dyn.CodeOf(err))})
			return trace, fmt.Errorf("step %d (%s): %w", seq, step.Op, err)
		}

		trace.Events = append(trace.Events, Event{Seq: seq, Op: step.Op, Target: step.Target, Result: result})
	}

	return trace, nil
}

// evalStep executes one step against the environment and renders its result.
func evalStep(env map[string]*dyn.Container, step Step) (string, error) {
	switch step.Op {
	case "of":
		c, err := construct(step)
		if err != nil {
			return "", err
		}
		return bind(env, step.Target, c)

	case "from_json":
		text, ok := step.Value.(string)
		if !ok {
			return "", fmt.Errorf("from_json requires a string value")
		}
		c, err := dyn.FromJSON(text)
		if err != nil {
			return "", err
		}
		return bind(env, step.Target, c)

	case "set":
		src, err := resolve(env, step.Source)
		if err != nil {
			return "", err
		}
		if step.Right != "" {
			other, err := resolve(env, step.Right)
			if err != nil {
				return "", err
			}
			if err := src.Set(other); err != nil {
				return "", err
			}
		} else if step.Tag != "" {
			tag, ok := dyn.ParseTag(step.Tag)
			if !ok {
				return "", fmt.Errorf("unknown tag %q", step.Tag)
			}
			if err := src.SetAs(literal(step.Value), tag); err != nil {
				return "", err
			}
		} else if err := src.Set(literal(step.Value)); err != nil {
			return "", err
		}
		return src.String(), nil

	case "add", "subtract", "multiply", "divide", "bitand", "bitor", "concat":
		return evalBinary(env, step)

	case "greater":
		left, right, err := operands(env, step)
		if err != nil {
			return "", err
		}
		gt, err := left.GreaterThan(right)
		if err != nil {
			return "", err
		}
		return bind(env, step.Target, dyn.Of(gt))

	case "substring":
		src, err := resolve(env, step.Source)
		if err != nil {
			return "", err
		}
		result, err := src.Substring(step.Begin, step.End)
		if err != nil {
			return "", err
		}
		return bind(env, step.Target, result)

	case "upper":
		src, err := resolve(env, step.Source)
		if err != nil {
			return "", err
		}
		result, err := src.ToUpper()
		if err != nil {
			return "", err
		}
		return bind(env, step.Target, result)

	case "matches":
		src, err := resolve(env, step.Source)
		if err != nil {
			return "", err
		}
		ok, err := src.Matches(step.Pattern)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(ok), nil

	case "replace":
		src, err := resolve(env, step.Source)
		if err != nil {
			return "", err
		}
		result, err := src.ReplaceAll(step.Pattern, step.With)
		if err != nil {
			return "", err
		}
		return bind(env, step.Target, result)

	case "append":
		return evalMutation(env, step, func(src *dyn.Container, elem any) error {
			return src.AddElement(elem)
		})

	case "remove":
		return evalMutation(env, step, func(src *dyn.Container, elem any) error {
			return src.RemoveElement(elem)
		})

	case "put":
		return evalMutation(env, step, func(src *dyn.Container, elem any) error {
			return src.PutKeyValue(step.Key, elem)
		})

	case "get_key":
		src, err := resolve(env, step.Source)
		if err != nil {
			return "", err
		}
		result, err := src.GetKey(step.Key)
		if err != nil {
			return "", err
		}
		return bind(env, step.Target, result)

	case "clear":
		src, err := resolve(env, step.Source)
		if err != nil {
			return "", err
		}
		if err := src.Clear(); err != nil {
			return "", err
		}
		return src.String(), nil

	case "size":
		src, err := resolve(env, step.Source)
		if err != nil {
			return "", err
		}
		size, err := src.Size()
		if err != nil {
			return "", err
		}
		return bind(env, step.Target, dyn.Of(int64(size)))

	case "empty":
		src, err := resolve(env, step.Source)
		if err != nil {
			return "", err
		}
		empty, err := src.IsEmpty()
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(empty), nil

	case "get":
		src, err := resolve(env, step.Source)
		if err != nil {
			return "", err
		}
		var v any
		if step.Tag != "" {
			tag, ok := dyn.ParseTag(step.Tag)
			if !ok {
				return "", fmt.Errorf("unknown tag %q", step.Tag)
			}
			v, err = src.GetTag(tag)
		} else {
			v, err = src.Get()
		}
		if err != nil {
			return "", err
		}
		return dyn.Of(v).String(), nil

	case "to":
		src, err := resolve(env, step.Source)
		if err != nil {
			return "", err
		}
		tag, ok := dyn.ParseTag(step.Tag)
		if !ok {
			return "", fmt.Errorf("unknown tag %q", step.Tag)
		}
		v, err := src.To(tag)
		if err != nil {
			return "", err
		}
		return dyn.Of(v).String(), nil

	case "json":
		src, err := resolve(env, step.Source)
		if err != nil {
			return "", err
		}
		return src.ToJSON()

	case "call":
		src, err := resolve(env, step.Source)
		if err != nil {
			return "", err
		}
		args := make([]any, len(step.Args))
		for i, a := range step.Args {
			resolved, err := resolveArg(env, a)
			if err != nil {
				return "", err
			}
			args[i] = resolved
		}
		result, err := src.Call(step.Method, args...)
		if err != nil {
			return "", err
		}
		return bind(env, step.Target, result)

	case "validate":
		src, err := resolve(env, step.Source)
		if err != nil {
			return "", err
		}
		tag, ok := dyn.ParseTag(step.Tag)
		if !ok {
			return "", fmt.Errorf("unknown tag %q", step.Tag)
		}
		if err := src.Validate(tag); err != nil {
			return "", err
		}
		return "valid", nil

	default:
		// Unreachable for schema-validated scripts.
		return "", fmt.Errorf("unknown op %q", step.Op)
	}
}

// construct builds the container for an "of" step.
func construct(step Step) (*dyn.Container, error) {
	value := literal(step.Value)

	var c *dyn.Container
	if step.Tag != "" {
		tag, ok := dyn.ParseTag(step.Tag)
		if !ok {
			return nil, fmt.Errorf("unknown tag %q", step.Tag)
		}
		c = dyn.OfAs(value, tag)
	} else {
		c = dyn.Of(value)
	}

	if step.NullSafe {
		c = dyn.Optional(value)
	}
	if step.Immutable {
		c.Freeze()
	}
	return c, nil
}

// evalBinary executes a two-operand operation and binds the result.
func evalBinary(env map[string]*dyn.Container, step Step) (string, error) {
	left, right, err := operands(env, step)
	if err != nil {
		return "", err
	}

	var result *dyn.Container
	switch step.Op {
	case "add":
		result, err = left.Add(right)
	case "subtract":
		result, err = left.Subtract(right)
	case "multiply":
		result, err = left.Multiply(right)
	case "divide":
		result, err = left.Divide(right)
	case "bitand":
		result, err = left.BitwiseAnd(right)
	case "bitor":
		result, err = left.BitwiseOr(right)
	case "concat":
		result, err = left.Concat(right)
	}
	if err != nil {
		return "", err
	}
	return bind(env, step.Target, result)
}

// evalMutation executes a collection mutation whose element comes from
// either a variable (right) or a literal (value).
func evalMutation(env map[string]*dyn.Container, step Step, apply func(*dyn.Container, any) error) (string, error) {
	src, err := resolve(env, step.Source)
	if err != nil {
		return "", err
	}

	var elem any
	if step.Right != "" {
		c, err := resolve(env, step.Right)
		if err != nil {
			return "", err
		}
		elem = c
	} else {
		elem = literal(step.Value)
	}

	if err := apply(src, elem); err != nil {
		return "", err
	}
	return src.String(), nil
}

// operands resolves the left and right variables of a binary step.
func operands(env map[string]*dyn.Container, step Step) (*dyn.Container, *dyn.Container, error) {
	left, err := resolve(env, step.Left)
	if err != nil {
		return nil, nil, err
	}
	right, err := resolve(env, step.Right)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// resolve looks up a variable.
func resolve(env map[string]*dyn.Container, name string) (*dyn.Container, error) {
	if name == "" {
		return nil, fmt.Errorf("missing variable reference")
	}
	c, ok := env[name]
	if !ok {
		return nil, fmt.Errorf("unknown variable %q", name)
	}
	return c, nil
}

// resolveArg maps a call argument: {var: name} resolves the variable,
// anything else is a literal.
func resolveArg(env map[string]*dyn.Container, arg any) (any, error) {
	if m, ok := arg.(map[string]any); ok {
		if name, ok := m["var"].(string); ok && len(m) == 1 {
			return resolve(env, name)
		}
	}
	return literal(arg), nil
}

// bind stores a result container under the step's target, when named, and
// renders the result for the trace.
func bind(env map[string]*dyn.Container, target string, c *dyn.Container) (string, error) {
	if target != "" {
		env[target] = c
	}
	return c.String(), nil
}

// literal converts a YAML-decoded value into the container's closed value
// set: ints widen to int64, floats become decimals, collections convert
// recursively.
func literal(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case float64:
		d, _, err := apd.NewFromString(strconv.FormatFloat(val, 'g', -1, 64))
		if err != nil {
			return nil
		}
		return d
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = literal(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = literal(elem)
		}
		return out
	default:
		return v
	}
}
