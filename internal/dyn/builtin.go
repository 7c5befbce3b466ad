package dyn

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/dyn/internal/dispatch"
)

// newBuiltinRegistry builds the method table covering the closed tag catalog.
// Methods are registered in declaration order; the fallback search in
// dispatch returns the first compatible candidate, so more specific
// signatures must be registered before wider ones.
func newBuiltinRegistry() *dispatch.Registry {
	reg := dispatch.NewRegistry(func(param, arg string) bool {
		p, ok := ParseTag(param)
		if !ok {
			return false
		}
		a, ok := ParseTag(arg)
		if !ok {
			return false
		}
		return p.Accepts(a)
	})

	registerStringMethods(reg)
	registerNumberMethods(reg)
	registerListMethods(reg)
	registerMapMethods(reg)
	registerTimeMethods(reg)

	return reg
}

func registerStringMethods(reg *dispatch.Registry) {
	host := string(TagString)

	reg.Register(host, dispatch.Method{
		Name: "length",
		Fn: func(recv any, _ []any) (any, error) {
			return int64(len(recv.(string))), nil
		},
	})
	reg.Register(host, dispatch.Method{
		Name: "trim",
		Fn: func(recv any, _ []any) (any, error) {
			return strings.TrimSpace(recv.(string)), nil
		},
	})
	reg.Register(host, dispatch.Method{
		Name:   "contains",
		Params: []string{string(TagString)},
		Fn: func(recv any, args []any) (any, error) {
			return strings.Contains(recv.(string), args[0].(string)), nil
		},
	})
	reg.Register(host, dispatch.Method{
		Name:   "startsWith",
		Params: []string{string(TagString)},
		Fn: func(recv any, args []any) (any, error) {
			return strings.HasPrefix(recv.(string), args[0].(string)), nil
		},
	})
	reg.Register(host, dispatch.Method{
		Name:   "split",
		Params: []string{string(TagString)},
		Fn: func(recv any, args []any) (any, error) {
			parts := strings.Split(recv.(string), args[0].(string))
			out := make([]any, len(parts))
			for i, p := range parts {
				out[i] = p
			}
			return out, nil
		},
	})
	reg.Register(host, dispatch.Method{
		Name:   "repeat",
		Params: []string{string(TagInt)},
		Fn: func(recv any, args []any) (any, error) {
			n := args[0].(int64)
			if n < 0 {
				return nil, fmt.Errorf("repeat count %d is negative", n)
			}
			return strings.Repeat(recv.(string), int(n)), nil
		},
	})
}

func registerNumberMethods(reg *dispatch.Registry) {
	// Registered under both numeric hosts: resolution keys on the receiver's
	// concrete tag, and int receivers never widen to the decimal host.
	for _, host := range []string{string(TagInt), string(TagDecimal)} {
		reg.Register(host, dispatch.Method{
			Name: "abs",
			Fn: func(recv any, _ []any) (any, error) {
				d, _ := asDecimal(recv)
				out := new(apd.Decimal)
				if _, err := arithContext.Abs(out, d); err != nil {
					return nil, err
				}
				return out, nil
			},
		})
		reg.Register(host, dispatch.Method{
			Name: "negate",
			Fn: func(recv any, _ []any) (any, error) {
				d, _ := asDecimal(recv)
				out := new(apd.Decimal)
				if _, err := arithContext.Neg(out, d); err != nil {
					return nil, err
				}
				return out, nil
			},
		})
		reg.Register(host, dispatch.Method{
			Name:   "pow",
			Params: []string{string(TagDecimal)},
			Fn: func(recv any, args []any) (any, error) {
				base, _ := asDecimal(recv)
				exp, _ := asDecimal(args[0])
				out := new(apd.Decimal)
				if _, err := arithContext.Pow(out, base, exp); err != nil {
					return nil, err
				}
				return out, nil
			},
		})
	}
}

func registerListMethods(reg *dispatch.Registry) {
	host := string(TagList)

	reg.Register(host, dispatch.Method{
		Name: "size",
		Fn: func(recv any, _ []any) (any, error) {
			return int64(len(recv.([]any))), nil
		},
	})
	reg.Register(host, dispatch.Method{
		Name: "reverse",
		Fn: func(recv any, _ []any) (any, error) {
			list := recv.([]any)
			out := make([]any, len(list))
			for i, elem := range list {
				out[len(list)-1-i] = elem
			}
			return out, nil
		},
	})
	reg.Register(host, dispatch.Method{
		Name:   "join",
		Params: []string{string(TagString)},
		Fn: func(recv any, args []any) (any, error) {
			list := recv.([]any)
			parts := make([]string, len(list))
			for i, elem := range list {
				parts[i] = renderValue(elem)
			}
			return strings.Join(parts, args[0].(string)), nil
		},
	})
	reg.Register(host, dispatch.Method{
		Name:   "at",
		Params: []string{string(TagInt)},
		Fn: func(recv any, args []any) (any, error) {
			list := recv.([]any)
			i := args[0].(int64)
			if i < 0 || i >= int64(len(list)) {
				return nil, fmt.Errorf("index %d out of bounds for length %d", i, len(list))
			}
			return list[i], nil
		},
	})
}

func registerMapMethods(reg *dispatch.Registry) {
	host := string(TagMap)

	reg.Register(host, dispatch.Method{
		Name: "size",
		Fn: func(recv any, _ []any) (any, error) {
			return int64(len(recv.(map[string]any))), nil
		},
	})
	reg.Register(host, dispatch.Method{
		Name: "keys",
		Fn: func(recv any, _ []any) (any, error) {
			m := recv.(map[string]any)
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			out := make([]any, len(keys))
			for i, k := range keys {
				out[i] = k
			}
			return out, nil
		},
	})
	reg.Register(host, dispatch.Method{
		Name:   "get",
		Params: []string{string(TagString)},
		Fn: func(recv any, args []any) (any, error) {
			return recv.(map[string]any)[args[0].(string)], nil
		},
	})
	reg.Register(host, dispatch.Method{
		Name:   "has",
		Params: []string{string(TagString)},
		Fn: func(recv any, args []any) (any, error) {
			_, ok := recv.(map[string]any)[args[0].(string)]
			return ok, nil
		},
	})
}

func registerTimeMethods(reg *dispatch.Registry) {
	host := string(TagTime)

	reg.Register(host, dispatch.Method{
		Name: "year",
		Fn: func(recv any, _ []any) (any, error) {
			return int64(recv.(time.Time).Year()), nil
		},
	})
	reg.Register(host, dispatch.Method{
		Name:   "format",
		Params: []string{string(TagString)},
		Fn: func(recv any, args []any) (any, error) {
			return recv.(time.Time).Format(args[0].(string)), nil
		},
	})
	reg.Register(host, dispatch.Method{
		Name:   "before",
		Params: []string{string(TagTime)},
		Fn: func(recv any, args []any) (any, error) {
			return recv.(time.Time).Before(args[0].(time.Time)), nil
		},
	})
}
