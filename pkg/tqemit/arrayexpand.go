package tqemit

import (
	"fmt"
	"reflect"
	"regexp"
)

// Dialects with no native array/ANY type (SQLite, MySQL) can't bind a
// Go slice as a single parameter value, so ArrayMembership can't
// render the companion parameter names up front: it doesn't know how
// many elements the caller's array holds until the caller actually
// supplies it. Instead those dialects emit a sentinel marker around
// the list parameter's name; ExpandArrays resolves it against the
// caller's bound values after emission, flattening each array into an
// indexed run of companion parameters (`ids_0, ids_1, ids_2, ...`).

const arraySentinelPrefix = "\x00__array__:"
const arraySentinelSuffix = "\x00"

// ArraySentinel marks listParam for post-emission expansion by
// ExpandArrays. Dialects without a native array bind type call this
// from ArrayMembership instead of rendering a placeholder directly.
func ArraySentinel(listParam string) string {
	return arraySentinelPrefix + listParam + arraySentinelSuffix
}

var sentinelPattern = regexp.MustCompile(regexp.QuoteMeta(arraySentinelPrefix) + `([^\x00]+)` + regexp.QuoteMeta(arraySentinelSuffix))

// ExpandArrays resolves every ArraySentinel marker left in sql against
// params, replacing each with a comma-joined list of placeholders for
// the flattened array elements, and returns the updated SQL, the
// params map with companion entries added (the original array-valued
// entry is removed), and paramOrder with the array's single slot
// replaced by its companion names in order.
func ExpandArrays(dialect Dialect, sql string, params map[string]any, paramOrder []string) (string, map[string]any, []string, error) {
	matches := sentinelPattern.FindAllStringSubmatch(sql, -1)
	if len(matches) == 0 {
		return sql, params, paramOrder, nil
	}

	outParams := make(map[string]any, len(params))
	for k, v := range params {
		outParams[k] = v
	}
	outOrder := make([]string, 0, len(paramOrder))

	expanded := sentinelPattern.ReplaceAllStringFunc(sql, func(m string) string {
		sub := sentinelPattern.FindStringSubmatch(m)
		name := sub[1]
		value, ok := params[name]
		if !ok {
			return m
		}
		items, ok := flattenArray(value)
		if !ok {
			return m
		}
		delete(outParams, name)
		placeholders := make([]string, len(items))
		for i, item := range items {
			companion := fmt.Sprintf("%s_%d", name, i)
			outParams[companion] = item
			placeholders[i] = dialect.Placeholder(companion)
		}
		return joinPlaceholders(placeholders)
	})

	if dialect.UsesNamedParams() {
		return expanded, outParams, paramOrder, nil
	}

	for _, name := range paramOrder {
		value, isArray := params[name]
		if !isArray {
			outOrder = append(outOrder, name)
			continue
		}
		items, ok := flattenArray(value)
		if !ok {
			outOrder = append(outOrder, name)
			continue
		}
		for i := range items {
			outOrder = append(outOrder, fmt.Sprintf("%s_%d", name, i))
		}
	}
	return expanded, outParams, outOrder, nil
}

func joinPlaceholders(placeholders []string) string {
	out := placeholders[0]
	for _, p := range placeholders[1:] {
		out += ", " + p
	}
	return out
}

// flattenArray reports whether value is a slice/array and returns its
// elements as a []any; scalars are not arrays.
func flattenArray(value any) ([]any, bool) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}
