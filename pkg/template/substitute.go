package template

import (
	"fmt"
	"sort"
	"strings"
)

// Substitute rewrites a decoded-JSON value, replacing "$token" strings with
// parameters["token"]. A token with no matching parameter is left as the
// literal string; callers treat a surviving "$token" as a soft failure
// signal, not valid output. Maps and slices are walked recursively; other
// scalars pass through unchanged.
func Substitute(value any, parameters map[string]any) any {
	switch v := value.(type) {
	case string:
		if strings.HasPrefix(v, "$") {
			if replacement, ok := parameters[v[1:]]; ok {
				return replacement
			}
		}
		return v
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, item := range v {
			result[k] = Substitute(item, parameters)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = Substitute(item, parameters)
		}
		return result
	default:
		return v
	}
}

// SubstituteStrict behaves like Substitute but returns an error naming every
// token that had no parameter. Production code keeps the tolerant form; this
// one backs tests that assert no literal "$token" survives in output.
func SubstituteStrict(value any, parameters map[string]any) (any, error) {
	missing := map[string]bool{}
	result := Substitute(value, parameters)
	collectUnresolved(result, missing)
	if len(missing) == 0 {
		return result, nil
	}
	tokens := make([]string, 0, len(missing))
	for t := range missing {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return result, fmt.Errorf("unresolved tokens: %s", strings.Join(tokens, ", "))
}

func collectUnresolved(value any, missing map[string]bool) {
	switch v := value.(type) {
	case string:
		if strings.HasPrefix(v, "$") {
			missing[v] = true
		}
	case map[string]any:
		for _, item := range v {
			collectUnresolved(item, missing)
		}
	case []any:
		for _, item := range v {
			collectUnresolved(item, missing)
		}
	}
}
