package animation

import "reflect"

// conditionsMet reports whether every condition matches the bound variables.
// An empty condition map always passes. A condition on a variable that is
// not bound fails.
func conditionsMet(conditions map[string]any, vars map[string]any) bool {
	if len(conditions) == 0 {
		return true
	}
	if vars == nil {
		return false
	}
	for name, expected := range conditions {
		actual, ok := vars[name]
		if !ok {
			return false
		}
		if !looseEqual(actual, expected) {
			return false
		}
	}
	return true
}

// looseEqual compares values that may have passed through JSON decoding,
// where all numbers arrive as float64.
func looseEqual(a, b any) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
