package template

import (
	"reflect"
	"strings"
	"testing"
)

func TestSubstitute(t *testing.T) {
	params := map[string]any{
		"color":  "#ff0000",
		"count":  3,
		"offset": map[string]any{"x": 1.0, "y": 0.0, "z": 0.0},
	}

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"plain string", "torch", "torch"},
		{"token hit", "$color", "#ff0000"},
		{"token miss stays literal", "$missing", "$missing"},
		{"non-string token value", "$count", 3},
		{"structured token value", "$offset", map[string]any{"x": 1.0, "y": 0.0, "z": 0.0}},
		{"number passes through", 42.0, 42.0},
		{"bool passes through", true, true},
		{"nil passes through", nil, nil},
		{
			"nested map",
			map[string]any{"material": map[string]any{"color": "$color"}},
			map[string]any{"material": map[string]any{"color": "#ff0000"}},
		},
		{
			"slice",
			[]any{"$color", "$missing", 1.0},
			[]any{"#ff0000", "$missing", 1.0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Substitute(tc.value, params)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestSubstitute_DoesNotMutateInput(t *testing.T) {
	input := map[string]any{"color": "$color"}
	Substitute(input, map[string]any{"color": "#00ff00"})
	if input["color"] != "$color" {
		t.Fatal("input was mutated")
	}
}

func TestSubstituteStrict(t *testing.T) {
	value := map[string]any{
		"a": "$found",
		"b": []any{"$lost", "$gone"},
	}

	_, err := SubstituteStrict(value, map[string]any{"found": 1})
	if err == nil {
		t.Fatal("expected unresolved-token error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "$gone") || !strings.Contains(msg, "$lost") {
		t.Fatalf("expected both tokens named, got %q", msg)
	}
	// Tokens are reported sorted.
	if strings.Index(msg, "$gone") > strings.Index(msg, "$lost") {
		t.Fatalf("expected sorted tokens, got %q", msg)
	}

	result, err := SubstituteStrict(value, map[string]any{"found": 1, "lost": 2, "gone": 3})
	if err != nil {
		t.Fatalf("expected full resolution, got %v", err)
	}
	got := result.(map[string]any)
	if got["a"] != 1 {
		t.Fatalf("expected substituted value, got %v", got["a"])
	}
}
