package filter

import (
	"testing"

	"github.com/mcncl/jsonview/internal/models"
	"github.com/mcncl/jsonview/internal/parser"
)

func mustParse(t *testing.T, s string) *models.Value {
	t.Helper()
	doc, err := parser.ParseString(s)
	if err != nil {
		t.Fatalf("ParseString(%q) error = %v", s, err)
	}
	return doc.Root
}

func TestRemoveNulls(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "mixed object and array",
			input: `{"a": [1, null, 2], "b": null}`,
			want:  `{"a":[1,2]}`,
		},
		{
			name:  "nested nulls",
			input: `{"a": {"b": null, "c": [null, {"d": null}]}}`,
			want:  `{"a":{"c":[{}]}}`,
		},
		{
			name:  "no nulls passes through",
			input: `{"a": [1, 2], "b": "x"}`,
			want:  `{"a":[1,2],"b":"x"}`,
		},
		{
			name:  "containers emptied by the filter are kept",
			input: `{"a": [null, null], "b": {"c": null}}`,
			want:  `{"a":[],"b":{}}`,
		},
		{
			name:  "scalar root",
			input: `42`,
			want:  `42`,
		},
		{
			name:  "null root is kept",
			input: `null`,
			want:  `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemoveNulls(mustParse(t, tt.input))
			if got.String() != tt.want {
				t.Errorf("RemoveNulls() = %s, want %s", got.String(), tt.want)
			}
		})
	}
}

func TestRemoveNulls_Idempotent(t *testing.T) {
	inputs := []string{
		`{"a": [1, null, 2], "b": null}`,
		`[null, [null], {"x": null}]`,
		`{"deep": {"deeper": [null, {"a": null, "b": 1}]}}`,
	}

	for _, input := range inputs {
		once := RemoveNulls(mustParse(t, input))
		twice := RemoveNulls(once)
		if once.String() != twice.String() {
			t.Errorf("RemoveNulls not idempotent for %s: %s vs %s", input, once.String(), twice.String())
		}
	}
}

func TestRemoveNulls_NoReachableNulls(t *testing.T) {
	got := RemoveNulls(mustParse(t, `{"a": [null, {"b": null, "c": [null]}], "d": null}`))

	var check func(v *models.Value) bool
	check = func(v *models.Value) bool {
		switch v.Kind() {
		case models.KindArray:
			for _, item := range v.Items() {
				if item.Kind() == models.KindNull || !check(item) {
					return false
				}
			}
		case models.KindObject:
			for _, m := range v.Members() {
				if m.Value.Kind() == models.KindNull || !check(m.Value) {
					return false
				}
			}
		}
		return true
	}

	if !check(got) {
		t.Errorf("null value reachable in filtered tree %s", got.String())
	}
}

func TestRemoveNulls_DoesNotMutateInput(t *testing.T) {
	input := mustParse(t, `{"a": [1, null], "b": null}`)
	before := input.String()
	RemoveNulls(input)
	if input.String() != before {
		t.Errorf("input mutated: %s -> %s", before, input.String())
	}
}

func TestRenameKeys(t *testing.T) {
	tests := []struct {
		name  string
		kc    KeyCase
		input string
		want  string
	}{
		{
			name:  "snake",
			kc:    KeyCaseSnake,
			input: `{"firstName": 1, "lastName": {"innerValue": 2}}`,
			want:  `{"first_name":1,"last_name":{"inner_value":2}}`,
		},
		{
			name:  "camel",
			kc:    KeyCaseCamel,
			input: `{"first_name": 1, "items": [{"item_id": 2}]}`,
			want:  `{"firstName":1,"items":[{"itemId":2}]}`,
		},
		{
			name:  "kebab",
			kc:    KeyCaseKebab,
			input: `{"firstName": 1}`,
			want:  `{"first-name":1}`,
		},
		{
			name:  "none is identity",
			kc:    KeyCaseNone,
			input: `{"Mixed_case Key": 1}`,
			want:  `{"Mixed_case Key":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenameKeys(mustParse(t, tt.input), tt.kc)
			if got.String() != tt.want {
				t.Errorf("RenameKeys() = %s, want %s", got.String(), tt.want)
			}
		})
	}
}

func TestKeyCase_Valid(t *testing.T) {
	for _, kc := range []KeyCase{KeyCaseNone, KeyCaseCamel, KeyCaseSnake, KeyCaseKebab} {
		if !kc.Valid() {
			t.Errorf("KeyCase(%q).Valid() = false, want true", kc)
		}
	}
	if KeyCase("pascal").Valid() {
		t.Error(`KeyCase("pascal").Valid() = true, want false`)
	}
}
