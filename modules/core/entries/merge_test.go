package entries

import (
	"reflect"
	"testing"
)

func TestAppendDataArrays(t *testing.T) {
	got := AppendData([]any{"a", float64(1)}, []any{"b", float64(2)})
	want := []any{"a", float64(1), "b", float64(2)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAppendDataStrings(t *testing.T) {
	got := AppendData("hello", "world")
	if got != "helloworld" {
		t.Errorf("expected helloworld, got %v", got)
	}
}

func TestAppendDataMaps(t *testing.T) {
	existing := map[string]any{"a": float64(1), "b": float64(2)}
	incoming := map[string]any{"b": float64(3), "c": float64(4)}

	got := AppendData(existing, incoming)
	want := map[string]any{"a": float64(1), "b": float64(3), "c": float64(4)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// The inputs must not be mutated.
	if existing["b"] != float64(2) {
		t.Errorf("existing map was mutated: %v", existing)
	}
}

func TestAppendDataMixedTypesWrap(t *testing.T) {
	cases := []struct {
		name     string
		existing any
		incoming any
	}{
		{"string onto array", []any{"a"}, "b"},
		{"array onto string", "a", []any{"b"}},
		{"map onto string", "a", map[string]any{"k": "v"}},
		{"number onto number", float64(1), float64(2)},
		{"nil onto string", "a", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AppendData(tc.existing, tc.incoming)
			want := []any{tc.existing, tc.incoming}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("expected %v, got %v", want, got)
			}
		})
	}
}
