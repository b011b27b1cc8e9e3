package shellviz

import (
	"reflect"
	"testing"
)

func TestSplitArgsAndOptions(t *testing.T) {
	cases := []struct {
		name     string
		args     []any
		wantVals []any
		wantOpts map[string]any
	}{
		{
			name:     "trailing options map",
			args:     []any{"msg", map[string]any{"id": "build"}},
			wantVals: []any{"msg"},
			wantOpts: map[string]any{"id": "build"},
		},
		{
			name:     "single map is data",
			args:     []any{map[string]any{"id": "build"}},
			wantVals: []any{map[string]any{"id": "build"}},
			wantOpts: nil,
		},
		{
			name:     "unrecognized key makes it data",
			args:     []any{"msg", map[string]any{"id": "build", "color": "red"}},
			wantVals: []any{"msg", map[string]any{"id": "build", "color": "red"}},
			wantOpts: nil,
		},
		{
			name:     "empty map is data",
			args:     []any{"msg", map[string]any{}},
			wantVals: []any{"msg", map[string]any{}},
			wantOpts: nil,
		},
		{
			name:     "non-map last arg is data",
			args:     []any{"a", "b"},
			wantVals: []any{"a", "b"},
			wantOpts: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vals, opts := splitArgsAndOptions(tc.args, "id")
			if !reflect.DeepEqual(vals, tc.wantVals) {
				t.Errorf("values: expected %v, got %v", tc.wantVals, vals)
			}
			if !reflect.DeepEqual(opts, tc.wantOpts) {
				t.Errorf("options: expected %v, got %v", tc.wantOpts, opts)
			}
		})
	}
}

func TestToJSONValueNormalizes(t *testing.T) {
	type point struct {
		X int `json:"x"`
		Y int `json:"y"`
	}

	got := toJSONValue(point{X: 1, Y: 2})
	want := map[string]any{"x": float64(1), "y": float64(2)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := toJSONValue(42); got != float64(42) {
		t.Errorf("ints must normalize to float64, got %T", got)
	}
	if got := toJSONValue(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestToJSONString(t *testing.T) {
	if got := toJSONString("plain"); got != "plain" {
		t.Errorf("strings must not be quoted, got %q", got)
	}
	if got := toJSONString(nil); got != "null" {
		t.Errorf("expected null, got %q", got)
	}
	if got := toJSONString(3.5); got != "3.5" {
		t.Errorf("expected 3.5, got %q", got)
	}
	if got := toJSONString(map[string]any{"k": "v"}); got != `{"k":"v"}` {
		t.Errorf("maps must render as compact JSON, got %q", got)
	}
	if got := toJSONString([]any{float64(1), "a"}); got != `[1,"a"]` {
		t.Errorf("slices must render as compact JSON, got %q", got)
	}
}

func TestCaptureStack(t *testing.T) {
	frames := captureStack(map[string]any{"n": 42, "s": "x"}, 0)
	if len(frames) == 0 {
		t.Fatal("expected at least one frame")
	}
	if frames[0].Locals["n"] != "42" || frames[0].Locals["s"] != "x" {
		t.Errorf("locals not attached to innermost frame: %v", frames[0].Locals)
	}
	if frames[0].Function == "" {
		t.Error("expected a function name on the innermost frame")
	}
}
