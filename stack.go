package shellviz

import (
	"runtime"
)

// stackFrame is the wire shape of one captured call frame.
type stackFrame struct {
	Function string            `json:"function"`
	File     string            `json:"file"`
	Line     int               `json:"line"`
	Locals   map[string]string `json:"locals,omitempty"`
}

// captureStack walks the current call stack, skipping the innermost
// skip frames (the facade's own). The caller-provided locals are
// attached to the innermost remaining frame, serialized to plain
// strings. Stack capture is best-effort: if the runtime yields nothing
// usable, the result is an empty frame list, never a panic.
func captureStack(locals map[string]any, skip int) []stackFrame {
	frames := []stackFrame{}

	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return frames
	}

	callers := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := callers.Next()
		if frame.Function != "" || frame.File != "" {
			frames = append(frames, stackFrame{
				Function: frame.Function,
				File:     frame.File,
				Line:     frame.Line,
			})
		}
		if !more {
			break
		}
	}

	if len(frames) > 0 && len(locals) > 0 {
		serialized := make(map[string]string, len(locals))
		for name, value := range locals {
			serialized[name] = toJSONString(value)
		}
		frames[0].Locals = serialized
	}

	return frames
}
