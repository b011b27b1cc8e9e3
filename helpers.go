package shellviz

import (
	"time"

	"github.com/jskopek/shellviz/modules/core/entries"
)

// Log appends a timestamped line to a log entry. Multiple values are
// joined into one line. A trailing map with an "id" key routes the line
// to a named log; everything else lands in the shared "log" entry.
//
// Each line travels as a [message, unixSeconds] pair so viewers can
// render their own timestamps.
func (c *Client) Log(args ...any) error {
	values, opts := splitArgsAndOptions(args, "id")
	id := "log"
	if v, ok := opts["id"].(string); ok && v != "" {
		id = v
	}

	line := ""
	for i, v := range values {
		if i > 0 {
			line += " "
		}
		line += toJSONString(v)
	}

	// Fractional seconds: lines logged within the same second must
	// still carry strictly increasing timestamps.
	payload := []any{[]any{line, float64(time.Now().UnixMicro()) / 1e6}}
	return c.Send(payload, WithID(id), WithView(entries.ViewLog), WithAppend())
}

// Table renders rows of cells. A single flat row (no nested list) is
// wrapped so that Table([]any{"a", 1}) and Table([]any{[]any{"a", 1}})
// land the same way. Data is normalized first so typed slices get the
// same treatment.
func (c *Client) Table(data any, opts ...SendOption) error {
	data = toJSONValue(data)
	if rows, ok := data.([]any); ok {
		flat := true
		for _, row := range rows {
			if _, isRow := row.([]any); isRow {
				flat = false
				break
			}
		}
		if flat && len(rows) > 0 {
			data = []any{rows}
		}
	}
	return c.Send(data, prependView(entries.ViewTable, opts)...)
}

// JSON renders data as an expandable JSON tree.
func (c *Client) JSON(data any, opts ...SendOption) error {
	return c.Send(data, prependView(entries.ViewJSON, opts)...)
}

// Markdown renders a markdown document.
func (c *Client) Markdown(text string, opts ...SendOption) error {
	return c.Send(text, prependView(entries.ViewMarkdown, opts)...)
}

// Number renders a single large numeric readout.
func (c *Client) Number(value any, opts ...SendOption) error {
	return c.Send(value, prependView(entries.ViewNumber, opts)...)
}

// Progress renders a progress bar from a 0..1 fraction.
func (c *Client) Progress(fraction float64, opts ...SendOption) error {
	return c.Send(fraction, prependView(entries.ViewProgress, opts)...)
}

// Bar renders a bar chart.
func (c *Client) Bar(data any, opts ...SendOption) error {
	return c.Send(data, prependView(entries.ViewBar, opts)...)
}

// Area renders an area chart.
func (c *Client) Area(data any, opts ...SendOption) error {
	return c.Send(data, prependView(entries.ViewArea, opts)...)
}

// Pie renders a pie chart.
func (c *Client) Pie(data any, opts ...SendOption) error {
	return c.Send(data, prependView(entries.ViewPie, opts)...)
}

// Card renders key/value summary cards.
func (c *Client) Card(data any, opts ...SendOption) error {
	return c.Send(data, prependView(entries.ViewCard, opts)...)
}

// Location renders a map pin from coordinates or a place name.
func (c *Client) Location(data any, opts ...SendOption) error {
	return c.Send(data, prependView(entries.ViewLocation, opts)...)
}

// Raw renders the value without any formatting.
func (c *Client) Raw(data any, opts ...SendOption) error {
	return c.Send(data, prependView(entries.ViewRaw, opts)...)
}

// Stack captures the caller's stack and renders it as a stack trace
// view. Local variables, which Go cannot introspect at runtime, may be
// passed in and are attached to the innermost frame.
func (c *Client) Stack(locals map[string]any, opts ...SendOption) error {
	frames := captureStack(locals, 1)
	return c.Send(frames, prependView(entries.ViewStack, opts)...)
}

// prependView puts the view option first so explicit caller options win.
func prependView(view string, opts []SendOption) []SendOption {
	return append([]SendOption{WithView(view)}, opts...)
}
