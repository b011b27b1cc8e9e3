// Package shellviz sends data from a running program to a live browser
// view. The first process to send becomes the host: it starts an
// embedded HTTP/WebSocket server and prints the viewer URL. Every later
// process on the machine detects the running server and forwards to it,
// so output from many processes lands in one shared view.
//
// The package-level functions use a lazily created shared client:
//
//	shellviz.Log("starting batch", batchID)
//	shellviz.Progress(0.4)
//	shellviz.Table(rows)
//
// They never panic and never return errors; a visualization failure
// must not take the host program down. Use New for a client with
// explicit configuration and error reporting.
package shellviz

import (
	"sync"

	"github.com/jskopek/shellviz/modules/core/entries"
	"github.com/jskopek/shellviz/modules/platform/config"
	"github.com/jskopek/shellviz/modules/platform/logger"
)

var (
	defaultOnce   sync.Once
	defaultClient *Client
)

// Default returns the shared client, creating it on first use from the
// discovered config file and environment. If discovery fails the shared
// client is disabled and drops data with a warning rather than failing.
func Default() *Client {
	defaultOnce.Do(func() {
		cfg, err := config.Load("")
		if err != nil {
			logger.Warn("config load failed, visualization disabled: %v", err)
			defaultClient = newDisabledClient()
			return
		}
		client, err := New(cfg)
		if err != nil {
			logger.Warn("shellviz unavailable, visualization disabled: %v", err)
			defaultClient = newDisabledClient()
			return
		}
		defaultClient = client
	})
	return defaultClient
}

// Send sends one entry through the shared client.
func Send(data any, opts ...SendOption) { logDropped(Default().Send(data, opts...)) }

// Log appends a timestamped log line through the shared client.
func Log(args ...any) { logDropped(Default().Log(args...)) }

// Table renders rows of cells through the shared client.
func Table(data any, opts ...SendOption) { logDropped(Default().Table(data, opts...)) }

// JSON renders a JSON tree through the shared client.
func JSON(data any, opts ...SendOption) { logDropped(Default().JSON(data, opts...)) }

// Markdown renders a markdown document through the shared client.
func Markdown(text string, opts ...SendOption) { logDropped(Default().Markdown(text, opts...)) }

// Number renders a numeric readout through the shared client.
func Number(value any, opts ...SendOption) { logDropped(Default().Number(value, opts...)) }

// Progress renders a progress bar through the shared client.
func Progress(fraction float64, opts ...SendOption) {
	logDropped(Default().Progress(fraction, opts...))
}

// Bar renders a bar chart through the shared client.
func Bar(data any, opts ...SendOption) { logDropped(Default().Bar(data, opts...)) }

// Area renders an area chart through the shared client.
func Area(data any, opts ...SendOption) { logDropped(Default().Area(data, opts...)) }

// Pie renders a pie chart through the shared client.
func Pie(data any, opts ...SendOption) { logDropped(Default().Pie(data, opts...)) }

// Card renders summary cards through the shared client.
func Card(data any, opts ...SendOption) { logDropped(Default().Card(data, opts...)) }

// Location renders a map pin through the shared client.
func Location(data any, opts ...SendOption) { logDropped(Default().Location(data, opts...)) }

// Raw renders an unformatted value through the shared client.
func Raw(data any, opts ...SendOption) { logDropped(Default().Raw(data, opts...)) }

// Stack captures and renders the caller's stack through the shared
// client.
func Stack(locals map[string]any, opts ...SendOption) {
	c := Default()
	frames := captureStack(locals, 1)
	logDropped(c.Send(frames, prependView(entries.ViewStack, opts)...))
}

// Clear wipes all entries and viewer displays through the shared
// client.
func Clear() { logDropped(Default().Clear()) }

// Delete removes one entry by id through the shared client.
func Delete(id string) { logDropped(Default().Delete(id)) }

// Wait blocks until the shared client's sends have been flushed to
// connected viewers.
func Wait() { logDropped(Default().Wait()) }

func logDropped(err error) {
	if err != nil {
		logger.Warn("visualization send failed: %v", err)
	}
}
