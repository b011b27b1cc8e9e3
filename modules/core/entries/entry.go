// Package entries holds the canonical entry store: named, typed data
// entries that viewers render live. The store applies merge policy on
// updates and signals every mutation to a publisher so connected
// viewers stay in sync.
package entries

import (
	"strconv"
	"time"
)

// View kinds understood by the viewer UI. The store treats these as
// opaque tags; only the viewer interprets them.
const (
	ViewLog      = "log"
	ViewTable    = "table"
	ViewJSON     = "json"
	ViewMarkdown = "markdown"
	ViewNumber   = "number"
	ViewProgress = "progress"
	ViewBar      = "bar"
	ViewArea     = "area"
	ViewPie      = "pie"
	ViewCard     = "card"
	ViewLocation = "location"
	ViewRaw      = "raw"
	ViewStack    = "stack"
)

// ClearSentinel is the reserved data value that tells all viewers to
// wipe their display. It is broadcast like an entry but never stored.
const ClearSentinel = "___clear___"

// Entry is one named unit of visualizable data.
type Entry struct {
	ID     string `json:"id"`
	Data   any    `json:"data"`
	View   string `json:"view"`
	Append bool   `json:"append"`
}

// IsClear reports whether data is the clear sentinel.
func IsClear(data any) bool {
	s, ok := data.(string)
	return ok && s == ClearSentinel
}

// NewID generates an entry id from the current time
// (milliseconds since epoch, as a string).
func NewID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
