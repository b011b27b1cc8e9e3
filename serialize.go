package shellviz

import (
	"encoding/json"
	"fmt"
)

// toJSONValue normalizes an arbitrary Go value into decoded-JSON form
// (string, float64, bool, nil, []any, map[string]any) by a marshal
// round trip. The store's merge rules are defined over exactly these
// types, so every value is normalized before it reaches the store or
// the wire. Values that cannot be marshaled degrade to their string
// form instead of failing the send.
func toJSONValue(value any) any {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Sprint(value)
	}
	return decoded
}

// toJSONString renders a value for display inside a log line:
// composite values as compact JSON, scalars as their plain string form.
func toJSONString(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return value.(string)
	}

	normalized := toJSONValue(value)
	switch v := normalized.(type) {
	case string:
		return v
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}
