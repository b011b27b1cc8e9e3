package entries

// AppendData merges incoming data into existing data for an append
// update. The result is defined for every type pairing:
//
//	array  + array  -> concatenation, existing first
//	string + string -> concatenation
//	map    + map    -> shallow merge, incoming keys win
//	anything else   -> two-element array [existing, incoming]
//
// Data is expected in decoded-JSON form (string, float64, bool, nil,
// []any, map[string]any); the facade and the HTTP handlers normalize
// values before they reach the store.
func AppendData(existing, incoming any) any {
	switch ev := existing.(type) {
	case []any:
		if iv, ok := incoming.([]any); ok {
			merged := make([]any, 0, len(ev)+len(iv))
			merged = append(merged, ev...)
			merged = append(merged, iv...)
			return merged
		}
	case string:
		if iv, ok := incoming.(string); ok {
			return ev + iv
		}
	case map[string]any:
		if iv, ok := incoming.(map[string]any); ok {
			merged := make(map[string]any, len(ev)+len(iv))
			for k, v := range ev {
				merged[k] = v
			}
			for k, v := range iv {
				merged[k] = v
			}
			return merged
		}
	}
	return []any{existing, incoming}
}
