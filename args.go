package shellviz

// splitArgsAndOptions separates a variadic argument list into data
// values and a trailing options map. The last argument is treated as
// options only when all of the following hold:
//
//   - there is more than one argument
//   - the last argument is a plain string-keyed map
//   - it has at least one key
//   - every key is a recognized option name
//
// Anything else is literal data, so a map value that merely looks like
// an options object is never swallowed.
func splitArgsAndOptions(args []any, recognized ...string) ([]any, map[string]any) {
	if len(args) < 2 {
		return args, nil
	}

	last, ok := args[len(args)-1].(map[string]any)
	if !ok || len(last) == 0 {
		return args, nil
	}

	for key := range last {
		if !isRecognized(key, recognized) {
			return args, nil
		}
	}
	return args[:len(args)-1], last
}

func isRecognized(key string, recognized []string) bool {
	for _, name := range recognized {
		if key == name {
			return true
		}
	}
	return false
}
