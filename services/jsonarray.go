package services

import "strings"

// ExtractJSONArray returns the JSON array literal stored under key inside a
// larger HTML/script blob, brackets included. It looks for `"key":[` and
// scans forward counting brackets, ignoring any that sit inside quoted
// strings. The second result is false when the key is missing or the array
// never closes.
//
// Only the array itself needs to be well-formed; the surrounding text can
// be anything.
func ExtractJSONArray(text, key string) (string, bool) {
	needle := `"` + key + `":[`
	idx := strings.Index(text, needle)
	if idx == -1 {
		return "", false
	}
	start := idx + strings.IndexByte(text[idx:], '[')

	inString := false
	escaped := false
	depth := 0
	for i := start; i < len(text); i++ {
		ch := text[i]
		if ch == '"' && !escaped {
			inString = !inString
		}
		if ch == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false

		if inString {
			continue
		}
		switch ch {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
