package reconcile

import "strings"

// FirstJSONObject returns the span from the first '{' to the last '}' in s.
// Greedy on purpose: completions wrap the object in prose or markdown
// fences, and the widest span is the one that parses.
func FirstJSONObject(s string) (string, bool) {
	i := strings.Index(s, "{")
	if i < 0 {
		return "", false
	}
	j := strings.LastIndex(s, "}")
	if j < i {
		return "", false
	}
	return s[i : j+1], true
}
