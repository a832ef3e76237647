package llm

import "strings"

// ExtractJSON returns the JSON object inside a model reply. Models wrap
// objects in ```json fences or a line of prose despite being told not to.
// A reply without braces comes back trimmed and otherwise untouched.
func ExtractJSON(reply string) string {
	s := strings.TrimSpace(reply)
	if rest, ok := strings.CutPrefix(s, "```"); ok {
		// drop the info string ("json") up to the first newline
		if _, body, found := strings.Cut(rest, "\n"); found {
			rest = body
		}
		if i := strings.LastIndex(rest, "```"); i >= 0 {
			rest = rest[:i]
		}
		s = strings.TrimSpace(rest)
	}

	open, close := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}')
	if open < 0 || close < open {
		return s
	}
	return s[open : close+1]
}
