package mention

import (
	"strings"
	"unicode/utf8"
)

// Rewrite replaces a leading name in text with @handle. The comparison is
// case-insensitive. When the text does not start with name, it is returned
// unchanged with ok=false.
//
// Only the matched prefix is replaced. A name that ends inside a word leaves
// the rest of that word in place, and everything after the prefix is kept
// byte for byte.
func Rewrite(text, name, handle string) (out string, ok bool) {
	if name == "" {
		return text, false
	}
	end, ok := prefixEnd(text, name)
	if !ok {
		return text, false
	}
	return "@" + strings.TrimPrefix(handle, "@") + text[end:], true
}

// prefixEnd returns the byte offset in text just past a case-insensitive
// match of name, comparing rune by rune.
func prefixEnd(text, name string) (int, bool) {
	end := 0
	for _, want := range name {
		if end >= len(text) {
			return 0, false
		}
		got, size := utf8.DecodeRuneInString(text[end:])
		if !strings.EqualFold(string(got), string(want)) {
			return 0, false
		}
		end += size
	}
	return end, true
}
