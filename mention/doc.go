// Package mention detects a leading name of address in a transcript and
// resolves it to a chat participant's @handle.
//
// Matcher asks an LLM which participants the name can refer to. Engine turns
// the match into one of three outcomes: the text is left alone, rewritten to
// the single candidate's handle, or held back behind a PendingChoice that a
// Selector consumes exactly once.
package mention
