package voice

// DefaultChunkSize keeps each message under the 4096 character limit of
// chat messages with room for the header.
const DefaultChunkSize = 4000

// Split cuts text into pieces of at most size runes. Joining the pieces
// gives back text; an empty text gives no pieces.
func Split(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	runes := []rune(text)
	parts := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}

// chunks labels the parts of text. An empty transcript is still delivered
// as a single empty chunk.
func chunks(text string, size int, replyTo int64) []Chunk {
	parts := Split(text, size)
	if len(parts) == 0 {
		parts = []string{""}
	}
	out := make([]Chunk, len(parts))
	for i, p := range parts {
		out[i] = Chunk{Index: i + 1, Total: len(parts), Text: p}
	}
	out[0].ReplyTo = replyTo
	return out
}
