package indexer

import (
	"regexp"
	"strings"
)

const (
	// DefaultChunkSize is the target chunk length in runes.
	DefaultChunkSize = 2000
	// DefaultChunkOverlap is how many trailing runes of a flushed chunk seed
	// the next one.
	DefaultChunkOverlap = 200
)

// paragraphSep matches the blank-line runs that separate paragraphs.
var paragraphSep = regexp.MustCompile(`\n{2,}`)

// SplitText splits raw document text into chunks suitable for independent
// embedding. Paragraphs are accumulated greedily in order: while the buffer
// stays strictly below chunkSize runes the next paragraph is appended,
// otherwise the buffer is flushed (trimmed) and a new buffer starts with the
// trailing overlap runes of the flushed one followed by the paragraph.
//
// A single paragraph longer than chunkSize becomes its own oversized chunk;
// paragraphs are never cut internally. Empty input yields no chunks. The
// result depends only on the input and parameters.
func SplitText(text string, chunkSize, overlap int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}

	paragraphs := paragraphSep.Split(text, -1)

	var chunks []string
	var buf []rune

	flush := func() {
		chunk := strings.TrimSpace(string(buf))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, para := range paragraphs {
		p := []rune(para)

		if len(buf) == 0 {
			buf = p
			continue
		}

		// +2 accounts for the paragraph separator between buffer and paragraph.
		if len(buf)+2+len(p) < chunkSize {
			buf = append(buf, '\n', '\n')
			buf = append(buf, p...)
			continue
		}

		flush()
		if len(buf) > overlap {
			seed := append([]rune(nil), buf[len(buf)-overlap:]...)
			buf = append(seed, '\n', '\n')
			buf = append(buf, p...)
		} else {
			buf = p
		}
	}

	flush()
	return chunks
}
