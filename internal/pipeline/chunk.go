package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)

// Chunk splits text into pieces of at most maxChars runes, cutting only at
// paragraph boundaries (blank lines). Consecutive paragraphs are packed
// greedily; a paragraph longer than maxChars becomes a chunk of its own.
// maxChars <= 0 disables splitting. Blank text yields no chunks.
func Chunk(text string, maxChars int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, para := range paragraphBreak.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		n := utf8.RuneCountInString(para)

		sep := 0
		if curLen > 0 {
			sep = 2
		}
		if curLen > 0 && curLen+sep+n > maxChars {
			flush()
			sep = 0
		}
		if sep > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(para)
		curLen += sep + n
	}
	flush()
	return chunks
}
