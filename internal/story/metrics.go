package story

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// Average adult reading speed is 200-250 words per minute.
	readingWordsPerMinute = 225
	previewMaxLength      = 200
)

// Metrics are the four fields derived from a story's content.
type Metrics struct {
	WordCount      int
	CharacterCount int
	ReadTime       string
	Preview        string
}

// ComputeMetrics derives word count, character count, estimated read time and
// a short preview from raw content. Total on any input: an empty string yields
// zero counts, "0 min" and an empty preview.
func ComputeMetrics(content string) Metrics {
	words := len(strings.Fields(content))
	return Metrics{
		WordCount:      words,
		CharacterCount: utf8.RuneCountInString(content),
		ReadTime:       readTime(words),
		Preview:        preview(content),
	}
}

func readTime(words int) string {
	minutes := (words + readingWordsPerMinute - 1) / readingWordsPerMinute
	return fmt.Sprintf("%d min", minutes)
}

// preview trims the content and truncates it to previewMaxLength runes,
// preferring a sentence end when one falls in the second half of the slice,
// then a word boundary, then a hard cut.
func preview(content string) string {
	clean := strings.TrimSpace(content)
	runes := []rune(clean)
	if len(runes) <= previewMaxLength {
		return clean
	}
	truncated := string(runes[:previewMaxLength])

	if end := strings.LastIndexAny(truncated, ".!?"); end > len(truncated)/2 {
		return truncated[:end+1]
	}
	if space := strings.LastIndexAny(truncated, " \t\n"); space > 0 {
		return truncated[:space] + "..."
	}
	return truncated + "..."
}
