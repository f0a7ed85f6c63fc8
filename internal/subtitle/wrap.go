package subtitle

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// wrapText breaks text at word boundaries so no line is longer than maxLen
// characters. Words longer than maxLen get a line of their own and are never
// split. maxLen <= 0 returns the trimmed text as a single line.
//
// Lengths are counted on the NFC form; the returned lines keep the input's
// bytes.
func wrapText(text string, maxLen int) []string {
	text = strings.TrimSpace(text)
	if maxLen <= 0 || runeLen(text) <= maxLen {
		return []string{text}
	}

	words := strings.Fields(text)
	var lines []string
	var current strings.Builder
	currentLen := 0

	for _, word := range words {
		wordLen := runeLen(word)
		if currentLen > 0 && currentLen+1+wordLen > maxLen {
			lines = append(lines, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}

	if currentLen > 0 {
		lines = append(lines, current.String())
	}

	return lines
}

// runeLen counts characters as displayed, so a decomposed "e" + U+0301
// counts once.
func runeLen(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}
