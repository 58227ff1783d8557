package analyzer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	lineCommentRe   = regexp.MustCompile(`#.*`)
	doubleBlockRe   = regexp.MustCompile(`(?s)""".*?"""`)
	singleBlockRe   = regexp.MustCompile(`(?s)'''.*?'''`)
	commentPrefixes = []string{"#", `"""`, "'''"}
)

// StripComments removes # line comments and triple-quoted blocks with a
// textual pass. Comment-like text inside string literals is stripped too.
func StripComments(text string) string {
	text = lineCommentRe.ReplaceAllString(text, "")
	text = doubleBlockRe.ReplaceAllString(text, "")
	return singleBlockRe.ReplaceAllString(text, "")
}

// RuneLen returns the number of code points in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// SpecialRatio returns the fraction of runes that are neither ASCII
// alphanumerics nor whitespace. Blank text scores 1.
func SpecialRatio(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 1.0
	}
	var total, special int
	for _, r := range text {
		total++
		if isASCIIAlnum(r) || unicode.IsSpace(r) {
			continue
		}
		special++
	}
	return float64(special) / float64(total)
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// CommentRatio returns the line count and the fraction of lines whose
// trimmed form starts with a comment marker. Blank text yields (0, 0).
func CommentRatio(text string) (lines int, ratio float64) {
	if strings.TrimSpace(text) == "" {
		return 0, 0
	}
	all := splitLines(text)
	var comments int
	for _, l := range all {
		if isCommentLine(l) {
			comments++
		}
	}
	if len(all) == 0 {
		return 0, 0
	}
	return len(all), float64(comments) / float64(len(all))
}

func isCommentLine(line string) bool {
	t := strings.TrimSpace(line)
	for _, p := range commentPrefixes {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}

// splitLines splits on \n, \r\n and \r without producing a trailing empty
// line for a terminating newline.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// sourceLines counts non-blank lines that are not # comment-only lines.
func sourceLines(text string) int {
	var n int
	for _, l := range splitLines(text) {
		t := strings.TrimSpace(l)
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		n++
	}
	return n
}
