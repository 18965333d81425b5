package requirements

import "strings"

var (
	doubledSeparators = strings.NewReplacer("^^", "^", "||", "|")
	bracketSeparators = strings.NewReplacer("(^", "(", "(|", "(", "^)", ")", "|)", ")")
)

// Normalize cleans a scraped requirement string: doubled separators are
// collapsed, separators hugging a bracket and empty bracket pairs are dropped,
// and the string is trimmed so it neither starts nor ends with a separator.
// Passes repeat until the string stops changing, so "A^()^B" ends up "A^B".
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		next := normalizePass(s)
		if next == s {
			return s
		}
		s = next
	}
}

func normalizePass(s string) string {
	for strings.Contains(s, "^^") || strings.Contains(s, "||") {
		s = doubledSeparators.Replace(s)
	}
	for hasBracketSeparator(s) {
		s = bracketSeparators.Replace(s)
	}
	s = strings.ReplaceAll(s, "()", "")

	start := 0
	for start < len(s) && strings.IndexByte(")^|", s[start]) >= 0 {
		start++
	}
	end := len(s)
	for end > start && strings.IndexByte("(^|", s[end-1]) >= 0 {
		end--
	}
	return s[start:end]
}

func hasBracketSeparator(s string) bool {
	return strings.Contains(s, "(^") || strings.Contains(s, "(|") ||
		strings.Contains(s, "^)") || strings.Contains(s, "|)")
}
