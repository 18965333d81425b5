package requirements

import (
	"fmt"
	"strings"
)

// MaxParseDepth bounds how deeply Parse recurses into nested operands.
const MaxParseDepth = 256

const (
	codeLength = 8
	sepAnd     = '^'
	sepOr      = '|'
)

// Parse turns a normalized requirement string into a tree.
//
// Top-level separators split the string into operands. When any top-level "^"
// exists the first one becomes the root AND and everything else (including "|"
// separators) lands in its operands, so "A^B|C" parses as A AND (B OR C).
// Only when no top-level "^" remains is the first "|" used.
func Parse(requirement string) (*Node, error) {
	if err := checkBalanced(requirement); err != nil {
		return nil, err
	}
	return parse(requirement, 0)
}

func parse(s string, depth int) (*Node, error) {
	if depth > MaxParseDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrMalformedRequirement, MaxParseDepth)
	}

	for isEnclosed(s) {
		s = s[1 : len(s)-1]
	}

	if s == "" || IsCourseCode(s) {
		return Leaf(s), nil
	}

	tokens := splitTopLevel(s)
	op, at := pickSplit(tokens)
	if op == OpNone {
		return nil, fmt.Errorf("%w: unrecognized term %q", ErrMalformedRequirement, s)
	}

	left, err := parse(strings.Join(tokens[:at], ""), depth+1)
	if err != nil {
		return nil, err
	}
	right, err := parse(strings.Join(tokens[at+1:], ""), depth+1)
	if err != nil {
		return nil, err
	}
	return Binary(op, left, right), nil
}

// splitTopLevel partitions s into text and separator tokens. Separators nested
// inside brackets stay part of the surrounding text token.
func splitTopLevel(s string) []string {
	var tokens []string
	var cur strings.Builder
	depth := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		}
		if (ch == sepAnd || ch == sepOr) && depth == 0 {
			tokens = append(tokens, cur.String(), string(ch))
			cur.Reset()
			continue
		}
		cur.WriteByte(ch)
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// pickSplit returns the operator and token index to split on: the first AND
// separator if any, otherwise the first OR separator.
func pickSplit(tokens []string) (Operator, int) {
	firstOr := -1
	for i, tok := range tokens {
		switch tok {
		case string(sepAnd):
			return OpAnd, i
		case string(sepOr):
			if firstOr < 0 {
				firstOr = i
			}
		}
	}
	if firstOr >= 0 {
		return OpOr, firstOr
	}
	return OpNone, -1
}

// isEnclosed reports whether s is wrapped by a single matching bracket pair.
func isEnclosed(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && i < len(s)-1 {
			return false
		}
	}
	return depth == 0
}

func checkBalanced(s string) error {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unexpected ')' at offset %d", ErrMalformedRequirement, i)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: %d unclosed '('", ErrMalformedRequirement, depth)
	}
	return nil
}

// IsCourseCode reports whether s has the shape of a course code: three
// letters, a digit block (positions 3-5, or 4-5 for codes such as CSCC11H3),
// a letter and a trailing campus digit.
func IsCourseCode(s string) bool {
	if len(s) != codeLength {
		return false
	}
	for i := 0; i < 3; i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	if !isLetter(s[3]) && !isDigit(s[3]) {
		return false
	}
	if !isDigit(s[4]) || !isDigit(s[5]) {
		return false
	}
	return isLetter(s[6]) && isDigit(s[7])
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
