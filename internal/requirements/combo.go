package requirements

import (
	"fmt"
	"sort"
	"strings"
)

// Combo is one set of course codes that together satisfy a requirement. It is
// kept sorted and free of duplicates.
type Combo []string

// NewCombo builds a Combo from arbitrary codes.
func NewCombo(codes ...string) Combo {
	seen := make(map[string]bool, len(codes))
	out := make(Combo, 0, len(codes))
	for _, c := range codes {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// Union returns a new Combo holding the codes of both.
func (c Combo) Union(other Combo) Combo {
	out := make(Combo, 0, len(c)+len(other))
	i, j := 0, 0
	for i < len(c) && j < len(other) {
		switch {
		case c[i] == other[j]:
			out = append(out, c[i])
			i++
			j++
		case c[i] < other[j]:
			out = append(out, c[i])
			i++
		default:
			out = append(out, other[j])
			j++
		}
	}
	out = append(out, c[i:]...)
	return append(out, other[j:]...)
}

// Equal reports set equality.
func (c Combo) Equal(other Combo) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Contains reports whether code is a member.
func (c Combo) Contains(code string) bool {
	i := sort.SearchStrings(c, code)
	return i < len(c) && c[i] == code
}

// SubsetOf reports whether every member is in set.
func (c Combo) SubsetOf(set map[string]bool) bool {
	for _, code := range c {
		if !set[code] {
			return false
		}
	}
	return true
}

// Set returns the members as a lookup map.
func (c Combo) Set() map[string]bool {
	out := make(map[string]bool, len(c))
	for _, code := range c {
		out[code] = true
	}
	return out
}

func (c Combo) String() string {
	return "{" + strings.Join(c, ",") + "}"
}

// Combos lists every combination of courses satisfying the tree. AND nodes
// take pairwise unions, skipping unions already produced; OR nodes concatenate
// both sides and keep duplicates.
func Combos(n *Node) []Combo {
	out, _ := combos(n, 0)
	return out
}

// CombosLimit is Combos with a ceiling on the size of any intermediate list.
func CombosLimit(n *Node, max int) ([]Combo, error) {
	return combos(n, max)
}

func combos(n *Node, max int) ([]Combo, error) {
	switch n.Op {
	case OpAnd:
		left, err := combos(n.Left, max)
		if err != nil {
			return nil, err
		}
		right, err := combos(n.Right, max)
		if err != nil {
			return nil, err
		}
		var out []Combo
		for _, l := range left {
			for _, r := range right {
				u := l.Union(r)
				if containsCombo(out, u) {
					continue
				}
				out = append(out, u)
				if max > 0 && len(out) > max {
					return nil, fmt.Errorf("%w: more than %d", ErrTooManyCombos, max)
				}
			}
		}
		return out, nil
	case OpOr:
		left, err := combos(n.Left, max)
		if err != nil {
			return nil, err
		}
		right, err := combos(n.Right, max)
		if err != nil {
			return nil, err
		}
		if max > 0 && len(left)+len(right) > max {
			return nil, fmt.Errorf("%w: more than %d", ErrTooManyCombos, max)
		}
		out := make([]Combo, 0, len(left)+len(right))
		out = append(out, left...)
		return append(out, right...), nil
	default:
		if n.Text == "" {
			return []Combo{{}}, nil
		}
		return []Combo{{n.Text}}, nil
	}
}

func containsCombo(list []Combo, c Combo) bool {
	for _, existing := range list {
		if existing.Equal(c) {
			return true
		}
	}
	return false
}
