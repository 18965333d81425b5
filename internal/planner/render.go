package planner

import (
	"sort"
	"strings"
)

// Tree renders the plan rooted at its end slot, one line per slot, with
// prerequisites listed under the course they lead into in code order:
//
//	CSC263H1
//	├── CSC207H1
//	│   └── CSC148H1
//	└── CSC236H1
func (p *Plan) Tree() string {
	edges := p.Edges()
	for _, children := range edges {
		sort.SliceStable(children, func(i, j int) bool {
			return p.Slots[children[i]].Course.Code < p.Slots[children[j]].Course.Code
		})
	}

	var b strings.Builder
	b.WriteString(p.Slots[p.End].Course.Code)
	b.WriteByte('\n')
	var walk func(slot int, prefix string)
	walk = func(slot int, prefix string) {
		children := edges[slot]
		for i, child := range children {
			branch, indent := "├── ", "│   "
			if i == len(children)-1 {
				branch, indent = "└── ", "    "
			}
			b.WriteString(prefix)
			b.WriteString(branch)
			b.WriteString(p.Slots[child].Course.Code)
			b.WriteByte('\n')
			walk(child, prefix+indent)
		}
	}
	walk(p.End, "")
	return b.String()
}

// SlotView is the JSON form of a Slot.
type SlotView struct {
	Code     string  `json:"code"`
	Credit   float64 `json:"credit"`
	Duration int     `json:"duration"`
	Next     int     `json:"next"`
}

// PlanView is the JSON form of a Plan.
type PlanView struct {
	Target  string     `json:"target"`
	Length  int        `json:"length"`
	Credits float64    `json:"credits"`
	Starts  []int      `json:"starts"`
	End     int        `json:"end"`
	Slots   []SlotView `json:"slots"`
	Tree    string     `json:"tree"`
}

// View converts p for display. Credits exclude completed courses.
func (p *Plan) View(completed map[string]bool) PlanView {
	slots := make([]SlotView, len(p.Slots))
	for i, s := range p.Slots {
		slots[i] = SlotView{
			Code:     s.Course.Code,
			Credit:   s.Course.CreditValue,
			Duration: s.Course.Duration,
			Next:     s.Next,
		}
	}
	return PlanView{
		Target:  p.Target().Code,
		Length:  p.Length,
		Credits: Credits([]*Plan{p}, completed),
		Starts:  append([]int(nil), p.Starts...),
		End:     p.End,
		Slots:   slots,
		Tree:    p.Tree(),
	}
}
