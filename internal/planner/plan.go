package planner

import "course-planner/internal/catalog"

// Slot is one occurrence of a course in a Plan. Next is the index of the slot
// it leads into, or -1 for the end slot.
type Slot struct {
	Course *catalog.Course
	Next   int
}

// Plan is a tree of slots converging on End. Slots are owned by the Plan;
// merging copies them, so no slot is shared between plans.
type Plan struct {
	Slots  []Slot
	Starts []int
	End    int
	// Length is the longest start to end path in terms.
	Length int
}

func single(c *catalog.Course) *Plan {
	return &Plan{
		Slots:  []Slot{{Course: c, Next: -1}},
		Starts: []int{0},
		End:    0,
		Length: c.Duration,
	}
}

// merge copies every sub-plan into a new arena and points each sub-plan's
// end slot at a new slot holding target.
func merge(target *catalog.Course, subs []*Plan) *Plan {
	if len(subs) == 0 {
		return single(target)
	}
	size := 1
	starts := 0
	for _, sub := range subs {
		size += len(sub.Slots)
		starts += len(sub.Starts)
	}

	p := &Plan{
		Slots:  make([]Slot, 0, size),
		Starts: make([]int, 0, starts),
	}
	ends := make([]int, 0, len(subs))
	longest := 0
	for _, sub := range subs {
		offset := len(p.Slots)
		for _, s := range sub.Slots {
			if s.Next >= 0 {
				s.Next += offset
			}
			p.Slots = append(p.Slots, s)
		}
		for _, st := range sub.Starts {
			p.Starts = append(p.Starts, st+offset)
		}
		ends = append(ends, sub.End+offset)
		if sub.Length > longest {
			longest = sub.Length
		}
	}

	p.End = len(p.Slots)
	p.Slots = append(p.Slots, Slot{Course: target, Next: -1})
	for _, e := range ends {
		p.Slots[e].Next = p.End
	}
	p.Length = target.Duration + longest
	return p
}

// Target returns the course the plan ends with.
func (p *Plan) Target() *catalog.Course {
	return p.Slots[p.End].Course
}

// Courses returns the distinct courses of the plan in slot order.
func (p *Plan) Courses() []*catalog.Course {
	seen := make(map[string]bool, len(p.Slots))
	out := make([]*catalog.Course, 0, len(p.Slots))
	for _, s := range p.Slots {
		if !seen[s.Course.Code] {
			seen[s.Course.Code] = true
			out = append(out, s.Course)
		}
	}
	return out
}

// Edges returns, for every slot, the slots whose Next points at it.
func (p *Plan) Edges() [][]int {
	out := make([][]int, len(p.Slots))
	for i, s := range p.Slots {
		if s.Next >= 0 {
			out[s.Next] = append(out[s.Next], i)
		}
	}
	return out
}
