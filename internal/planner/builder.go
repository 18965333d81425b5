package planner

import (
	"context"
	"fmt"
	"math"

	"course-planner/internal/catalog"
)

const (
	DefaultMaxDepth = 64
	DefaultMaxPlans = 50000
)

// Builder enumerates every feasible plan for a target course. A Builder
// memoizes results and is meant for one request.
type Builder struct {
	Registry *catalog.Registry
	// MaxDepth bounds prerequisite chain depth.
	MaxDepth int
	// MaxPlans bounds the plans enumerated for any single course.
	MaxPlans int

	memo    map[string][]*Plan
	onStack map[string]bool
}

// NewBuilder returns a builder with default limits.
func NewBuilder(reg *catalog.Registry) *Builder {
	return &Builder{Registry: reg, MaxDepth: DefaultMaxDepth, MaxPlans: DefaultMaxPlans}
}

// BuildPlans returns every feasible plan ending at code. A course that is not
// in the registry, or whose combos all reference unknown courses, yields an
// empty list and no error.
func (b *Builder) BuildPlans(ctx context.Context, code string) ([]*Plan, error) {
	if b.memo == nil {
		b.memo = make(map[string][]*Plan)
		b.onStack = make(map[string]bool)
	}
	if b.MaxDepth <= 0 {
		b.MaxDepth = DefaultMaxDepth
	}
	if b.MaxPlans <= 0 {
		b.MaxPlans = DefaultMaxPlans
	}
	course, ok := b.Registry.Lookup(code)
	if !ok {
		return nil, nil
	}
	return b.build(ctx, course, 0)
}

func (b *Builder) build(ctx context.Context, course *catalog.Course, depth int) ([]*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if plans, ok := b.memo[course.Code]; ok {
		return plans, nil
	}
	if b.onStack[course.Code] {
		return nil, fmt.Errorf("%w: %s", ErrCyclicPrerequisite, course.Code)
	}
	if depth > b.MaxDepth {
		return nil, fmt.Errorf("%w: prerequisite depth exceeds %d at %s", ErrPlanExplosion, b.MaxDepth, course.Code)
	}
	b.onStack[course.Code] = true
	defer delete(b.onStack, course.Code)

	var plans []*Plan
combos:
	for _, combo := range course.Prerequisites {
		if combo.SubsetOf(b.Registry.Completed()) {
			plans = append(plans, single(course))
			continue
		}

		var choices [][]*Plan
		for _, member := range combo {
			if b.Registry.IsCompleted(member) {
				continue
			}
			sub, ok := b.Registry.Lookup(member)
			if !ok {
				continue combos
			}
			subPlans, err := b.build(ctx, sub, depth+1)
			if err != nil {
				return nil, err
			}
			if len(subPlans) == 0 {
				continue combos
			}
			choices = append(choices, subPlans)
		}

		if productSize(choices) > b.MaxPlans-len(plans) {
			return nil, fmt.Errorf("%w: more than %d plans for %s", ErrPlanExplosion, b.MaxPlans, course.Code)
		}
		var err error
		plans, err = appendProduct(ctx, plans, course, choices)
		if err != nil {
			return nil, err
		}
	}

	b.memo[course.Code] = plans
	return plans, nil
}

// appendProduct merges every element of the Cartesian product of choices. The
// first list varies slowest.
func appendProduct(ctx context.Context, plans []*Plan, target *catalog.Course, choices [][]*Plan) ([]*Plan, error) {
	idx := make([]int, len(choices))
	picked := make([]*Plan, len(choices))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i, j := range idx {
			picked[i] = choices[i][j]
		}
		plans = append(plans, merge(target, picked))

		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(choices[i]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return plans, nil
		}
	}
}

func productSize(lists [][]*Plan) int {
	n := 1
	for _, l := range lists {
		if len(l) > 0 && n > math.MaxInt/len(l) {
			return math.MaxInt
		}
		n *= len(l)
	}
	return n
}
