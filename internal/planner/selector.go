package planner

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// DefaultMaxCombinations bounds the cross-target combinations examined by
// SelectBestMultiple.
const DefaultMaxCombinations = 1_000_000

// Credits sums the credit value of every distinct course across plans.
// Courses in completed count as already visited.
func Credits(plans []*Plan, completed map[string]bool) float64 {
	visited := make(map[string]bool, len(completed))
	for code := range completed {
		visited[code] = true
	}
	total := 0.0
	for _, p := range plans {
		for _, s := range p.Slots {
			if !visited[s.Course.Code] {
				visited[s.Course.Code] = true
				total += s.Course.CreditValue
			}
		}
	}
	return total
}

// SelectBestSingle returns the shortest plan, breaking ties by fewest
// distinct credits and then by position.
func SelectBestSingle(plans []*Plan, completed map[string]bool) (*Plan, error) {
	if len(plans) == 0 {
		return nil, ErrNoFeasiblePlan
	}
	shortest := math.MaxInt
	for _, p := range plans {
		if p.Length < shortest {
			shortest = p.Length
		}
	}
	var best *Plan
	bestCredits := math.Inf(1)
	for _, p := range plans {
		if p.Length != shortest {
			continue
		}
		if c := Credits([]*Plan{p}, completed); c < bestCredits {
			best, bestCredits = p, c
		}
	}
	return best, nil
}

// MultiSelector picks one plan per target so that the targets finish
// soonest when taken in parallel.
type MultiSelector struct {
	// MaxCombinations bounds the combinations examined.
	MaxCombinations int
}

// SelectBestMultiple uses default limits.
func SelectBestMultiple(ctx context.Context, plansByTarget map[string][]*Plan, completed map[string]bool) ([]*Plan, error) {
	return MultiSelector{}.Select(ctx, plansByTarget, completed)
}

// Select walks the Cartesian product of every target's plans in sorted
// target order. A combination's length is the longest of its plans; ties
// are broken by distinct credits across the union of its plans. The result
// holds one plan per target in sorted target order.
func (m MultiSelector) Select(ctx context.Context, plansByTarget map[string][]*Plan, completed map[string]bool) ([]*Plan, error) {
	if len(plansByTarget) == 0 {
		return nil, ErrNoFeasiblePlan
	}
	limit := m.MaxCombinations
	if limit <= 0 {
		limit = DefaultMaxCombinations
	}

	targets := make([]string, 0, len(plansByTarget))
	for code := range plansByTarget {
		targets = append(targets, code)
	}
	sort.Strings(targets)

	lists := make([][]*Plan, len(targets))
	for i, code := range targets {
		if len(plansByTarget[code]) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoFeasiblePlan, code)
		}
		lists[i] = plansByTarget[code]
	}
	if n := productSize(lists); n > limit {
		return nil, fmt.Errorf("%w: %d target plan combinations exceed %d", ErrPlanExplosion, n, limit)
	}

	// Only combinations at the minimum length compete on credits, and each
	// list's shortest plans bound that minimum from below.
	shortest := 0
	for _, l := range lists {
		low := math.MaxInt
		for _, p := range l {
			if p.Length < low {
				low = p.Length
			}
		}
		if low > shortest {
			shortest = low
		}
	}

	idx := make([]int, len(lists))
	picked := make([]*Plan, len(lists))
	var best []*Plan
	bestCredits := math.Inf(1)
	for step := 0; ; step++ {
		if step%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		length := 0
		for i, j := range idx {
			picked[i] = lists[i][j]
			if picked[i].Length > length {
				length = picked[i].Length
			}
		}
		if length == shortest {
			if c := Credits(picked, completed); c < bestCredits {
				best = append(best[:0], picked...)
				bestCredits = c
			}
		}

		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(lists[i]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			break
		}
	}
	return best, nil
}
