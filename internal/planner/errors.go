package planner

import "errors"

var (
	ErrNoFeasiblePlan     = errors.New("no feasible plan")
	ErrCyclicPrerequisite = errors.New("cyclic prerequisite")
	ErrPlanExplosion      = errors.New("plan explosion")
)
