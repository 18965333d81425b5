package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"course-planner/internal/catalog"
	"course-planner/internal/planner"
	"course-planner/internal/requirements"
	"course-planner/internal/shared/cache"
	"course-planner/internal/shared/metrics"
	"course-planner/internal/shared/telemetry"
	"course-planner/internal/shared/util"
)

const maxTargets = 10

// CatalogSource provides the current catalog.
type CatalogSource interface {
	Catalog(ctx context.Context) (*catalog.Catalog, error)
}

// Limits bounds one planning request.
type Limits struct {
	Timeout         time.Duration
	MaxDepth        int
	MaxPlans        int
	MaxCombinations int
}

// Service plans course sequences and records the history.
type Service struct {
	Source   CatalogSource
	Repo     Repo
	Cache    cache.Cache
	CacheTTL time.Duration
	Limits   Limits

	Now   func() time.Time
	NewID func() string
}

// Request asks for a plan reaching every target.
type Request struct {
	Targets   []string
	Completed []string
	RequestID string
}

// CourseSummary describes a target course.
type CourseSummary struct {
	Code        string
	Name        string
	Description string
}

// Result is the outcome of a planning request.
type Result struct {
	Record  PlanRecord
	Courses []CourseSummary
	// Issues lists malformed prerequisite requirements met on the way to
	// the targets. Branches through those courses were not planned.
	Issues []catalog.Issue
	Cached bool
}

type cachedOutcome struct {
	Length         int                `json:"length"`
	Credits        float64            `json:"credits"`
	CandidateCount int                `json:"candidateCount"`
	Plans          []planner.PlanView `json:"plans"`
	Issues         []catalog.Issue    `json:"issues,omitempty"`
}

// Plan validates req, finds the best plan for its targets and stores a
// history record.
func (s *Service) Plan(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	res, err := s.plan(ctx, req)
	outcome := outcomeOf(err)
	metrics.IncPlanRequest(outcome)
	if outcome != metrics.OutcomeInvalid {
		metrics.ObserveBuildDuration(time.Since(start))
	}
	if err != nil {
		return Result{}, err
	}
	telemetry.Info("plan.complete", map[string]any{
		"request_id": req.RequestID,
		"plan_id":    res.Record.ID,
		"targets":    res.Record.Targets,
		"length":     res.Record.Length,
		"candidates": res.Record.CandidateCount,
		"cached":     res.Cached,
	})
	return res, nil
}

func (s *Service) plan(ctx context.Context, req Request) (Result, error) {
	targets, err := normalizeCodes(req.Targets)
	if err != nil {
		return Result{}, err
	}
	if len(targets) == 0 {
		return Result{}, fmt.Errorf("%w: at least one target is required", ErrInvalidInput)
	}
	if len(targets) > maxTargets {
		return Result{}, fmt.Errorf("%w: at most %d targets", ErrInvalidInput, maxTargets)
	}
	completed, err := normalizeCodes(req.Completed)
	if err != nil {
		return Result{}, err
	}

	cat, err := s.Source.Catalog(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load catalog: %w", err)
	}
	if missing := cat.Missing(append(append([]string(nil), completed...), targets...)); len(missing) > 0 {
		return Result{}, &UnknownCoursesError{Codes: missing}
	}

	rec := PlanRecord{
		ID:             s.newID(),
		RequestID:      req.RequestID,
		Targets:        targets,
		Completed:      completed,
		CatalogVersion: cat.Version,
		CreatedAt:      s.now(),
	}
	res := Result{Courses: summaries(cat, targets)}

	key := util.CacheKey(cat.Version, strings.Join(targets, ","), strings.Join(completed, ","))
	outcome, hit := s.cached(ctx, key)
	if hit {
		metrics.IncCacheHit()
		res.Cached = true
	} else {
		outcome, err = s.compute(ctx, cat, targets, completed)
		if err != nil {
			return Result{}, err
		}
		metrics.ObserveCandidatePlans(outcome.CandidateCount)
		s.store(ctx, key, outcome)
	}

	rec.Length = outcome.Length
	rec.Credits = outcome.Credits
	rec.CandidateCount = outcome.CandidateCount
	rec.Plans = outcome.Plans
	res.Issues = outcome.Issues
	if err := s.Repo.Create(ctx, rec); err != nil {
		return Result{}, fmt.Errorf("save plan: %w", err)
	}
	res.Record = rec
	return res, nil
}

func (s *Service) compute(ctx context.Context, cat *catalog.Catalog, targets, completed []string) (cachedOutcome, error) {
	if s.Limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Limits.Timeout)
		defer cancel()
	}

	reg, err := cat.Registry(completed)
	if err != nil {
		return cachedOutcome{}, err
	}
	issues := cat.PrerequisiteIssues(targets, reg.Completed())
	if len(issues) > 0 {
		telemetry.Warn("plan.requirement_issues", map[string]any{
			"targets": targets,
			"courses": issueCodes(issues),
		})
	}
	b := &planner.Builder{Registry: reg, MaxDepth: s.Limits.MaxDepth, MaxPlans: s.Limits.MaxPlans}

	byTarget := make(map[string][]*planner.Plan, len(targets))
	candidates := 0
	for _, code := range targets {
		plans, err := b.BuildPlans(ctx, code)
		if err != nil {
			return cachedOutcome{}, wrapContext(err)
		}
		if len(plans) == 0 {
			if len(issues) > 0 {
				return cachedOutcome{}, fmt.Errorf("%w: %s (malformed requirements: %s)",
					planner.ErrNoFeasiblePlan, code, strings.Join(issueCodes(issues), ", "))
			}
			return cachedOutcome{}, fmt.Errorf("%w: %s", planner.ErrNoFeasiblePlan, code)
		}
		byTarget[code] = plans
		candidates += len(plans)
	}

	var chosen []*planner.Plan
	if len(targets) == 1 {
		best, err := planner.SelectBestSingle(byTarget[targets[0]], reg.Completed())
		if err != nil {
			return cachedOutcome{}, err
		}
		chosen = []*planner.Plan{best}
	} else {
		chosen, err = planner.MultiSelector{MaxCombinations: s.Limits.MaxCombinations}.Select(ctx, byTarget, reg.Completed())
		if err != nil {
			return cachedOutcome{}, wrapContext(err)
		}
	}

	out := cachedOutcome{
		Credits:        planner.Credits(chosen, reg.Completed()),
		CandidateCount: candidates,
		Plans:          make([]planner.PlanView, len(chosen)),
		Issues:         issues,
	}
	for i, p := range chosen {
		out.Plans[i] = p.View(reg.Completed())
		if p.Length > out.Length {
			out.Length = p.Length
		}
	}
	return out, nil
}

func (s *Service) cached(ctx context.Context, key string) (cachedOutcome, bool) {
	if s.Cache == nil {
		return cachedOutcome{}, false
	}
	data, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		telemetry.Warn("plan.cache_get_failed", map[string]any{"error": err.Error()})
		return cachedOutcome{}, false
	}
	if !ok {
		return cachedOutcome{}, false
	}
	var out cachedOutcome
	if err := json.Unmarshal(data, &out); err != nil {
		telemetry.Warn("plan.cache_decode_failed", map[string]any{"error": err.Error()})
		return cachedOutcome{}, false
	}
	return out, true
}

func (s *Service) store(ctx context.Context, key string, out cachedOutcome) {
	if s.Cache == nil {
		return
	}
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, data, s.CacheTTL); err != nil {
		telemetry.Warn("plan.cache_set_failed", map[string]any{"error": err.Error()})
	}
}

// Get returns a stored plan record.
func (s *Service) Get(ctx context.Context, id string) (PlanRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PlanRecord{}, ErrNotFound
	}
	return s.Repo.Get(ctx, id)
}

// List returns stored plan records, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]PlanRecord, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	return s.Repo.List(ctx, limit, offset)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// normalizeCodes trims, upper-cases, de-duplicates and sorts codes.
func normalizeCodes(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		code := strings.ToUpper(strings.TrimSpace(r))
		if code == "" || seen[code] {
			continue
		}
		if !requirements.IsCourseCode(code) {
			return nil, fmt.Errorf("%w: %q is not a course code", ErrInvalidInput, r)
		}
		seen[code] = true
		out = append(out, code)
	}
	sort.Strings(out)
	return out, nil
}

func summaries(cat *catalog.Catalog, codes []string) []CourseSummary {
	out := make([]CourseSummary, 0, len(codes))
	for _, code := range codes {
		e, ok := cat.Entry(code)
		if !ok {
			continue
		}
		out = append(out, CourseSummary{
			Code:        code,
			Name:        e.Record.Name.String(),
			Description: e.Record.Description.String(),
		})
	}
	return out
}

func issueCodes(issues []catalog.Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Code
	}
	return out
}

func wrapContext(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrInvalidInput), errors.Is(err, catalog.ErrUnknownCourse):
		return metrics.OutcomeInvalid
	case errors.Is(err, planner.ErrNoFeasiblePlan):
		return metrics.OutcomeInfeasible
	case errors.Is(err, planner.ErrPlanExplosion), errors.Is(err, planner.ErrCyclicPrerequisite):
		return metrics.OutcomeExplosion
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeError
	}
}
