package engine

import (
	"context"
	"time"

	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

// Config carries the tunables for a planning engine. Zero values pick the
// defaults below.
type Config struct {
	// MaxWeeklyHours caps an agent's workload unless overtime is permitted.
	MaxWeeklyHours float64
	// MaxBatchSize bounds how many shift ids one call may plan.
	MaxBatchSize int
	// Now is the clock used for timestamps; injectable for reproducible runs.
	Now func() time.Time
}

const (
	DefaultMaxWeeklyHours = 60.0
	DefaultMaxBatchSize   = 500
)

// Engine plans shift assignments over immutable snapshots loaded from its
// sources. It returns plans, never side effects: persisting and notifying are
// the caller's concern.
type Engine struct {
	shifts ShiftSource
	agents AgentSource
	sites  SiteSource
	cfg    Config
}

// New creates an engine over the given sources.
func New(shifts ShiftSource, agents AgentSource, sites SiteSource, cfg Config) *Engine {
	if cfg.MaxWeeklyHours <= 0 {
		cfg.MaxWeeklyHours = DefaultMaxWeeklyHours
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = DefaultMaxBatchSize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{shifts: shifts, agents: agents, sites: sites, cfg: cfg}
}

// PlanOptions parameterize one AssignShifts run.
type PlanOptions struct {
	Goal                   models.OptimizationGoal
	AllowPartialAssignment bool
	ValidateConstraints    bool
}

// ScheduleOptions parameterize one OptimizeSchedule run.
type ScheduleOptions struct {
	Goal                        models.OptimizationGoal
	PreserveExistingAssignments bool
}

// AssignShifts plans a batch of shift ids. Unknown ids are reported in the
// plan's failed list, not returned as errors; only malformed input or a
// loader failure aborts the call.
func (e *Engine) AssignShifts(ctx context.Context, shiftIDs []string, opts PlanOptions) (*models.Plan, error) {
	if len(shiftIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(shiftIDs) > e.cfg.MaxBatchSize {
		return nil, ErrBatchTooLarge
	}
	if opts.Goal == "" {
		opts.Goal = models.GoalBalanced
	}
	if !models.ValidGoal(opts.Goal) {
		return nil, ErrUnknownGoal
	}

	snap, err := e.loadByID(ctx, shiftIDs)
	if err != nil {
		return nil, err
	}
	return e.optimize(snap, snap.Shifts, opts), nil
}

// OptimizeSchedule plans every shift inside a date range, optionally scoped
// to one site. With PreserveExistingAssignments only currently-unassigned
// shifts are touched.
func (e *Engine) OptimizeSchedule(ctx context.Context, siteID string, window models.TimeRange, opts ScheduleOptions) (*models.Plan, error) {
	if opts.Goal == "" {
		opts.Goal = models.GoalBalanced
	}
	if !models.ValidGoal(opts.Goal) {
		return nil, ErrUnknownGoal
	}

	snap, err := e.loadRange(ctx, window, siteID)
	if err != nil {
		return nil, err
	}

	targets := snap.Shifts
	if opts.PreserveExistingAssignments {
		targets = nil
		for _, s := range snap.Shifts {
			if s.AgentID == "" {
				targets = append(targets, s)
			}
		}
	}

	if len(targets) == 0 {
		return &models.Plan{
			Success: true,
			Goal:    opts.Goal,
			Report: models.PlanReport{
				MethodCounts:      map[string]int{},
				ScoreDistribution: map[string]int{},
				Notes:             "no action taken: no shifts to optimize in range",
			},
		}, nil
	}

	plan := e.optimize(snap, targets, PlanOptions{
		Goal:                   opts.Goal,
		AllowPartialAssignment: true,
	})
	return plan, nil
}

// DetectConflicts runs the standalone conflict scan over a date range.
func (e *Engine) DetectConflicts(ctx context.Context, window models.TimeRange, siteID string) ([]models.SchedulingConflict, error) {
	snap, err := e.loadRange(ctx, window, siteID)
	if err != nil {
		return nil, err
	}
	return DetectConflicts(snap.Shifts, snap.Capacities), nil
}
