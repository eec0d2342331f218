package engine

import "errors"

// Boundary errors returned before any planning work starts.
var (
	ErrEmptyBatch    = errors.New("empty shift id list")
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
	ErrUnknownGoal   = errors.New("unknown optimization goal")
	ErrShiftNotFound = errors.New("shift not found")
)

// Failure reasons recorded on a plan's failed list.
const (
	ReasonShiftNotFound = "shift_not_found"
	ReasonNoCandidates  = "no_candidates"
	ReasonAgentConflict = "agent_conflict"
)

// Diagnostic reason codes attached to infeasible candidates.
const (
	ReasonOverlap       = "overlapping_commitment"
	ReasonUnavailable   = "outside_availability"
	ReasonMissingSkills = "missing_skills"
	ReasonInactive      = "inactive_agent"
	ReasonOverMaxHours  = "over_max_hours"
)
