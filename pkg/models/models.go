package models

import (
	"strings"
	"time"
)

// Priority orders shifts for assignment. Higher values are resolved first.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
	PriorityEmergency
)

// ParsePriority maps a stored priority label to its ordinal. "medium" is an
// accepted alias of normal. Unknown labels fall back to normal.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "emergency":
		return PriorityEmergency
	case "critical":
		return PriorityCritical
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityNormal
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityEmergency:
		return "emergency"
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityLow:
		return "low"
	default:
		return "normal"
	}
}

// OptimizationGoal selects the scoring weight profile for a planning run.
type OptimizationGoal string

const (
	GoalBalanced OptimizationGoal = "balanced"
	GoalCost     OptimizationGoal = "cost"
	GoalQuality  OptimizationGoal = "quality"
	GoalCoverage OptimizationGoal = "coverage"
)

// ValidGoal reports whether g names a known weight profile.
func ValidGoal(g OptimizationGoal) bool {
	switch g {
	case GoalBalanced, GoalCost, GoalQuality, GoalCoverage:
		return true
	}
	return false
}

// EmploymentActive is the only employment status eligible for assignment.
const EmploymentActive = "ACTIVE"

// TimeRange is a half-open [Start, End) interval.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps checks if two time ranges overlap
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// Covers reports whether r fully contains o.
func (r TimeRange) Covers(o TimeRange) bool {
	return !r.Start.After(o.Start) && !r.End.Before(o.End)
}

// Hours returns the range duration in hours.
func (r TimeRange) Hours() float64 {
	return r.End.Sub(r.Start).Hours()
}

// Shift represents a time slot at a site that needs an agent
type Shift struct {
	ID             string    `json:"id"`
	SiteID         string    `json:"site_id"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	RequiredSkills []string  `json:"required_skills,omitempty"`
	Priority       Priority  `json:"priority"`
	Status         string    `json:"status"`
	AgentID        string    `json:"agent_id,omitempty"`
	SupervisorID   string    `json:"supervisor_id,omitempty"`
}

// Window returns the shift's time span as a TimeRange.
func (s *Shift) Window() TimeRange {
	return TimeRange{Start: s.Start, End: s.End}
}

// Hours calculates the shift duration in hours
func (s *Shift) Hours() float64 {
	return s.End.Sub(s.Start).Hours()
}

// Booking is a shift window already committed to an agent. The shift id
// identifies the booking so re-planning can release exactly that shift.
type Booking struct {
	ShiftID string    `json:"shift_id"`
	Window  TimeRange `json:"window"`
}

// Agent represents a field agent eligible for shift assignment. Loaded agents
// are immutable snapshots for the duration of one planning run.
type Agent struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Skills           []string    `json:"skills,omitempty"`
	Certifications   []string    `json:"certifications,omitempty"`
	EmploymentStatus string      `json:"employment_status"`
	PerformanceScore float64     `json:"performance_score"`
	WorkloadHours    float64     `json:"workload_hours"`
	Availability     []TimeRange `json:"availability,omitempty"`
	Booked           []Booking   `json:"booked,omitempty"`
	RecentSiteIDs    []string    `json:"recent_site_ids,omitempty"`
	OvertimeAllowed  bool        `json:"overtime_allowed"`
}

// HasSkills reports whether the agent's skill set covers every required skill.
// An empty requirement is always satisfied.
func (a *Agent) HasSkills(required []string) bool {
	if len(required) == 0 {
		return true
	}
	have := make(map[string]bool, len(a.Skills))
	for _, s := range a.Skills {
		have[strings.ToLower(s)] = true
	}
	for _, r := range required {
		if !have[strings.ToLower(r)] {
			return false
		}
	}
	return true
}

// AvailableFor reports whether some availability window covers the whole range.
func (a *Agent) AvailableFor(w TimeRange) bool {
	for _, win := range a.Availability {
		if win.Covers(w) {
			return true
		}
	}
	return false
}

// WorkedAtSite reports recent prior work at the given site.
func (a *Agent) WorkedAtSite(siteID string) bool {
	for _, id := range a.RecentSiteIDs {
		if id == siteID {
			return true
		}
	}
	return false
}

// AssignmentCandidate is one scored (shift, agent) pairing.
type AssignmentCandidate struct {
	ShiftID  string   `json:"shift_id"`
	AgentID  string   `json:"agent_id"`
	Feasible bool     `json:"feasible"`
	Score    float64  `json:"score"`
	Reasons  []string `json:"reasons,omitempty"`

	// Carried for deterministic tie-breaking and diagnostics.
	Performance float64 `json:"performance"`
	Workload    float64 `json:"workload_hours"`
}

// MatrixRow holds a shift's feasible candidates ordered best-first.
type MatrixRow struct {
	ShiftID    string                `json:"shift_id"`
	Candidates []AssignmentCandidate `json:"candidates"`
}

// AssignmentResult represents a committed shift-agent pairing
type AssignmentResult struct {
	ID         string    `json:"id"`
	ShiftID    string    `json:"shift_id"`
	AgentID    string    `json:"agent_id"`
	SiteID     string    `json:"site_id"`
	Score      float64   `json:"score"`
	Method     string    `json:"method"`
	AssignedAt time.Time `json:"assigned_at"`
}

// FailedShift records why a shift could not be filled
type FailedShift struct {
	ShiftID string `json:"shift_id"`
	Reason  string `json:"reason"`
}

// PlanReport summarizes a planning run.
type PlanReport struct {
	TotalShifts       int            `json:"total_shifts"`
	AssignedShifts    int            `json:"assigned_shifts"`
	FailedShifts      int            `json:"failed_shifts"`
	AverageScore      float64        `json:"average_score"`
	MethodCounts      map[string]int `json:"method_counts"`
	ScoreDistribution map[string]int `json:"score_distribution"`
	Notes             string         `json:"notes,omitempty"`
}

// Plan is the engine's output prior to external commit: assignments,
// failures and a summary report. It is never a side effect by itself.
type Plan struct {
	Success     bool               `json:"success"`
	Goal        OptimizationGoal   `json:"goal"`
	Assignments []AssignmentResult `json:"assignments"`
	Failed      []FailedShift      `json:"failed"`
	Report      PlanReport         `json:"report"`
}

// Conflict types reported by the detector.
const (
	ConflictDoubleBooking     = "double_booking"
	ConflictSupervisorOverlap = "supervisor_overlap"
	ConflictSiteCapacity      = "site_capacity"
)

// SchedulingConflict describes one detected scheduling violation
type SchedulingConflict struct {
	Type     string   `json:"type"`
	ShiftIDs []string `json:"shift_ids"`
	AgentID  string   `json:"agent_id,omitempty"`
	SiteID   string   `json:"site_id,omitempty"`
	Severity string   `json:"severity"`
	Detail   string   `json:"detail,omitempty"`
}
