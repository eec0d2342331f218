package engine

import (
	"strings"

	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

// normalizeSkill folds case and surrounding whitespace so skill comparisons
// survive the store's semi-structured encoding.
func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Scorer evaluates (shift, agent) pairs: five hard constraints decide
// feasibility, a weighted soft score ranks the survivors.
type Scorer struct {
	MaxWeeklyHours float64
	Profile        WeightProfile

	// workloadDelta tracks hours committed during this run per agent, on top
	// of the loaded snapshot value, so constraint 5 sees in-run picks too.
	workloadDelta map[string]float64
}

// NewScorer creates a scorer for one planning run.
func NewScorer(maxWeeklyHours float64, profile WeightProfile) *Scorer {
	return &Scorer{
		MaxWeeklyHours: maxWeeklyHours,
		Profile:        profile,
		workloadDelta:  make(map[string]float64),
	}
}

// AddHours records hours committed to an agent during this run.
func (sc *Scorer) AddHours(agentID string, hours float64) {
	sc.workloadDelta[agentID] += hours
}

// hoursFor returns the agent's effective workload including in-run picks.
func (sc *Scorer) hoursFor(a *models.Agent) float64 {
	return a.WorkloadHours + sc.workloadDelta[a.ID]
}

// Evaluate checks all hard constraints and computes the soft score. Pairs
// failing any hard constraint come back with Feasible=false, a zero score and
// one reason code per violated constraint; they must never be selected.
func (sc *Scorer) Evaluate(shift *models.Shift, agent *models.Agent, committed *commitments) models.AssignmentCandidate {
	cand := models.AssignmentCandidate{
		ShiftID:     shift.ID,
		AgentID:     agent.ID,
		Performance: agent.PerformanceScore,
		Workload:    sc.hoursFor(agent),
	}
	window := shift.Window()

	if committed.conflicts(agent.ID, window) {
		cand.Reasons = append(cand.Reasons, ReasonOverlap)
	}
	if !agent.AvailableFor(window) {
		cand.Reasons = append(cand.Reasons, ReasonUnavailable)
	}
	if !agent.HasSkills(shift.RequiredSkills) {
		cand.Reasons = append(cand.Reasons, ReasonMissingSkills)
	}
	if agent.EmploymentStatus != models.EmploymentActive {
		cand.Reasons = append(cand.Reasons, ReasonInactive)
	}
	if !agent.OvertimeAllowed && sc.hoursFor(agent)+shift.Hours() > sc.MaxWeeklyHours {
		cand.Reasons = append(cand.Reasons, ReasonOverMaxHours)
	}

	if len(cand.Reasons) > 0 {
		return cand
	}

	cand.Feasible = true
	cand.Score = sc.score(shift, agent)
	return cand
}

// score blends the normalized soft factors under the run's weight profile.
func (sc *Scorer) score(shift *models.Shift, agent *models.Agent) float64 {
	p := sc.Profile

	s := p.FeasibleBase
	s += p.SkillMatch * skillMatch(shift, agent)
	s += p.WorkloadBalance * sc.workloadBalance(agent)
	s += p.Performance * clip01(agent.PerformanceScore)
	if agent.WorkedAtSite(shift.SiteID) {
		s += p.SiteContinuity
	}
	return clip01(s)
}

// skillMatch returns the fraction of required skills the agent holds.
// Empty requirement counts as a full match.
func skillMatch(shift *models.Shift, agent *models.Agent) float64 {
	if len(shift.RequiredSkills) == 0 {
		return 1.0
	}
	have := make(map[string]bool, len(agent.Skills))
	for _, s := range agent.Skills {
		have[normalizeSkill(s)] = true
	}
	matched := 0
	for _, r := range shift.RequiredSkills {
		if have[normalizeSkill(r)] {
			matched++
		}
	}
	return float64(matched) / float64(len(shift.RequiredSkills))
}

// workloadBalance rewards lightly loaded agents: 1.0 at zero hours, falling
// linearly to 0.0 at the weekly maximum.
func (sc *Scorer) workloadBalance(agent *models.Agent) float64 {
	if sc.MaxWeeklyHours <= 0 {
		return 0
	}
	return clip01(1.0 - sc.hoursFor(agent)/sc.MaxWeeklyHours)
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
