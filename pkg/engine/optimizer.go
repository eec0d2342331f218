package engine

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

// optimize runs the greedy assignment pass over a loaded snapshot. It is a
// priority- and scarcity-aware approximation of optimal bipartite matching:
// deterministic and explainable rather than globally optimal. The snapshot is
// never mutated; committed time accumulates in the run's exclusion set.
func (e *Engine) optimize(snap *Snapshot, targets []models.Shift, opts PlanOptions) *models.Plan {
	// Both entry points reject unknown goals with ErrUnknownGoal before
	// loading anything, so ProfileFor cannot fail here.
	profile, _ := ProfileFor(opts.Goal)
	sc := NewScorer(e.cfg.MaxWeeklyHours, profile)
	committed := newCommitments(snap.Agents)
	releaseTargets(committed, sc, targets)

	plan := &models.Plan{Success: true, Goal: opts.Goal}
	for _, id := range snap.Missing {
		plan.Failed = append(plan.Failed, models.FailedShift{ShiftID: id, Reason: ReasonShiftNotFound})
	}

	if opts.ValidateConstraints {
		if pre := DetectConflicts(snap.Shifts, snap.Capacities); len(pre) > 0 {
			plan.Report.Notes = fmt.Sprintf("pre-check found %d existing conflicts", len(pre))
		}
	}

	// Scarcity counts come from the initial matrix so scarce shifts are
	// resolved before their sole candidates are consumed by less urgent ones.
	// The initial rows also decide failure reasons later on.
	rows := BuildMatrix(targets, snap.Agents, committed, sc)
	candidateCount := make(map[string]int, len(rows))
	initialAgents := make(map[string][]string, len(rows))
	for _, row := range rows {
		candidateCount[row.ShiftID] = len(row.Candidates)
		for _, cand := range row.Candidates {
			initialAgents[row.ShiftID] = append(initialAgents[row.ShiftID], cand.AgentID)
		}
	}

	ordered := make([]models.Shift, len(targets))
	copy(ordered, targets)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if candidateCount[a.ID] != candidateCount[b.ID] {
			return candidateCount[a.ID] < candidateCount[b.ID]
		}
		return a.ID < b.ID
	})

	method := "greedy_" + string(opts.Goal)

	// Highest-priority shift committed to each agent during this run, used
	// to tell agent_conflict failures apart from plain no_candidates.
	pickedPriority := make(map[string]models.Priority)

	for i := range ordered {
		shift := &ordered[i]

		// Re-rank against the current exclusion set: an agent picked for an
		// earlier shift may now conflict, and workload shifts the scores.
		var best *models.AssignmentCandidate
		for j := range snap.Agents {
			cand := sc.Evaluate(shift, &snap.Agents[j], committed)
			if !cand.Feasible {
				continue
			}
			if best == nil || candidateLess(cand, *best) {
				c := cand
				best = &c
			}
		}

		if best == nil {
			// agent_conflict only when a strictly higher-priority shift
			// consumed an agent that was feasible at the start of the run;
			// equal-priority consumption still reads as no candidates left.
			reason := ReasonNoCandidates
			for _, agentID := range initialAgents[shift.ID] {
				if p, picked := pickedPriority[agentID]; picked && p > shift.Priority {
					reason = ReasonAgentConflict
					break
				}
			}
			plan.Failed = append(plan.Failed, models.FailedShift{ShiftID: shift.ID, Reason: reason})
			continue
		}

		committed.add(best.AgentID, shift.ID, shift.Window())
		sc.AddHours(best.AgentID, shift.Hours())
		if p, ok := pickedPriority[best.AgentID]; !ok || shift.Priority > p {
			pickedPriority[best.AgentID] = shift.Priority
		}
		plan.Assignments = append(plan.Assignments, models.AssignmentResult{
			ID:         uuid.NewString(),
			ShiftID:    shift.ID,
			AgentID:    best.AgentID,
			SiteID:     shift.SiteID,
			Score:      best.Score,
			Method:     method,
			AssignedAt: e.cfg.Now(),
		})
	}

	// All-or-nothing: a single failure discards every assignment, but the
	// full list of reasons is still returned.
	if !opts.AllowPartialAssignment && len(plan.Failed) > 0 {
		plan.Success = false
		plan.Assignments = nil
	}

	plan.Report = buildReport(plan, len(targets)+len(snap.Missing), plan.Report.Notes)
	return plan
}

// releaseTargets drops bookings for shifts being re-planned, so an
// already-assigned shift in the batch does not block its own agent. The
// released hours leave the agent's effective workload too: the loaded
// WorkloadHours still counts them, and a re-pick adds them back.
func releaseTargets(committed *commitments, sc *Scorer, targets []models.Shift) {
	for _, s := range targets {
		if s.AgentID == "" {
			continue
		}
		if hours, ok := committed.release(s.AgentID, s.ID); ok {
			sc.AddHours(s.AgentID, -hours)
		}
	}
}

// Score distribution bucket boundaries.
const (
	bucketExcellent = 0.9
	bucketGood      = 0.7
	bucketFair      = 0.5
)

// ScoreBucket maps a score to its distribution bucket.
func ScoreBucket(s float64) string {
	switch {
	case s >= bucketExcellent:
		return "excellent"
	case s >= bucketGood:
		return "good"
	case s >= bucketFair:
		return "fair"
	default:
		return "poor"
	}
}

// buildReport summarizes the run: counts by method, average score and the
// score-distribution buckets.
func buildReport(plan *models.Plan, total int, notes string) models.PlanReport {
	report := models.PlanReport{
		TotalShifts:       total,
		AssignedShifts:    len(plan.Assignments),
		FailedShifts:      len(plan.Failed),
		MethodCounts:      make(map[string]int),
		ScoreDistribution: make(map[string]int),
		Notes:             notes,
	}
	var sum float64
	for _, a := range plan.Assignments {
		report.MethodCounts[a.Method]++
		report.ScoreDistribution[ScoreBucket(a.Score)]++
		sum += a.Score
	}
	if len(plan.Assignments) > 0 {
		report.AverageScore = sum / float64(len(plan.Assignments))
	}
	return report
}
