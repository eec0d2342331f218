package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

// DefaultRecommendationLimit bounds preview responses when no limit is given.
const DefaultRecommendationLimit = 10

// GetRecommendations returns the top-N ranked candidates for a single shift
// without committing anything. With includeUnavailable, infeasible agents are
// appended after the ranked feasible ones, carrying their reason codes for
// human review.
func (e *Engine) GetRecommendations(ctx context.Context, shiftID string, limit int, includeUnavailable bool) ([]models.AssignmentCandidate, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	snap, err := e.loadByID(ctx, []string{shiftID})
	if err != nil {
		return nil, err
	}
	if len(snap.Shifts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrShiftNotFound, shiftID)
	}
	shift := &snap.Shifts[0]

	profile, _ := ProfileFor(models.GoalBalanced)
	sc := NewScorer(e.cfg.MaxWeeklyHours, profile)
	committed := newCommitments(snap.Agents)

	var feasible, infeasible []models.AssignmentCandidate
	for i := range snap.Agents {
		cand := sc.Evaluate(shift, &snap.Agents[i], committed)
		if cand.Feasible {
			feasible = append(feasible, cand)
		} else {
			infeasible = append(infeasible, cand)
		}
	}
	rankCandidates(feasible)

	out := feasible
	if includeUnavailable {
		sort.SliceStable(infeasible, func(i, j int) bool {
			return infeasible[i].AgentID < infeasible[j].AgentID
		})
		out = append(out, infeasible...)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
