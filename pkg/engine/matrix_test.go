package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

func TestBuildMatrixExcludesInfeasible(t *testing.T) {
	shifts := []models.Shift{testShift("s1", "site-1", 9, 17, models.PriorityNormal, "armed")}
	agents := []models.Agent{
		testAgent("a1", 0.9, 5, "armed"),
		testAgent("a2", 0.9, 5, "cctv"), // wrong skill
	}

	sc := NewScorer(DefaultMaxWeeklyHours, weightProfiles[models.GoalBalanced])
	rows := BuildMatrix(shifts, agents, newCommitments(agents), sc)

	require.Len(t, rows, 1)
	require.Len(t, rows[0].Candidates, 1)
	assert.Equal(t, "a1", rows[0].Candidates[0].AgentID)
}

func TestRankCandidatesTieBreakChain(t *testing.T) {
	// All scores equal: performance decides, then workload, then agent id.
	cands := []models.AssignmentCandidate{
		{AgentID: "d", Score: 0.8, Performance: 0.5, Workload: 10},
		{AgentID: "c", Score: 0.8, Performance: 0.5, Workload: 10},
		{AgentID: "b", Score: 0.8, Performance: 0.5, Workload: 5},
		{AgentID: "a", Score: 0.8, Performance: 0.9, Workload: 30},
	}
	rankCandidates(cands)

	got := make([]string, 0, len(cands))
	for _, c := range cands {
		got = append(got, c.AgentID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
}

func TestRankCandidatesScoreDominates(t *testing.T) {
	cands := []models.AssignmentCandidate{
		{AgentID: "low", Score: 0.4, Performance: 1.0},
		{AgentID: "high", Score: 0.9, Performance: 0.1},
	}
	rankCandidates(cands)
	assert.Equal(t, "high", cands[0].AgentID)
}

func TestBuildMatrixDeterministic(t *testing.T) {
	shifts := []models.Shift{testShift("s1", "site-1", 9, 17, models.PriorityNormal)}
	agents := []models.Agent{
		testAgent("a3", 0.7, 12),
		testAgent("a1", 0.7, 12),
		testAgent("a2", 0.7, 12),
	}

	sc := NewScorer(DefaultMaxWeeklyHours, weightProfiles[models.GoalBalanced])
	first := BuildMatrix(shifts, agents, newCommitments(agents), sc)
	second := BuildMatrix(shifts, agents, newCommitments(agents), sc)
	assert.Equal(t, first, second)

	// Identical factors: ordering falls through to agent id.
	ids := make([]string, 0, 3)
	for _, c := range first[0].Candidates {
		ids = append(ids, c.AgentID)
	}
	assert.Equal(t, []string{"a1", "a2", "a3"}, ids)
}
