package engine

import (
	"sort"

	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

// BuildMatrix produces, for each shift, its feasible candidates ordered
// descending by score. Ties break by higher performance, then lower current
// workload, then lexicographically smaller agent id, so identical inputs
// always produce identical rankings.
func BuildMatrix(shifts []models.Shift, agents []models.Agent, committed *commitments, sc *Scorer) []models.MatrixRow {
	rows := make([]models.MatrixRow, 0, len(shifts))
	for i := range shifts {
		shift := &shifts[i]
		row := models.MatrixRow{ShiftID: shift.ID}
		for j := range agents {
			cand := sc.Evaluate(shift, &agents[j], committed)
			if cand.Feasible {
				row.Candidates = append(row.Candidates, cand)
			}
		}
		rankCandidates(row.Candidates)
		rows = append(rows, row)
	}
	return rows
}

// rankCandidates sorts in place using the deterministic comparator.
func rankCandidates(cands []models.AssignmentCandidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return candidateLess(cands[i], cands[j])
	})
}

// candidateLess reports whether a ranks strictly ahead of b.
func candidateLess(a, b models.AssignmentCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Performance != b.Performance {
		return a.Performance > b.Performance
	}
	if a.Workload != b.Workload {
		return a.Workload < b.Workload
	}
	return a.AgentID < b.AgentID
}
