package store

import (
	"context"
	"sort"

	"github.com/arnavshah/dispatch-api-go/pkg/database"
	"github.com/arnavshah/dispatch-api-go/pkg/engine"
	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

// topAgentLimit bounds the leaderboard size in analytics responses.
const topAgentLimit = 5

// AgentStanding is one row of the top-agents leaderboard.
type AgentStanding struct {
	AgentID      string  `json:"agent_id"`
	Assignments  int     `json:"assignments"`
	AverageScore float64 `json:"average_score"`
}

// AnalyticsReport summarizes persisted assignment history for a date range.
type AnalyticsReport struct {
	TotalAssignments  int                `json:"total_assignments"`
	MethodBreakdown   map[string]int     `json:"method_breakdown"`
	ScoreDistribution map[string]int     `json:"score_distribution"`
	TopAgents         []AgentStanding    `json:"top_agents"`
	PerSiteAverages   map[string]float64 `json:"per_site_averages"`
}

// AssignmentAnalytics computes read-only statistics over previously persisted
// assignment results, optionally scoped to one site.
func (s *Store) AssignmentAnalytics(ctx context.Context, window models.TimeRange, siteID string) (*AnalyticsReport, error) {
	q := s.DB.WithContext(ctx).Model(&database.Assignment{}).
		Where("assigned_at >= ? AND assigned_at < ?", window.Start, window.End)
	if siteID != "" {
		q = q.Where("site_id = ?", siteID)
	}

	var recs []database.Assignment
	if err := q.Order("assigned_at").Find(&recs).Error; err != nil {
		return nil, err
	}

	report := &AnalyticsReport{
		TotalAssignments:  len(recs),
		MethodBreakdown:   make(map[string]int),
		ScoreDistribution: make(map[string]int),
		PerSiteAverages:   make(map[string]float64),
	}

	type agg struct {
		count int
		sum   float64
	}
	byAgent := make(map[string]*agg)
	bySite := make(map[string]*agg)

	for _, r := range recs {
		report.MethodBreakdown[r.Method]++
		report.ScoreDistribution[engine.ScoreBucket(r.Score)]++

		if a, ok := byAgent[r.AgentID]; ok {
			a.count++
			a.sum += r.Score
		} else {
			byAgent[r.AgentID] = &agg{count: 1, sum: r.Score}
		}
		if a, ok := bySite[r.SiteID]; ok {
			a.count++
			a.sum += r.Score
		} else {
			bySite[r.SiteID] = &agg{count: 1, sum: r.Score}
		}
	}

	for siteID, a := range bySite {
		report.PerSiteAverages[siteID] = a.sum / float64(a.count)
	}

	standings := make([]AgentStanding, 0, len(byAgent))
	for agentID, a := range byAgent {
		standings = append(standings, AgentStanding{
			AgentID:      agentID,
			Assignments:  a.count,
			AverageScore: a.sum / float64(a.count),
		})
	}
	sortStandings(standings)
	if len(standings) > topAgentLimit {
		standings = standings[:topAgentLimit]
	}
	report.TopAgents = standings

	return report, nil
}

// sortStandings orders by assignment count, then average score, then id for
// stable output.
func sortStandings(standings []AgentStanding) {
	sort.SliceStable(standings, func(i, j int) bool {
		return standingLess(standings[i], standings[j])
	})
}

func standingLess(a, b AgentStanding) bool {
	if a.Assignments != b.Assignments {
		return a.Assignments > b.Assignments
	}
	if a.AverageScore != b.AverageScore {
		return a.AverageScore > b.AverageScore
	}
	return a.AgentID < b.AgentID
}
