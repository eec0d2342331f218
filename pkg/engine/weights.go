package engine

import "github.com/arnavshah/dispatch-api-go/pkg/models"

// WeightProfile controls how the soft score blends its normalized factors.
// Weights plus FeasibleBase sum to 1.0 so scores stay in [0,1] before clipping.
type WeightProfile struct {
	SkillMatch      float64
	WorkloadBalance float64
	Performance     float64
	SiteContinuity  float64

	// FeasibleBase is credited to every feasible pair regardless of fit.
	// A high base narrows the score spread between candidates so the
	// optimizer's scarcity-first ordering dominates, favoring filling the
	// most shifts over best individual fit.
	FeasibleBase float64
}

var weightProfiles = map[models.OptimizationGoal]WeightProfile{
	models.GoalBalanced: {
		SkillMatch:      0.25,
		WorkloadBalance: 0.25,
		Performance:     0.25,
		SiteContinuity:  0.25,
	},
	models.GoalCost: {
		SkillMatch:      0.15,
		WorkloadBalance: 0.55,
		Performance:     0.20,
		SiteContinuity:  0.10,
	},
	models.GoalQuality: {
		SkillMatch:      0.40,
		WorkloadBalance: 0.10,
		Performance:     0.40,
		SiteContinuity:  0.10,
	},
	models.GoalCoverage: {
		SkillMatch:      0.10,
		WorkloadBalance: 0.30,
		Performance:     0.15,
		SiteContinuity:  0.05,
		FeasibleBase:    0.40,
	},
}

// ProfileFor returns the weight profile for a goal. The zero goal maps to
// balanced so callers may omit it.
func ProfileFor(goal models.OptimizationGoal) (WeightProfile, error) {
	if goal == "" {
		goal = models.GoalBalanced
	}
	p, ok := weightProfiles[goal]
	if !ok {
		return WeightProfile{}, ErrUnknownGoal
	}
	return p, nil
}
