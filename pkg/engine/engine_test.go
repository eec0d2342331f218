package engine

import (
	"context"
	"time"

	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

// Shared fixtures for the engine tests.

var (
	testDay   = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	testClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	allWeek   = models.TimeRange{Start: testDay.AddDate(0, 0, -1), End: testDay.AddDate(0, 0, 14)}
)

// stubSources serves snapshots from in-memory slices.
type stubSources struct {
	shifts []models.Shift
	agents []models.Agent
	caps   map[string]int
}

func (s *stubSources) ShiftsByID(_ context.Context, ids []string) ([]models.Shift, error) {
	byID := make(map[string]models.Shift, len(s.shifts))
	for _, sh := range s.shifts {
		byID[sh.ID] = sh
	}
	var out []models.Shift
	for _, id := range ids {
		if sh, ok := byID[id]; ok {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (s *stubSources) ShiftsInRange(_ context.Context, w models.TimeRange, siteID string) ([]models.Shift, error) {
	var out []models.Shift
	for _, sh := range s.shifts {
		if sh.Window().Overlaps(w) && (siteID == "" || sh.SiteID == siteID) {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (s *stubSources) AgentsAvailable(_ context.Context, _ models.TimeRange) ([]models.Agent, error) {
	return s.agents, nil
}

func (s *stubSources) SiteCapacities(_ context.Context, _ []string) (map[string]int, error) {
	if s.caps == nil {
		return map[string]int{}, nil
	}
	return s.caps, nil
}

func newTestEngine(src *stubSources) *Engine {
	return New(src, src, src, Config{Now: func() time.Time { return testClock }})
}

// testShift builds a shift on the fixture day running [startHour, endHour).
func testShift(id, siteID string, startHour, endHour int, prio models.Priority, skills ...string) models.Shift {
	return models.Shift{
		ID:             id,
		SiteID:         siteID,
		Start:          testDay.Add(time.Duration(startHour) * time.Hour),
		End:            testDay.Add(time.Duration(endHour) * time.Hour),
		RequiredSkills: skills,
		Priority:       prio,
		Status:         "scheduled",
	}
}

// testAgent builds an active agent available all week.
func testAgent(id string, perf, workload float64, skills ...string) models.Agent {
	return models.Agent{
		ID:               id,
		Name:             "Agent " + id,
		Skills:           skills,
		EmploymentStatus: models.EmploymentActive,
		PerformanceScore: perf,
		WorkloadHours:    workload,
		Availability:     []models.TimeRange{allWeek},
	}
}

// assignedAgents maps shift id to agent id for plan comparisons.
func assignedAgents(plan *models.Plan) map[string]string {
	out := make(map[string]string, len(plan.Assignments))
	for _, a := range plan.Assignments {
		out[a.ShiftID] = a.AgentID
	}
	return out
}

// failureReasons maps shift id to its recorded failure reason.
func failureReasons(plan *models.Plan) map[string]string {
	out := make(map[string]string, len(plan.Failed))
	for _, f := range plan.Failed {
		out[f.ShiftID] = f.Reason
	}
	return out
}
