package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

func TestDetectDoubleBooking(t *testing.T) {
	s1 := testShift("s1", "site-1", 9, 13, models.PriorityNormal)
	s2 := testShift("s2", "site-2", 11, 15, models.PriorityNormal)
	s3 := testShift("s3", "site-1", 16, 20, models.PriorityNormal)
	s1.AgentID, s2.AgentID, s3.AgentID = "a1", "a1", "a1"

	conflicts := DetectConflicts([]models.Shift{s1, s2, s3}, nil)

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictDoubleBooking, conflicts[0].Type)
	assert.Equal(t, []string{"s1", "s2"}, conflicts[0].ShiftIDs)
	assert.Equal(t, "a1", conflicts[0].AgentID)
	assert.Equal(t, "high", conflicts[0].Severity)
}

func TestDetectSupervisorOverlap(t *testing.T) {
	s1 := testShift("s1", "site-1", 9, 17, models.PriorityNormal)
	s2 := testShift("s2", "site-2", 12, 20, models.PriorityNormal)
	s1.SupervisorID, s2.SupervisorID = "sup-1", "sup-1"

	// Same supervisor at the same site is not a conflict.
	s3 := testShift("s3", "site-1", 9, 17, models.PriorityNormal)
	s4 := testShift("s4", "site-1", 12, 20, models.PriorityNormal)
	s3.SupervisorID, s4.SupervisorID = "sup-2", "sup-2"

	conflicts := DetectConflicts([]models.Shift{s1, s2, s3, s4}, nil)

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictSupervisorOverlap, conflicts[0].Type)
	assert.Equal(t, "sup-1", conflicts[0].AgentID)
}

func TestDetectSiteCapacity(t *testing.T) {
	shifts := []models.Shift{
		testShift("s1", "site-1", 9, 17, models.PriorityNormal),
		testShift("s2", "site-1", 10, 14, models.PriorityNormal),
		testShift("s3", "site-1", 11, 13, models.PriorityNormal),
	}

	// Capacity 2, 3 concurrent shifts at 11:00: one conflict.
	conflicts := DetectConflicts(shifts, map[string]int{"site-1": 2})
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictSiteCapacity, conflicts[0].Type)
	assert.Equal(t, "site-1", conflicts[0].SiteID)
	assert.Len(t, conflicts[0].ShiftIDs, 3)
	assert.Equal(t, "low", conflicts[0].Severity)

	// Overflow of two bumps the severity.
	conflicts = DetectConflicts(shifts, map[string]int{"site-1": 1})
	require.Len(t, conflicts, 1)
	assert.Equal(t, "medium", conflicts[0].Severity)

	// No configured capacity means unlimited.
	assert.Empty(t, DetectConflicts(shifts, nil))
}

func TestDetectConflictsReadOnlyAndClean(t *testing.T) {
	s1 := testShift("s1", "site-1", 9, 13, models.PriorityNormal)
	s2 := testShift("s2", "site-1", 13, 17, models.PriorityNormal) // back to back, no overlap
	s1.AgentID, s2.AgentID = "a1", "a1"
	in := []models.Shift{s1, s2}

	assert.Empty(t, DetectConflicts(in, map[string]int{"site-1": 1}))
	assert.Equal(t, "s1", in[0].ID, "input slice must not be reordered")
}

func TestEngineDetectConflictsRange(t *testing.T) {
	s1 := testShift("s1", "site-1", 9, 13, models.PriorityNormal)
	s2 := testShift("s2", "site-2", 11, 15, models.PriorityNormal)
	s1.AgentID, s2.AgentID = "a1", "a1"

	src := &stubSources{shifts: []models.Shift{s1, s2}}
	e := newTestEngine(src)

	window := models.TimeRange{Start: testDay, End: testDay.AddDate(0, 0, 1)}
	conflicts, err := e.DetectConflicts(context.Background(), window, "")
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictDoubleBooking, conflicts[0].Type)
}
