package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arnavshah/dispatch-api-go/pkg/database"
	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

var storeDay = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

// openTestStore gives each test its own migrated in-memory database.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&database.Site{}, &database.Agent{}, &database.Availability{},
		&database.Shift{}, &database.Assignment{}, &database.PlanAudit{},
	))
	return New(db)
}

func seedShift(t *testing.T, s *Store, id, siteID string, startHour, endHour int, extra func(*database.Shift)) {
	t.Helper()
	rec := database.Shift{
		ID:       id,
		SiteID:   siteID,
		Start:    storeDay.Add(time.Duration(startHour) * time.Hour),
		End:      storeDay.Add(time.Duration(endHour) * time.Hour),
		Priority: "normal",
		Status:   "scheduled",
	}
	if extra != nil {
		extra(&rec)
	}
	require.NoError(t, s.DB.Create(&rec).Error)
}

func seedAgent(t *testing.T, s *Store, id, skills string, perf float64) {
	t.Helper()
	require.NoError(t, s.DB.Create(&database.Agent{
		ID:               id,
		Name:             "Agent " + id,
		Skills:           skills,
		EmploymentStatus: "ACTIVE",
		PerformanceScore: perf,
	}).Error)
	require.NoError(t, s.DB.Create(&database.Availability{
		AgentID: id,
		Start:   storeDay.AddDate(0, 0, -1),
		End:     storeDay.AddDate(0, 0, 7),
	}).Error)
}

func TestShiftsByID(t *testing.T) {
	s := openTestStore(t)
	seedShift(t, s, "s1", "site-1", 9, 17, func(r *database.Shift) {
		r.RequiredSkills = "armed|patrol"
		r.Priority = "high"
	})
	seedShift(t, s, "s2", "site-2", 9, 17, nil)

	shifts, err := s.ShiftsByID(context.Background(), []string{"s2", "s1", "missing"})
	require.NoError(t, err)
	require.Len(t, shifts, 2)

	// Unknown ids are simply absent; the engine reports them itself.
	assert.Equal(t, "s1", shifts[0].ID)
	assert.Equal(t, []string{"armed", "patrol"}, shifts[0].RequiredSkills)
	assert.Equal(t, models.PriorityHigh, shifts[0].Priority)
	assert.Equal(t, "s2", shifts[1].ID)
}

func TestShiftsInRange(t *testing.T) {
	s := openTestStore(t)
	seedShift(t, s, "s1", "site-1", 9, 17, nil)
	seedShift(t, s, "s2", "site-2", 10, 14, nil)
	seedShift(t, s, "s3", "site-1", 30, 38, nil) // next day

	window := models.TimeRange{Start: storeDay, End: storeDay.AddDate(0, 0, 1)}

	shifts, err := s.ShiftsInRange(context.Background(), window, "")
	require.NoError(t, err)
	assert.Len(t, shifts, 2)

	shifts, err = s.ShiftsInRange(context.Background(), window, "site-1")
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "s1", shifts[0].ID)
}

func TestAgentsAvailable(t *testing.T) {
	s := openTestStore(t)
	seedAgent(t, s, "a1", "armed|patrol", 0.8)
	seedAgent(t, s, "a2", "", 0.5)

	// Agent outside the window never enters the pool.
	require.NoError(t, s.DB.Create(&database.Agent{ID: "a3", Name: "Agent a3", EmploymentStatus: "ACTIVE"}).Error)
	require.NoError(t, s.DB.Create(&database.Availability{
		AgentID: "a3",
		Start:   storeDay.AddDate(0, 1, 0),
		End:     storeDay.AddDate(0, 1, 7),
	}).Error)

	// a1 already holds an 8h shift that day.
	seedShift(t, s, "booked-1", "site-9", 9, 17, func(r *database.Shift) {
		r.AgentID = "a1"
		r.Status = "assigned"
	})
	// ...and worked site-7 last week.
	require.NoError(t, s.DB.Create(&database.Assignment{
		ID: "hist-1", ShiftID: "old-1", AgentID: "a1", SiteID: "site-7",
		Score: 0.9, Method: "greedy_balanced", AssignedAt: storeDay.AddDate(0, 0, -7),
	}).Error)

	window := models.TimeRange{Start: storeDay, End: storeDay.AddDate(0, 0, 1)}
	agents, err := s.AgentsAvailable(context.Background(), window)
	require.NoError(t, err)
	require.Len(t, agents, 2)

	a1 := agents[0]
	assert.Equal(t, "a1", a1.ID)
	assert.Equal(t, []string{"armed", "patrol"}, a1.Skills)
	assert.Equal(t, models.EmploymentActive, a1.EmploymentStatus)
	assert.InDelta(t, 8.0, a1.WorkloadHours, 1e-9)
	require.Len(t, a1.Booked, 1)
	assert.Equal(t, "booked-1", a1.Booked[0].ShiftID)
	assert.Equal(t, []string{"site-7"}, a1.RecentSiteIDs)
	require.Len(t, a1.Availability, 1)

	a2 := agents[1]
	assert.Equal(t, "a2", a2.ID)
	assert.Zero(t, a2.WorkloadHours)
	assert.Empty(t, a2.Booked)
}

func TestAgentsAvailableEmptyPool(t *testing.T) {
	s := openTestStore(t)
	window := models.TimeRange{Start: storeDay, End: storeDay.AddDate(0, 0, 1)}
	agents, err := s.AgentsAvailable(context.Background(), window)
	require.NoError(t, err)
	assert.Empty(t, agents)
}

func TestSiteCapacities(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.DB.Create(&database.Site{ID: "site-1", Name: "HQ", Capacity: 3}).Error)
	require.NoError(t, s.DB.Create(&database.Site{ID: "site-2", Name: "Annex"}).Error)

	caps, err := s.SiteCapacities(context.Background(), []string{"site-1", "site-2", "site-404"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"site-1": 3, "site-2": 0}, caps)
}

func TestWidenToWeek(t *testing.T) {
	day := models.TimeRange{Start: storeDay, End: storeDay.AddDate(0, 0, 1)}
	week := widenToWeek(day)
	assert.InDelta(t, 7*24, week.End.Sub(week.Start).Hours(), 1e-9)
	assert.True(t, week.Covers(day))

	// Windows already a week or longer are untouched.
	long := models.TimeRange{Start: storeDay, End: storeDay.AddDate(0, 0, 10)}
	assert.Equal(t, long, widenToWeek(long))
}

func TestCommitPlan(t *testing.T) {
	s := openTestStore(t)
	seedShift(t, s, "s1", "site-1", 9, 17, nil)

	plan := &models.Plan{
		Success: true,
		Goal:    models.GoalBalanced,
		Assignments: []models.AssignmentResult{{
			ID:         "res-1",
			ShiftID:    "s1",
			AgentID:    "a1",
			SiteID:     "site-1",
			Score:      0.91,
			Method:     "greedy_balanced",
			AssignedAt: storeDay,
		}},
	}
	require.NoError(t, s.CommitPlan(context.Background(), plan))

	var shift database.Shift
	require.NoError(t, s.DB.First(&shift, "id = ?", "s1").Error)
	assert.Equal(t, "a1", shift.AgentID)
	assert.Equal(t, "assigned", shift.Status)

	var hist database.Assignment
	require.NoError(t, s.DB.First(&hist, "id = ?", "res-1").Error)
	assert.Equal(t, "s1", hist.ShiftID)
	assert.InDelta(t, 0.91, hist.Score, 1e-9)

	// Empty plans are a no-op.
	require.NoError(t, s.CommitPlan(context.Background(), &models.Plan{}))
}

func TestRecordPlanAuditUpsert(t *testing.T) {
	s := openTestStore(t)
	plan := &models.Plan{
		Assignments: []models.AssignmentResult{{ID: "r1"}, {ID: "r2"}},
		Failed:      []models.FailedShift{{ShiftID: "s9"}},
		Report:      models.PlanReport{TotalShifts: 3},
	}

	require.NoError(t, s.RecordPlanAudit(context.Background(), plan))
	require.NoError(t, s.RecordPlanAudit(context.Background(), plan))

	var audits []database.PlanAudit
	require.NoError(t, s.DB.Find(&audits).Error)
	require.Len(t, audits, 1, "same-day audits must merge into one row")
	assert.Equal(t, 2, audits[0].PlanCount)
	assert.Equal(t, 6, audits[0].TotalShifts)
	assert.Equal(t, 4, audits[0].TotalAssigns)
	assert.Equal(t, 2, audits[0].TotalFailed)
}
