package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/arnavshah/dispatch-api-go/pkg/database"
	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

// Store adapts the gorm-backed tables to the engine's context-loader
// interfaces. All reads return detached snapshots; the engine never sees
// gorm records.
type Store struct {
	DB *gorm.DB
}

// New wraps a database handle.
func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// recentSiteDays bounds how far back site continuity looks.
const recentSiteDays = 30

// ShiftsByID loads enriched shift records for a batch of ids.
func (s *Store) ShiftsByID(ctx context.Context, ids []string) ([]models.Shift, error) {
	var recs []database.Shift
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	return toShifts(recs), nil
}

// ShiftsInRange loads every shift overlapping the window, optionally scoped
// to one site.
func (s *Store) ShiftsInRange(ctx context.Context, window models.TimeRange, siteID string) ([]models.Shift, error) {
	q := s.DB.WithContext(ctx).Where("start < ? AND \"end\" > ?", window.End, window.Start)
	if siteID != "" {
		q = q.Where("site_id = ?", siteID)
	}
	var recs []database.Shift
	if err := q.Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	return toShifts(recs), nil
}

// AgentsAvailable returns the agent pool whose availability intersects the
// window, with computed workload, existing bookings and recent site history.
// Workload counts assigned shift hours over the window widened to a full week.
func (s *Store) AgentsAvailable(ctx context.Context, window models.TimeRange) ([]models.Agent, error) {
	var windows []database.Availability
	if err := s.DB.WithContext(ctx).
		Where("start < ? AND \"end\" > ?", window.End, window.Start).
		Order("agent_id, start").Find(&windows).Error; err != nil {
		return nil, err
	}

	availByAgent := make(map[string][]models.TimeRange)
	agentIDs := make([]string, 0)
	for _, w := range windows {
		if _, seen := availByAgent[w.AgentID]; !seen {
			agentIDs = append(agentIDs, w.AgentID)
		}
		availByAgent[w.AgentID] = append(availByAgent[w.AgentID], models.TimeRange{Start: w.Start, End: w.End})
	}
	if len(agentIDs) == 0 {
		return nil, nil
	}

	var recs []database.Agent
	if err := s.DB.WithContext(ctx).Where("id IN ?", agentIDs).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}

	week := widenToWeek(window)
	agents := make([]models.Agent, 0, len(recs))
	for _, rec := range recs {
		booked, workload, err := s.bookings(ctx, rec.ID, week)
		if err != nil {
			return nil, err
		}
		recent, err := s.recentSites(ctx, rec.ID, window.Start)
		if err != nil {
			return nil, err
		}
		agents = append(agents, models.Agent{
			ID:               rec.ID,
			Name:             rec.Name,
			Skills:           database.SplitList(rec.Skills),
			Certifications:   database.SplitList(rec.Certifications),
			EmploymentStatus: rec.EmploymentStatus,
			PerformanceScore: rec.PerformanceScore,
			WorkloadHours:    workload,
			Availability:     availByAgent[rec.ID],
			Booked:           booked,
			RecentSiteIDs:    recent,
			OvertimeAllowed:  rec.OvertimeAllowed,
		})
	}
	return agents, nil
}

// bookings returns the agent's assigned shifts inside the week plus their
// summed hours.
func (s *Store) bookings(ctx context.Context, agentID string, week models.TimeRange) ([]models.Booking, float64, error) {
	var recs []database.Shift
	err := s.DB.WithContext(ctx).
		Where("agent_id = ? AND start < ? AND \"end\" > ?", agentID, week.End, week.Start).
		Order("start").Find(&recs).Error
	if err != nil {
		return nil, 0, err
	}
	var booked []models.Booking
	var hours float64
	for _, r := range recs {
		booked = append(booked, models.Booking{
			ShiftID: r.ID,
			Window:  models.TimeRange{Start: r.Start, End: r.End},
		})
		hours += r.End.Sub(r.Start).Hours()
	}
	return booked, hours, nil
}

// recentSites returns distinct sites the agent worked in the last 30 days.
func (s *Store) recentSites(ctx context.Context, agentID string, before time.Time) ([]string, error) {
	var siteIDs []string
	err := s.DB.WithContext(ctx).Model(&database.Assignment{}).
		Where("agent_id = ? AND assigned_at >= ? AND assigned_at < ?", agentID, before.AddDate(0, 0, -recentSiteDays), before).
		Distinct("site_id").Order("site_id").Pluck("site_id", &siteIDs).Error
	if err != nil {
		return nil, err
	}
	return siteIDs, nil
}

// SiteCapacities loads the configured concurrency limits for a site set.
func (s *Store) SiteCapacities(ctx context.Context, siteIDs []string) (map[string]int, error) {
	var recs []database.Site
	if err := s.DB.WithContext(ctx).Where("id IN ?", siteIDs).Find(&recs).Error; err != nil {
		return nil, err
	}
	caps := make(map[string]int, len(recs))
	for _, r := range recs {
		caps[r.ID] = r.Capacity
	}
	return caps, nil
}

// widenToWeek grows a window to at least seven days, centered on it, so
// workload reflects the surrounding week rather than a single day.
func widenToWeek(w models.TimeRange) models.TimeRange {
	const week = 7 * 24 * time.Hour
	span := w.End.Sub(w.Start)
	if span >= week {
		return w
	}
	pad := (week - span) / 2
	return models.TimeRange{Start: w.Start.Add(-pad), End: w.End.Add(pad)}
}

func toShifts(recs []database.Shift) []models.Shift {
	shifts := make([]models.Shift, 0, len(recs))
	for _, r := range recs {
		shifts = append(shifts, models.Shift{
			ID:             r.ID,
			SiteID:         r.SiteID,
			Start:          r.Start,
			End:            r.End,
			RequiredSkills: database.SplitList(r.RequiredSkills),
			Priority:       models.ParsePriority(r.Priority),
			Status:         r.Status,
			AgentID:        r.AgentID,
			SupervisorID:   r.SupervisorID,
		})
	}
	return shifts
}
