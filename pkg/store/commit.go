package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/dispatch-api-go/pkg/database"
	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

// CommitPlan persists an accepted plan: assignment history rows plus the
// shift rows' assigned agent, in one transaction. The engine itself never
// writes; this is the caller-side commit.
func (s *Store) CommitPlan(ctx context.Context, plan *models.Plan) error {
	if len(plan.Assignments) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range plan.Assignments {
			rec := database.Assignment{
				ID:         a.ID,
				ShiftID:    a.ShiftID,
				AgentID:    a.AgentID,
				SiteID:     a.SiteID,
				Score:      a.Score,
				Method:     a.Method,
				AssignedAt: a.AssignedAt,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			err := tx.Model(&database.Shift{}).Where("id = ?", a.ShiftID).
				Updates(map[string]interface{}{"agent_id": a.AgentID, "status": "assigned"}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// RecordPlanAudit records planning activity in the daily audit row using an
// efficient upsert.
func (s *Store) RecordPlanAudit(ctx context.Context, plan *models.Plan) error {
	today := time.Now().Format("2006-01-02")

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"plan_count":    gorm.Expr("plan_count + ?", 1),
			"total_shifts":  gorm.Expr("total_shifts + ?", plan.Report.TotalShifts),
			"total_assigns": gorm.Expr("total_assigns + ?", len(plan.Assignments)),
			"total_failed":  gorm.Expr("total_failed + ?", len(plan.Failed)),
		}),
	}).Create(&database.PlanAudit{
		Date:         today,
		PlanCount:    1,
		TotalShifts:  plan.Report.TotalShifts,
		TotalAssigns: len(plan.Assignments),
		TotalFailed:  len(plan.Failed),
	}).Error
}
