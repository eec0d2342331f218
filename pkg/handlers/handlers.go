package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/dispatch-api-go/pkg/engine"
	"github.com/arnavshah/dispatch-api-go/pkg/metrics"
	"github.com/arnavshah/dispatch-api-go/pkg/models"
	"github.com/arnavshah/dispatch-api-go/pkg/store"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	Engine   *engine.Engine
	Store    *store.Store
	Notifier Notifier

	// MaxBatchSize mirrors the engine's limit for boundary rejection.
	MaxBatchSize int
}

// AssignRequest is the body for POST /api/assignments.
type AssignRequest struct {
	ShiftIDs               []string `json:"shift_ids"`
	OptimizationGoal       string   `json:"optimization_goal"`
	AllowPartialAssignment bool     `json:"allow_partial_assignment"`
	NotifyAgents           bool     `json:"notify_agents"`
	ValidateConstraints    bool     `json:"validate_constraints"`
}

// AssignShifts plans a batch of shifts, commits the accepted plan and returns
// assignments, failures and the summary report.
func (h *Handler) AssignShifts(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := h.checkBatch(req.ShiftIDs); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	started := time.Now()
	plan, err := h.Engine.AssignShifts(c.Request.Context(), req.ShiftIDs, engine.PlanOptions{
		Goal:                   models.OptimizationGoal(req.OptimizationGoal),
		AllowPartialAssignment: req.AllowPartialAssignment,
		ValidateConstraints:    req.ValidateConstraints,
	})
	if err != nil {
		h.planError(c, err)
		return
	}
	metrics.ObservePlan(plan, time.Since(started))

	if plan.Success {
		if err := h.commit(c, plan, req.NotifyAgents); err != nil {
			return
		}
	}

	c.JSON(http.StatusOK, plan)
}

// OptimizeRequest is the body for POST /api/schedule/optimize.
type OptimizeRequest struct {
	SiteID                      string `json:"site_id"`
	StartDate                   string `json:"start_date"`
	EndDate                     string `json:"end_date"`
	OptimizationGoal            string `json:"optimization_goal"`
	PreserveExistingAssignments bool   `json:"preserve_existing_assignments"`
	NotifyAgents                bool   `json:"notify_agents"`
}

// OptimizeSchedule plans every shift in a date range, optionally restricted
// to currently-unassigned shifts, and commits the result.
func (h *Handler) OptimizeSchedule(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	window, err := parseWindow(req.StartDate, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	started := time.Now()
	plan, err := h.Engine.OptimizeSchedule(c.Request.Context(), req.SiteID, window, engine.ScheduleOptions{
		Goal:                        models.OptimizationGoal(req.OptimizationGoal),
		PreserveExistingAssignments: req.PreserveExistingAssignments,
	})
	if err != nil {
		h.planError(c, err)
		return
	}
	metrics.ObservePlan(plan, time.Since(started))

	if plan.Success {
		if err := h.commit(c, plan, req.NotifyAgents); err != nil {
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"optimized_shifts": len(plan.Assignments),
		"plan":             plan,
	})
}

// GetRecommendations returns the ranked candidate preview for one shift.
func (h *Handler) GetRecommendations(c *gin.Context) {
	shiftID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	includeUnavailable := c.DefaultQuery("include_unavailable", "false") == "true"

	candidates, err := h.Engine.GetRecommendations(c.Request.Context(), shiftID, limit, includeUnavailable)
	if err != nil {
		if errors.Is(err, engine.ErrShiftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shift_id":   shiftID,
		"candidates": candidates,
	})
}

// DetectConflicts runs the standalone conflict scan over a date range.
func (h *Handler) DetectConflicts(c *gin.Context) {
	window, err := parseWindow(c.Query("start"), c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conflicts, err := h.Engine.DetectConflicts(c.Request.Context(), window, c.Query("site_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.ObserveConflicts(conflicts)

	c.JSON(http.StatusOK, gin.H{
		"conflicts": conflicts,
		"count":     len(conflicts),
	})
}

// GetAssignmentAnalytics returns statistics over persisted assignment history.
func (h *Handler) GetAssignmentAnalytics(c *gin.Context) {
	window, err := parseWindow(c.Query("start"), c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.Store.AssignmentAnalytics(c.Request.Context(), window, c.Query("site_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not compute analytics"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// commit persists an accepted plan and fires notifications. Responds with
// 500 and returns an error if the write fails.
func (h *Handler) commit(c *gin.Context, plan *models.Plan, notify bool) error {
	if err := h.Store.CommitPlan(c.Request.Context(), plan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not persist plan"})
		return err
	}
	if err := h.Store.RecordPlanAudit(c.Request.Context(), plan); err != nil {
		log.Printf("plan audit write failed: %v", err)
	}
	if notify && h.Notifier != nil {
		// Fire-and-forget: delivery failures are the dispatcher's concern.
		go h.Notifier.NotifyAssignments(plan)
	}
	return nil
}

// checkBatch rejects malformed batches at the boundary, before the engine runs.
func (h *Handler) checkBatch(ids []string) string {
	if len(ids) == 0 {
		return "shift_ids is required"
	}
	if h.MaxBatchSize > 0 && len(ids) > h.MaxBatchSize {
		return "batch exceeds maximum size of " + strconv.Itoa(h.MaxBatchSize)
	}
	return ""
}

// planError maps engine boundary errors onto HTTP statuses.
func (h *Handler) planError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrEmptyBatch),
		errors.Is(err, engine.ErrBatchTooLarge),
		errors.Is(err, engine.ErrUnknownGoal):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// parseWindow parses start/end date strings ("2006-01-02" or RFC3339) into a
// validated range.
func parseWindow(start, end string) (models.TimeRange, error) {
	s, err := parseDate(start)
	if err != nil {
		return models.TimeRange{}, errors.New("invalid start date")
	}
	e, err := parseDate(end)
	if err != nil {
		return models.TimeRange{}, errors.New("invalid end date")
	}
	if !s.Before(e) {
		return models.TimeRange{}, errors.New("start date must precede end date")
	}
	return models.TimeRange{Start: s, End: e}, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
