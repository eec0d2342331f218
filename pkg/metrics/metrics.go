// Package metrics provides Prometheus observability metrics for the dispatch
// planning engine and its HTTP surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// PlansTotal counts planning runs by goal and outcome.
var PlansTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dispatch",
	Name:      "plans_total",
	Help:      "Total planning runs by optimization goal and outcome",
}, []string{"goal", "outcome"})

// AssignmentsTotal counts committed assignments produced by plans.
var AssignmentsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "dispatch",
	Name:      "assignments_total",
	Help:      "Total shift assignments committed by accepted plans",
})

// FailedShiftsTotal counts unfillable shifts by failure reason.
var FailedShiftsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dispatch",
	Name:      "failed_shifts_total",
	Help:      "Total shifts that could not be filled, by reason",
}, []string{"reason"})

// PlanScore observes per-assignment scores for quality tracking.
var PlanScore = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "dispatch",
	Name:      "assignment_score",
	Help:      "Distribution of committed assignment scores",
	Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
})

// PlanDurationSeconds tracks time to produce a plan.
var PlanDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "dispatch",
	Name:      "plan_duration_seconds",
	Help:      "Time taken to load context and produce a plan",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
})

// ConflictsDetected counts conflicts found by scans, by type.
var ConflictsDetected = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dispatch",
	Name:      "conflicts_detected_total",
	Help:      "Scheduling conflicts found by detector scans, by type",
}, []string{"type"})

// ObservePlan records the outcome of one planning run.
func ObservePlan(plan *models.Plan, elapsed time.Duration) {
	outcome := "success"
	if !plan.Success {
		outcome = "rejected"
	}
	PlansTotal.WithLabelValues(string(plan.Goal), outcome).Inc()
	AssignmentsTotal.Add(float64(len(plan.Assignments)))
	for _, f := range plan.Failed {
		FailedShiftsTotal.WithLabelValues(f.Reason).Inc()
	}
	for _, a := range plan.Assignments {
		PlanScore.Observe(a.Score)
	}
	PlanDurationSeconds.Observe(elapsed.Seconds())
}

// ObserveConflicts records the result of one conflict scan.
func ObserveConflicts(conflicts []models.SchedulingConflict) {
	for _, c := range conflicts {
		ConflictsDetected.WithLabelValues(c.Type).Inc()
	}
}
