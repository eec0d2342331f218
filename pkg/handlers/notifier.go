package handlers

import (
	"log"

	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

// Notifier dispatches assignment notifications to agents. Delivery is
// fire-and-forget from the planning engine's perspective.
type Notifier interface {
	NotifyAssignments(plan *models.Plan)
}

// LogNotifier writes notifications to the process log. It stands in for an
// external notification dispatcher.
type LogNotifier struct{}

// NotifyAssignments logs one line per committed assignment.
func (LogNotifier) NotifyAssignments(plan *models.Plan) {
	for _, a := range plan.Assignments {
		log.Printf("notify agent %s: assigned shift %s at site %s", a.AgentID, a.ShiftID, a.SiteID)
	}
}
