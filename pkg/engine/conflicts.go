package engine

import (
	"fmt"
	"sort"

	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

// DetectConflicts scans a shift set (assigned or proposed) for scheduling
// violations. The scan is read-only and independent of the optimizer; it is
// used both as a pre-check and for ad hoc range queries.
func DetectConflicts(shifts []models.Shift, capacities map[string]int) []models.SchedulingConflict {
	sorted := make([]models.Shift, len(shifts))
	copy(sorted, shifts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var conflicts []models.SchedulingConflict
	conflicts = append(conflicts, doubleBookings(sorted)...)
	conflicts = append(conflicts, supervisorOverlaps(sorted)...)
	conflicts = append(conflicts, capacityOverflows(sorted, capacities)...)
	return conflicts
}

// doubleBookings finds pairs of overlapping shifts assigned to one agent.
func doubleBookings(shifts []models.Shift) []models.SchedulingConflict {
	byAgent := make(map[string][]models.Shift)
	for _, s := range shifts {
		if s.AgentID != "" {
			byAgent[s.AgentID] = append(byAgent[s.AgentID], s)
		}
	}

	agentIDs := sortedKeys(byAgent)
	var out []models.SchedulingConflict
	for _, agentID := range agentIDs {
		group := byAgent[agentID]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if group[i].Window().Overlaps(group[j].Window()) {
					out = append(out, models.SchedulingConflict{
						Type:     models.ConflictDoubleBooking,
						ShiftIDs: []string{group[i].ID, group[j].ID},
						AgentID:  agentID,
						Severity: "high",
					})
				}
			}
		}
	}
	return out
}

// supervisorOverlaps finds one supervisor pinned to overlapping shifts at
// different sites.
func supervisorOverlaps(shifts []models.Shift) []models.SchedulingConflict {
	bySup := make(map[string][]models.Shift)
	for _, s := range shifts {
		if s.SupervisorID != "" {
			bySup[s.SupervisorID] = append(bySup[s.SupervisorID], s)
		}
	}

	supIDs := sortedKeys(bySup)
	var out []models.SchedulingConflict
	for _, supID := range supIDs {
		group := bySup[supID]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if group[i].SiteID != group[j].SiteID && group[i].Window().Overlaps(group[j].Window()) {
					out = append(out, models.SchedulingConflict{
						Type:     models.ConflictSupervisorOverlap,
						ShiftIDs: []string{group[i].ID, group[j].ID},
						AgentID:  supID,
						Severity: "medium",
					})
				}
			}
		}
	}
	return out
}

// capacityOverflows reports sites where concurrent shifts exceed the
// configured capacity. Sites without a configured capacity are unlimited.
func capacityOverflows(shifts []models.Shift, capacities map[string]int) []models.SchedulingConflict {
	bySite := make(map[string][]models.Shift)
	for _, s := range shifts {
		bySite[s.SiteID] = append(bySite[s.SiteID], s)
	}

	siteIDs := sortedKeys(bySite)
	var out []models.SchedulingConflict
	for _, siteID := range siteIDs {
		capLimit, ok := capacities[siteID]
		if !ok || capLimit <= 0 {
			continue
		}
		group := bySite[siteID]

		// Peak concurrency occurs at some shift start; check each one.
		peak := 0
		var peakIDs []string
		for i := range group {
			probe := models.TimeRange{Start: group[i].Start, End: group[i].Start.Add(1)}
			active := []string{}
			for j := range group {
				if group[j].Window().Overlaps(probe) {
					active = append(active, group[j].ID)
				}
			}
			if len(active) > peak {
				peak = len(active)
				peakIDs = active
			}
		}

		if peak > capLimit {
			severity := "low"
			if peak-capLimit >= 2 {
				severity = "medium"
			}
			out = append(out, models.SchedulingConflict{
				Type:     models.ConflictSiteCapacity,
				ShiftIDs: peakIDs,
				SiteID:   siteID,
				Severity: severity,
				Detail:   fmt.Sprintf("%d concurrent shifts, capacity %d", peak, capLimit),
			})
		}
	}
	return out
}

func sortedKeys(m map[string][]models.Shift) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
