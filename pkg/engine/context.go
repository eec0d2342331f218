package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

// ShiftSource loads enriched shift records from external storage.
type ShiftSource interface {
	ShiftsByID(ctx context.Context, ids []string) ([]models.Shift, error)
	ShiftsInRange(ctx context.Context, window models.TimeRange, siteID string) ([]models.Shift, error)
}

// AgentSource loads the candidate agent pool whose availability intersects
// the given window, including computed workload and recent performance.
type AgentSource interface {
	AgentsAvailable(ctx context.Context, window models.TimeRange) ([]models.Agent, error)
}

// SiteSource loads per-site concurrency capacities for conflict detection.
type SiteSource interface {
	SiteCapacities(ctx context.Context, siteIDs []string) (map[string]int, error)
}

// Snapshot is the immutable input to one planning run. The optimizer never
// mutates it; in-run commitments accumulate separately.
type Snapshot struct {
	Shifts     []models.Shift
	Missing    []string // requested ids with no stored record
	Agents     []models.Agent
	Capacities map[string]int
	LoadedAt   time.Time
}

// envelope returns the smallest window covering every shift in the snapshot.
func envelope(shifts []models.Shift) models.TimeRange {
	var w models.TimeRange
	for i, s := range shifts {
		if i == 0 || s.Start.Before(w.Start) {
			w.Start = s.Start
		}
		if i == 0 || s.End.After(w.End) {
			w.End = s.End
		}
	}
	return w
}

// loadByID fans out to the sources and assembles a snapshot for a batch of
// shift ids. Unknown ids land in Missing rather than failing the batch.
func (e *Engine) loadByID(ctx context.Context, ids []string) (*Snapshot, error) {
	shifts, err := e.shifts.ShiftsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(shifts))
	for _, s := range shifts {
		found[s.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}

	snap := &Snapshot{Shifts: shifts, Missing: missing, LoadedAt: e.cfg.Now()}
	if len(shifts) == 0 {
		snap.Capacities = map[string]int{}
		return snap, nil
	}
	if err := e.fanOut(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// loadRange assembles a snapshot for every shift inside a date range,
// optionally restricted to one site.
func (e *Engine) loadRange(ctx context.Context, window models.TimeRange, siteID string) (*Snapshot, error) {
	shifts, err := e.shifts.ShiftsInRange(ctx, window, siteID)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Shifts: shifts, LoadedAt: e.cfg.Now()}
	if len(shifts) == 0 {
		snap.Capacities = map[string]int{}
		return snap, nil
	}
	if err := e.fanOut(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// fanOut loads the agent pool and site capacities concurrently. Both reads
// are independent and read-only against external storage.
func (e *Engine) fanOut(ctx context.Context, snap *Snapshot) error {
	window := envelope(snap.Shifts)

	siteSet := make(map[string]bool)
	for _, s := range snap.Shifts {
		siteSet[s.SiteID] = true
	}
	siteIDs := make([]string, 0, len(siteSet))
	for id := range siteSet {
		siteIDs = append(siteIDs, id)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		agents, err := e.agents.AgentsAvailable(gctx, window)
		if err != nil {
			return err
		}
		snap.Agents = agents
		return nil
	})
	g.Go(func() error {
		caps, err := e.sites.SiteCapacities(gctx, siteIDs)
		if err != nil {
			return err
		}
		snap.Capacities = caps
		return nil
	})
	return g.Wait()
}

// commitments is the in-run exclusion set: time already promised to each
// agent, seeded from externally booked shifts and appended to on every
// successful pick. It never writes back into the snapshot.
type commitments struct {
	byAgent map[string][]models.Booking
}

func newCommitments(agents []models.Agent) *commitments {
	c := &commitments{byAgent: make(map[string][]models.Booking, len(agents))}
	for _, a := range agents {
		if len(a.Booked) > 0 {
			c.byAgent[a.ID] = append([]models.Booking(nil), a.Booked...)
		}
	}
	return c
}

// conflicts reports whether the window overlaps any committed time for the agent.
func (c *commitments) conflicts(agentID string, w models.TimeRange) bool {
	for _, b := range c.byAgent[agentID] {
		if b.Window.Overlaps(w) {
			return true
		}
	}
	return false
}

func (c *commitments) add(agentID, shiftID string, w models.TimeRange) {
	c.byAgent[agentID] = append(c.byAgent[agentID], models.Booking{ShiftID: shiftID, Window: w})
}

// release drops the agent's booking for exactly the given shift and returns
// the hours it freed. Other bookings keep blocking even when their windows
// coincide.
func (c *commitments) release(agentID, shiftID string) (float64, bool) {
	list := c.byAgent[agentID]
	for i, b := range list {
		if b.ShiftID == shiftID {
			c.byAgent[agentID] = append(list[:i], list[i+1:]...)
			return b.Window.Hours(), true
		}
	}
	return 0, false
}
