package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/arnavshah/dispatch-api-go/pkg/database"
)

var skillPool = []string{"armed", "unarmed", "k9", "crowd_control", "cctv", "first_aid", "access_control"}

func main() {
	_ = godotenv.Load("../.env")
	_ = godotenv.Load(".env")

	sites := flag.Int("sites", 3, "number of sites to create")
	agents := flag.Int("agents", 12, "number of agents to create")
	shifts := flag.Int("shifts", 30, "number of shifts to create")
	days := flag.Int("days", 7, "how many days of shifts to spread out")
	seed := flag.Int64("seed", 42, "random seed for reproducible data")
	flag.Parse()

	if *sites <= 0 || *agents <= 0 || *shifts <= 0 {
		fmt.Println("Error: -sites, -agents and -shifts must be positive")
		os.Exit(1)
	}

	db := database.InitDB()
	r := rand.New(rand.NewSource(*seed))
	dayStart := time.Now().Truncate(24 * time.Hour).Add(24 * time.Hour)

	for i := 0; i < *sites; i++ {
		db.Create(&database.Site{
			ID:       fmt.Sprintf("site-%02d", i+1),
			Name:     fmt.Sprintf("Client Site %02d", i+1),
			Capacity: 2 + r.Intn(3),
		})
	}

	for i := 0; i < *agents; i++ {
		id := fmt.Sprintf("agent-%03d", i+1)
		skills := pick(r, skillPool, 2+r.Intn(3))
		db.Create(&database.Agent{
			ID:               id,
			Name:             fmt.Sprintf("Agent %03d", i+1),
			Skills:           database.JoinList(skills),
			EmploymentStatus: "ACTIVE",
			PerformanceScore: 0.4 + r.Float64()*0.6,
			OvertimeAllowed:  r.Intn(5) == 0,
		})
		// One wide availability window per agent covering the seeded span.
		db.Create(&database.Availability{
			AgentID: id,
			Start:   dayStart,
			End:     dayStart.AddDate(0, 0, *days),
		})
	}

	priorities := []string{"low", "normal", "normal", "high", "critical", "emergency"}
	for i := 0; i < *shifts; i++ {
		day := r.Intn(*days)
		startHour := 6 + r.Intn(12)
		start := dayStart.AddDate(0, 0, day).Add(time.Duration(startHour) * time.Hour)
		db.Create(&database.Shift{
			ID:             fmt.Sprintf("shift-%04d", i+1),
			SiteID:         fmt.Sprintf("site-%02d", 1+r.Intn(*sites)),
			Start:          start,
			End:            start.Add(time.Duration(4+r.Intn(8)) * time.Hour),
			RequiredSkills: database.JoinList(pick(r, skillPool, 1+r.Intn(2))),
			Priority:       priorities[r.Intn(len(priorities))],
			Status:         "scheduled",
		})
	}

	fmt.Printf("Seeded %d sites, %d agents, %d shifts over %d days\n", *sites, *agents, *shifts, *days)
}

// pick draws n distinct entries from pool.
func pick(r *rand.Rand, pool []string, n int) []string {
	idx := r.Perm(len(pool))
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pool[i])
	}
	return out
}
