package database

import (
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Site represents the sites table
type Site struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Capacity int    `gorm:"default:0" json:"capacity"` // 0 = unlimited concurrent shifts
}

// Agent represents the agents table
type Agent struct {
	ID               string    `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	Skills           string    `json:"skills"`         // pipe-separated
	Certifications   string    `json:"certifications"` // pipe-separated
	EmploymentStatus string    `gorm:"default:ACTIVE;index" json:"employment_status"`
	PerformanceScore float64   `gorm:"default:0.5" json:"performance_score"`
	OvertimeAllowed  bool      `gorm:"default:false" json:"overtime_allowed"`
	CreatedAt        time.Time `json:"created_at"`
}

// Availability represents the availability_windows table
type Availability struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	AgentID string    `gorm:"index;not null" json:"agent_id"`
	Start   time.Time `gorm:"index;not null" json:"start"`
	End     time.Time `gorm:"not null" json:"end"`
}

// Shift represents the shifts table
type Shift struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	SiteID         string    `gorm:"index;not null" json:"site_id"`
	Start          time.Time `gorm:"index;not null" json:"start"`
	End            time.Time `gorm:"not null" json:"end"`
	RequiredSkills string    `json:"required_skills"` // pipe-separated
	Priority       string    `gorm:"default:normal" json:"priority"`
	Status         string    `gorm:"default:scheduled" json:"status"`
	AgentID        string    `gorm:"index" json:"agent_id"`
	SupervisorID   string    `gorm:"index" json:"supervisor_id"`
}

// Assignment represents the assignments table: the persisted history of
// committed plan results, consumed read-only by analytics.
type Assignment struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	ShiftID    string    `gorm:"index;not null" json:"shift_id"`
	AgentID    string    `gorm:"index;not null" json:"agent_id"`
	SiteID     string    `gorm:"index" json:"site_id"`
	Score      float64   `json:"score"`
	Method     string    `gorm:"index" json:"method"`
	AssignedAt time.Time `gorm:"index" json:"assigned_at"`
}

// PlanAudit represents the plan_audits table: one row per day counting
// planning activity, upserted on every accepted plan.
type PlanAudit struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Date         string `gorm:"uniqueIndex;not null" json:"date"`
	PlanCount    int    `gorm:"default:0" json:"plan_count"`
	TotalShifts  int    `gorm:"default:0" json:"total_shifts"`
	TotalAssigns int    `gorm:"default:0" json:"total_assigns"`
	TotalFailed  int    `gorm:"default:0" json:"total_failed"`
}

// InitDB initializes the database connection and migrates the schema
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "dispatch.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto Migration
	db.AutoMigrate(&Site{}, &Agent{}, &Availability{}, &Shift{}, &Assignment{}, &PlanAudit{})

	return db
}

// SplitList decodes a pipe-separated column into a string slice.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList encodes a string slice as a pipe-separated column.
func JoinList(items []string) string {
	return strings.Join(items, "|")
}
