package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arnavshah/dispatch-api-go/pkg/database"
	"github.com/arnavshah/dispatch-api-go/pkg/engine"
	"github.com/arnavshah/dispatch-api-go/pkg/handlers"
	"github.com/arnavshah/dispatch-api-go/pkg/metrics"
	"github.com/arnavshah/dispatch-api-go/pkg/store"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDB()
	st := store.New(db)

	cfg := engine.Config{
		MaxWeeklyHours: envFloat("MAX_WEEKLY_HOURS", engine.DefaultMaxWeeklyHours),
		MaxBatchSize:   envInt("MAX_BATCH_SIZE", engine.DefaultMaxBatchSize),
	}
	eng := engine.New(st, st, st, cfg)

	h := &handlers.Handler{
		Engine:       eng,
		Store:        st,
		Notifier:     handlers.LogNotifier{},
		MaxBatchSize: cfg.MaxBatchSize,
	}

	r := gin.Default()

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Field Agent Dispatch API",
			"version": "1.0.0",
		})
	})

	api := r.Group("/api")
	{
		api.POST("/assignments", h.AssignShifts)
		api.GET("/shifts/:id/recommendations", h.GetRecommendations)
		api.POST("/schedule/optimize", h.OptimizeSchedule)
		api.GET("/conflicts", h.DetectConflicts)
		api.GET("/analytics/assignments", h.GetAssignmentAnalytics)
		api.POST("/validate", h.ValidateInput)
	}

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
