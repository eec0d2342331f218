package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/dispatch-api-go/pkg/models"
)

// ValidateInput handles the JSON-based validation request
func (h *Handler) ValidateInput(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if len(req.ShiftIDs) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one shift id is required",
		})
		return
	}

	if h.MaxBatchSize > 0 && len(req.ShiftIDs) > h.MaxBatchSize {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "Batch exceeds maximum size",
		})
		return
	}

	// Check for duplicate IDs
	seen := make(map[string]bool)
	for _, id := range req.ShiftIDs {
		if seen[id] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate shift ID: " + id})
			return
		}
		seen[id] = true
	}

	if req.OptimizationGoal != "" && !models.ValidGoal(models.OptimizationGoal(req.OptimizationGoal)) {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Unknown optimization goal: " + req.OptimizationGoal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"shift_count": len(req.ShiftIDs),
		},
	})
}
