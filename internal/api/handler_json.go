package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rental-schedule-backend/internal/model"
)

// GetMachines handles GET /api/machines.
func (h *Handler) GetMachines(c *gin.Context) {
	machines, err := h.machines.List(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve machines"})
		return
	}
	c.JSON(http.StatusOK, machines)
}

// GetSchedule handles GET /api/schedule?date=YYYY-MM-DD.
func (h *Handler) GetSchedule(c *gin.Context) {
	day, ok := dayParam(c, "date")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'date' format. Use YYYY-MM-DD."})
		return
	}
	grid, err := h.projector.Project(c.Request.Context(), day)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to project schedule"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date": grid.Day.Format(model.DateLayout),
		"grid": grid,
	})
}
