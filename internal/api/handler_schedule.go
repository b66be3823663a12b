package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rental-schedule-backend/internal/model"
	"rental-schedule-backend/internal/session"
)

// Home handles GET /.
func (h *Handler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/schedule")
}

// dayParam reads a YYYY-MM-DD query value, falling back to today. The second
// result is false when a value was given but could not be parsed.
func dayParam(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return model.Midnight(time.Now()), true
	}
	day, err := model.ParseDay(raw)
	if err != nil {
		return model.Midnight(time.Now()), false
	}
	return day, true
}

// Schedule handles GET /schedule?date=YYYY-MM-DD[&partial=1].
func (h *Handler) Schedule(c *gin.Context) {
	day, ok := dayParam(c, "date")
	partial := c.Query("partial") == "1"
	if !ok && !partial {
		h.flash(c, session.Warning, "Invalid date, showing today instead.")
	}

	grid, err := h.projector.Project(c.Request.Context(), day)
	if err != nil {
		log.Printf("Error projecting schedule for %s: %v", day.Format(model.DateLayout), err)
		h.render(c, http.StatusInternalServerError, "error.html", gin.H{"message": "The schedule could not be loaded."})
		return
	}

	data := gin.H{
		"grid":  grid,
		"today": model.Midnight(time.Now()).Format(model.DateLayout),
	}
	if partial {
		data["admin"] = adminOf(c)
		c.HTML(http.StatusOK, "_schedule_table.html", data)
		return
	}
	h.render(c, http.StatusOK, "schedule.html", data)
}

// Price handles GET /price.
func (h *Handler) Price(c *gin.Context) {
	machines, err := h.machines.List(c.Request.Context())
	if err != nil {
		log.Printf("Error listing machines: %v", err)
		h.render(c, http.StatusInternalServerError, "error.html", gin.H{"message": "The price list could not be loaded."})
		return
	}
	h.render(c, http.StatusOK, "price.html", gin.H{"machines": machines})
}

func adminOf(c *gin.Context) bool {
	return session.ActorFrom(c).Admin
}
