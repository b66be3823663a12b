package api

import (
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"rental-schedule-backend/internal/booking"
	"rental-schedule-backend/internal/model"
	"rental-schedule-backend/internal/session"
	"rental-schedule-backend/internal/store"
)

// NewBookingForm handles GET /booking/new?date=YYYY-MM-DD.
func (h *Handler) NewBookingForm(c *gin.Context) {
	day, _ := dayParam(c, "date")
	machines, err := h.machines.ListActive(c.Request.Context())
	if err != nil {
		log.Printf("Error listing active machines: %v", err)
		h.render(c, http.StatusInternalServerError, "error.html", gin.H{"message": "The booking form could not be loaded."})
		return
	}
	h.render(c, http.StatusOK, "booking_form.html", gin.H{
		"day":      day.Format(model.DateLayout),
		"machines": machines,
	})
}

// CreateBooking handles POST /booking/new.
func (h *Handler) CreateBooking(c *gin.Context) {
	day := c.PostForm("day")
	formURL := "/booking/new"
	if _, err := model.ParseDay(day); err == nil {
		formURL += "?date=" + url.QueryEscape(day)
	}

	machineID, err := strconv.ParseInt(c.PostForm("computer_id"), 10, 64)
	if err != nil {
		h.fail(c, store.ErrNotFound, formURL)
		return
	}

	b, err := h.bookings.Create(c.Request.Context(), session.ActorFrom(c), booking.CreateRequest{
		MachineID: machineID,
		Customer:  c.PostForm("customer"),
		Day:       day,
		StartTime: c.PostForm("start_time"),
		EndTime:   c.PostForm("end_time"),
	})
	if err != nil {
		h.fail(c, err, formURL)
		return
	}
	h.mutated()
	h.flash(c, session.Success, "Booking created.")
	c.Redirect(http.StatusFound, "/schedule?date="+b.StartAt.Format(model.DateLayout))
}

// DeleteBooking handles POST /booking/:id/delete.
func (h *Handler) DeleteBooking(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err, "/schedule")
		return
	}
	removed, err := h.bookings.Delete(c.Request.Context(), session.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err, "/schedule")
		return
	}
	h.mutated()
	h.flash(c, session.Info, "Booking deleted.")
	c.Redirect(http.StatusFound, "/schedule?date="+model.Midnight(removed.StartAt).Format(model.DateLayout))
}
