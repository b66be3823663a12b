package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"rental-schedule-backend/internal/machine"
	"rental-schedule-backend/internal/session"
)

func machineForm(c *gin.Context) machine.Form {
	_, active := c.GetPostForm("is_active")
	return machine.Form{
		Name:     c.PostForm("name"),
		Spec:     c.PostForm("spec"),
		RateHour: c.PostForm("rate_hour"),
		RateDay:  c.PostForm("rate_day"),
		IsActive: active,
	}
}

// NewMachineForm handles GET /computer/new.
func (h *Handler) NewMachineForm(c *gin.Context) {
	h.render(c, http.StatusOK, "computer_form.html", gin.H{"mode": "new"})
}

// CreateMachine handles POST /computer/new.
func (h *Handler) CreateMachine(c *gin.Context) {
	m, err := h.machines.Create(c.Request.Context(), session.ActorFrom(c), machineForm(c))
	if err != nil {
		h.fail(c, err, "/computer/new")
		return
	}
	h.mutated()
	h.flash(c, session.Success, fmt.Sprintf("Added machine %q.", m.Name))
	c.Redirect(http.StatusFound, "/price")
}

// EditMachineForm handles GET /computer/:id/edit.
func (h *Handler) EditMachineForm(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err, "/price")
		return
	}
	m, err := h.machines.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "/price")
		return
	}
	h.render(c, http.StatusOK, "computer_form.html", gin.H{"mode": "edit", "machine": m})
}

// UpdateMachine handles POST /computer/:id/edit.
func (h *Handler) UpdateMachine(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err, "/price")
		return
	}
	m, err := h.machines.Update(c.Request.Context(), session.ActorFrom(c), id, machineForm(c))
	if err != nil {
		h.fail(c, err, fmt.Sprintf("/computer/%d/edit", id))
		return
	}
	h.mutated()
	h.flash(c, session.Success, fmt.Sprintf("Updated machine %q.", m.Name))
	c.Redirect(http.StatusFound, "/price")
}

// DeactivateMachine handles POST /computer/:id/deactivate.
func (h *Handler) DeactivateMachine(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err, "/price")
		return
	}
	m, err := h.machines.Deactivate(c.Request.Context(), session.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err, "/price")
		return
	}
	h.mutated()
	h.flash(c, session.Info, fmt.Sprintf("Machine %q is now hidden from the schedule.", m.Name))
	c.Redirect(http.StatusFound, "/price")
}

// DeleteMachine handles POST /computer/:id/delete.
func (h *Handler) DeleteMachine(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.fail(c, err, "/price")
		return
	}
	m, err := h.machines.Delete(c.Request.Context(), session.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err, "/price")
		return
	}
	h.mutated()
	h.flash(c, session.Info, fmt.Sprintf("Deleted machine %q and all of its bookings.", m.Name))
	c.Redirect(http.StatusFound, "/price")
}
