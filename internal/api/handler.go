package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rental-schedule-backend/internal/authz"
	"rental-schedule-backend/internal/booking"
	"rental-schedule-backend/internal/machine"
	"rental-schedule-backend/internal/mw"
	"rental-schedule-backend/internal/schedule"
	"rental-schedule-backend/internal/session"
	"rental-schedule-backend/internal/store"
)

// Options configures presentation details.
type Options struct {
	BrandName string
	Locale    string
	Currency  string
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	machines  *machine.Service
	bookings  *booking.Service
	projector *schedule.Projector
	sessions  *session.Manager
	cache     *mw.ResponseCache
	brand     string
	money     *Money
}

// NewHandler creates a new handler set over the store.
func NewHandler(s store.Store, sessions *session.Manager, cache *mw.ResponseCache, opts Options) *Handler {
	money, err := NewMoney(opts.Locale, opts.Currency)
	if err != nil {
		log.Printf("Warning: %v; falling back to en-US THB", err)
		money, _ = NewMoney("en-US", "THB")
	}
	return &Handler{
		machines:  machine.NewService(s),
		bookings:  booking.NewService(s),
		projector: schedule.NewProjector(s),
		sessions:  sessions,
		cache:     cache,
		brand:     opts.BrandName,
		money:     money,
	}
}

// render fills the fields every page layout needs and consumes pending notices.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["brand"] = h.brand
	data["admin"] = session.ActorFrom(c).Admin
	data["flashes"] = h.sessions.Flashes().Pop(c)
	c.HTML(status, name, data)
}

func (h *Handler) flash(c *gin.Context, category, message string) {
	h.sessions.Flashes().Add(c, category, message)
}

// fail turns a domain error into a notice and a redirect back to the form.
func (h *Handler) fail(c *gin.Context, err error, target string) {
	category, message := describe(err)
	h.flash(c, category, message)
	c.Redirect(http.StatusFound, target)
}

// mutated drops cached pages after a successful write.
func (h *Handler) mutated() {
	if h.cache != nil {
		h.cache.Invalidate()
	}
}

func describe(err error) (string, string) {
	switch {
	case errors.Is(err, booking.ErrInvalidInterval):
		return session.Danger, "Invalid time: the end time must be after the start time."
	case errors.Is(err, booking.ErrSlotConflict):
		return session.Warning, "This time slot is already booked. Please choose another time."
	case errors.Is(err, booking.ErrMachineInactive):
		return session.Warning, "This machine is not available for booking."
	case errors.Is(err, machine.ErrInvalidNumeric):
		return session.Danger, "Rates must be valid non-negative numbers."
	case errors.Is(err, store.ErrNotFound):
		return session.Danger, "The requested record does not exist."
	case errors.Is(err, authz.ErrForbidden):
		return session.Danger, "Please log in as administrator."
	default:
		log.Printf("unexpected error: %v", err)
		return session.Danger, "Something went wrong. Please try again."
	}
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, store.ErrNotFound
	}
	return id, nil
}
