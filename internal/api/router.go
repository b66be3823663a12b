package api

import (
	"embed"
	"html/template"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"rental-schedule-backend/config"
	"rental-schedule-backend/internal/metrics"
	"rental-schedule-backend/internal/mw"
	"rental-schedule-backend/internal/session"
	"rental-schedule-backend/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.Config) *gin.Engine {
	sessions := session.NewManager(cfg.Session, cfg.Admin)
	responses := mw.NewResponseCache(time.Duration(cfg.Server.CacheTTLSeconds) * time.Second)
	handler := NewHandler(s, sessions, responses, Options{
		BrandName: cfg.Server.BrandName,
		Locale:    cfg.Server.Locale,
		Currency:  cfg.Server.Currency,
	})
	limiter := mw.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	return handler.Routes(limiter, responses)
}

// Routes wires every route onto a fresh engine.
func (h *Handler) Routes(limiter *mw.IPRateLimiter, responses *mw.ResponseCache) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(template.Must(template.New("").Funcs(h.templateFuncs()).ParseFS(templateFS, "templates/*.html")))

	r.Use(mw.RateLimiter(limiter))
	r.Use(h.sessions.Middleware())

	// The grid fragment is polled; cache it per viewer kind until the next write.
	caching := responses.Handler(func(c *gin.Context) string {
		return strconv.FormatBool(adminOf(c))
	})
	cachePartial := func(c *gin.Context) {
		if c.Query("partial") == "1" {
			caching(c)
			return
		}
		c.Next()
	}

	r.GET("/", h.Home)
	r.GET("/schedule", cachePartial, h.Schedule)
	r.GET("/price", h.Price)
	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)

	admin := r.Group("/", mw.RequireAdmin())
	{
		admin.GET("/computer/new", h.NewMachineForm)
		admin.POST("/computer/new", h.CreateMachine)
		admin.GET("/computer/:id/edit", h.EditMachineForm)
		admin.POST("/computer/:id/edit", h.UpdateMachine)
		admin.POST("/computer/:id/deactivate", h.DeactivateMachine)
		admin.POST("/computer/:id/delete", h.DeleteMachine)

		admin.GET("/booking/new", h.NewBookingForm)
		admin.POST("/booking/new", h.CreateBooking)
		admin.POST("/booking/:id/delete", h.DeleteBooking)
	}

	api := r.Group("/api")
	{
		api.GET("/machines", responses.Handler(nil), h.GetMachines)
		api.GET("/schedule", responses.Handler(nil), h.GetSchedule)
	}

	r.GET("/metrics", metrics.Handler())

	return r
}
