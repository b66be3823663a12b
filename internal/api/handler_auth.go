package api

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"rental-schedule-backend/internal/session"
)

// safeNext only accepts local absolute paths so login cannot be used as an
// open redirect.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/schedule"
	}
	return next
}

// LoginForm handles GET /login.
func (h *Handler) LoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"next": c.Query("next")})
}

// Login handles POST /login.
func (h *Handler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := strings.TrimSpace(c.PostForm("password"))
	next := c.Query("next")

	if !h.sessions.CheckCredentials(username, password) {
		log.Printf("failed login attempt from %s", c.ClientIP())
		h.flash(c, session.Danger, "Invalid username or password.")
		target := "/login"
		if next != "" {
			target += "?next=" + url.QueryEscape(next)
		}
		c.Redirect(http.StatusFound, target)
		return
	}

	if err := h.sessions.Login(c, username); err != nil {
		log.Printf("Error issuing session: %v", err)
		h.flash(c, session.Danger, "Login failed. Please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	h.flash(c, session.Success, "Logged in.")
	c.Redirect(http.StatusFound, safeNext(next))
}

// Logout handles GET /logout.
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Logout(c)
	h.flash(c, session.Info, "Logged out.")
	c.Redirect(http.StatusFound, "/schedule")
}
