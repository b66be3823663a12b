package mw

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"rental-schedule-backend/internal/session"
)

// RequireAdmin redirects anonymous requests to the login page, carrying the
// original target in "next".
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.ActorFrom(c).Admin {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}
