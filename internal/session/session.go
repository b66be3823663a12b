// Package session keeps the administrator login in a signed cookie and
// carries one-shot flash notices between a redirect and the next page.
package session

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"rental-schedule-backend/config"
	"rental-schedule-backend/internal/authz"
)

const actorKey = "actor"

type claims struct {
	Admin bool `json:"adm"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session cookies.
type Manager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	admin      config.AdminConfig
	flashes    *FlashStore
}

// NewManager creates a Manager. An empty secret is replaced by a random one,
// which invalidates sessions on restart.
func NewManager(cfg config.SessionConfig, admin config.AdminConfig) *Manager {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("failed to generate session secret: %v", err)
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	name := cfg.CookieName
	if name == "" {
		name = "rental_session"
	}
	return &Manager{
		secret:     secret,
		ttl:        ttl,
		cookieName: name,
		secure:     cfg.SecureCookie,
		admin:      admin,
		flashes:    NewFlashStore(name+"_flash", cfg.SecureCookie),
	}
}

// Flashes returns the flash store bound to this manager's cookies.
func (m *Manager) Flashes() *FlashStore {
	return m.flashes
}

// CheckCredentials compares against the configured administrator pair by
// exact string equality.
func (m *Manager) CheckCredentials(username, password string) bool {
	if m.admin.Username == "" || m.admin.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(m.admin.Password)) == 1
	return userOK && passOK
}

// Issue returns a signed token for the administrator.
func (m *Manager) Issue(username string, now time.Time) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	return tok.SignedString(m.secret)
}

// Verify parses a token and returns the actor it represents.
func (m *Manager) Verify(raw string) (authz.Actor, error) {
	var c claims
	tok, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return authz.Anonymous, err
	}
	if !tok.Valid || !c.Admin {
		return authz.Anonymous, errors.New("session does not grant admin")
	}
	return authz.Administrator(c.Subject), nil
}

// Login sets the session cookie.
func (m *Manager) Login(c *gin.Context, username string) error {
	raw, err := m.Issue(username, time.Now())
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, raw, int(m.ttl.Seconds()), "/", "", m.secure, true)
	return nil
}

// Logout clears the session cookie.
func (m *Manager) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
}

// Middleware resolves the request's actor from its cookie and stores it on
// the context.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := authz.Anonymous
		if raw, err := c.Cookie(m.cookieName); err == nil && raw != "" {
			if a, err := m.Verify(raw); err == nil {
				actor = a
			}
		}
		SetActor(c, actor)
		c.Next()
	}
}

// SetActor stores the request's actor on the context.
func SetActor(c *gin.Context, a authz.Actor) {
	c.Set(actorKey, a)
}

// ActorFrom returns the actor stored by Middleware.
func ActorFrom(c *gin.Context) authz.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(authz.Actor); ok {
			return a
		}
	}
	return authz.Anonymous
}
