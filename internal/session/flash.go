package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Flash categories.
const (
	Success = "success"
	Danger  = "danger"
	Warning = "warning"
	Info    = "info"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// FlashStore keeps pending notices in memory keyed by a per-browser id cookie.
type FlashStore struct {
	cookieName string
	secure     bool
	pending    *cache.Cache
}

// NewFlashStore creates a store whose notices expire after five minutes.
func NewFlashStore(cookieName string, secure bool) *FlashStore {
	return &FlashStore{
		cookieName: cookieName,
		secure:     secure,
		pending:    cache.New(5*time.Minute, 10*time.Minute),
	}
}

const flashIDKey = "flash_id"

func (s *FlashStore) clientID(c *gin.Context) string {
	if id := c.GetString(flashIDKey); id != "" {
		return id
	}
	if id, err := c.Cookie(s.cookieName); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	id := uuid.NewString()
	c.Set(flashIDKey, id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookieName, id, 0, "/", "", s.secure, true)
	return id
}

// Add queues a notice for the requesting browser.
func (s *FlashStore) Add(c *gin.Context, category, message string) {
	id := s.clientID(c)
	var list []Flash
	if v, ok := s.pending.Get(id); ok {
		list = v.([]Flash)
	}
	list = append(list, Flash{Category: category, Message: message})
	s.pending.SetDefault(id, list)
}

// Pop returns and clears the requesting browser's pending notices.
func (s *FlashStore) Pop(c *gin.Context) []Flash {
	id := c.GetString(flashIDKey)
	if id == "" {
		var err error
		if id, err = c.Cookie(s.cookieName); err != nil {
			return nil
		}
	}
	v, ok := s.pending.Get(id)
	if !ok {
		return nil
	}
	s.pending.Delete(id)
	return v.([]Flash)
}
