package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"rental-schedule-backend/config"
	"rental-schedule-backend/internal/db"
	"rental-schedule-backend/internal/model"
	"rental-schedule-backend/internal/mw"
	"rental-schedule-backend/internal/session"
	"rental-schedule-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testClient struct {
	t       *testing.T
	router  *gin.Engine
	store   store.Store
	cache   *mw.ResponseCache
	cookies map[string]*http.Cookie
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	name := regexp.MustCompile(`\W`).ReplaceAllString(t.Name(), "_")
	gormDB, err := db.Init(&config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      fmt.Sprintf("file:api_%s?mode=memory&cache=shared", name),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	t.Cleanup(func() { sqlDB.Close() })

	s := store.NewGormStore(gormDB)
	sessions := session.NewManager(
		config.SessionConfig{Secret: "test-secret", TTL: time.Hour, CookieName: "sess"},
		config.AdminConfig{Username: "admin", Password: "hunter2"},
	)
	responses := mw.NewResponseCache(time.Minute)
	h := NewHandler(s, sessions, responses, Options{BrandName: "Test Rentals", Locale: "en-US", Currency: "THB"})

	return &testClient{
		t:       t,
		router:  h.Routes(mw.NewIPRateLimiter(rate.Inf, 1), responses),
		store:   s,
		cache:   responses,
		cookies: map[string]*http.Cookie{},
	}
}

func (tc *testClient) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	tc.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range tc.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	tc.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(tc.cookies, c.Name)
			continue
		}
		tc.cookies[c.Name] = c
	}
	return w
}

func (tc *testClient) login() {
	tc.t.Helper()
	w := tc.do(http.MethodPost, "/login", url.Values{"username": {" admin "}, "password": {"hunter2"}})
	require.Equal(tc.t, http.StatusFound, w.Code)
	require.Equal(tc.t, "/schedule", w.Header().Get("Location"))
	require.Contains(tc.t, tc.cookies, "sess")
}

func (tc *testClient) machine(name string, active bool) *model.Machine {
	tc.t.Helper()
	ctx := context.Background()
	m := &model.Machine{Name: name, Spec: name + " spec", IsActive: true, RateHour: decimal.NewFromInt(60), RateDay: decimal.NewFromInt(450)}
	require.NoError(tc.t, tc.store.CreateMachine(ctx, m))
	if !active {
		m.IsActive = false
		require.NoError(tc.t, tc.store.UpdateMachine(ctx, m))
	}
	return m
}

func bookingForm(machineID int64, day, start, end string) url.Values {
	return url.Values{
		"computer_id": {fmt.Sprint(machineID)},
		"customer":    {"alice"},
		"day":         {day},
		"start_time":  {start},
		"end_time":    {end},
	}
}

func TestHome_RedirectsToSchedule(t *testing.T) {
	tc := newTestClient(t)
	w := tc.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/schedule", w.Header().Get("Location"))
}

func TestSchedule_RendersActiveMachines(t *testing.T) {
	tc := newTestClient(t)
	tc.machine("Visible Rig", true)
	tc.machine("Hidden Rig", false)

	w := tc.do(http.MethodGet, "/schedule?date=2025-03-14", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Test Rentals")
	assert.Contains(t, body, "Schedule for 2025-03-14")
	assert.Contains(t, body, "Visible Rig")
	assert.NotContains(t, body, "Hidden Rig")
	assert.Contains(t, body, "2025-03-13")
	assert.Contains(t, body, "2025-03-15")
}

func TestSchedule_InvalidDateFallsBackToToday(t *testing.T) {
	tc := newTestClient(t)
	w := tc.do(http.MethodGet, "/schedule?date=not-a-date", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Invalid date, showing today instead.")
	assert.Contains(t, body, "Schedule for "+time.Now().Format(model.DateLayout))
}

func TestSchedule_PartialIsCachedUntilWrite(t *testing.T) {
	tc := newTestClient(t)
	m := tc.machine("Rig", true)

	w := tc.do(http.MethodGet, "/schedule?date=2025-03-14&partial=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<html")
	assert.Empty(t, w.Header().Get("X-Cache"))

	w = tc.do(http.MethodGet, "/schedule?date=2025-03-14&partial=1", nil)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	tc.login()
	w = tc.do(http.MethodPost, "/booking/new", bookingForm(m.ID, "2025-03-14", "10:00", "12:00"))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 0, tc.cache.Len())

	w = tc.do(http.MethodGet, "/schedule?date=2025-03-14&partial=1", nil)
	assert.Empty(t, w.Header().Get("X-Cache"))
	assert.Contains(t, w.Body.String(), "alice")
}

func TestAdminRoutes_RedirectToLogin(t *testing.T) {
	tc := newTestClient(t)
	m := tc.machine("Rig", true)

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/computer/new"},
		{http.MethodPost, "/computer/new"},
		{http.MethodGet, fmt.Sprintf("/computer/%d/edit", m.ID)},
		{http.MethodPost, fmt.Sprintf("/computer/%d/delete", m.ID)},
		{http.MethodPost, fmt.Sprintf("/computer/%d/deactivate", m.ID)},
		{http.MethodGet, "/booking/new"},
		{http.MethodPost, "/booking/new"},
		{http.MethodPost, "/booking/1/delete"},
	} {
		w := tc.do(tt.method, tt.path, nil)
		assert.Equal(t, http.StatusFound, w.Code, tt.path)
		assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login?next="), tt.path)
	}

	got, err := tc.store.GetMachine(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestLogin_FailureAndNext(t *testing.T) {
	tc := newTestClient(t)

	w := tc.do(http.MethodPost, "/login?next=%2Fbooking%2Fnew", url.Values{"username": {"admin"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fbooking%2Fnew", w.Header().Get("Location"))
	assert.NotContains(t, tc.cookies, "sess")

	w = tc.do(http.MethodGet, "/login?next=%2Fbooking%2Fnew", nil)
	assert.Contains(t, w.Body.String(), "Invalid username or password.")

	w = tc.do(http.MethodPost, "/login?next=%2Fbooking%2Fnew", url.Values{"username": {"admin"}, "password": {"hunter2"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/booking/new", w.Header().Get("Location"))

	w = tc.do(http.MethodGet, "/logout", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.NotContains(t, tc.cookies, "sess")
	w = tc.do(http.MethodGet, "/booking/new", nil)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                       "/schedule",
		"/booking/new":           "/booking/new",
		"/schedule?date=2025-01": "/schedule?date=2025-01",
		"//evil.example":         "/schedule",
		"/\\evil.example":        "/schedule",
		"https://evil.example":   "/schedule",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeNext(in), in)
	}
}

func TestBooking_CreateConflictAndDelete(t *testing.T) {
	tc := newTestClient(t)
	m := tc.machine("Rig", true)
	tc.login()

	w := tc.do(http.MethodPost, "/booking/new", bookingForm(m.ID, "2025-03-14", "10:00", "12:00"))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/schedule?date=2025-03-14", w.Header().Get("Location"))

	w = tc.do(http.MethodPost, "/booking/new", bookingForm(m.ID, "2025-03-14", "11:00", "13:00"))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/booking/new?date=2025-03-14", w.Header().Get("Location"))
	w = tc.do(http.MethodGet, "/booking/new?date=2025-03-14", nil)
	assert.Contains(t, w.Body.String(), "This time slot is already booked.")

	w = tc.do(http.MethodPost, "/booking/new", bookingForm(m.ID, "2025-03-14", "14:00", "13:00"))
	require.Equal(t, http.StatusFound, w.Code)
	w = tc.do(http.MethodGet, "/schedule?date=2025-03-14", nil)
	assert.Contains(t, w.Body.String(), "Invalid time")

	ctx := context.Background()
	bookings, err := tc.store.ListBookingsByMachine(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	w = tc.do(http.MethodPost, fmt.Sprintf("/booking/%d/delete", bookings[0].ID), nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/schedule?date=2025-03-14", w.Header().Get("Location"))

	bookings, err = tc.store.ListBookingsByMachine(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	w = tc.do(http.MethodPost, "/booking/999/delete", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	w = tc.do(http.MethodGet, "/schedule", nil)
	assert.Contains(t, w.Body.String(), "The requested record does not exist.")
}

func TestMachine_Lifecycle(t *testing.T) {
	tc := newTestClient(t)
	tc.login()
	ctx := context.Background()

	w := tc.do(http.MethodPost, "/computer/new", url.Values{"name": {"Rig"}, "spec": {"fast"}, "rate_hour": {"abc"}, "rate_day": {"10"}})
	assert.Equal(t, "/computer/new", w.Header().Get("Location"))
	n, err := tc.store.CountMachines(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	w = tc.do(http.MethodPost, "/computer/new", url.Values{"name": {"Rig"}, "spec": {"fast"}, "rate_hour": {"60"}, "rate_day": {"450.5"}})
	assert.Equal(t, "/price", w.Header().Get("Location"))
	machines, err := tc.store.ListMachines(ctx, false)
	require.NoError(t, err)
	require.Len(t, machines, 1)
	m := machines[0]
	assert.True(t, m.IsActive)

	w = tc.do(http.MethodGet, "/price", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rig")
	assert.Contains(t, w.Body.String(), "450.5")

	w = tc.do(http.MethodGet, fmt.Sprintf("/computer/%d/edit", m.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="450.50"`)

	w = tc.do(http.MethodPost, "/booking/new", bookingForm(m.ID, "2025-03-14", "10:00", "12:00"))
	require.Equal(t, "/schedule?date=2025-03-14", w.Header().Get("Location"))

	w = tc.do(http.MethodPost, fmt.Sprintf("/computer/%d/deactivate", m.ID), nil)
	assert.Equal(t, "/price", w.Header().Get("Location"))
	w = tc.do(http.MethodGet, "/schedule?date=2025-03-14", nil)
	assert.NotContains(t, w.Body.String(), "alice")
	w = tc.do(http.MethodGet, "/booking/new", nil)
	assert.Contains(t, w.Body.String(), "No active machines can be booked.")

	w = tc.do(http.MethodPost, fmt.Sprintf("/computer/%d/edit", m.ID), url.Values{"name": {"Rig 2"}, "spec": {"faster"}, "rate_hour": {"70"}, "rate_day": {"500"}, "is_active": {"1"}})
	assert.Equal(t, "/price", w.Header().Get("Location"))
	w = tc.do(http.MethodGet, "/schedule?date=2025-03-14", nil)
	assert.Contains(t, w.Body.String(), "Rig 2")
	assert.Contains(t, w.Body.String(), "alice")

	w = tc.do(http.MethodPost, fmt.Sprintf("/computer/%d/delete", m.ID), nil)
	assert.Equal(t, "/price", w.Header().Get("Location"))
	_, err = tc.store.GetMachine(ctx, m.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	bookings, err := tc.store.ListBookingsByMachine(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	w = tc.do(http.MethodGet, "/computer/abc/edit", nil)
	assert.Equal(t, "/price", w.Header().Get("Location"))
}

func TestJSON_MachinesAndSchedule(t *testing.T) {
	tc := newTestClient(t)
	m := tc.machine("Rig", true)
	start := time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local)
	require.NoError(t, tc.store.CreateBooking(context.Background(), &model.Booking{
		MachineID: m.ID, Customer: "bob", StartAt: start, EndAt: start.Add(2 * time.Hour),
	}))

	w := tc.do(http.MethodGet, "/api/machines", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var machines []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &machines))
	require.Len(t, machines, 1)
	assert.Equal(t, "Rig", machines[0]["name"])
	assert.Equal(t, true, machines[0]["isActive"])

	w = tc.do(http.MethodGet, "/api/schedule?date=2025-03-14", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Date string `json:"date"`
		Grid struct {
			Rows []struct {
				Cells []struct {
					Booking *struct {
						Customer string `json:"customer"`
					} `json:"booking"`
				} `json:"cells"`
			} `json:"rows"`
		} `json:"grid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2025-03-14", resp.Date)
	require.Len(t, resp.Grid.Rows, 1)
	require.Len(t, resp.Grid.Rows[0].Cells, 24)
	booked := 0
	for _, cell := range resp.Grid.Rows[0].Cells {
		if cell.Booking != nil {
			booked++
		}
	}
	assert.Equal(t, 2, booked)

	w = tc.do(http.MethodGet, "/api/schedule?date=14-03-2025", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid 'date' format. Use YYYY-MM-DD."}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	tc := newTestClient(t)
	w := tc.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rental_bookings_created_total")
}
