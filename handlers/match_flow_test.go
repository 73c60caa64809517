package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"matcharena/models"
	"matcharena/services"
	"matcharena/store"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Session{}, &models.Match{}, &models.Seat{},
	))

	gw := store.NewGateway(db)
	users := services.NewUserService(db)

	app := fiber.New()
	SetupAuthRoutes(app, users)
	SetupMatchRoutes(app, &MatchHandler{
		Matches: services.NewMatchService(gw),
		Play:    services.NewPlayService(gw),
		Views:   services.NewViewService(gw),
		Feed:    services.NewFeedService(gw),
	}, users)
	SetupAdminRoutes(app, services.NewAdminService(db))
	return app
}

func register(t *testing.T, app *fiber.App, name string) *http.Cookie {
	t.Helper()
	resp := do(t, app, nil, "POST", "/register", map[string]string{
		"username": name,
		"password": "pw",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	for _, ck := range resp.Cookies() {
		if ck.Name == "session" {
			return ck
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func do(t *testing.T, app *fiber.App, session *http.Cookie, method, path string, payload interface{}) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.AddCookie(session)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	app := newTestApp(t)
	resp := do(t, app, nil, "GET", "/s/matches", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestFullMatchFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	alice := register(t, app, "alice")
	bob := register(t, app, "bob")

	// Alice opens a play-to-1 match.
	resp := do(t, app, alice, "POST", "/s/matches", map[string]int{"capacity": 2, "goal": 1})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, resp, &created)
	require.NotEmpty(t, created.ID)

	// Bob sees it in his joinable list.
	resp = do(t, app, bob, "GET", "/s/matches", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var lists struct {
		Mine     []MatchSummary `json:"mine"`
		Joinable []MatchSummary `json:"joinable"`
	}
	decode(t, resp, &lists)
	assert.Empty(t, lists.Mine)
	require.Len(t, lists.Joinable, 1)
	assert.Equal(t, created.ID, lists.Joinable[0].ID)

	resp = do(t, app, bob, "POST", "/s/matches/"+created.ID+"/join", nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	// Track the staleness marker across alice's move.
	resp = do(t, app, bob, "GET", "/s/matches/"+created.ID+"/updated", nil)
	var marker struct {
		LastModified int64 `json:"last_modified"`
	}
	decode(t, resp, &marker)
	before := marker.LastModified

	resp = do(t, app, alice, "POST", "/s/matches/"+created.ID+"/moves", map[string]string{"move": "r"})
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = do(t, app, bob, "GET", "/s/matches/"+created.ID+"/updated", nil)
	decode(t, resp, &marker)
	assert.Greater(t, marker.LastModified, before)

	// Bob's view hides alice's pending move.
	resp = do(t, app, bob, "GET", "/s/matches/"+created.ID, nil)
	var view services.MatchView
	decode(t, resp, &view)
	assert.True(t, view.YourTurn)
	require.Len(t, view.Turns, 1)
	assert.True(t, view.Turns[0].Slots[0].Hidden)
	assert.Empty(t, view.Turns[0].Slots[0].Move)

	// Bob answers and loses; goal 1 finishes the match.
	resp = do(t, app, bob, "POST", "/s/matches/"+created.ID+"/moves", map[string]string{"move": "s"})
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = do(t, app, bob, "GET", "/s/matches/"+created.ID, nil)
	decode(t, resp, &view)
	assert.Equal(t, models.StateFinished, view.State)
	require.Len(t, view.Seats, 2)
	assert.Equal(t, 1, view.Seats[0].Score)
	assert.Equal(t, "Rock", view.Turns[0].Slots[0].Move)
	assert.True(t, view.Turns[0].Slots[0].Winner)
}

func TestLogoutEndsSession(t *testing.T) {
	app := newTestApp(t)
	alice := register(t, app, "alice")

	resp := do(t, app, alice, "POST", "/logout", nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = do(t, app, alice, "GET", "/s/matches", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
