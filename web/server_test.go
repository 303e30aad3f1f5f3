// ABOUTME: Tests for the web dashboard and JSON API
// ABOUTME: Exercises routes through httptest against a small in-memory workspace
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harperreed/sherpa/handlers"
	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/network"
	"github.com/harperreed/sherpa/recommend"
	"github.com/harperreed/sherpa/urgency"
	"github.com/harperreed/sherpa/warmintro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func testWorkspace() *handlers.Workspace {
	accounts := []models.Account{
		{
			ID:       "acct-1",
			Name:     "Initech",
			Industry: "Manufacturing",
			Contacts: []models.Contact{{ID: "t1", Name: "Kim Lee", Title: "CTO"}},
			Alerts: []models.Alert{
				{ID: "al-1", Type: models.AlertFunding, Urgency: models.UrgencyHigh, Title: "Series C raised", CreatedAt: now.AddDate(0, 0, -3)},
			},
		},
		{ID: "acct-2", Name: "Globex", Industry: "Retail"},
	}

	engine := network.New("me", network.WithClock(clock))
	engine.Load(
		[]models.Node{
			{ID: "me", Kind: models.NodeSelf, DisplayName: "Morgan Owner"},
			{ID: "c1", Kind: models.NodeConnection, DisplayName: "Ada Park", Company: "Initech"},
			{ID: "t1", Kind: models.NodeExternalContact, DisplayName: "Kim Lee", Company: "Initech", IsTarget: true},
		},
		[]models.Edge{
			{SourceID: "me", TargetID: "c1", Kind: models.KindColleague, Strength: 0.9},
			{SourceID: "c1", TargetID: "t1", Kind: models.KindColleague, Strength: 0.8},
		},
	)

	matcher := warmintro.New(warmintro.WithClock(clock))
	matcher.Load(accounts, []models.Connection{
		{ID: "conn-1", FullName: "Ada Park", Company: "Initech", RelationshipStrength: models.StrengthWarm},
	})

	return &handlers.Workspace{
		Engine:      engine,
		Urgency:     urgency.New(),
		Matcher:     matcher,
		Recommender: recommend.New(),
		Accounts:    accounts,
		Now:         clock,
	}
}

func setupTestServer(t *testing.T, ws *handlers.Workspace) http.Handler {
	t.Helper()
	s, err := NewServer(ws)
	require.NoError(t, err)
	return s.Handler()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestDashboard(t *testing.T) {
	h := setupTestServer(t, testWorkspace())

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Dashboard - sherpa</title>")
	assert.Contains(t, body, `<a href="/accounts/acct-1">Initech</a>`)
	assert.Contains(t, body, "Ada Park")

	assert.Equal(t, http.StatusNotFound, get(t, h, "/missing").Code)
}

func TestAccountPage(t *testing.T) {
	h := setupTestServer(t, testWorkspace())

	rec := get(t, h, "/accounts/acct-1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Initech</h1>")
	assert.Contains(t, body, "Urgency")
	assert.Contains(t, body, "Next actions")
	assert.Contains(t, body, "Ada Park")

	assert.Equal(t, http.StatusNotFound, get(t, h, "/accounts/nope").Code)
}

func TestNetworkDOT(t *testing.T) {
	h := setupTestServer(t, testWorkspace())

	rec := get(t, h, "/network.dot")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/vnd.graphviz")
	assert.Contains(t, rec.Body.String(), "digraph")

	ws := testWorkspace()
	ws.Engine = nil
	assert.Equal(t, http.StatusServiceUnavailable, get(t, setupTestServer(t, ws), "/network.dot").Code)
}

func TestAPIAccounts(t *testing.T) {
	h := setupTestServer(t, testWorkspace())

	rec := get(t, h, "/api/accounts?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var ranked handlers.RankAccountsOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ranked))
	require.Len(t, ranked.Accounts, 1)
	assert.Equal(t, "acct-1", ranked.Accounts[0].AccountID)
	assert.Equal(t, 2, ranked.Scored)

	rec = get(t, h, "/api/accounts/acct-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var score handlers.ScoreOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
	assert.Equal(t, "Initech", score.AccountName)
	assert.Len(t, score.Categories, 6)

	rec = get(t, h, "/api/accounts/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "account not found")
}

func TestAPIRecommendations(t *testing.T) {
	h := setupTestServer(t, testWorkspace())

	rec := get(t, h, "/api/accounts/acct-2/recommendations")
	require.Equal(t, http.StatusOK, rec.Code)
	var out handlers.RecommendActionsOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Recommendations)
	assert.Equal(t, recommend.CategoryResearch, out.Recommendations[0].Category)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/accounts/nope/recommendations").Code)
}

func TestAPIPaths(t *testing.T) {
	h := setupTestServer(t, testWorkspace())

	rec := get(t, h, "/api/paths/t1")
	require.Equal(t, http.StatusOK, rec.Code)
	var out handlers.FindIntroPathOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, out.Found)
	assert.Equal(t, 2, out.Path.Degree)

	rec = get(t, h, "/api/paths/t1?depth=1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.False(t, out.Found)

	ws := testWorkspace()
	ws.Engine = nil
	assert.Equal(t, http.StatusServiceUnavailable, get(t, setupTestServer(t, ws), "/api/paths/t1").Code)
}

func TestAPINetworkAndStats(t *testing.T) {
	h := setupTestServer(t, testWorkspace())

	rec := get(t, h, "/api/network")
	require.Equal(t, http.StatusOK, rec.Code)
	var graph network.VisualGraph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &graph))
	assert.Len(t, graph.Nodes, 3)
	assert.Len(t, graph.Edges, 2)

	rec = get(t, h, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats network.NetworkStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.DirectConnections)
	assert.Equal(t, 1, stats.SecondDegree)
}

func TestAPIIntros(t *testing.T) {
	h := setupTestServer(t, testWorkspace())

	rec := get(t, h, "/api/intros?account=acct-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var out handlers.FindWarmIntrosOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Paths, 1)
	assert.Equal(t, warmintro.PathDirect, out.Paths[0].PathType)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/intros?account=nope").Code)

	ws := testWorkspace()
	ws.Matcher = nil
	assert.Equal(t, http.StatusServiceUnavailable, get(t, setupTestServer(t, ws), "/api/intros").Code)
}

func TestStartStopsOnCancel(t *testing.T) {
	s, err := NewServer(testWorkspace())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
