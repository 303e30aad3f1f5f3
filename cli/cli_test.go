// ABOUTME: Tests for CLI commands against a temporary database
// ABOUTME: Seeds a dataset then exercises account, network, intro, recommend and viz commands
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/sherpa/config"
	"github.com/harperreed/sherpa/db"
	"github.com/harperreed/sherpa/interactions"
	"github.com/harperreed/sherpa/loader"
	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func setupTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.DatabasePath = filepath.Join(dir, "sherpa.db")
	cfg.CacheDir = ""
	cfg.DataDir = filepath.Join(dir, "data")

	store, err := db.Open(cfg.DatabasePath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	app, err := NewApp(cfg, store)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	app.Out = out
	app.Now = func() time.Time { return fixedNow }
	return app, out
}

func seedApp(t *testing.T, app *App, out *bytes.Buffer, extra ...string) {
	t.Helper()
	args := append([]string{"--seed", "3", "--accounts", "6", "--connections", "15", "--second-degree", "2"}, extra...)
	require.NoError(t, SeedCommand(context.Background(), app, args))
	require.Contains(t, out.String(), "✓ Seeded 6 accounts and 15 connections")
	out.Reset()
}

func TestSeedWritesFiles(t *testing.T) {
	app, out := setupTestApp(t)
	dir := t.TempDir()
	seedApp(t, app, out, "--out", dir)

	for _, name := range []string{loader.AccountsFile, loader.ConnectionsFile, NetworkSnapshotFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	scores, err := app.Store.LoadUrgencyScores(context.Background())
	require.NoError(t, err)
	assert.Len(t, scores, 6)
}

func TestAccountsCommands(t *testing.T) {
	app, out := setupTestApp(t)
	ctx := context.Background()
	seedApp(t, app, out)

	require.NoError(t, AccountsListCommand(ctx, app, nil))
	assert.Contains(t, out.String(), "SCORE")
	assert.Contains(t, out.String(), "Showing 6 of 6 accounts")
	out.Reset()

	require.NoError(t, AccountsListCommand(ctx, app, []string{"--limit", "2"}))
	assert.Contains(t, out.String(), "Showing 2 of 6 accounts")
	out.Reset()

	require.NoError(t, AccountsPriorityCommand(ctx, app, []string{"acct-001"}))
	assert.Contains(t, out.String(), "/100")
	assert.Contains(t, out.String(), "Relationship")
	out.Reset()

	require.NoError(t, AccountsScoreCommand(ctx, app, nil))
	assert.Contains(t, out.String(), "✓ Scored 6 accounts")
	out.Reset()

	require.NoError(t, AccountsDeleteCommand(ctx, app, []string{"acct-001"}))
	_, err := app.Store.GetAccount(ctx, "acct-001")
	assert.ErrorIs(t, err, db.ErrAccountNotFound)

	assert.Error(t, AccountsPriorityCommand(ctx, app, nil))
	assert.Error(t, AccountsDeleteCommand(ctx, app, []string{"acct-001"}))
}

func TestAccountsImportFromDirectory(t *testing.T) {
	app, out := setupTestApp(t)
	ctx := context.Background()

	dir := t.TempDir()
	require.NoError(t, loader.WriteDataset(dir,
		[]models.Account{{ID: "a1", Name: "Initech"}, {ID: "a2", Name: "Globex"}},
		[]models.Connection{{ID: "c1", FullName: "Ada Park", Company: "Initech"}},
	))

	require.NoError(t, AccountsImportCommand(ctx, app, []string{"--dir", dir}))
	assert.Contains(t, out.String(), "✓ Imported 2 accounts and 1 connections")

	conns, err := app.Store.LoadConnections(ctx)
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, "Ada Park", conns[0].FullName)
}

func TestAccountsImportKeepsValidRecords(t *testing.T) {
	app, out := setupTestApp(t)
	ctx := context.Background()

	dir := t.TempDir()
	require.NoError(t, loader.WriteDataset(dir,
		[]models.Account{{ID: "a1", Name: "Initech"}, {Name: "No ID"}, {ID: "a3", Name: "Hooli"}},
		[]models.Connection{{ID: "c1", FullName: "Ada Park"}, {ID: "c2"}},
	))

	require.NoError(t, AccountsImportCommand(ctx, app, []string{"--dir", dir}))
	assert.Contains(t, out.String(), "✓ Imported 2 accounts and 1 connections")
	assert.Contains(t, out.String(), "! skipped account 1:")
	assert.Contains(t, out.String(), "! skipped connection 1:")

	accounts, err := app.Store.LoadAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestNetworkCommands(t *testing.T) {
	app, out := setupTestApp(t)
	ctx := context.Background()
	seedApp(t, app, out)

	require.NoError(t, NetworkStatsCommand(ctx, app, []string{"--json"}))
	var stats network.NetworkStats
	require.NoError(t, json.Unmarshal(out.Bytes(), &stats))
	assert.Equal(t, 15, stats.DirectConnections)
	assert.Positive(t, stats.SecondDegree)
	out.Reset()

	require.NoError(t, NetworkReachableCommand(ctx, app, nil))
	assert.Contains(t, out.String(), "1° (15)")
	assert.Contains(t, out.String(), "2° (")
	out.Reset()

	require.NoError(t, NetworkExportCommand(ctx, app, []string{"--format", "dot"}))
	assert.Contains(t, out.String(), "digraph")
	out.Reset()

	dotFile := filepath.Join(t.TempDir(), "network.dot")
	require.NoError(t, VizNetworkCommand(ctx, app, []string{"--output", dotFile}))
	data, err := os.ReadFile(dotFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")
	out.Reset()

	assert.Error(t, NetworkExportCommand(ctx, app, []string{"--format", "png"}))
	assert.Error(t, NetworkPathCommand(ctx, app, nil))

	require.NoError(t, NetworkPathCommand(ctx, app, []string{"nobody"}))
	assert.Contains(t, out.String(), "No path to nobody")
	out.Reset()

	require.NoError(t, NetworkPathCommand(ctx, app, []string{"conn-001"}))
	assert.Contains(t, out.String(), "Path to")
	assert.Contains(t, out.String(), "1°")
	out.Reset()

	assert.Error(t, NetworkOpportunitiesCommand(ctx, app, nil))
	require.NoError(t, NetworkOpportunitiesCommand(ctx, app, []string{"nobody"}))
	assert.Contains(t, out.String(), "No introduction opportunity for nobody")
	out.Reset()

	require.NoError(t, NetworkOpportunitiesCommand(ctx, app, []string{"--weak", "conn-001"}))
	assert.Contains(t, out.String(), "Introduction to")
	assert.Contains(t, out.String(), "Suggested approach:")
	assert.Contains(t, out.String(), "Best time:")
}

func TestNetworkImportFromSnapshot(t *testing.T) {
	seeded, out := setupTestApp(t)
	dir := t.TempDir()
	seedApp(t, seeded, out, "--out", dir)

	app, out := setupTestApp(t)
	ctx := context.Background()

	assert.Error(t, NetworkImportCommand(ctx, app, nil))

	snapshot := filepath.Join(dir, NetworkSnapshotFile)
	require.NoError(t, NetworkImportCommand(ctx, app, []string{"--from", snapshot, "--second-degree"}))
	assert.Contains(t, out.String(), "✓ Imported")
	assert.Contains(t, out.String(), "file:"+NetworkSnapshotFile)
	assert.Contains(t, out.String(), "Second-degree nodes:")
	out.Reset()

	nodes, edges, err := app.Store.LoadNetwork(ctx, app.Config.OwnerID)
	require.NoError(t, err)
	assert.Greater(t, len(nodes), 16)
	assert.NotEmpty(t, edges)
}

func TestIntrosAndRecommend(t *testing.T) {
	app, out := setupTestApp(t)
	ctx := context.Background()
	seedApp(t, app, out)

	require.NoError(t, IntrosStatsCommand(ctx, app, nil))
	assert.Contains(t, out.String(), "Warm pathways:")
	assert.Contains(t, out.String(), "Connections:          15")
	out.Reset()

	require.NoError(t, IntrosFindCommand(ctx, app, []string{"--json"}))
	assert.True(t, json.Valid(out.Bytes()))
	out.Reset()

	require.NoError(t, RecommendCommand(ctx, app, []string{"acct-001"}))
	assert.Contains(t, out.String(), "urgency")
	out.Reset()

	assert.Error(t, RecommendCommand(ctx, app, nil))
	assert.Error(t, RecommendCommand(ctx, app, []string{"missing"}))
}

func TestDashboardAndTUIFallback(t *testing.T) {
	app, out := setupTestApp(t)
	ctx := context.Background()
	seedApp(t, app, out)

	require.NoError(t, VizDashboardCommand(ctx, app, nil))
	assert.Contains(t, out.String(), "SHERPA ACCOUNT DASHBOARD")
	assert.Contains(t, out.String(), "WARM INTROS")
	out.Reset()

	// Test binaries do not run with a terminal on stdout.
	require.NoError(t, TUICommand(ctx, app, nil))
	assert.Contains(t, out.String(), "SHERPA ACCOUNT DASHBOARD")
}

func TestWorkspaceLoadsEverything(t *testing.T) {
	app, out := setupTestApp(t)
	seedApp(t, app, out)

	ws, err := app.workspace(context.Background())
	require.NoError(t, err)
	assert.Len(t, ws.Accounts, 6)
	assert.Equal(t, 15, ws.Engine.GetNetworkStats().DirectConnections)
	assert.NotNil(t, ws.Matcher)
	assert.NotNil(t, ws.Recommender)
}

type staticEvents []interactions.Event

func (s staticEvents) ListEvents(context.Context, time.Time, string) (interactions.EventPage, error) {
	return interactions.EventPage{Events: s}, nil
}

func TestSyncCalendar(t *testing.T) {
	app, out := setupTestApp(t)
	ctx := context.Background()
	seedApp(t, app, out)

	account, err := app.Store.GetAccount(ctx, "acct-001")
	require.NoError(t, err)
	require.NotEmpty(t, account.Contacts)
	contact := account.Contacts[0]

	events := staticEvents{
		{
			ID:      "evt-1",
			Summary: "Quarterly review",
			Status:  "confirmed",
			Start:   fixedNow.AddDate(0, 0, -2),
			Attendees: []interactions.Attendee{
				{Email: "rep@sherpa.dev", Self: true},
				{Email: contact.Email, ResponseStatus: "accepted"},
			},
		},
		{ID: "evt-2", AllDay: true, Start: fixedNow},
	}
	require.NoError(t, syncCalendar(ctx, app, events, 30))
	assert.Contains(t, out.String(), "✓ Fetched 2 events")
	assert.Contains(t, out.String(), "Skipped 1 all-day event")

	account, err = app.Store.GetAccount(ctx, "acct-001")
	require.NoError(t, err)
	found := false
	for _, act := range account.Activities {
		if act.ID == "cal-evt-1" {
			found = true
			assert.Equal(t, interactions.ActivityMeeting, act.Type)
		}
	}
	assert.True(t, found)
}
