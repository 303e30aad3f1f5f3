// ABOUTME: Tests for graph rendering and the ASCII dashboard
// ABOUTME: Checks DOT output content and dashboard ranking text
package viz

import (
	"strings"
	"testing"
	"time"

	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/network"
	"github.com/harperreed/sherpa/urgency"
	"github.com/harperreed/sherpa/warmintro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC)

func TestGenerateNetworkGraph(t *testing.T) {
	engine := network.New("me", network.WithClock(func() time.Time { return now }))
	engine.Load(
		[]models.Node{
			{ID: "me", Kind: models.NodeSelf, DisplayName: "Morgan"},
			{ID: "c1", Kind: models.NodeConnection, DisplayName: "Ada Park"},
			{ID: "t1", Kind: models.NodeExternalContact, DisplayName: "Target Person", IsTarget: true},
		},
		[]models.Edge{
			{SourceID: "me", TargetID: "c1", Kind: models.KindColleague, Strength: 0.9, Verified: true},
			{SourceID: "c1", TargetID: "t1", Kind: models.KindFriend, Strength: 0.4},
		},
	)

	dot, err := GenerateNetworkGraph(engine.ExportForVisualization())
	require.NoError(t, err)
	assert.Contains(t, dot, "digraph")
	assert.Contains(t, dot, "Ada Park")
	assert.Contains(t, dot, "Target Person")
	assert.Contains(t, dot, "colleague")
	assert.Contains(t, dot, "lightcoral")
}

func TestGeneratePathGraph(t *testing.T) {
	path := &models.PathResult{
		TargetName: "Target Person",
		Degree:     2,
		Confidence: 0.5,
		Path: []models.PathHop{
			{NodeID: "me", Name: "Morgan"},
			{NodeID: "c1", Name: "Ada Park", Company: "Initech", Kind: models.KindColleague, Strength: 0.9, Verified: true},
			{NodeID: "t1", Name: "Target Person", Kind: models.KindFriend, Strength: 0.4},
		},
	}
	dot, err := GeneratePathGraph(path)
	require.NoError(t, err)
	assert.Contains(t, dot, "Initech")
	assert.Contains(t, dot, "dashed")

	_, err = GeneratePathGraph(nil)
	assert.Error(t, err)
}

func TestDashboard(t *testing.T) {
	recent := now.Add(-24 * time.Hour)
	accounts := []models.Account{
		{ID: "a1", Name: "Initech", LastActivityAt: &recent, Contacts: []models.Contact{{ID: "k1"}}},
		{ID: "a2", Name: "Globex", Alerts: []models.Alert{{Type: models.AlertFunding}}},
		{ID: "a3", Name: "Umbrella"},
	}
	scores := map[string]*urgency.Breakdown{
		"a1": {AccountID: "a1", Overall: 62, Factors: []urgency.Factor{{Name: "Active Engagement", Points: 30}}},
		"a2": {AccountID: "a2", Overall: 91},
	}
	intros := &warmintro.Stats{WarmPathways: 3, TotalConnections: 10, AverageConfidence: 0.55}

	stats := GenerateDashboardStats(accounts, scores, intros, now, 0)
	assert.Equal(t, 3, stats.TotalAccounts)
	assert.Equal(t, 1, stats.Unscored)
	assert.Len(t, stats.StaleAccounts, 2)
	require.Len(t, stats.Top, 2)
	assert.Equal(t, "Globex", stats.Top[0].Name)
	assert.Equal(t, "HOT", stats.Top[0].Label)
	assert.Equal(t, "Active Engagement", stats.Top[1].TopFactor)
	assert.Equal(t, 1, stats.ByPriority["DEVELOPING"])

	out := RenderDashboard(stats)
	assert.Contains(t, out, "SHERPA ACCOUNT DASHBOARD")
	assert.Less(t, strings.Index(out, "Globex"), strings.Index(out, "Initech"))
	assert.Contains(t, out, "3 pathways across 10 connections (avg confidence 55%)")
	assert.Contains(t, out, "1 accounts - not yet scored")
}

func TestDashboardLimit(t *testing.T) {
	var accounts []models.Account
	scores := map[string]*urgency.Breakdown{}
	for _, id := range []string{"a", "b", "c"} {
		accounts = append(accounts, models.Account{ID: id, Name: id})
		scores[id] = &urgency.Breakdown{Overall: 50}
	}
	stats := GenerateDashboardStats(accounts, scores, nil, now, 2)
	require.Len(t, stats.Top, 2)
	assert.Equal(t, "a", stats.Top[0].ID)
	assert.NotContains(t, RenderDashboard(stats), "WARM INTROS")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
