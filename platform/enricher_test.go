// ABOUTME: Tests for profile enrichment over the relationship engine
// ABOUTME: Covers completeness scoring, contact preference and enriched import
package platform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type profileSource map[string]*models.ProfileRecord

func (s profileSource) GetProfile(_ context.Context, id string) (*models.ProfileRecord, error) {
	if p, ok := s[id]; ok {
		return p, nil
	}
	return nil, errors.New("no such profile")
}

func (s profileSource) GetConnections(context.Context, string) ([]models.ConnectionRecord, error) {
	return nil, nil
}

func fullProfile() *models.ProfileRecord {
	return &models.ProfileRecord{
		ID:             "p1",
		FullName:       "Ada Park",
		Headline:       "VP Engineering at Initech",
		CurrentTitle:   "VP Engineering",
		CurrentCompany: "Initech",
		Industry:       "Manufacturing",
		Location:       "Austin, TX",
		Summary:        "Builds distributed systems teams and loves mentoring new engineering managers.",
		PictureURL:     "https://example.com/ada.png",
		Experience:     []models.Experience{{}, {}, {}, {}},
		Education:      []models.Education{{School: "UT Austin"}},
		Skills:         []string{"go", "k8s", "sql", "leadership", "hiring"},
	}
}

func TestProfileCompleteness(t *testing.T) {
	assert.Equal(t, 100, ProfileCompleteness(fullProfile()))
	assert.Equal(t, 0, ProfileCompleteness(nil))

	partial := &models.ProfileRecord{CurrentCompany: "Initech", Headline: "short", Experience: []models.Experience{{}}}
	assert.Equal(t, 25, ProfileCompleteness(partial))
}

func TestPreferredContact(t *testing.T) {
	tech := &models.ProfileRecord{Industry: "Enterprise Software"}
	assert.Equal(t, ContactPlatform, PreferredContact(tech, models.ConnectionRecord{RelationshipStrength: 0.9, Email: "a@b.c"}))

	other := &models.ProfileRecord{Industry: "Retail", Email: "a@b.c"}
	assert.Equal(t, ContactEmail, PreferredContact(other, models.ConnectionRecord{RelationshipStrength: 0.8}))
	assert.Equal(t, ContactPlatform, PreferredContact(other, models.ConnectionRecord{RelationshipStrength: 0.5}))
	assert.Equal(t, ContactPlatform, PreferredContact(nil, models.ConnectionRecord{RelationshipStrength: 0.9}))
}

func TestEnrichedStrength(t *testing.T) {
	assert.InDelta(t, 0.6, EnrichedStrength(0.5, 100), 1e-9)
	assert.Equal(t, 1.0, EnrichedStrength(0.97, 80))
}

func TestImportEnriched(t *testing.T) {
	src := profileSource{"p1": fullProfile()}
	engine := network.New("me", network.WithClock(func() time.Time { return now }))
	en := New(engine, src).WithClock(func() time.Time { return now })

	conns := []models.ConnectionRecord{
		{ID: "c1", ProfileID: "p1", FullName: "A. Park", RelationshipStrength: 0.5},
		{ID: "c2", ProfileID: "p2", FullName: "Ben Cho", RelationshipStrength: 0.5},
	}
	res := en.ImportEnriched(context.Background(), models.ProfileRecord{ID: "me", FullName: "Morgan"}, conns, network.DefaultImportOptions())

	assert.Equal(t, 3, res.Import.NodesImported)
	require.Len(t, res.Import.Errors, 1)
	assert.Contains(t, res.Import.Errors[0], "p2")

	node, ok := engine.Store().Node("c1")
	require.True(t, ok)
	assert.Equal(t, "Ada Park", node.DisplayName)
	assert.Equal(t, "Initech", node.Company)
	assert.Equal(t, "VP Engineering", node.Title)

	// Base 0.2 plus the full completeness boost.
	edge, ok := engine.Store().EdgeBetween("me", "c1")
	require.True(t, ok)
	assert.InDelta(t, 0.3, edge.Strength, 1e-9)

	require.Len(t, res.Insights, 2)
	assert.Equal(t, 100, res.Insights[0].ProfileCompleteness)
	assert.InDelta(t, 0.3, res.Insights[0].EnrichedStrength, 1e-9)
	assert.InDelta(t, 0.5, res.Insights[0].ResponseRate, 1e-9)
	assert.Equal(t, 0, res.Insights[1].ProfileCompleteness)
}
