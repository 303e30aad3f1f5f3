// ABOUTME: Tests for account action recommendations
// ABOUTME: Uses a fixed path lookup to check rules, ordering and generated copy
package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/network"
	"github.com/harperreed/sherpa/textgen"
	"github.com/harperreed/sherpa/urgency"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ PathFinder = (*network.Engine)(nil)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fixedPaths map[string]*models.PathResult

func (f fixedPaths) FindPath(id string) *models.PathResult {
	return f[id]
}

type stubGenerator struct {
	body string
	err  error
}

func (s stubGenerator) GenerateMessage(context.Context, textgen.MessageContext) (*textgen.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &textgen.Message{Subject: "Intro", Body: s.body}, nil
}

func ago(days int) *time.Time {
	t := now.AddDate(0, 0, -days)
	return &t
}

func paths() fixedPaths {
	return fixedPaths{
		"k1": {
			TargetID: "k1", TargetName: "Kim One", Degree: 1, Confidence: 1,
			Path:                  []models.PathHop{{NodeID: "me", Name: "Morgan"}, {NodeID: "k1", Name: "Kim One"}},
			SuggestedIntroMessage: "Direct connection - reach out directly!",
		},
		"k2": {
			TargetID: "k2", TargetName: "Kai Two", Degree: 2, Confidence: 0.5,
			Path: []models.PathHop{
				{NodeID: "me", Name: "Morgan"},
				{NodeID: "bob", Name: "Bob", Company: "Initech", Context: "Worked together"},
				{NodeID: "k2", Name: "Kai Two"},
			},
			SuggestedIntroMessage: "Hi Bob, could you introduce me to Kai Two?",
		},
	}
}

func account() *models.Account {
	return &models.Account{
		ID:   "acct",
		Name: "Acme",
		Contacts: []models.Contact{
			{ID: "k1", Name: "Kim One", Title: "CTO"},
			{ID: "k2", Name: "Kai Two"},
			{ID: "k3", Name: "Kit Three", LastContactedAt: ago(70), Influence: models.Influence{Budget: 80}},
		},
		Alerts: []models.Alert{
			{Type: models.AlertFunding, Urgency: models.UrgencyHigh, Title: "Series C", CreatedAt: *ago(2)},
			{Type: models.AlertCompetitorMention, Urgency: models.UrgencyMedium, CreatedAt: *ago(5)},
			{Type: models.AlertHiring, CreatedAt: *ago(60)},
		},
	}
}

func TestGenerateOrdersByPriorityThenProbability(t *testing.T) {
	recs := New().Generate(context.Background(), account(), &urgency.Breakdown{Overall: 85}, paths(), now)

	require.Len(t, recs, 6)

	assert.Equal(t, "Congratulate Acme on the funding news", recs[0].Action)
	assert.Equal(t, PriorityCritical, recs[0].Priority)
	assert.Equal(t, now.AddDate(0, 0, 2), recs[0].Deadline)

	assert.Equal(t, "Immediate outreach to Acme", recs[1].Action)
	assert.Equal(t, CategoryTiming, recs[1].Category)

	assert.Equal(t, "Reach out directly to Kim One", recs[2].Action)
	assert.InDelta(t, 0.85, recs[2].SuccessProbability, 1e-9)
	assert.Equal(t, "CTO", recs[2].TargetContact.Title)

	assert.Equal(t, CategoryCompetitive, recs[3].Category)

	assert.Equal(t, "Re-engage with Kit Three", recs[4].Action)
	assert.Equal(t, PriorityHigh, recs[4].Priority)
	assert.InDelta(t, 0.3, recs[4].SuccessProbability, 1e-9)

	assert.Equal(t, "Request intro to Kai Two via Bob", recs[5].Action)
	assert.InDelta(t, 0.35, recs[5].SuccessProbability, 1e-9)
	assert.Equal(t, "Hi Bob, could you introduce me to Kai Two?", recs[5].SuggestedMessage)

	seen := map[string]bool{}
	for _, r := range recs {
		_, err := ulid.Parse(r.ID)
		require.NoError(t, err)
		assert.False(t, seen[r.ID])
		seen[r.ID] = true
		assert.Equal(t, "acct", r.AccountID)
	}
}

func TestGenerateRecentActivitySuppressesEngageNow(t *testing.T) {
	a := account()
	a.LastActivityAt = ago(3)
	recs := New().Generate(context.Background(), a, &urgency.Breakdown{Overall: 85}, nil, now)
	for _, r := range recs {
		assert.NotEqual(t, "Immediate outreach to Acme", r.Action)
	}
}

func TestGenerateUsesStoredUrgencyWithoutBreakdown(t *testing.T) {
	a := &models.Account{ID: "a", Name: "Quiet Co", UrgencyScore: 90, Contacts: []models.Contact{{ID: "x"}}}
	recs := New().Generate(context.Background(), a, nil, nil, now)
	require.Len(t, recs, 1)
	assert.Equal(t, PriorityCritical, recs[0].Priority)
}

func TestGenerateResearchWhenNoContacts(t *testing.T) {
	recs := New().Generate(context.Background(), &models.Account{ID: "a", Name: "Dark Co"}, nil, nil, now)
	require.Len(t, recs, 1)
	assert.Equal(t, CategoryResearch, recs[0].Category)
	assert.Contains(t, recs[0].Action, "Dark Co")

	assert.Empty(t, New().Generate(context.Background(), nil, nil, nil, now))
}

func TestGenerateUsesTextGenerator(t *testing.T) {
	gen := New(WithGenerator(stubGenerator{body: "Custom intro copy"}))
	recs := gen.Generate(context.Background(), account(), nil, paths(), now)

	var intro *ActionRecommendation
	for i := range recs {
		if recs[i].TargetContact != nil && recs[i].TargetContact.ID == "k2" {
			intro = &recs[i]
		}
	}
	require.NotNil(t, intro)
	assert.Equal(t, "Custom intro copy", intro.SuggestedMessage)

	failing := New(WithGenerator(stubGenerator{err: errors.New("quota")}))
	recs = failing.Generate(context.Background(), account(), nil, paths(), now)
	for _, r := range recs {
		if r.TargetContact != nil && r.TargetContact.ID == "k2" {
			assert.Equal(t, "Hi Bob, could you introduce me to Kai Two?", r.SuggestedMessage)
		}
	}
}

func TestGenerateRespectsLimit(t *testing.T) {
	recs := New(WithMaxRecommendations(2)).Generate(context.Background(), account(), &urgency.Breakdown{Overall: 85}, paths(), now)
	assert.Len(t, recs, 2)
}

func TestGenerateWithEngine(t *testing.T) {
	engine := network.New("me", network.WithClock(func() time.Time { return now }))
	engine.Load(
		[]models.Node{
			{ID: "me", Kind: models.NodeSelf, DisplayName: "Morgan"},
			{ID: "k1", Kind: models.NodeConnection, DisplayName: "Kim One"},
		},
		[]models.Edge{{SourceID: "me", TargetID: "k1", Kind: models.KindColleague, Strength: 0.9, Verified: true}},
	)

	a := &models.Account{ID: "acct", Name: "Acme", Contacts: []models.Contact{{ID: "k1", Name: "Kim One"}}}
	recs := New().Generate(context.Background(), a, nil, engine, now)
	require.Len(t, recs, 1)
	assert.Equal(t, "Reach out directly to Kim One", recs[0].Action)
	assert.Greater(t, recs[0].SuccessProbability, 0.0)
	assert.LessOrEqual(t, recs[0].SuccessProbability, directSuccess)
}

func TestAlertSubjectTruncatesOnRunes(t *testing.T) {
	title := strings.Repeat("é", 49) + "日本語"
	subject := alertSubject(models.Alert{Title: title})
	assert.True(t, utf8.ValidString(subject))
	assert.Equal(t, strings.Repeat("é", 49)+"日...", subject)

	assert.Equal(t, "Funding round", alertSubject(models.Alert{Title: "Funding round"}))
	assert.Equal(t, "leadership_change", alertSubject(models.Alert{Type: "leadership_change"}))
}
