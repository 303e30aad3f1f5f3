// ABOUTME: Profile-platform enrichment layered over the relationship engine
// ABOUTME: Fetches connection profiles to fill records and derive per-connection insights
package platform

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/harperreed/sherpa/logger"
	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/network"
)

const (
	ContactPlatform = "platform"
	ContactEmail    = "email"

	// CompletenessWeight scales profile completeness into an edge strength boost.
	CompletenessWeight = 0.1
)

var professionalIndustries = []string{"technology", "software", "consulting", "finance", "healthcare", "legal"}

// Insight summarises what a connection's profile says about reaching them.
type Insight struct {
	ConnectionID        string  `json:"connection_id"`
	Name                string  `json:"name"`
	ProfileCompleteness int     `json:"profile_completeness"`
	ResponseRate        float64 `json:"response_rate"`
	PreferredContact    string  `json:"preferred_contact"`
	EnrichedStrength    float64 `json:"enriched_strength"`
}

type Result struct {
	Import   network.ImportResult `json:"import"`
	Insights []Insight            `json:"insights"`
}

// Enricher wraps an engine and pulls full profiles for each connection
// before importing them.
type Enricher struct {
	engine *network.Engine
	source network.ConnectionSource
	now    func() time.Time
}

func New(engine *network.Engine, source network.ConnectionSource) *Enricher {
	return &Enricher{engine: engine, source: source, now: time.Now}
}

// WithClock replaces the enricher's time source.
func (en *Enricher) WithClock(now func() time.Time) *Enricher {
	if now != nil {
		en.now = now
	}
	return en
}

// ImportEnriched fills connection records from their profiles, imports them
// into the engine and returns an insight per imported connection. Profile
// lookup failures are soft: the raw record is imported as-is.
func (en *Enricher) ImportEnriched(ctx context.Context, owner models.ProfileRecord, conns []models.ConnectionRecord, opts network.ImportOptions) Result {
	now := en.now()
	scorer := en.engine.Scorer()

	var lookupErrors []string
	enriched := make([]models.ConnectionRecord, 0, len(conns))
	profiles := make(map[string]*models.ProfileRecord, len(conns))

	for _, rec := range conns {
		if rec.ProfileID == "" || en.source == nil {
			enriched = append(enriched, rec)
			continue
		}
		p, err := en.source.GetProfile(ctx, rec.ProfileID)
		if err != nil {
			msg := fmt.Sprintf("profile %s: %v", rec.ProfileID, err)
			logger.Warn("platform: profile lookup failed", "profile", rec.ProfileID, "error", err)
			lookupErrors = append(lookupErrors, msg)
			enriched = append(enriched, rec)
			continue
		}
		profiles[rec.ProfileID] = p
		enriched = append(enriched, fillFromProfile(rec, p))
	}

	opts.StrengthAdjust = func(rec models.ConnectionRecord, strength float64) float64 {
		return EnrichedStrength(strength, ProfileCompleteness(profiles[rec.ProfileID]))
	}
	res := Result{Import: en.engine.ImportNetwork(ctx, owner, enriched, opts)}
	res.Import.Errors = append(res.Import.Errors, lookupErrors...)

	for _, rec := range enriched {
		if !en.engine.Store().HasNode(rec.ID) || rec.ID == en.engine.OwnerID() {
			continue
		}
		p := profiles[rec.ProfileID]
		completeness := ProfileCompleteness(p)
		res.Insights = append(res.Insights, Insight{
			ConnectionID:        rec.ID,
			Name:                rec.FullName,
			ProfileCompleteness: completeness,
			ResponseRate:        scorer.ResponseRate(rec, now),
			PreferredContact:    PreferredContact(p, rec),
			EnrichedStrength:    EnrichedStrength(scorer.EdgeStrength(rec, now), completeness),
		})
	}
	return res
}

// EnrichedStrength adds the profile-completeness boost to a base strength.
func EnrichedStrength(base float64, completeness int) float64 {
	return models.Clamp01(base + float64(completeness)/100*CompletenessWeight)
}

// ProfileCompleteness rates a profile 0-100 by how many sections are filled.
func ProfileCompleteness(p *models.ProfileRecord) int {
	if p == nil {
		return 0
	}
	score := 0
	if p.PictureURL != "" {
		score += 10
	}
	if len(p.Headline) > 10 {
		score += 15
	}
	if len(p.Summary) > 50 {
		score += 10
	}
	if p.CurrentCompany != "" {
		score += 20
	}
	if n := len(p.Experience); n > 0 {
		score += int(math.Min(float64(n*5), 15))
	}
	if len(p.Education) > 0 {
		score += 10
	}
	if len(p.Skills) >= 5 {
		score += 10
	}
	if p.Location != "" {
		score += 5
	}
	if p.Industry != "" {
		score += 5
	}
	return score
}

// PreferredContact suggests the channel most likely to get a reply.
func PreferredContact(p *models.ProfileRecord, rec models.ConnectionRecord) string {
	if p != nil && isProfessionalIndustry(p.Industry) {
		return ContactPlatform
	}
	if rec.RelationshipStrength > 0.7 && (rec.Email != "" || (p != nil && p.Email != "")) {
		return ContactEmail
	}
	return ContactPlatform
}

func isProfessionalIndustry(industry string) bool {
	lower := strings.ToLower(industry)
	if lower == "" {
		return false
	}
	for _, prof := range professionalIndustries {
		if strings.Contains(lower, prof) {
			return true
		}
	}
	return false
}

func fillFromProfile(rec models.ConnectionRecord, p *models.ProfileRecord) models.ConnectionRecord {
	if p == nil {
		return rec
	}
	if p.FullName != "" {
		rec.FullName = p.FullName
	}
	if t := p.Title(); t != "" {
		rec.Title = t
	}
	if p.CurrentCompany != "" {
		rec.Company = p.CurrentCompany
	}
	if rec.Email == "" {
		rec.Email = p.Email
	}
	return rec
}
