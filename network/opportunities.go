// ABOUTME: Warm introduction opportunities for a single target person
// ABOUTME: Resolves the target, scores the best path and drafts an outreach approach
package network

import (
	"context"
	"fmt"
	"math"

	"github.com/harperreed/sherpa/graph"
	"github.com/harperreed/sherpa/logger"
	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/scoring"
	"github.com/harperreed/sherpa/textgen"
)

const (
	// WeakConnectionThreshold is the confidence below which a path is weak.
	WeakConnectionThreshold = 0.3

	// MeetingRateFactor converts a response rate into a meeting rate.
	MeetingRateFactor = 0.7

	defaultBestContactTime = "Tuesday-Thursday 10-11 AM"
)

type OpportunityOptions struct {
	MaxPaths               int
	IncludeWeakConnections bool
	ContextRequired        bool
}

type SuggestedApproach struct {
	PrimaryMessage string   `json:"primary_message"`
	Subject        string   `json:"subject,omitempty"`
	BackupMessages []string `json:"backup_messages,omitempty"`
	TalkingPoints  []string `json:"talking_points,omitempty"`
}

type ExpectedOutcome struct {
	ResponseRate   float64 `json:"response_rate"`
	MeetingRate    float64 `json:"meeting_rate"`
	DaysToResponse int     `json:"days_to_response"`
}

// Opportunity bundles a scored path to a target with an outreach plan.
type Opportunity struct {
	Target            models.Node        `json:"target"`
	Path              *models.PathResult `json:"path"`
	UrgencyScore      int                `json:"urgency_score"`
	ContextScore      int                `json:"context_score"`
	IntroContext      string             `json:"intro_context"`
	SuggestedApproach SuggestedApproach  `json:"suggested_approach"`
	ExpectedOutcome   ExpectedOutcome    `json:"expected_outcome"`
	RiskFactors       []string           `json:"risk_factors,omitempty"`
	SuccessIndicators []string           `json:"success_indicators,omitempty"`
	BestContactTime   string             `json:"best_contact_time"`
	Warnings          []string           `json:"warnings,omitempty"`
}

// FindIntroductionOpportunities returns zero or one opportunity for the
// target. Unresolvable targets and unreachable paths yield an empty list.
func (e *Engine) FindIntroductionOpportunities(ctx context.Context, targetIdentity string, opts OpportunityOptions) []Opportunity {
	if opts.MaxPaths <= 0 {
		opts.MaxPaths = graph.DefaultMaxPaths
	}

	target, ok := e.resolveTarget(ctx, targetIdentity)
	if !ok {
		return []Opportunity{}
	}
	if !e.store.HasNode(target.ID) {
		logger.Debug("network: target is outside the network", "target", target.ID)
		return []Opportunity{}
	}

	result := e.FindPaths(target.ID, graph.DefaultMaxDepth, opts.MaxPaths)
	if result == nil {
		return []Opportunity{}
	}
	if result.Confidence < WeakConnectionThreshold && !opts.IncludeWeakConnections {
		logger.Debug("network: dropping weak path", "target", target.ID, "confidence", result.Confidence)
		return []Opportunity{}
	}

	op := Opportunity{
		Target:          target,
		Path:            result,
		UrgencyScore:    int(math.Round(result.Confidence*60 + result.IntroSuccessRate*40)),
		ContextScore:    contextScore(result.Path),
		IntroContext:    fmt.Sprintf("Professional introduction via %d-degree connection", result.Degree),
		BestContactTime: defaultBestContactTime,
		ExpectedOutcome: ExpectedOutcome{
			ResponseRate:   result.IntroSuccessRate,
			MeetingRate:    math.Round(result.IntroSuccessRate*MeetingRateFactor*100) / 100,
			DaysToResponse: scoring.EstimatedResponseDays(result.Degree),
		},
		RiskFactors:       riskFactors(result),
		SuccessIndicators: successIndicators(result),
	}
	if opts.ContextRequired && !hasContext(result.Path) {
		op.RiskFactors = append(op.RiskFactors, "Missing relationship context for this path")
	}

	op.SuggestedApproach, op.Warnings = e.approach(ctx, result)
	return []Opportunity{op}
}

// resolveTarget looks the identity up by node id, then platform id, then
// asks the connection source. A fetched profile comes back as a target node
// that is never written to the graph.
func (e *Engine) resolveTarget(ctx context.Context, identity string) (models.Node, bool) {
	if n, ok := e.store.Node(identity); ok {
		return n, true
	}
	if n, ok := e.store.FindByPlatformID(identity); ok {
		return n, true
	}
	if e.source == nil {
		return models.Node{}, false
	}

	profile, err := e.source.GetProfile(ctx, identity)
	if err != nil || profile == nil || profile.ID == "" {
		logger.Warn("network: could not resolve target", "identity", identity, "error", err)
		return models.Node{}, false
	}
	if n, ok := e.store.Node(profile.ID); ok {
		return n, true
	}
	if n, ok := e.store.FindByPlatformID(profile.ID); ok {
		return n, true
	}

	return models.Node{
		ID:          profile.ID,
		Kind:        models.NodeExternalContact,
		DisplayName: profile.FullName,
		Title:       profile.Title(),
		Company:     profile.CurrentCompany,
		PlatformID:  profile.PlatformID,
		Email:       profile.Email,
		IsTarget:    true,
	}, true
}

func hasContext(hops []models.PathHop) bool {
	for _, h := range hops[1:] {
		if h.Context != "" {
			return true
		}
	}
	return false
}

// contextScore is 0-100: the share of hops carrying context plus a bonus
// for mutual connections on the first hop.
func contextScore(hops []models.PathHop) int {
	if len(hops) < 2 {
		return 0
	}
	withContext := 0
	for _, h := range hops[1:] {
		if h.Context != "" {
			withContext++
		}
	}
	score := math.Round(float64(withContext) / float64(len(hops)-1) * 80)

	switch mutual := hops[1].MutualConnections; {
	case mutual >= 10:
		score += 20
	case mutual > 0:
		score += 10
	}
	return int(math.Min(score, 100))
}

func riskFactors(r *models.PathResult) []string {
	var out []string
	if r.Degree > 3 {
		out = append(out, "Long connection path may reduce effectiveness")
	}
	if r.Confidence < 0.5 {
		out = append(out, "Low confidence in relationship strength")
	}
	return out
}

func successIndicators(r *models.PathResult) []string {
	var out []string
	if r.Degree <= 2 {
		out = append(out, "Short connection path increases success rate")
	}
	if r.Confidence > 0.8 {
		out = append(out, "High confidence in relationship quality")
	}
	return out
}

func talkingPoints(hops []models.PathHop) []string {
	var out []string
	for _, h := range hops[1:] {
		if h.Context != "" {
			out = append(out, fmt.Sprintf("%s: %s", h.Name, h.Context))
		}
	}
	if len(hops) > 1 && hops[1].MutualConnections > 0 {
		out = append(out, fmt.Sprintf("%d mutual connections with %s", hops[1].MutualConnections, hops[1].Name))
	}
	return out
}

// approach drafts the outreach plan, asking the text generator first and
// falling back to the fixed templates.
func (e *Engine) approach(ctx context.Context, r *models.PathResult) (SuggestedApproach, []string) {
	a := SuggestedApproach{
		PrimaryMessage: r.SuggestedIntroMessage,
		BackupMessages: backupMessages(r.Path),
		TalkingPoints:  talkingPoints(r.Path),
	}
	if e.generator == nil || len(r.Path) < 2 {
		return a, nil
	}

	connector := r.Path[1]
	owner := r.Path[0]
	msg, err := e.generator.GenerateMessage(ctx, textgen.MessageContext{
		SenderName:          owner.Name,
		ConnectorName:       connector.Name,
		ConnectorCompany:    connector.Company,
		TargetName:          r.TargetName,
		TargetTitle:         r.TargetTitle,
		TargetCompany:       r.TargetCompany,
		RelationshipContext: connector.Context,
		Degree:              r.Degree,
	})
	if err != nil || msg == nil || msg.Body == "" {
		if err == nil {
			err = fmt.Errorf("empty message")
		}
		logger.Warn("network: text generation failed, using template", "target", r.TargetID, "error", err)
		return a, []string{fmt.Sprintf("text generation unavailable: %v", err)}
	}

	a.BackupMessages = append([]string{a.PrimaryMessage}, a.BackupMessages...)
	a.PrimaryMessage = msg.Body
	a.Subject = msg.Subject
	a.TalkingPoints = append(a.TalkingPoints, msg.Personalization...)
	return a, nil
}
