// ABOUTME: Account urgency MCP tool handlers
// ABOUTME: Implements score_account, rank_accounts and recommend_actions tools
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/sherpa/recommend"
	"github.com/harperreed/sherpa/urgency"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultRankLimit = 10

type AccountHandlers struct {
	ws *Workspace
}

func NewAccountHandlers(ws *Workspace) *AccountHandlers {
	return &AccountHandlers{ws: ws}
}

type ScoreAccountInput struct {
	AccountID string `json:"account_id" jsonschema:"Account id (required)"`
}

type CategoryOutput struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	MaxScore int    `json:"max_score"`
}

type ScoreOutput struct {
	AccountID    string           `json:"account_id"`
	AccountName  string           `json:"account_name"`
	Overall      int              `json:"overall"`
	Priority     string           `json:"priority"`
	Label        string           `json:"label"`
	Categories   []CategoryOutput `json:"categories"`
	Factors      []urgency.Factor `json:"factors"`
	CalculatedAt string           `json:"calculated_at"`
}

func (h *AccountHandlers) ScoreAccount(_ context.Context, request *mcp.CallToolRequest, input ScoreAccountInput) (*mcp.CallToolResult, ScoreOutput, error) {
	if input.AccountID == "" {
		return nil, ScoreOutput{}, fmt.Errorf("account_id is required")
	}
	account, ok := h.ws.account(input.AccountID)
	if !ok {
		return nil, ScoreOutput{}, fmt.Errorf("account not found: %s", input.AccountID)
	}

	breakdown, err := h.ws.urgencyEngine().Score(account, h.ws.ICP, h.ws.now())
	if err != nil {
		return nil, ScoreOutput{}, fmt.Errorf("failed to score account: %w", err)
	}
	out := breakdownToOutput(breakdown)
	out.AccountName = account.Name
	return nil, out, nil
}

type RankAccountsInput struct {
	Limit    int `json:"limit,omitempty" jsonschema:"Maximum number of accounts (default 10)"`
	MinScore int `json:"min_score,omitempty" jsonschema:"Only include accounts scoring at least this much"`
}

type RankedAccountOutput struct {
	Rank      int    `json:"rank"`
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Overall   int    `json:"overall"`
	Label     string `json:"label"`
	TopFactor string `json:"top_factor,omitempty"`
}

type RankAccountsOutput struct {
	Accounts []RankedAccountOutput `json:"accounts"`
	Scored   int                   `json:"scored"`
	Errors   []string              `json:"errors,omitempty"`
}

func (h *AccountHandlers) RankAccounts(ctx context.Context, request *mcp.CallToolRequest, input RankAccountsInput) (*mcp.CallToolResult, RankAccountsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultRankLimit
	}

	res := h.ws.urgencyEngine().BatchRecalculate(ctx, h.ws.Accounts, h.ws.ICP, h.ws.now(), urgency.BatchOptions{})
	out := RankAccountsOutput{Accounts: []RankedAccountOutput{}, Scored: len(res.Scores)}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, fmt.Sprintf("account %d: %s", e.Index, e.Message))
	}

	for _, b := range res.Ranked() {
		if b.Overall < input.MinScore {
			continue
		}
		if len(out.Accounts) == limit {
			break
		}
		row := RankedAccountOutput{
			Rank:      len(out.Accounts) + 1,
			AccountID: b.AccountID,
			Overall:   b.Overall,
			Label:     b.Priority().Label,
			TopFactor: topFactor(b),
		}
		if a, ok := h.ws.account(b.AccountID); ok {
			row.Name = a.Name
		}
		out.Accounts = append(out.Accounts, row)
	}
	return nil, out, nil
}

type RecommendActionsInput struct {
	AccountID string `json:"account_id" jsonschema:"Account id (required)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of recommendations"`
}

type RecommendationOutput struct {
	ID                 string                   `json:"id"`
	Priority           string                   `json:"priority"`
	Category           string                   `json:"category"`
	Action             string                   `json:"action"`
	Reason             string                   `json:"reason"`
	TargetContact      *recommend.TargetContact `json:"target_contact,omitempty"`
	SuggestedMessage   string                   `json:"suggested_message,omitempty"`
	Deadline           string                   `json:"deadline"`
	SuccessProbability float64                  `json:"success_probability"`
}

type RecommendActionsOutput struct {
	AccountID       string                 `json:"account_id"`
	UrgencyScore    int                    `json:"urgency_score"`
	Recommendations []RecommendationOutput `json:"recommendations"`
}

func (h *AccountHandlers) RecommendActions(ctx context.Context, request *mcp.CallToolRequest, input RecommendActionsInput) (*mcp.CallToolResult, RecommendActionsOutput, error) {
	if input.AccountID == "" {
		return nil, RecommendActionsOutput{}, fmt.Errorf("account_id is required")
	}
	account, ok := h.ws.account(input.AccountID)
	if !ok {
		return nil, RecommendActionsOutput{}, fmt.Errorf("account not found: %s", input.AccountID)
	}

	now := h.ws.now()
	breakdown, err := h.ws.urgencyEngine().Score(account, h.ws.ICP, now)
	if err != nil {
		return nil, RecommendActionsOutput{}, fmt.Errorf("failed to score account: %w", err)
	}

	rec := h.ws.Recommender
	if rec == nil {
		rec = recommend.New()
	}
	var paths recommend.PathFinder
	if h.ws.Engine != nil {
		paths = h.ws.Engine
	}

	actions := rec.Generate(ctx, account, breakdown, paths, now)
	if input.Limit > 0 && len(actions) > input.Limit {
		actions = actions[:input.Limit]
	}

	out := RecommendActionsOutput{
		AccountID:       account.ID,
		UrgencyScore:    breakdown.Overall,
		Recommendations: make([]RecommendationOutput, len(actions)),
	}
	for i, a := range actions {
		out.Recommendations[i] = RecommendationOutput{
			ID:                 a.ID,
			Priority:           a.Priority,
			Category:           a.Category,
			Action:             a.Action,
			Reason:             a.Reason,
			TargetContact:      a.TargetContact,
			SuggestedMessage:   a.SuggestedMessage,
			Deadline:           formatTime(a.Deadline),
			SuccessProbability: a.SuccessProbability,
		}
	}
	return nil, out, nil
}

func breakdownToOutput(b *urgency.Breakdown) ScoreOutput {
	p := b.Priority()
	factors := b.Factors
	if factors == nil {
		factors = []urgency.Factor{}
	}
	return ScoreOutput{
		AccountID: b.AccountID,
		Overall:   b.Overall,
		Priority:  p.Level,
		Label:     p.Label,
		Categories: []CategoryOutput{
			{Name: urgency.CategoryTiming, Score: b.Timing.Score, MaxScore: b.Timing.MaxScore},
			{Name: urgency.CategoryCompany, Score: b.Company.Score, MaxScore: b.Company.MaxScore},
			{Name: urgency.CategoryRelationship, Score: b.Relationship.Score, MaxScore: b.Relationship.MaxScore},
			{Name: urgency.CategoryEngagement, Score: b.Engagement.Score, MaxScore: b.Engagement.MaxScore},
			{Name: urgency.CategoryFit, Score: b.Fit.Score, MaxScore: b.Fit.MaxScore},
			{Name: urgency.CategoryCompetitive, Score: b.Competitive.Score, MaxScore: b.Competitive.MaxScore},
		},
		Factors:      factors,
		CalculatedAt: formatTime(b.CalculatedAt),
	}
}

// topFactor names the factor contributing the most points.
func topFactor(b *urgency.Breakdown) string {
	best := -1
	name := ""
	for _, f := range b.Factors {
		if f.Points > best {
			best = f.Points
			name = f.Name
		}
	}
	return name
}
