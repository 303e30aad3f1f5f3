// ABOUTME: Relationship network MCP tool handlers
// ABOUTME: Implements intro path, opportunity, connector and network stats tools
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/sherpa/graph"
	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/network"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type NetworkHandlers struct {
	ws *Workspace
}

func NewNetworkHandlers(ws *Workspace) *NetworkHandlers {
	return &NetworkHandlers{ws: ws}
}

func (h *NetworkHandlers) engine() (*network.Engine, error) {
	if h.ws.Engine == nil {
		return nil, fmt.Errorf("no relationship network loaded")
	}
	return h.ws.Engine, nil
}

type FindIntroPathInput struct {
	TargetID string `json:"target_id" jsonschema:"Node id of the person to reach (required)"`
	MaxDepth int    `json:"max_depth,omitempty" jsonschema:"Maximum degrees of separation (default 7)"`
	MaxPaths int    `json:"max_paths,omitempty" jsonschema:"Maximum paths including alternatives (default 3)"`
}

type HopOutput struct {
	NodeID            string  `json:"node_id"`
	Name              string  `json:"name"`
	Title             string  `json:"title,omitempty"`
	Company           string  `json:"company,omitempty"`
	RelationshipKind  string  `json:"relationship_kind,omitempty"`
	Strength          float64 `json:"edge_strength,omitempty"`
	Verified          bool    `json:"verified,omitempty"`
	Context           string  `json:"context,omitempty"`
	LastInteractionAt string  `json:"last_interaction_at,omitempty"`
	MutualConnections int     `json:"mutual_connections,omitempty"`
}

type PathOutput struct {
	TargetID              string        `json:"target_id"`
	TargetName            string        `json:"target_name"`
	TargetTitle           string        `json:"target_title,omitempty"`
	TargetCompany         string        `json:"target_company,omitempty"`
	Degree                int           `json:"degree"`
	Confidence            float64       `json:"confidence"`
	IntroSuccessRate      float64       `json:"intro_success_rate"`
	SuggestedIntroMessage string        `json:"suggested_intro_message,omitempty"`
	Hops                  []HopOutput   `json:"hops"`
	AlternativePaths      [][]HopOutput `json:"alternative_paths"`
}

type FindIntroPathOutput struct {
	Found   bool        `json:"found"`
	Message string      `json:"message,omitempty"`
	Path    *PathOutput `json:"path,omitempty"`
}

func (h *NetworkHandlers) FindIntroPath(_ context.Context, request *mcp.CallToolRequest, input FindIntroPathInput) (*mcp.CallToolResult, FindIntroPathOutput, error) {
	if input.TargetID == "" {
		return nil, FindIntroPathOutput{}, fmt.Errorf("target_id is required")
	}
	engine, err := h.engine()
	if err != nil {
		return nil, FindIntroPathOutput{}, err
	}

	depth := input.MaxDepth
	if depth <= 0 {
		depth = graph.DefaultMaxDepth
	}
	maxPaths := input.MaxPaths
	if maxPaths <= 0 {
		maxPaths = graph.DefaultMaxPaths
	}

	result := engine.FindPaths(input.TargetID, depth, maxPaths)
	if result == nil {
		return nil, FindIntroPathOutput{
			Found:   false,
			Message: fmt.Sprintf("no path to %s within %d degrees", input.TargetID, depth),
		}, nil
	}
	return nil, FindIntroPathOutput{Found: true, Path: pathToOutput(result)}, nil
}

type SuggestConnectorsInput struct {
	TargetID string `json:"target_id" jsonschema:"Node id of the person to reach (required)"`
}

type SuggestConnectorsOutput struct {
	TargetID   string              `json:"target_id"`
	Connectors []network.Connector `json:"connectors"`
}

func (h *NetworkHandlers) SuggestConnectors(_ context.Context, request *mcp.CallToolRequest, input SuggestConnectorsInput) (*mcp.CallToolResult, SuggestConnectorsOutput, error) {
	if input.TargetID == "" {
		return nil, SuggestConnectorsOutput{}, fmt.Errorf("target_id is required")
	}
	engine, err := h.engine()
	if err != nil {
		return nil, SuggestConnectorsOutput{}, err
	}
	return nil, SuggestConnectorsOutput{
		TargetID:   input.TargetID,
		Connectors: engine.SuggestBestConnectors(input.TargetID),
	}, nil
}

type FindIntroOpportunitiesInput struct {
	Target          string `json:"target" jsonschema:"Node id, platform id or profile URL of the person to reach (required)"`
	MaxPaths        int    `json:"max_paths,omitempty" jsonschema:"Maximum paths including alternatives (default 3)"`
	IncludeWeak     bool   `json:"include_weak,omitempty" jsonschema:"Keep paths whose confidence is below 0.3"`
	ContextRequired bool   `json:"context_required,omitempty" jsonschema:"Flag paths with no shared relationship context as risky"`
}

type OpportunityOutput struct {
	Path              *PathOutput               `json:"path"`
	UrgencyScore      int                       `json:"urgency_score"`
	ContextScore      int                       `json:"context_score"`
	IntroContext      string                    `json:"intro_context"`
	SuggestedApproach network.SuggestedApproach `json:"suggested_approach"`
	ExpectedOutcome   network.ExpectedOutcome   `json:"expected_outcome"`
	RiskFactors       []string                  `json:"risk_factors,omitempty"`
	SuccessIndicators []string                  `json:"success_indicators,omitempty"`
	BestContactTime   string                    `json:"best_contact_time"`
	Warnings          []string                  `json:"warnings,omitempty"`
}

type FindIntroOpportunitiesOutput struct {
	Target        string              `json:"target"`
	Found         bool                `json:"found"`
	Message       string              `json:"message,omitempty"`
	Opportunities []OpportunityOutput `json:"opportunities"`
}

func (h *NetworkHandlers) FindIntroOpportunities(ctx context.Context, request *mcp.CallToolRequest, input FindIntroOpportunitiesInput) (*mcp.CallToolResult, FindIntroOpportunitiesOutput, error) {
	if input.Target == "" {
		return nil, FindIntroOpportunitiesOutput{}, fmt.Errorf("target is required")
	}
	engine, err := h.engine()
	if err != nil {
		return nil, FindIntroOpportunitiesOutput{}, err
	}

	ops := engine.FindIntroductionOpportunities(ctx, input.Target, network.OpportunityOptions{
		MaxPaths:               input.MaxPaths,
		IncludeWeakConnections: input.IncludeWeak,
		ContextRequired:        input.ContextRequired,
	})
	out := FindIntroOpportunitiesOutput{
		Target:        input.Target,
		Found:         len(ops) > 0,
		Opportunities: make([]OpportunityOutput, 0, len(ops)),
	}
	if !out.Found {
		out.Message = fmt.Sprintf("no introduction opportunity for %s", input.Target)
	}
	for _, op := range ops {
		out.Opportunities = append(out.Opportunities, OpportunityOutput{
			Path:              pathToOutput(op.Path),
			UrgencyScore:      op.UrgencyScore,
			ContextScore:      op.ContextScore,
			IntroContext:      op.IntroContext,
			SuggestedApproach: op.SuggestedApproach,
			ExpectedOutcome:   op.ExpectedOutcome,
			RiskFactors:       op.RiskFactors,
			SuccessIndicators: op.SuccessIndicators,
			BestContactTime:   op.BestContactTime,
			Warnings:          op.Warnings,
		})
	}
	return nil, out, nil
}

type NetworkStatsInput struct{}

func (h *NetworkHandlers) NetworkStats(_ context.Context, request *mcp.CallToolRequest, _ NetworkStatsInput) (*mcp.CallToolResult, network.NetworkStats, error) {
	engine, err := h.engine()
	if err != nil {
		return nil, network.NetworkStats{}, err
	}
	return nil, engine.GetNetworkStats(), nil
}

func pathToOutput(r *models.PathResult) *PathOutput {
	out := &PathOutput{
		TargetID:              r.TargetID,
		TargetName:            r.TargetName,
		TargetTitle:           r.TargetTitle,
		TargetCompany:         r.TargetCompany,
		Degree:                r.Degree,
		Confidence:            r.Confidence,
		IntroSuccessRate:      r.IntroSuccessRate,
		SuggestedIntroMessage: r.SuggestedIntroMessage,
		Hops:                  hopsToOutput(r.Path),
		AlternativePaths:      make([][]HopOutput, 0, len(r.AlternativePaths)),
	}
	for _, alt := range r.AlternativePaths {
		out.AlternativePaths = append(out.AlternativePaths, hopsToOutput(alt))
	}
	return out
}

func hopsToOutput(hops []models.PathHop) []HopOutput {
	out := make([]HopOutput, len(hops))
	for i, hop := range hops {
		out[i] = HopOutput{
			NodeID:            hop.NodeID,
			Name:              hop.Name,
			Title:             hop.Title,
			Company:           hop.Company,
			RelationshipKind:  hop.Kind,
			Strength:          hop.Strength,
			Verified:          hop.Verified,
			Context:           hop.Context,
			LastInteractionAt: formatTimePtr(hop.LastInteractionAt),
			MutualConnections: hop.MutualConnections,
		}
	}
	return out
}
