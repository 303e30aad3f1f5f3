// ABOUTME: MCP server assembly
// ABOUTME: Registers every sherpa tool, resource and prompt on one server
package handlers

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ServerName    = "sherpa"
	ServerVersion = "0.1.0"
)

// NewServer builds an MCP server whose tools read from ws.
func NewServer(ws *Workspace) *mcp.Server {
	networkHandlers := NewNetworkHandlers(ws)
	accountHandlers := NewAccountHandlers(ws)
	introHandlers := NewIntroHandlers(ws)
	resourceHandlers := NewResourceHandlers(ws)
	promptHandlers := NewPromptHandlers(ws)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_intro_path",
		Description: "Find the best introduction path from you to a person in your network, with confidence and alternatives",
	}, networkHandlers.FindIntroPath)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_intro_opportunities",
		Description: "Plan a warm introduction to a person: best path, urgency, drafted outreach messages and expected outcome",
	}, networkHandlers.FindIntroOpportunities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggest_connectors",
		Description: "List first-degree connections who can introduce you to a target, shortest and strongest first",
	}, networkHandlers.SuggestConnectors)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "network_stats",
		Description: "Summarise the relationship network: size, reach by degree and average strength",
	}, networkHandlers.NetworkStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "score_account",
		Description: "Compute the 0-100 outreach urgency score for an account with a per-factor breakdown",
	}, accountHandlers.ScoreAccount)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "rank_accounts",
		Description: "Score every loaded account and rank them by urgency",
	}, accountHandlers.RankAccounts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "recommend_actions",
		Description: "Recommend next-best actions for an account, most pressing first",
	}, accountHandlers.RecommendActions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_warm_intros",
		Description: "Match your connections to target accounts and return warm introduction pathways",
	}, introHandlers.FindWarmIntros)

	server.AddResource(&mcp.Resource{
		URI:         accountsURI,
		Name:        "accounts",
		Description: "All loaded accounts with their current urgency score",
		MIMEType:    jsonMIME,
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: accountsURI + "/{id}",
		Name:        "account",
		Description: "One account with contacts, alerts, activities and its urgency breakdown",
		MIMEType:    jsonMIME,
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         networkURI,
		Name:        "network",
		Description: "The relationship network as visualization nodes and edges",
		MIMEType:    jsonMIME,
	}, resourceHandlers.ReadResource)

	server.AddPrompt(&mcp.Prompt{
		Name:        "account-briefing",
		Description: "Brief a seller on an account: urgency drivers, contacts and next steps",
		Arguments: []*mcp.PromptArgument{
			{Name: "account_id", Description: "Account to brief on", Required: true},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "intro-request",
		Description: "Draft a request asking a connector for a warm introduction",
		Arguments: []*mcp.PromptArgument{
			{Name: "target_id", Description: "Person you want to be introduced to", Required: true},
		},
	}, promptHandlers.GetPrompt)

	return server
}
