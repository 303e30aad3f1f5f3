// ABOUTME: MCP prompt handlers for reusable selling workflow templates
// ABOUTME: Provides account briefing and intro request prompts built from live scores and paths
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Number of factors quoted in an account briefing.
const briefingFactors = 5

type PromptHandlers struct {
	ws *Workspace
}

func NewPromptHandlers(ws *Workspace) *PromptHandlers {
	return &PromptHandlers{ws: ws}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "account-briefing":
		return h.getAccountBriefingPrompt(arguments)
	case "intro-request":
		return h.getIntroRequestPrompt(arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func (h *PromptHandlers) getAccountBriefingPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	accountID, ok := args["account_id"]
	if !ok || accountID == "" {
		return nil, fmt.Errorf("account_id is required")
	}
	account, found := h.ws.account(accountID)
	if !found {
		return nil, fmt.Errorf("account not found: %s", accountID)
	}

	breakdown, err := h.ws.urgencyEngine().Score(account, h.ws.ICP, h.ws.now())
	if err != nil {
		return nil, fmt.Errorf("failed to score account: %w", err)
	}

	var promptText strings.Builder
	promptText.WriteString("Please brief me on this sales account:\n\n")
	promptText.WriteString(fmt.Sprintf("Account: %s\n", account.Name))
	if account.Industry != "" {
		promptText.WriteString(fmt.Sprintf("Industry: %s\n", account.Industry))
	}
	if account.Location != "" {
		promptText.WriteString(fmt.Sprintf("Location: %s\n", account.Location))
	}
	priority := breakdown.Priority()
	promptText.WriteString(fmt.Sprintf("Urgency: %d/100 (%s)\n", breakdown.Overall, priority.Label))

	if len(breakdown.Factors) > 0 {
		promptText.WriteString("\nScore drivers:\n")
		for i, f := range breakdown.Factors {
			if i == briefingFactors {
				break
			}
			promptText.WriteString(fmt.Sprintf("- %s: %d/%d (%s)\n", f.Name, f.Points, f.MaxPoints, f.Description))
		}
	}

	if len(account.Contacts) > 0 {
		promptText.WriteString("\nContacts:\n")
		for _, c := range account.Contacts {
			line := c.Name
			if c.Title != "" {
				line += ", " + c.Title
			}
			if c.SeparationDegree != nil {
				line += fmt.Sprintf(" (%d° away)", *c.SeparationDegree)
			}
			promptText.WriteString("- " + line + "\n")
		}
	}

	if len(account.Alerts) > 0 {
		promptText.WriteString(fmt.Sprintf("\nRecent alerts: %d\n", len(account.Alerts)))
		for _, a := range account.Alerts {
			promptText.WriteString(fmt.Sprintf("- [%s] %s\n", a.Type, a.Title))
		}
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Why this account deserves attention now")
	promptText.WriteString("\n2. Which contact to approach first and how")
	promptText.WriteString("\n3. Risks that could stall the opportunity")

	return userPrompt(fmt.Sprintf("Briefing for account: %s", account.Name), promptText.String()), nil
}

func (h *PromptHandlers) getIntroRequestPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	targetID, ok := args["target_id"]
	if !ok || targetID == "" {
		return nil, fmt.Errorf("target_id is required")
	}
	if h.ws.Engine == nil {
		return nil, fmt.Errorf("no relationship network loaded")
	}

	result := h.ws.Engine.FindPath(targetID)
	if result == nil {
		return nil, fmt.Errorf("no path to %s", targetID)
	}

	var promptText strings.Builder
	promptText.WriteString("Please draft a short, friendly message asking for a warm introduction.\n\n")
	promptText.WriteString(fmt.Sprintf("Target: %s", result.TargetName))
	if result.TargetTitle != "" {
		promptText.WriteString(", " + result.TargetTitle)
	}
	if result.TargetCompany != "" {
		promptText.WriteString(" at " + result.TargetCompany)
	}
	promptText.WriteString("\n")
	promptText.WriteString(fmt.Sprintf("Degrees of separation: %d\n", result.Degree))
	promptText.WriteString(fmt.Sprintf("Path confidence: %.0f%%\n", result.Confidence*100))

	promptText.WriteString("\nPath:\n")
	for _, hop := range result.Path {
		line := hop.Name
		if hop.Kind != "" {
			line += fmt.Sprintf(" (%s, strength %.2f)", hop.Kind, hop.Strength)
		}
		if hop.Context != "" {
			line += ": " + hop.Context
		}
		promptText.WriteString("- " + line + "\n")
	}

	if result.Degree == 1 {
		promptText.WriteString("\nThis is a direct connection, so write a direct outreach message instead.")
	} else {
		promptText.WriteString(fmt.Sprintf("\nAddress the message to %s and mention any shared context.", result.Path[1].Name))
	}

	return userPrompt(fmt.Sprintf("Intro request for: %s", result.TargetName), promptText.String()), nil
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}
