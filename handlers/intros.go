// ABOUTME: Warm-introduction MCP tool handler
// ABOUTME: Implements find_warm_intros over the matcher's loaded accounts and connections
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/sherpa/warmintro"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type IntroHandlers struct {
	ws *Workspace
}

func NewIntroHandlers(ws *Workspace) *IntroHandlers {
	return &IntroHandlers{ws: ws}
}

type FindWarmIntrosInput struct {
	AccountID string `json:"account_id,omitempty" jsonschema:"Only return pathways into this account"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of pathways (default 10)"`
}

type FindWarmIntrosOutput struct {
	Paths []warmintro.WarmIntroPath `json:"paths"`
	Stats warmintro.Stats           `json:"stats"`
}

func (h *IntroHandlers) FindWarmIntros(_ context.Context, request *mcp.CallToolRequest, input FindWarmIntrosInput) (*mcp.CallToolResult, FindWarmIntrosOutput, error) {
	m := h.ws.Matcher
	if m == nil {
		return nil, FindWarmIntrosOutput{}, fmt.Errorf("no connections loaded for warm intro matching")
	}

	var paths []warmintro.WarmIntroPath
	if input.AccountID != "" {
		if _, ok := h.ws.account(input.AccountID); !ok {
			return nil, FindWarmIntrosOutput{}, fmt.Errorf("account not found: %s", input.AccountID)
		}
		paths = m.ForAccount(input.AccountID)
		if input.Limit > 0 && len(paths) > input.Limit {
			paths = paths[:input.Limit]
		}
	} else {
		paths = m.TopWarmIntros(input.Limit)
	}
	if paths == nil {
		paths = []warmintro.WarmIntroPath{}
	}
	return nil, FindWarmIntrosOutput{Paths: paths, Stats: m.Stats()}, nil
}
