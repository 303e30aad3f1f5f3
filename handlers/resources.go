// ABOUTME: MCP resource handlers for exposing account and network data
// ABOUTME: Provides read-only access to accounts and the network graph via sherpa:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/urgency"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriScheme   = "sherpa://"
	accountsURI = uriScheme + "accounts"
	networkURI  = uriScheme + "network"
	jsonMIME    = "application/json"
)

type ResourceHandlers struct {
	ws *Workspace
}

func NewResourceHandlers(ws *Workspace) *ResourceHandlers {
	return &ResourceHandlers{ws: ws}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, uriScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", uriScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, uriScheme), "/")
	switch parts[0] {
	case "accounts":
		if len(parts) == 1 || parts[1] == "" {
			return h.readAllAccounts()
		}
		return h.readAccount(parts[1])

	case "network":
		if h.ws.Engine == nil {
			return nil, fmt.Errorf("no relationship network loaded")
		}
		return jsonResource(networkURI, h.ws.Engine.ExportForVisualization())

	default:
		return nil, mcp.ResourceNotFoundError(uri)
	}
}

type accountSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Industry     string `json:"industry,omitempty"`
	Location     string `json:"location,omitempty"`
	UrgencyScore int    `json:"urgency_score"`
	Contacts     int    `json:"contacts"`
	Alerts       int    `json:"alerts"`
}

func (h *ResourceHandlers) readAllAccounts() (*mcp.ReadResourceResult, error) {
	summaries := make([]accountSummary, len(h.ws.Accounts))
	for i, a := range h.ws.Accounts {
		summaries[i] = accountSummary{
			ID:           a.ID,
			Name:         a.Name,
			Industry:     a.Industry,
			Location:     a.Location,
			UrgencyScore: a.UrgencyScore,
			Contacts:     len(a.Contacts),
			Alerts:       len(a.Alerts),
		}
	}
	return jsonResource(accountsURI, summaries)
}

func (h *ResourceHandlers) readAccount(id string) (*mcp.ReadResourceResult, error) {
	account, ok := h.ws.account(id)
	if !ok {
		return nil, mcp.ResourceNotFoundError(accountsURI + "/" + id)
	}

	breakdown, err := h.ws.urgencyEngine().Score(account, h.ws.ICP, h.ws.now())
	if err != nil {
		return nil, fmt.Errorf("failed to score account: %w", err)
	}

	accountData := struct {
		*models.Account
		Urgency *urgency.Breakdown `json:"urgency"`
	}{
		Account: account,
		Urgency: breakdown,
	}
	return jsonResource(accountsURI+"/"+id, accountData)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: jsonMIME,
			Text:     string(data),
		},
	}}, nil
}
