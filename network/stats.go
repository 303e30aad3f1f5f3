// ABOUTME: Network summary statistics and pairwise relationship analysis
// ABOUTME: Reports reach by degree and suggests how to strengthen a given link
package network

import (
	"fmt"
	"time"
)

const reconnectAfter = 90 * 24 * time.Hour

type NetworkStats struct {
	TotalNodes            int     `json:"total_nodes"`
	TotalEdges            int     `json:"total_edges"`
	DirectConnections     int     `json:"direct_connections"`
	SecondDegree          int     `json:"second_degree"`
	ThirdDegree           int     `json:"third_degree"`
	MaxReachableCompanies int     `json:"max_reachable_companies"`
	AverageStrength       float64 `json:"average_strength"`
}

func (e *Engine) GetNetworkStats() NetworkStats {
	levels := e.finder.Levels(e.ownerID, 3)

	companies := make(map[string]bool)
	for _, n := range e.store.Nodes() {
		if n.Company != "" {
			companies[n.Company] = true
		}
	}

	edges := e.store.Edges()
	total := 0.0
	for _, edge := range edges {
		total += edge.Strength
	}
	avg := 0.0
	if len(edges) > 0 {
		avg = total / float64(len(edges))
	}

	return NetworkStats{
		TotalNodes:            e.store.NodeCount(),
		TotalEdges:            len(edges),
		DirectConnections:     len(levels[1]),
		SecondDegree:          len(levels[2]),
		ThirdDegree:           len(levels[3]),
		MaxReachableCompanies: len(companies),
		AverageStrength:       avg,
	}
}

type CommonConnection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RelationshipAnalysis struct {
	DirectConnection   bool               `json:"direct_connection"`
	Strength           float64            `json:"strength"`
	CommonConnections  []CommonConnection `json:"common_connections"`
	RecommendedActions []string           `json:"recommended_actions"`
}

// AnalyzeRelationship describes the link between a and b and how to improve it.
func (e *Engine) AnalyzeRelationship(a, b string) RelationshipAnalysis {
	analysis := RelationshipAnalysis{CommonConnections: []CommonConnection{}}

	fromB := make(map[string]bool)
	for _, adj := range e.store.Neighbors(b) {
		fromB[adj.NeighborID] = true
	}
	seen := make(map[string]bool)
	for _, adj := range e.store.Neighbors(a) {
		id := adj.NeighborID
		if id == b || seen[id] || !fromB[id] {
			continue
		}
		seen[id] = true
		n, _ := e.store.Node(id)
		analysis.CommonConnections = append(analysis.CommonConnections, CommonConnection{ID: id, Name: n.DisplayName})
	}

	direct, ok := e.store.EdgeBetween(a, b)
	if ok {
		analysis.DirectConnection = true
		analysis.Strength = direct.Strength
		if direct.Strength < 0.5 {
			analysis.RecommendedActions = append(analysis.RecommendedActions, "Strengthen relationship with regular touchpoints")
		}
		if direct.LastInteractionAt == nil || e.now().Sub(*direct.LastInteractionAt) > reconnectAfter {
			analysis.RecommendedActions = append(analysis.RecommendedActions, "Reconnect - no recent interaction")
		}
		return analysis
	}

	if len(analysis.CommonConnections) > 0 {
		analysis.RecommendedActions = append(analysis.RecommendedActions,
			fmt.Sprintf("Get introduced via %s", analysis.CommonConnections[0].Name))
	} else {
		analysis.RecommendedActions = append(analysis.RecommendedActions, "Consider a connection request")
	}
	return analysis
}
