// ABOUTME: Connector suggestions and multi-target reachability queries
// ABOUTME: Ranks first hops toward a target and maps account contacts to paths
package network

import (
	"fmt"
	"math"
	"sort"

	"github.com/harperreed/sherpa/graph"
	"github.com/harperreed/sherpa/models"
)

const (
	connectorSearchDepth = 7
	connectorSearchPaths = 5

	// DefaultReachableDegrees is the BFS depth FindAllReachable uses when none is given.
	DefaultReachableDegrees = 4
)

// Connector is a first-degree contact worth asking for an intro.
type Connector struct {
	ConnectorID   string  `json:"connector_id"`
	ConnectorName string  `json:"connector_name"`
	PathLength    int     `json:"path_length"`
	Strength      float64 `json:"strength"`
	Reason        string  `json:"recommendation_reason"`
}

// SuggestBestConnectors lists the distinct first hops on the best and
// alternative paths to targetID, shortest and strongest first.
func (e *Engine) SuggestBestConnectors(targetID string) []Connector {
	result := e.FindPaths(targetID, connectorSearchDepth, connectorSearchPaths)
	if result == nil {
		return []Connector{}
	}

	var out []Connector
	seen := make(map[string]bool)

	if len(result.Path) >= 2 {
		hop := result.Path[1]
		seen[hop.NodeID] = true
		out = append(out, Connector{
			ConnectorID:   hop.NodeID,
			ConnectorName: hop.Name,
			PathLength:    result.Degree,
			Strength:      hop.Strength,
			Reason: fmt.Sprintf("Best path: %d° separation with %d%% success rate",
				result.Degree, int(math.Round(result.IntroSuccessRate*100))),
		})
	}

	for _, alt := range result.AlternativePaths {
		if len(alt) < 2 {
			continue
		}
		hop := alt[1]
		if seen[hop.NodeID] {
			continue
		}
		seen[hop.NodeID] = true
		out = append(out, Connector{
			ConnectorID:   hop.NodeID,
			ConnectorName: hop.Name,
			PathLength:    len(alt) - 1,
			Strength:      hop.Strength,
			Reason:        fmt.Sprintf("Alternative path: %d° separation", len(alt)-1),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PathLength != out[j].PathLength {
			return out[i].PathLength < out[j].PathLength
		}
		return out[i].Strength > out[j].Strength
	})
	return out
}

// FindAllReachable groups every node reachable from the owner by degree.
func (e *Engine) FindAllReachable(maxDegrees int) map[int][]models.Node {
	if maxDegrees <= 0 {
		maxDegrees = DefaultReachableDegrees
	}
	levels := e.finder.Levels(e.ownerID, maxDegrees)

	out := make(map[int][]models.Node, len(levels))
	for degree, ids := range levels {
		nodes := make([]models.Node, 0, len(ids))
		for _, id := range ids {
			if n, ok := e.store.Node(id); ok {
				nodes = append(nodes, n)
			}
		}
		out[degree] = nodes
	}
	return out
}

// FindWarmIntrosForAccount maps each contact id to its best path, or nil
// when the contact is unreachable.
func (e *Engine) FindWarmIntrosForAccount(contactIDs []string) map[string]*models.PathResult {
	out := make(map[string]*models.PathResult, len(contactIDs))
	for _, id := range contactIDs {
		out[id] = e.FindPaths(id, graph.DefaultMaxDepth, graph.DefaultMaxPaths)
	}
	return out
}
