// ABOUTME: Visualization export of the network graph
// ABOUTME: Produces node and edge lists sized and labelled for graph renderers
package network

import "github.com/harperreed/sherpa/models"

const (
	ownerNodeSize  = 30
	targetNodeSize = 25
	nodeSize       = 15
)

type VisualNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group string `json:"group"`
	Size  int    `json:"size"`
}

type VisualEdge struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Value float64 `json:"value"`
	Label string  `json:"label,omitempty"`
}

type VisualGraph struct {
	Nodes []VisualNode `json:"nodes"`
	Edges []VisualEdge `json:"edges"`
}

// ExportForVisualization lists every node and one edge per endpoint pair.
func (e *Engine) ExportForVisualization() VisualGraph {
	g := VisualGraph{Nodes: []VisualNode{}, Edges: []VisualEdge{}}

	for _, n := range e.store.Nodes() {
		size := nodeSize
		switch {
		case n.Kind == models.NodeSelf:
			size = ownerNodeSize
		case n.IsTarget:
			size = targetNodeSize
		}
		g.Nodes = append(g.Nodes, VisualNode{ID: n.ID, Label: n.DisplayName, Group: n.Kind, Size: size})
	}

	seen := make(map[[2]string]bool)
	for _, edge := range e.store.Edges() {
		key := [2]string{edge.SourceID, edge.TargetID}
		if key[1] < key[0] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		g.Edges = append(g.Edges, VisualEdge{
			From:  edge.SourceID,
			To:    edge.TargetID,
			Value: edge.Strength * 10,
			Label: edge.Kind,
		})
	}
	return g
}
