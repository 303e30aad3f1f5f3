// ABOUTME: In-memory graph store of people and their relationships
// ABOUTME: Keeps nodes plus a bidirectional adjacency list; owns structural integrity only
package graph

import (
	"fmt"

	"github.com/harperreed/sherpa/logger"
	"github.com/harperreed/sherpa/models"
)

// Adjacent is one entry of a node's adjacency list. Edge points at the
// stored directed record, which may run either way.
type Adjacent struct {
	NeighborID string
	Edge       *models.Edge
}

// Store holds one network. It is not safe for concurrent writers.
type Store struct {
	nodes     map[string]*models.Node
	order     []string
	adjacency map[string][]Adjacent
	edges     []*models.Edge
}

// SkippedEdge records an edge BulkLoad could not add.
type SkippedEdge struct {
	Edge   models.Edge
	Reason string
}

// LoadReport summarises a BulkLoad.
type LoadReport struct {
	NodesAdded   int
	EdgesAdded   int
	SkippedEdges []SkippedEdge
}

func NewStore() *Store {
	return &Store{
		nodes:     make(map[string]*models.Node),
		adjacency: make(map[string][]Adjacent),
	}
}

// AddNode upserts a node by id. Existing edges are preserved.
func (s *Store) AddNode(node models.Node) {
	if node.ID == "" {
		logger.Warn("graph: ignoring node without id", "name", node.DisplayName)
		return
	}
	if _, exists := s.nodes[node.ID]; !exists {
		s.order = append(s.order, node.ID)
		s.adjacency[node.ID] = nil
	}
	n := node
	s.nodes[node.ID] = &n
}

// AddEdge stores a directed edge and indexes it from both endpoints.
// Edges with an unknown endpoint are skipped and false is returned.
func (s *Store) AddEdge(edge models.Edge) bool {
	if reason := s.rejectReason(edge); reason != "" {
		logger.Warn("graph: skipping edge", "source", edge.SourceID, "target", edge.TargetID, "reason", reason)
		return false
	}

	e := edge
	e.Strength = models.Clamp01(e.Strength)
	if e.Kind == "" {
		e.Kind = models.KindOther
	}

	s.edges = append(s.edges, &e)
	s.adjacency[e.SourceID] = append(s.adjacency[e.SourceID], Adjacent{NeighborID: e.TargetID, Edge: &e})
	s.adjacency[e.TargetID] = append(s.adjacency[e.TargetID], Adjacent{NeighborID: e.SourceID, Edge: &e})
	return true
}

func (s *Store) rejectReason(edge models.Edge) string {
	if _, ok := s.nodes[edge.SourceID]; !ok {
		return fmt.Sprintf("unknown source node %q", edge.SourceID)
	}
	if _, ok := s.nodes[edge.TargetID]; !ok {
		return fmt.Sprintf("unknown target node %q", edge.TargetID)
	}
	if edge.SourceID == edge.TargetID {
		return "self-referencing edge"
	}
	return ""
}

// BulkLoad adds all nodes first, then all edges, in input order.
func (s *Store) BulkLoad(nodes []models.Node, edges []models.Edge) LoadReport {
	var report LoadReport
	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		s.AddNode(n)
		report.NodesAdded++
	}
	for _, e := range edges {
		if reason := s.rejectReason(e); reason != "" {
			report.SkippedEdges = append(report.SkippedEdges, SkippedEdge{Edge: e, Reason: reason})
			logger.Warn("graph: skipping edge", "source", e.SourceID, "target", e.TargetID, "reason", reason)
			continue
		}
		s.AddEdge(e)
		report.EdgesAdded++
	}
	return report
}

// Node returns a copy of the node with the given id.
func (s *Store) Node(id string) (models.Node, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return models.Node{}, false
	}
	return *n, true
}

func (s *Store) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// FindByPlatformID looks a node up by its external platform identifier.
func (s *Store) FindByPlatformID(platformID string) (models.Node, bool) {
	if platformID == "" {
		return models.Node{}, false
	}
	for _, id := range s.order {
		if n := s.nodes[id]; n.PlatformID == platformID {
			return *n, true
		}
	}
	return models.Node{}, false
}

// Neighbors returns the adjacency list for id in insertion order.
func (s *Store) Neighbors(id string) []Adjacent {
	adj := s.adjacency[id]
	out := make([]Adjacent, len(adj))
	copy(out, adj)
	return out
}

// Nodes returns all nodes in insertion order.
func (s *Store) Nodes() []models.Node {
	out := make([]models.Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.nodes[id])
	}
	return out
}

// Edges returns all stored directed edge records in insertion order.
func (s *Store) Edges() []models.Edge {
	out := make([]models.Edge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, *e)
	}
	return out
}

func (s *Store) NodeCount() int {
	return len(s.nodes)
}

func (s *Store) EdgeCount() int {
	return len(s.edges)
}

// EdgeBetween returns the strongest edge joining a and b in either direction.
func (s *Store) EdgeBetween(a, b string) (models.Edge, bool) {
	var best *models.Edge
	for _, adj := range s.adjacency[a] {
		if adj.NeighborID != b {
			continue
		}
		if best == nil || adj.Edge.Strength > best.Strength {
			best = adj.Edge
		}
	}
	if best == nil {
		return models.Edge{}, false
	}
	return *best, true
}
