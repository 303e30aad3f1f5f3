// ABOUTME: Relationship engine tying the graph store, path finder and scorer together
// ABOUTME: Public entry point for path queries over one owner's professional network
package network

import (
	"time"

	"github.com/harperreed/sherpa/graph"
	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/scoring"
	"github.com/harperreed/sherpa/textgen"
)

// Engine answers introduction-path questions for a single network owner.
// It is confined to one session and is not safe for concurrent use.
type Engine struct {
	ownerID   string
	store     *graph.Store
	finder    *graph.PathFinder
	scorer    *scoring.Scorer
	source    ConnectionSource
	generator textgen.Generator
	now       func() time.Time
}

func New(ownerID string, opts ...Option) *Engine {
	store := graph.NewStore()
	e := &Engine{
		ownerID: ownerID,
		store:   store,
		finder:  graph.NewPathFinder(store),
		scorer:  scoring.New(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) OwnerID() string {
	return e.ownerID
}

// Store exposes the underlying graph for persistence and export.
func (e *Engine) Store() *graph.Store {
	return e.store
}

func (e *Engine) Scorer() *scoring.Scorer {
	return e.scorer
}

// Load bulk-loads a stored snapshot into the engine's graph.
func (e *Engine) Load(nodes []models.Node, edges []models.Edge) graph.LoadReport {
	return e.store.BulkLoad(nodes, edges)
}

// FindPath returns the scored best path from the owner to targetID with
// default depth and alternatives, or nil when the target is unreachable.
func (e *Engine) FindPath(targetID string) *models.PathResult {
	return e.FindPaths(targetID, graph.DefaultMaxDepth, graph.DefaultMaxPaths)
}

// FindPaths is FindPath with explicit bounds.
func (e *Engine) FindPaths(targetID string, maxDepth, maxPaths int) *models.PathResult {
	paths := e.finder.FindPaths(e.ownerID, targetID, maxDepth, maxPaths)
	if paths == nil {
		return nil
	}
	return e.scorePaths(targetID, paths)
}

func (e *Engine) scorePaths(targetID string, paths *graph.Paths) *models.PathResult {
	now := e.now()
	target, _ := e.store.Node(targetID)

	confidence := e.scorer.Confidence(paths.Best.Edges, now)
	hops := e.finder.Hops(paths.Best)

	result := &models.PathResult{
		TargetID:              targetID,
		TargetName:            target.DisplayName,
		TargetTitle:           target.Title,
		TargetCompany:         target.Company,
		Degree:                paths.Best.Degree(),
		Path:                  hops,
		Confidence:            confidence,
		IntroSuccessRate:      e.scorer.IntroSuccessRate(paths.Best.Edges, confidence, now),
		SuggestedIntroMessage: introMessage(hops),
		AlternativePaths:      make([][]models.PathHop, 0, len(paths.Alternatives)),
	}
	for _, alt := range paths.Alternatives {
		result.AlternativePaths = append(result.AlternativePaths, e.finder.Hops(alt))
	}
	return result
}
