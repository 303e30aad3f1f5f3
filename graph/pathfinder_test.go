// ABOUTME: Tests for depth-bounded path search
// ABOUTME: Checks shortest-hop guarantees, strength tie-breaks, alternatives and unreachable targets
package graph

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/harperreed/sherpa/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildStore(nodes []string, edges []models.Edge) *Store {
	s := NewStore()
	for _, id := range nodes {
		s.AddNode(node(id))
	}
	for _, e := range edges {
		s.AddEdge(e)
	}
	return s
}

func TestFindPathsPrefersReachableRoute(t *testing.T) {
	// owner->A is strong but A never reaches the target; owner->B->target does.
	s := buildStore(
		[]string{"owner", "A", "B", "target"},
		[]models.Edge{
			edge("owner", "A", 0.9),
			edge("owner", "B", 0.5),
			edge("B", "target", 0.5),
		},
	)

	paths := NewPathFinder(s).FindPaths("owner", "target", DefaultMaxDepth, DefaultMaxPaths)
	require.NotNil(t, paths)
	assert.Equal(t, 2, paths.Best.Degree())
	assert.Equal(t, []string{"owner", "B", "target"}, paths.Best.NodeIDs)
	assert.InDelta(t, 0.25, paths.Best.Strength, 1e-9)
}

func TestFindPathsTieBreakByStrength(t *testing.T) {
	s := buildStore(
		[]string{"owner", "weak", "strong", "target"},
		[]models.Edge{
			edge("owner", "weak", 0.3),
			edge("owner", "strong", 0.9),
			edge("weak", "target", 0.9),
			edge("strong", "target", 0.8),
		},
	)

	paths := NewPathFinder(s).FindPaths("owner", "target", 7, 3)
	require.NotNil(t, paths)
	assert.Equal(t, []string{"owner", "strong", "target"}, paths.Best.NodeIDs)
	require.Len(t, paths.Alternatives, 1)
	assert.Equal(t, []string{"owner", "weak", "target"}, paths.Alternatives[0].NodeIDs)
}

func TestFindPathsFewerHopsBeatsStrength(t *testing.T) {
	s := buildStore(
		[]string{"owner", "x", "y", "target"},
		[]models.Edge{
			edge("owner", "target", 0.1),
			edge("owner", "x", 1.0),
			edge("x", "y", 1.0),
			edge("y", "target", 1.0),
		},
	)

	paths := NewPathFinder(s).FindPaths("owner", "target", 7, 3)
	require.NotNil(t, paths)
	assert.Equal(t, 1, paths.Best.Degree())
}

func TestFindPathsAlternativesAtNextDepth(t *testing.T) {
	s := buildStore(
		[]string{"owner", "a", "b", "c", "target"},
		[]models.Edge{
			edge("owner", "a", 0.8),
			edge("a", "target", 0.8),
			edge("owner", "b", 0.7),
			edge("b", "c", 0.7),
			edge("c", "target", 0.7),
		},
	)

	paths := NewPathFinder(s).FindPaths("owner", "target", 7, 3)
	require.NotNil(t, paths)
	assert.Equal(t, 2, paths.Best.Degree())
	require.Len(t, paths.Alternatives, 1)
	assert.Equal(t, 3, paths.Alternatives[0].Degree())
}

func TestFindPathsRespectsMaxPaths(t *testing.T) {
	nodes := []string{"owner", "target"}
	var edges []models.Edge
	for i := 0; i < 6; i++ {
		mid := fmt.Sprintf("m%d", i)
		nodes = append(nodes, mid)
		edges = append(edges, edge("owner", mid, 0.5), edge(mid, "target", 0.5))
	}
	s := buildStore(nodes, edges)
	finder := NewPathFinder(s)

	paths := finder.FindPaths("owner", "target", 7, 3)
	require.NotNil(t, paths)
	assert.Len(t, paths.Alternatives, 2)

	single := finder.FindPaths("owner", "target", 7, 0)
	require.NotNil(t, single)
	assert.Empty(t, single.Alternatives)
}

func TestFindPathsUnreachable(t *testing.T) {
	s := buildStore(
		[]string{"owner", "a", "island", "target"},
		[]models.Edge{
			edge("owner", "a", 0.9),
			edge("island", "target", 0.9),
		},
	)
	finder := NewPathFinder(s)

	assert.Nil(t, finder.FindPaths("owner", "target", 7, 3))
	assert.Nil(t, finder.FindPaths("owner", "nobody", 7, 3))
	assert.Nil(t, finder.FindPaths("owner", "owner", 7, 3))
}

func TestFindPathsDepthBound(t *testing.T) {
	s := buildStore(
		[]string{"owner", "a", "b", "target"},
		[]models.Edge{edge("owner", "a", 1), edge("a", "b", 1), edge("b", "target", 1)},
	)
	finder := NewPathFinder(s)

	assert.Nil(t, finder.FindPaths("owner", "target", 2, 3))
	assert.NotNil(t, finder.FindPaths("owner", "target", 3, 3))
	// Depth below one is clamped, not rejected.
	assert.Nil(t, finder.FindPaths("owner", "target", -4, 3))
	assert.NotNil(t, finder.FindPaths("owner", "a", 0, 3))
}

func TestFindPathsTraversesReverseEdges(t *testing.T) {
	s := buildStore(
		[]string{"owner", "a", "target"},
		[]models.Edge{edge("a", "owner", 0.6), edge("target", "a", 0.6)},
	)

	paths := NewPathFinder(s).FindPaths("owner", "target", 7, 1)
	require.NotNil(t, paths)
	assert.Equal(t, []string{"owner", "a", "target"}, paths.Best.NodeIDs)
}

func TestFindPathsDoesNotMutateStore(t *testing.T) {
	s := buildStore(
		[]string{"owner", "a", "target"},
		[]models.Edge{edge("owner", "a", 0.6), edge("a", "target", 0.6)},
	)
	before := s.Edges()
	NewPathFinder(s).FindPaths("owner", "target", 7, 3)
	assert.Equal(t, before, s.Edges())
	assert.Equal(t, 3, s.NodeCount())
}

func TestHopsCarryEdgeData(t *testing.T) {
	s := buildStore(
		[]string{"owner", "a", "target"},
		[]models.Edge{
			{SourceID: "owner", TargetID: "a", Kind: models.KindMentor, Strength: 0.7, Verified: true, Context: "Mentored at Initech"},
			edge("a", "target", 0.4),
		},
	)
	finder := NewPathFinder(s)
	paths := finder.FindPaths("owner", "target", 7, 1)
	require.NotNil(t, paths)

	hops := finder.Hops(paths.Best)
	require.Len(t, hops, 3)
	assert.Equal(t, "owner", hops[0].NodeID)
	assert.Zero(t, hops[0].Strength)
	assert.Equal(t, models.KindMentor, hops[1].Kind)
	assert.Equal(t, "Mentored at Initech", hops[1].Context)
	assert.Equal(t, 0.4, hops[2].Strength)
}

func TestLevels(t *testing.T) {
	s := buildStore(
		[]string{"owner", "a", "b", "c", "d"},
		[]models.Edge{edge("owner", "a", 1), edge("owner", "b", 1), edge("a", "c", 1), edge("c", "d", 1)},
	)
	levels := NewPathFinder(s).Levels("owner", 3)
	assert.ElementsMatch(t, []string{"a", "b"}, levels[1])
	assert.Equal(t, []string{"c"}, levels[2])
	assert.Equal(t, []string{"d"}, levels[3])
}

// referenceDistance is an independent BFS used to check FindPaths.
func referenceDistance(s *Store, origin, target string) int {
	dist := map[string]int{origin: 0}
	queue := []string{origin}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			return dist[cur]
		}
		for _, adj := range s.adjacency[cur] {
			if _, ok := dist[adj.NeighborID]; !ok {
				dist[adj.NeighborID] = dist[cur] + 1
				queue = append(queue, adj.NeighborID)
			}
		}
	}
	return -1
}

func TestFindPathsMatchesBFSDistanceOnRandomGraphs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		n := 5 + rng.Intn(25)
		ids := make([]string, n)
		for i := range ids {
			ids[i] = fmt.Sprintf("n%d", i)
		}
		var edges []models.Edge
		for i := 0; i < n*2; i++ {
			a, b := ids[rng.Intn(n)], ids[rng.Intn(n)]
			edges = append(edges, edge(a, b, rng.Float64()))
		}
		s := buildStore(ids, edges)
		finder := NewPathFinder(s)

		for _, target := range ids[1:] {
			want := referenceDistance(s, ids[0], target)
			paths := finder.FindPaths(ids[0], target, n, 3)

			if want < 0 {
				assert.Nil(t, paths, "trial %d target %s", trial, target)
				continue
			}
			require.NotNil(t, paths, "trial %d target %s", trial, target)
			assert.Equal(t, want, paths.Best.Degree(), "trial %d target %s", trial, target)
			for _, alt := range paths.Alternatives {
				assert.GreaterOrEqual(t, alt.Degree(), want)
				assert.LessOrEqual(t, alt.Degree(), want+1)
			}

			// Each consecutive pair in the path is actually joined by an edge.
			for i, e := range paths.Best.Edges {
				a, b := paths.Best.NodeIDs[i], paths.Best.NodeIDs[i+1]
				assert.True(t, (e.SourceID == a && e.TargetID == b) || (e.SourceID == b && e.TargetID == a))
			}
		}
	}
}
