// ABOUTME: Depth-bounded breadth-first path search over the graph store
// ABOUTME: Finds the fewest-hop, strongest path to a target plus alternative routes
package graph

import (
	"sort"
	"strings"

	"github.com/harperreed/sherpa/models"
)

const (
	// DefaultMaxDepth is the default bound on degrees of separation.
	DefaultMaxDepth = 7

	// DefaultMaxPaths is the default number of paths returned (best + alternatives).
	DefaultMaxPaths = 3

	// AlternativeCandidateFactor scales how many candidate routes are
	// collected per requested path before ranking.
	AlternativeCandidateFactor = 4
)

// Path is a route through the store. Edges[i] joins NodeIDs[i] and NodeIDs[i+1].
type Path struct {
	NodeIDs  []string
	Edges    []models.Edge
	Strength float64
}

// Degree is the hop count of the path.
func (p Path) Degree() int {
	return len(p.Edges)
}

func (p Path) signature() string {
	return strings.Join(p.NodeIDs, "\x00")
}

// Paths is the outcome of a search: the best path and up to maxPaths-1 alternatives.
type Paths struct {
	Best         Path
	Alternatives []Path
}

// PathFinder searches a Store without mutating it.
type PathFinder struct {
	store *Store
}

func NewPathFinder(store *Store) *PathFinder {
	return &PathFinder{store: store}
}

// Distances runs a BFS from origin and returns hop counts for every node
// reachable within maxDepth, including origin itself at 0.
func (f *PathFinder) Distances(origin string, maxDepth int) map[string]int {
	dist := make(map[string]int)
	if !f.store.HasNode(origin) {
		return dist
	}

	dist[origin] = 0
	frontier := []string{origin}
	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			for _, adj := range f.store.adjacency[id] {
				if _, seen := dist[adj.NeighborID]; seen {
					continue
				}
				dist[adj.NeighborID] = depth
				next = append(next, adj.NeighborID)
			}
		}
		frontier = next
	}
	return dist
}

// Levels groups the nodes reachable from origin by degree, 1..maxDegrees,
// each level in discovery order.
func (f *PathFinder) Levels(origin string, maxDegrees int) map[int][]string {
	levels := make(map[int][]string)
	if !f.store.HasNode(origin) {
		return levels
	}

	seen := map[string]bool{origin: true}
	frontier := []string{origin}
	for degree := 1; degree <= maxDegrees; degree++ {
		var next []string
		for _, id := range frontier {
			for _, adj := range f.store.adjacency[id] {
				if seen[adj.NeighborID] {
					continue
				}
				seen[adj.NeighborID] = true
				next = append(next, adj.NeighborID)
			}
		}
		levels[degree] = next
		frontier = next
	}
	return levels
}

// FindPaths returns the fewest-hop path from origin to target, breaking ties
// by the product of edge strengths, plus alternatives at the same or next
// depth. It returns nil when target is unreachable within maxDepth.
func (f *PathFinder) FindPaths(origin, target string, maxDepth, maxPaths int) *Paths {
	if maxDepth < 1 {
		maxDepth = 1
	}
	if maxPaths < 1 {
		maxPaths = 1
	}
	if origin == target || !f.store.HasNode(origin) || !f.store.HasNode(target) {
		return nil
	}

	distFrom := f.Distances(origin, maxDepth)
	d, ok := distFrom[target]
	if !ok {
		return nil
	}
	distTo := f.Distances(target, maxDepth)

	best := f.strongestShortest(origin, target, d, distFrom, distTo)
	result := &Paths{Best: best}
	if maxPaths == 1 {
		return result
	}

	want := maxPaths - 1
	limit := maxPaths * AlternativeCandidateFactor
	seen := map[string]bool{best.signature(): true}
	var candidates []Path

	for _, depthLimit := range []int{d, d + 1} {
		if depthLimit > maxDepth || len(candidates) >= want {
			break
		}
		var found []Path
		f.enumerate(origin, target, depthLimit, distTo, limit, &found)
		for _, p := range found {
			sig := p.signature()
			if seen[sig] {
				continue
			}
			seen[sig] = true
			candidates = append(candidates, p)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Degree() != candidates[j].Degree() {
			return candidates[i].Degree() < candidates[j].Degree()
		}
		return candidates[i].Strength > candidates[j].Strength
	})
	if len(candidates) > want {
		candidates = candidates[:want]
	}
	result.Alternatives = candidates
	return result
}

// strongestShortest walks the shortest-path layers and keeps, for each node,
// the predecessor that maximises the running strength product.
func (f *PathFinder) strongestShortest(origin, target string, d int, distFrom, distTo map[string]int) Path {
	onShortest := func(id string) bool {
		df, ok1 := distFrom[id]
		dt, ok2 := distTo[id]
		return ok1 && ok2 && df+dt == d
	}

	layers := make([][]string, d+1)
	layers[0] = []string{origin}
	for depth := 1; depth <= d; depth++ {
		seen := make(map[string]bool)
		for _, prev := range layers[depth-1] {
			for _, adj := range f.store.adjacency[prev] {
				n := adj.NeighborID
				if seen[n] || distFrom[n] != depth || !onShortest(n) {
					continue
				}
				seen[n] = true
				layers[depth] = append(layers[depth], n)
			}
		}
	}

	score := map[string]float64{origin: 1}
	parent := make(map[string]string)
	parentEdge := make(map[string]*models.Edge)

	for depth := 1; depth <= d; depth++ {
		for _, v := range layers[depth] {
			for _, adj := range f.store.adjacency[v] {
				u := adj.NeighborID
				su, ok := score[u]
				if !ok || distFrom[u] != depth-1 {
					continue
				}
				cand := su * adj.Edge.Strength
				if cur, has := score[v]; !has || cand > cur {
					score[v] = cand
					parent[v] = u
					parentEdge[v] = adj.Edge
				}
			}
		}
	}

	ids := make([]string, d+1)
	edges := make([]models.Edge, d)
	cur := target
	for i := d; i > 0; i-- {
		ids[i] = cur
		edges[i-1] = *parentEdge[cur]
		cur = parent[cur]
	}
	ids[0] = origin

	return Path{NodeIDs: ids, Edges: edges, Strength: score[target]}
}

// enumerate collects simple paths from origin to target no longer than
// depthLimit, strongest branches first, stopping once limit paths are found.
func (f *PathFinder) enumerate(origin, target string, depthLimit int, distTo map[string]int, limit int, out *[]Path) {
	visited := map[string]bool{origin: true}
	ids := []string{origin}
	var edges []models.Edge

	var walk func(node string, strength float64)
	walk = func(node string, strength float64) {
		if len(*out) >= limit {
			return
		}
		if node == target {
			p := Path{
				NodeIDs:  append([]string(nil), ids...),
				Edges:    append([]models.Edge(nil), edges...),
				Strength: strength,
			}
			*out = append(*out, p)
			return
		}
		if len(edges) >= depthLimit {
			return
		}

		adjacent := f.store.Neighbors(node)
		sort.SliceStable(adjacent, func(i, j int) bool {
			return adjacent[i].Edge.Strength > adjacent[j].Edge.Strength
		})

		for _, adj := range adjacent {
			n := adj.NeighborID
			if visited[n] {
				continue
			}
			dt, ok := distTo[n]
			if !ok || len(edges)+1+dt > depthLimit {
				continue
			}

			visited[n] = true
			ids = append(ids, n)
			edges = append(edges, *adj.Edge)

			walk(n, strength*adj.Edge.Strength)

			visited[n] = false
			ids = ids[:len(ids)-1]
			edges = edges[:len(edges)-1]

			if len(*out) >= limit {
				return
			}
		}
	}

	walk(origin, 1)
}

// Hops converts a path into display hops. The first hop is the origin and
// carries no edge data.
func (f *PathFinder) Hops(p Path) []models.PathHop {
	hops := make([]models.PathHop, 0, len(p.NodeIDs))
	for i, id := range p.NodeIDs {
		node, _ := f.store.Node(id)
		hop := models.PathHop{
			NodeID:  id,
			Name:    node.DisplayName,
			Title:   node.Title,
			Company: node.Company,
		}
		if i > 0 {
			e := p.Edges[i-1]
			hop.Kind = e.Kind
			hop.Strength = e.Strength
			hop.Verified = e.Verified
			hop.Context = e.Context
			hop.LastInteractionAt = e.LastInteractionAt
			hop.MutualConnections = e.MutualConnections
		}
		hops = append(hops, hop)
	}
	return hops
}
