/*
Package topology
File: graph.go
Description:
    The galaxy map: an undirected graph whose nodes are planet ids and whose
    edges are traversable connections.

    The graph is stored as an index-addressed adjacency structure (ids, not
    pointers), so cycles in the galaxy never become ownership cycles. The
    edge set only changes through explicit calls: Connect during galaxy
    initialization, and RemoveNode when a planet is destroyed.

    Critical nodes (articulation points) are the planets whose destruction
    would split the galaxy. They are computed with the standard lowlink DFS
    and recomputed by callers whenever the edge set changes.
*/

package topology

import "sort"

// Graph is an undirected graph over planet ids. Not safe for concurrent
// mutation; the orchestrator owns the canonical instance and mutates it
// only between ticks.
type Graph struct {
	adjacency map[int]map[int]bool
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{adjacency: make(map[int]map[int]bool)}
}

// AddNode ensures the node exists, with or without edges.
func (g *Graph) AddNode(id int) {
	if g.adjacency[id] == nil {
		g.adjacency[id] = make(map[int]bool)
	}
}

// Connect adds an undirected edge between a and b, creating the nodes if
// needed. Self-loops are ignored.
func (g *Graph) Connect(a, b int) {
	if a == b {
		return
	}
	g.AddNode(a)
	g.AddNode(b)
	g.adjacency[a][b] = true
	g.adjacency[b][a] = true
}

// RemoveNode deletes a node and every edge touching it. Used when a planet
// runs out of energy cells and is removed from the galaxy.
func (g *Graph) RemoveNode(id int) {
	for neighbor := range g.adjacency[id] {
		delete(g.adjacency[neighbor], id)
	}
	delete(g.adjacency, id)
}

// Contains reports whether the node is present.
func (g *Graph) Contains(id int) bool {
	_, ok := g.adjacency[id]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.adjacency)
}

// Nodes returns all node ids in ascending order.
func (g *Graph) Nodes() []int {
	ids := make([]int, 0, len(g.adjacency))
	for id := range g.adjacency {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Neighbors returns the ids adjacent to the given node, ascending.
func (g *Graph) Neighbors(id int) []int {
	edges := g.adjacency[id]
	out := make([]int, 0, len(edges))
	for n := range edges {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// IsConnected reports whether every node can reach every other node.
// The empty graph counts as connected.
func (g *Graph) IsConnected() bool {
	if len(g.adjacency) == 0 {
		return true
	}
	var start int
	for id := range g.adjacency {
		start = id
		break
	}
	return len(g.reachableFrom(start)) == len(g.adjacency)
}

// Reachable reports whether there is a path from a to b.
func (g *Graph) Reachable(a, b int) bool {
	if !g.Contains(a) || !g.Contains(b) {
		return false
	}
	return g.reachableFrom(a)[b]
}

func (g *Graph) reachableFrom(start int) map[int]bool {
	seen := map[int]bool{start: true}
	stack := []int{start}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for n := range g.adjacency[current] {
			if !seen[n] {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return seen
}

// ShortestPath returns a minimum-hop path from a to b, inclusive of both
// endpoints, or nil if no path exists. Ties are broken toward lower ids so
// routes are reproducible.
func (g *Graph) ShortestPath(a, b int) []int {
	if !g.Contains(a) || !g.Contains(b) {
		return nil
	}
	if a == b {
		return []int{a}
	}
	parent := map[int]int{a: a}
	queue := []int{a}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbors(current) {
			if _, seen := parent[n]; seen {
				continue
			}
			parent[n] = current
			if n == b {
				return reconstruct(parent, a, b)
			}
			queue = append(queue, n)
		}
	}
	return nil
}

func reconstruct(parent map[int]int, a, b int) []int {
	path := []int{b}
	for current := b; current != a; {
		current = parent[current]
		path = append(path, current)
	}
	// reverse into a -> b order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// CriticalNodes returns the articulation points of the graph: nodes whose
// removal would disconnect their component. The computation is the lowlink
// DFS, run per component, so a disconnected graph yields the union of each
// component's result. Runs in O(nodes + edges).
func (g *Graph) CriticalNodes() []int {
	discovery := make(map[int]int, len(g.adjacency))
	lowlink := make(map[int]int, len(g.adjacency))
	critical := make(map[int]bool)
	timer := 0

	var dfs func(node, parent int)
	dfs = func(node, parent int) {
		timer++
		discovery[node] = timer
		lowlink[node] = timer
		children := 0

		for next := range g.adjacency[node] {
			if next == parent {
				continue
			}
			if d, visited := discovery[next]; visited {
				// back edge
				if d < lowlink[node] {
					lowlink[node] = d
				}
				continue
			}
			children++
			dfs(next, node)
			if lowlink[next] < lowlink[node] {
				lowlink[node] = lowlink[next]
			}
			// A non-root node is critical when some child subtree has no
			// back edge climbing strictly above it.
			if parent != -1 && lowlink[next] >= discovery[node] {
				critical[node] = true
			}
		}

		// The DFS root is critical iff it has more than one child subtree.
		if parent == -1 && children > 1 {
			critical[node] = true
		}
	}

	for _, id := range g.Nodes() {
		if _, visited := discovery[id]; !visited {
			dfs(id, -1)
		}
	}

	out := make([]int, 0, len(critical))
	for id := range critical {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Clone returns an independent copy of the graph. Explorers seeded with a
// full map get a clone so their bookkeeping never aliases the canonical one.
func (g *Graph) Clone() *Graph {
	out := New()
	for id, edges := range g.adjacency {
		out.AddNode(id)
		for n := range edges {
			out.Connect(id, n)
		}
	}
	return out
}
