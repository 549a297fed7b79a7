package network

import (
	"gonum.org/v1/gonum/floats"
)

const (
	// maxPowerIterations bounds the eigenvector power iteration. Graphs whose
	// adjacency structure has no dominant eigenvector (directed chains,
	// oscillating bipartite shapes) exhaust the budget instead of looping.
	maxPowerIterations = 100
	// powerIterationTol is the per-node convergence tolerance.
	powerIterationTol = 1e-6
)

// CentralityResult holds the four centrality measures for one user. A nil
// field means "no value": either the user is not a node of the snapshot, or,
// for Eigenvector only, the power iteration failed to converge. The other
// three measures are always present for a user that exists in the snapshot.
type CentralityResult struct {
	Degree      *float64 `json:"degree"`
	Closeness   *float64 `json:"closeness"`
	Betweenness *float64 `json:"betweenness"`
	Eigenvector *float64 `json:"eigenvector"`
}

// Centrality computes degree, closeness, betweenness and eigenvector
// centrality for every node of the snapshot and extracts the values for
// username. Parallel edges and duplicate kinds between the same ordered pair
// are collapsed first; centrality is a property of the simple digraph.
func (s *Snapshot) Centrality(username string) *CentralityResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	adj := s.collapsedOut()
	degree := degreeCentrality(adj)
	closeness := closenessCentrality(adj)
	betweenness := betweennessCentrality(adj)
	eigenvector, converged := eigenvectorCentrality(adj, maxPowerIterations, powerIterationTol)

	res := &CentralityResult{}
	i, ok := s.index[username]
	if !ok {
		return res
	}
	res.Degree = &degree[i]
	res.Closeness = &closeness[i]
	res.Betweenness = &betweenness[i]
	if converged {
		res.Eigenvector = &eigenvector[i]
	}
	return res
}

// collapsedOut builds the simple-digraph adjacency: the unique successor set
// of every node, self-loops included. Callers must hold at least a read lock.
func (s *Snapshot) collapsedOut() [][]int {
	adj := make([][]int, len(s.out))
	seen := make([]int, len(s.out))
	for i := range seen {
		seen[i] = -1
	}
	for u, edges := range s.out {
		for _, e := range edges {
			if seen[e.to] == u {
				continue
			}
			seen[e.to] = u
			adj[u] = append(adj[u], e.to)
		}
	}
	return adj
}

// degreeCentrality returns (in-degree + out-degree) / (n-1) for every node.
// A self-loop counts toward both directions. Single-node graphs score zero.
func degreeCentrality(adj [][]int) []float64 {
	n := len(adj)
	deg := make([]float64, n)
	if n < 2 {
		return deg
	}
	for u, targets := range adj {
		deg[u] += float64(len(targets))
		for _, v := range targets {
			deg[v]++
		}
	}
	norm := float64(n - 1)
	for i := range deg {
		deg[i] /= norm
	}
	return deg
}

// closenessCentrality returns outgoing-distance closeness with the
// Wasserman-Faust correction for disconnected graphs: the reciprocal average
// distance to reachable nodes, scaled by the fraction of nodes reachable.
// Nodes that reach nothing score zero.
func closenessCentrality(adj [][]int) []float64 {
	n := len(adj)
	closeness := make([]float64, n)
	dist := make([]int, n)
	queue := make([]int, 0, n)

	for u := 0; u < n; u++ {
		for i := range dist {
			dist[i] = -1
		}
		dist[u] = 0
		queue = append(queue[:0], u)

		reached := 1
		sum := 0
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, w := range adj[v] {
				if dist[w] >= 0 {
					continue
				}
				dist[w] = dist[v] + 1
				sum += dist[w]
				reached++
				queue = append(queue, w)
			}
		}

		if sum > 0 && n > 1 {
			r := float64(reached - 1)
			closeness[u] = (r / float64(sum)) * (r / float64(n-1))
		}
	}
	return closeness
}

// betweennessCentrality computes normalized betweenness for every node using
// Brandes' algorithm: one BFS per source, then back-propagation of pair
// dependencies. Scores use the directed normalization factor (n-1)*(n-2);
// graphs with fewer than three nodes are all zero.
func betweennessCentrality(adj [][]int) []float64 {
	n := len(adj)
	cb := make([]float64, n)
	if n < 3 {
		return cb
	}

	for s := 0; s < n; s++ {
		stack, sigma, pred := brandesBFS(adj, s)
		brandesAccumulate(s, stack, sigma, pred, cb)
	}

	norm := float64((n - 1) * (n - 2))
	for i := range cb {
		cb[i] /= norm
	}
	return cb
}

// brandesBFS runs the forward phase from source s, returning the visit stack
// (for reverse traversal), shortest-path counts and predecessor lists.
func brandesBFS(adj [][]int, s int) ([]int, []float64, [][]int) {
	n := len(adj)
	stack := make([]int, 0, n)
	sigma := make([]float64, n)
	pred := make([][]int, n)
	dist := make([]int, n)
	for i := range dist {
		dist[i] = -1
	}
	sigma[s] = 1
	dist[s] = 0

	queue := []int{s}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		stack = append(stack, v)

		for _, w := range adj[v] {
			if dist[w] < 0 {
				dist[w] = dist[v] + 1
				queue = append(queue, w)
			}
			if dist[w] == dist[v]+1 {
				sigma[w] += sigma[v]
				pred[w] = append(pred[w], v)
			}
		}
	}
	return stack, sigma, pred
}

// brandesAccumulate back-propagates pair dependencies along the visit stack,
// adding each node's share of shortest paths through it to cb.
func brandesAccumulate(s int, stack []int, sigma []float64, pred [][]int, cb []float64) {
	delta := make([]float64, len(cb))
	for i := len(stack) - 1; i >= 0; i-- {
		w := stack[i]
		for _, v := range pred[w] {
			delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
		}
		if w != s {
			cb[w] += delta[w]
		}
	}
}

// eigenvectorCentrality estimates the principal eigenvector of the adjacency
// structure by power iteration with an identity shift: each round a node
// keeps its previous score and receives the scores of its predecessors, then
// the vector is L2-normalized. Iteration stops when the L1 change drops below
// n*tol. The second return value is false when the budget is exhausted
// without convergence; callers substitute a missing value rather than fail.
func eigenvectorCentrality(adj [][]int, maxIter int, tol float64) ([]float64, bool) {
	n := len(adj)
	if n == 0 {
		return nil, true
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = 1 / float64(n)
	}
	xlast := make([]float64, n)

	for iter := 0; iter < maxIter; iter++ {
		copy(xlast, x)
		// x already holds xlast, so accumulating successor contributions
		// applies (A^T + I) in one sweep.
		for u, targets := range adj {
			for _, v := range targets {
				x[v] += xlast[u]
			}
		}

		norm := floats.Norm(x, 2)
		if norm == 0 {
			norm = 1
		}
		floats.Scale(1/norm, x)

		if floats.Distance(x, xlast, 1) < float64(n)*tol {
			return x, true
		}
	}
	return nil, false
}
