package translate

import "sort"

// seed assigns starting coordinates from a hierarchical pre-layout: break
// cycles, rank nodes by longest path, stack ranks vertically and spread
// each rank horizontally. With no constraints the pre-layout is the final
// layout and every node is pinned; otherwise nodes start there unpinned so
// the solver can satisfy the constraints.
func seed(l *Layout, opts Options) {
	n := len(l.Nodes)
	if n == 0 {
		return
	}

	children := make([][]int, n)
	for _, e := range l.Edges {
		if e.Source != e.Target {
			children[e.Source] = append(children[e.Source], e.Target)
		}
	}
	breakCycles(children)
	ranks := assignRanks(children)

	byRank := make(map[int][]int)
	maxRank := 0
	for i, r := range ranks {
		byRank[r] = append(byRank[r], i)
		if r > maxRank {
			maxRank = r
		}
	}

	pinned := len(l.Constraints) == 0
	for r := 0; r <= maxRank; r++ {
		row := byRank[r]
		sort.Ints(row)
		for col, i := range row {
			l.Nodes[i].X = (float64(col) - float64(len(row)-1)/2) * opts.RankSpacing
			l.Nodes[i].Y = float64(r) * opts.RankSpacing
			l.Nodes[i].Pinned = pinned
		}
	}
}

// breakCycles removes back edges found by a depth-first traversal so the
// rank assignment terminates. The pre-layout only needs some acyclic
// orientation, not a particular one.
func breakCycles(children [][]int) {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(children))
	type edge struct{ from, to int }
	var backEdges []edge

	var dfs func(node int)
	dfs = func(node int) {
		color[node] = gray
		for _, child := range children[node] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, edge{node, child})
			}
		}
		color[node] = black
	}

	for node := range children {
		if color[node] == white {
			dfs(node)
		}
	}

	for _, e := range backEdges {
		kept := children[e.from][:0]
		for _, c := range children[e.from] {
			if c != e.to {
				kept = append(kept, c)
			}
		}
		children[e.from] = kept
	}
}

// assignRanks computes longest-path ranks via Kahn's algorithm: each node
// sits one rank below its deepest parent, sources at rank 0.
func assignRanks(children [][]int) []int {
	n := len(children)
	inDegree := make([]int, n)
	for _, cs := range children {
		for _, c := range cs {
			inDegree[c]++
		}
	}

	ranks := make([]int, n)
	queue := make([]int, 0, n)
	for i, d := range inDegree {
		if d == 0 {
			queue = append(queue, i)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range children[curr] {
			if r := ranks[curr] + 1; r > ranks[child] {
				ranks[child] = r
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return ranks
}
