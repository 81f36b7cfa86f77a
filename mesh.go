// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex

import (
	"fmt"
	"sort"
)

// BoundaryEdges returns the undirected edges used by exactly one cell,
// normalized as (low, high) vertex pairs and sorted. On a well-formed
// measurement mesh these trace the domain outline and any interior
// holes. The geometry must carry connectivity with at least 3 points per
// cell.
func (g *Geometry) BoundaryEdges() ([][2]int64, error) {
	if !g.HasCells() {
		return nil, fmt.Errorf("geometry has no connectivity")
	}
	if g.cellSize < 3 {
		return nil, fmt.Errorf("boundary topology requires cells of at least 3 points, got %d", g.cellSize)
	}

	counts := map[[2]int64]int{}
	cellCount := g.CellCount()
	for c := 0; c < cellCount; c++ {
		cell := g.cells[c*g.cellSize : (c+1)*g.cellSize]
		for i := range cell {
			a, b := cell[i], cell[(i+1)%g.cellSize]
			if a > b {
				a, b = b, a
			}
			counts[[2]int64{a, b}]++
		}
	}

	var edges [][2]int64
	for edge, n := range counts {
		if n == 1 {
			edges = append(edges, edge)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return edges, nil
}

// BoundaryLoops walks the boundary edges into closed vertex loops. Each
// loop lists its vertices in traversal order, starting from the loop's
// lowest vertex. A well-formed domain yields one loop for the outline
// plus one per hole.
func (g *Geometry) BoundaryLoops() ([][]int64, error) {
	edges, err := g.BoundaryEdges()
	if err != nil {
		return nil, err
	}

	adj := map[int64][]int64{}
	for _, e := range edges {
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}
	for v := range adj {
		neighbors := adj[v]
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
	}

	used := map[[2]int64]bool{}
	edgeKey := func(a, b int64) [2]int64 {
		if a > b {
			a, b = b, a
		}
		return [2]int64{a, b}
	}

	var loops [][]int64
	for _, e := range edges {
		if used[e] {
			continue
		}
		start := e[0]
		loop := []int64{start}
		used[e] = true
		cur := e[1]
		for cur != start {
			loop = append(loop, cur)
			advanced := false
			for _, n := range adj[cur] {
				key := edgeKey(cur, n)
				if used[key] {
					continue
				}
				used[key] = true
				cur = n
				advanced = true
				break
			}
			if !advanced {
				// Open chain: boundary is not a closed manifold here.
				break
			}
		}
		loops = append(loops, loop)
	}
	return loops, nil
}

// HasHoles reports whether the measurement domain has interior holes,
// meaning its boundary decomposes into more than one closed loop.
func (g *Geometry) HasHoles() (bool, error) {
	loops, err := g.BoundaryLoops()
	if err != nil {
		return false, err
	}
	return len(loops) > 1, nil
}
