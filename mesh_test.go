// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/dicex"
)

// quadPatch is a unit square split into two triangles.
func quadPatch(t *testing.T) *dicex.Geometry {
	t.Helper()
	g, err := dicex.NewGeometryWithCells(2,
		[]float64{0, 0, 1, 0, 0, 1, 1, 1},
		[]int64{0, 1, 2, 1, 3, 2}, 3)
	require.NoError(t, err)
	return g
}

// ringPatch is a square plate with a square hole, triangulated into
// eight cells: vertices 0-3 are the outer corners, 4-7 the inner ones.
func ringPatch(t *testing.T) *dicex.Geometry {
	t.Helper()
	g, err := dicex.NewGeometryWithCells(2,
		[]float64{
			0, 0, 3, 0, 3, 3, 0, 3,
			1, 1, 2, 1, 2, 2, 1, 2,
		},
		[]int64{
			0, 1, 5, 0, 5, 4,
			1, 2, 6, 1, 6, 5,
			2, 3, 7, 2, 7, 6,
			3, 0, 4, 3, 4, 7,
		}, 3)
	require.NoError(t, err)
	return g
}

func TestBoundaryEdges(t *testing.T) {
	edges, err := quadPatch(t).BoundaryEdges()
	require.NoError(t, err)
	require.Equal(t, [][2]int64{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, edges,
		"the shared diagonal is interior, the square outline is boundary")
}

func TestBoundaryEdgesRing(t *testing.T) {
	edges, err := ringPatch(t).BoundaryEdges()
	require.NoError(t, err)
	require.Equal(t, [][2]int64{
		{0, 1}, {0, 3}, {1, 2}, {2, 3},
		{4, 5}, {4, 7}, {5, 6}, {6, 7},
	}, edges)
}

func TestBoundaryEdgesRequireCells(t *testing.T) {
	g, err := dicex.NewGeometry(2, []float64{0, 0, 1, 0})
	require.NoError(t, err)
	_, err = g.BoundaryEdges()
	require.Error(t, err)

	line, err := dicex.NewGeometryWithCells(2,
		[]float64{0, 0, 1, 0}, []int64{0, 1}, 2)
	require.NoError(t, err)
	_, err = line.BoundaryEdges()
	require.Error(t, err)
}

func TestBoundaryLoops(t *testing.T) {
	loops, err := quadPatch(t).BoundaryLoops()
	require.NoError(t, err)
	require.Len(t, loops, 1)
	require.Equal(t, []int64{0, 1, 3, 2}, loops[0])
}

func TestBoundaryLoopsRing(t *testing.T) {
	loops, err := ringPatch(t).BoundaryLoops()
	require.NoError(t, err)
	require.Len(t, loops, 2)
	require.Equal(t, []int64{0, 1, 2, 3}, loops[0])
	require.Equal(t, []int64{4, 5, 6, 7}, loops[1])
}

func TestHasHoles(t *testing.T) {
	solid, err := quadPatch(t).HasHoles()
	require.NoError(t, err)
	require.False(t, solid)

	holed, err := ringPatch(t).HasHoles()
	require.NoError(t, err)
	require.True(t, holed)
}
