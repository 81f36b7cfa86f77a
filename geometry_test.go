// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/dicex"
)

func TestNewGeometry(t *testing.T) {
	g, err := dicex.NewGeometry(2, []float64{0, 0, 1, 0, 0, 1})
	require.NoError(t, err)
	require.Equal(t, 2, g.Dim())
	require.Equal(t, 3, g.PointCount())
	require.False(t, g.HasCells())
	require.Equal(t, 0, g.CellCount())
	require.Nil(t, g.Cells())
	require.Equal(t, []float64{1, 0}, g.Position(1))
}

func TestNewGeometry3D(t *testing.T) {
	g, err := dicex.NewGeometry(3, []float64{0, 0, 0, 1, 1, 1})
	require.NoError(t, err)
	require.Equal(t, 3, g.Dim())
	require.Equal(t, 2, g.PointCount())
	require.Equal(t, []float64{1, 1, 1}, g.Position(1))
}

func TestNewGeometryBadDim(t *testing.T) {
	for _, dim := range []int{0, 1, 4, -2} {
		_, err := dicex.NewGeometry(dim, []float64{0, 0})
		require.Error(t, err)
		var shape *dicex.ShapeMismatchError
		require.ErrorAs(t, err, &shape)
		require.Equal(t, dim, shape.Stride)
	}
}

func TestNewGeometryRaggedPositions(t *testing.T) {
	_, err := dicex.NewGeometry(2, []float64{0, 0, 1})
	var shape *dicex.ShapeMismatchError
	require.ErrorAs(t, err, &shape)
	require.Equal(t, "positions", shape.Object)
	require.Equal(t, 3, shape.FlatLen)
}

func TestNewGeometryWithCells(t *testing.T) {
	g, err := dicex.NewGeometryWithCells(2,
		[]float64{0, 0, 1, 0, 0, 1, 1, 1},
		[]int64{0, 1, 2, 1, 3, 2}, 3)
	require.NoError(t, err)
	require.True(t, g.HasCells())
	require.Equal(t, 2, g.CellCount())
	require.Equal(t, 3, g.CellSize())
	require.Equal(t, []int64{1, 3, 2}, g.Cell(1))
}

func TestNewGeometryDanglingIndex(t *testing.T) {
	_, err := dicex.NewGeometryWithCells(2,
		[]float64{0, 0, 1, 0, 0, 1},
		[]int64{0, 1, 3}, 3)
	var dangling *dicex.DanglingIndexError
	require.ErrorAs(t, err, &dangling)
	require.Equal(t, 0, dangling.Cell)
	require.Equal(t, int64(3), dangling.Index)
	require.Equal(t, 3, dangling.PointCount)

	_, err = dicex.NewGeometryWithCells(2,
		[]float64{0, 0, 1, 0, 0, 1},
		[]int64{0, 1, -1}, 3)
	require.ErrorAs(t, err, &dangling)
	require.Equal(t, int64(-1), dangling.Index)
}

func TestNewGeometryRaggedCells(t *testing.T) {
	_, err := dicex.NewGeometryWithCells(2,
		[]float64{0, 0, 1, 0, 0, 1},
		[]int64{0, 1, 2, 0}, 3)
	var shape *dicex.ShapeMismatchError
	require.ErrorAs(t, err, &shape)
	require.Equal(t, "connectivity", shape.Object)
}

func TestGeometryCopiesInputs(t *testing.T) {
	positions := []float64{0, 0, 1, 0}
	cells := []int64{0, 1}
	g, err := dicex.NewGeometryWithCells(2, positions, cells, 2)
	require.NoError(t, err)

	positions[0] = 99
	cells[0] = 99
	require.Equal(t, []float64{0, 0}, g.Position(0))
	require.Equal(t, []int64{0, 1}, g.Cells())

	// Accessor results are copies too.
	got := g.Positions()
	got[0] = -1
	require.Equal(t, []float64{0, 0, 1, 0}, g.Positions())
}

func TestGeometryEmpty(t *testing.T) {
	g, err := dicex.NewGeometry(2, nil)
	require.NoError(t, err)
	require.Equal(t, 0, g.PointCount())
	require.Empty(t, g.Positions())
}
