// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex

// Geometry holds the reference-configuration point positions of one
// measurement domain, with optional cell connectivity. Positions are
// stored flat in row-major order, one row of Dim components per point.
// A Geometry is immutable after construction: constructors copy their
// inputs and accessors return copies.
type Geometry struct {
	dim       int
	positions []float64
	cells     []int64
	cellSize  int
}

// NewGeometry creates a Geometry from a flat position array.
//
// Parameters:
//   - dim: spatial dimensionality, 2 or 3
//   - positions: flat row-major coordinates, length = pointCount * dim
//
// Returns a ShapeMismatchError when dim is not 2 or 3 or when the array
// length is not divisible by dim. The input slice is copied.
func NewGeometry(dim int, positions []float64) (*Geometry, error) {
	return NewGeometryWithCells(dim, positions, nil, 0)
}

// NewGeometryWithCells creates a Geometry with cell connectivity.
//
// Parameters:
//   - dim: spatial dimensionality, 2 or 3
//   - positions: flat row-major coordinates, length = pointCount * dim
//   - cells: flat point indices, length = cellCount * cellSize; may be nil
//   - cellSize: points per cell (3 for triangle facets); ignored when
//     cells is nil
//
// Returns a ShapeMismatchError for layout problems and a
// DanglingIndexError when a cell references a point index outside
// [0, pointCount). Input slices are copied.
func NewGeometryWithCells(dim int, positions []float64, cells []int64, cellSize int) (*Geometry, error) {
	if err := checkPositions(dim, len(positions)); err != nil {
		return nil, err
	}
	points := len(positions) / dim
	if cells != nil {
		if err := checkCells(cells, cellSize, points); err != nil {
			return nil, err
		}
	}
	g := &Geometry{
		dim:       dim,
		positions: append([]float64(nil), positions...),
	}
	if cells != nil {
		g.cells = append([]int64(nil), cells...)
		g.cellSize = cellSize
	}
	return g, nil
}

// newGeometryUnchecked wraps decoded arrays without invariant checks and
// without copying. The container read path uses it so that a corrupt
// container surfaces as a collected validation report instead of a
// construction panic; the wrapped state is audited by Validate before any
// session is returned to a caller.
func newGeometryUnchecked(dim int, positions []float64, cells []int64, cellSize int) *Geometry {
	return &Geometry{dim: dim, positions: positions, cells: cells, cellSize: cellSize}
}

// checkPositions verifies dimensionality and flat-length divisibility.
func checkPositions(dim, flatLen int) error {
	if dim < 2 || dim > 3 {
		return &ShapeMismatchError{Object: "positions", Stride: dim, FlatLen: flatLen}
	}
	if flatLen%dim != 0 {
		return &ShapeMismatchError{Object: "positions", Stride: dim, FlatLen: flatLen}
	}
	return nil
}

// checkCells verifies cell layout and index range.
func checkCells(cells []int64, cellSize, points int) error {
	if cellSize < 2 {
		return &ShapeMismatchError{Object: "connectivity", Stride: cellSize, FlatLen: len(cells)}
	}
	if len(cells)%cellSize != 0 {
		return &ShapeMismatchError{Object: "connectivity", Stride: cellSize, FlatLen: len(cells)}
	}
	for i, idx := range cells {
		if idx < 0 || idx >= int64(points) {
			return &DanglingIndexError{Cell: i / cellSize, Index: idx, PointCount: points}
		}
	}
	return nil
}

// Dim returns the spatial dimensionality (2 or 3).
func (g *Geometry) Dim() int {
	return g.dim
}

// PointCount returns the number of points.
func (g *Geometry) PointCount() int {
	if g.dim <= 0 {
		return 0
	}
	return len(g.positions) / g.dim
}

// Positions returns a copy of the flat row-major position array.
func (g *Geometry) Positions() []float64 {
	return append([]float64(nil), g.positions...)
}

// Position returns a copy of the coordinates of point i.
func (g *Geometry) Position(i int) []float64 {
	row := g.positions[i*g.dim : (i+1)*g.dim]
	return append([]float64(nil), row...)
}

// HasCells reports whether the geometry carries connectivity.
func (g *Geometry) HasCells() bool {
	return g.cells != nil
}

// CellSize returns the number of points per cell, 0 without connectivity.
func (g *Geometry) CellSize() int {
	return g.cellSize
}

// CellCount returns the number of cells.
func (g *Geometry) CellCount() int {
	if g.cellSize <= 0 {
		return 0
	}
	return len(g.cells) / g.cellSize
}

// Cells returns a copy of the flat connectivity array, nil without
// connectivity.
func (g *Geometry) Cells() []int64 {
	if g.cells == nil {
		return nil
	}
	return append([]int64(nil), g.cells...)
}

// Cell returns a copy of the point indices of cell i.
func (g *Geometry) Cell(i int) []int64 {
	row := g.cells[i*g.cellSize : (i+1)*g.cellSize]
	return append([]int64(nil), row...)
}
