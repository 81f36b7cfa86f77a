// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex

// Container attribute and object names of layout v1. The vocabulary is
// additive across minor versions; only a major bump may redefine it.
const (
	schemaVersionAttr    = "schema_version"
	coordinateSystemAttr = "coordinate_system"
	provenanceAttr       = "provenance"
	validationNotesAttr  = "validation_notes"

	timestampAttr         = "timestamp"
	measurementAttrPrefix = "scalar_"

	geometryGroupName   = "geometry"
	dimensionAttr       = "dimension"
	cellSizeAttr        = "cell_size"
	positionsDataset    = "positions"
	connectivityDataset = "connectivity"

	unitAttr          = "unit"
	componentKindAttr = "component_kind"
)

// DefaultChunkBytes is the byte budget a single stored chunk may occupy.
// Field and geometry datasets are chunked along the point axis so large
// sessions stream without loading whole arrays; one chunk stays at or
// under this budget unless a single row already exceeds it.
const DefaultChunkBytes = 1 << 20

// containerElemSize is the stored size of every dataset element; layout
// v1 stores float64 values and int64 indices only.
const containerElemSize = 8

// chunkDimsFor computes the chunk shape for a dataset of the given dims:
// the leading (point) axis is split to fit the byte budget, trailing
// component axes are never split. Returns nil for datasets that cannot be
// chunked (zero rows).
func chunkDimsFor(dims []uint64, budgetBytes int) []uint64 {
	if len(dims) == 0 || dims[0] == 0 {
		return nil
	}
	rowElems := uint64(1)
	for _, d := range dims[1:] {
		if d == 0 {
			return nil
		}
		rowElems *= d
	}
	rowBytes := rowElems * containerElemSize
	rows := uint64(budgetBytes) / rowBytes
	if rows < 1 {
		rows = 1
	}
	if rows > dims[0] {
		rows = dims[0]
	}
	chunk := make([]uint64, len(dims))
	chunk[0] = rows
	copy(chunk[1:], dims[1:])
	return chunk
}

// objectPath joins container object names under the root.
func objectPath(parts ...string) string {
	path := ""
	for _, p := range parts {
		path += "/" + p
	}
	if path == "" {
		return "/"
	}
	return path
}
