// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex

import "strings"

// ComponentKind describes how many components a field stores per point.
type ComponentKind string

const (
	// Scalar fields carry one component per point.
	Scalar ComponentKind = "scalar"

	// Vector fields carry one component per spatial axis.
	Vector ComponentKind = "vector"

	// Tensor fields carry the symmetric tensor components for the
	// geometry's dimensionality: xx, yy, xy in 2D and xx, yy, zz, xy,
	// yz, xz in 3D.
	Tensor ComponentKind = "tensor"
)

// Components returns the per-point component count for a geometry of the
// given dimensionality, or 0 for an unknown kind.
func (k ComponentKind) Components(dim int) int {
	switch k {
	case Scalar:
		return 1
	case Vector:
		return dim
	case Tensor:
		return dim * (dim + 1) / 2
	default:
		return 0
	}
}

// Field is a named physical quantity attached to geometry: one value row
// per point, row width determined by the component kind. Fields are
// immutable; WithValues and WithUnit build replacements.
type Field struct {
	name   string
	unit   string
	kind   ComponentKind
	dim    int
	values []float64
}

// NewField creates a Field validated against the supplied Geometry.
//
// Parameters:
//   - name: dataset-safe field name, unique within its time step
//   - unit: physical unit label ("mm", "1", ...)
//   - kind: Scalar, Vector or Tensor
//   - values: flat row-major array, length = pointCount * components
//   - geom: the geometry the field attaches to
//
// Returns an InvalidNameError for unusable names and a
// FieldShapeMismatchError when the array extent does not match the
// geometry's point count and the declared kind. The values slice is
// copied; validation happens here, never deferred.
func NewField(name, unit string, kind ComponentKind, values []float64, geom *Geometry) (*Field, error) {
	if err := checkFieldName(name); err != nil {
		return nil, err
	}
	if err := checkFieldShape(name, kind, geom.Dim(), geom.PointCount(), len(values)); err != nil {
		return nil, err
	}
	return &Field{
		name:   name,
		unit:   unit,
		kind:   kind,
		dim:    geom.Dim(),
		values: append([]float64(nil), values...),
	}, nil
}

// newFieldUnchecked wraps decoded values without invariant checks and
// without copying; Validate audits the result before callers see it.
func newFieldUnchecked(name, unit string, kind ComponentKind, dim int, values []float64) *Field {
	return &Field{name: name, unit: unit, kind: kind, dim: dim, values: values}
}

// checkFieldName rejects names unusable as container dataset names.
func checkFieldName(name string) error {
	switch {
	case name == "":
		return &InvalidNameError{Name: name, Reason: "must not be empty"}
	case strings.Contains(name, "/"):
		return &InvalidNameError{Name: name, Reason: "must not contain '/'"}
	case name == geometryGroupName:
		return &InvalidNameError{Name: name, Reason: "reserved for the geometry subgroup"}
	}
	return nil
}

// checkFieldShape verifies the flat length against points and kind.
func checkFieldShape(name string, kind ComponentKind, dim, points, flatLen int) error {
	comp := kind.Components(dim)
	if comp == 0 || flatLen != points*comp {
		return &FieldShapeMismatchError{
			Field:      name,
			Kind:       kind,
			Points:     points,
			Components: comp,
			FlatLen:    flatLen,
		}
	}
	return nil
}

// Name returns the field name.
func (f *Field) Name() string {
	return f.name
}

// Unit returns the physical unit label.
func (f *Field) Unit() string {
	return f.unit
}

// Kind returns the component kind.
func (f *Field) Kind() ComponentKind {
	return f.kind
}

// Components returns the number of components stored per point.
func (f *Field) Components() int {
	return f.kind.Components(f.dim)
}

// PointCount returns the number of value rows.
func (f *Field) PointCount() int {
	comp := f.Components()
	if comp <= 0 {
		return 0
	}
	return len(f.values) / comp
}

// Values returns a copy of the flat row-major value array.
func (f *Field) Values() []float64 {
	return append([]float64(nil), f.values...)
}

// At returns a copy of the component row of point i.
func (f *Field) At(i int) []float64 {
	comp := f.Components()
	row := f.values[i*comp : (i+1)*comp]
	return append([]float64(nil), row...)
}

// WithValues returns a new Field carrying the replacement array. The new
// array must have the same length as the old one; the receiver is not
// modified.
func (f *Field) WithValues(values []float64) (*Field, error) {
	if len(values) != len(f.values) {
		return nil, &FieldShapeMismatchError{
			Field:      f.name,
			Kind:       f.kind,
			Points:     f.PointCount(),
			Components: f.Components(),
			FlatLen:    len(values),
		}
	}
	return &Field{
		name:   f.name,
		unit:   f.unit,
		kind:   f.kind,
		dim:    f.dim,
		values: append([]float64(nil), values...),
	}, nil
}

// WithUnit returns a new Field with a replacement unit label.
func (f *Field) WithUnit(unit string) *Field {
	g := *f
	g.unit = unit
	g.values = append([]float64(nil), f.values...)
	return &g
}
