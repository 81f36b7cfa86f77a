// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex

import (
	"fmt"
	"math"
)

// PrincipalComponents computes the principal values of a symmetric 2D
// tensor field, point by point: the eigenvalues of [[xx, xy], [xy, yy]],
// largest first. Strain engineers know these as the major and minor
// principal strains.
//
// The named field must be a Tensor field on a 2D geometry. Two new
// Scalar fields named "<name>_1" and "<name>_2" are returned, carrying
// the source field's unit. 3D tensors are the territory of external
// numerics libraries and are rejected here.
func PrincipalComponents(ts *TimeStep, fieldName string) (major, minor *Field, err error) {
	f, ok := ts.Field(fieldName)
	if !ok {
		return nil, nil, fmt.Errorf("field %q does not exist", fieldName)
	}
	if f.Kind() != Tensor {
		return nil, nil, fmt.Errorf("field %q is %s, principal components need a tensor field",
			fieldName, f.Kind())
	}
	geom := ts.Geometry()
	if geom.Dim() != 2 {
		return nil, nil, fmt.Errorf("principal components are closed-form for 2D tensors only, geometry is %dD",
			geom.Dim())
	}

	n := geom.PointCount()
	p1 := make([]float64, n)
	p2 := make([]float64, n)
	for i := 0; i < n; i++ {
		xx := f.values[3*i]
		yy := f.values[3*i+1]
		xy := f.values[3*i+2]
		mean := (xx + yy) / 2
		radius := math.Hypot((xx-yy)/2, xy)
		p1[i] = mean + radius
		p2[i] = mean - radius
	}

	major, err = NewField(fieldName+"_1", f.Unit(), Scalar, p1, geom)
	if err != nil {
		return nil, nil, err
	}
	minor, err = NewField(fieldName+"_2", f.Unit(), Scalar, p2, geom)
	if err != nil {
		return nil, nil, err
	}
	return major, minor, nil
}
