// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex

import (
	"math"
	"sort"
	"strings"
)

// TimeStep is one acquisition instant: an index, an optional timestamp,
// optional scalar measurements, exactly one Geometry, and named Fields all
// sized against that geometry. TimeSteps are immutable; WithTimestamp and
// WithMeasurement build replacements.
type TimeStep struct {
	index        int64
	timestamp    float64
	measurements map[string]float64
	geom         *Geometry
	fields       map[string]*Field
}

// NewTimeStep creates a TimeStep from a geometry and its fields.
//
// The acquisition index must be non-negative. Every field must have been
// built against a geometry of the same dimensionality and point count;
// otherwise a FieldShapeMismatchError is returned. Duplicate field names
// return an InvalidNameError.
func NewTimeStep(index int64, geom *Geometry, fields ...*Field) (*TimeStep, error) {
	if index < 0 {
		return nil, &NonMonotonicIndexError{Last: -1, Got: index}
	}
	byName := make(map[string]*Field, len(fields))
	for _, f := range fields {
		if _, dup := byName[f.Name()]; dup {
			return nil, &InvalidNameError{Name: f.Name(), Reason: "duplicate field name"}
		}
		if f.dim != geom.Dim() || f.PointCount() != geom.PointCount() {
			return nil, &FieldShapeMismatchError{
				Field:      f.Name(),
				Kind:       f.Kind(),
				Points:     geom.PointCount(),
				Components: f.Kind().Components(geom.Dim()),
				FlatLen:    len(f.values),
			}
		}
		byName[f.Name()] = f
	}
	return &TimeStep{
		index:     index,
		timestamp: math.NaN(),
		geom:      geom,
		fields:    byName,
	}, nil
}

// newTimeStepUnchecked assembles a decoded step without invariant checks;
// Validate audits the result before callers see it.
func newTimeStepUnchecked(index int64, timestamp float64, measurements map[string]float64, geom *Geometry, fields map[string]*Field) *TimeStep {
	return &TimeStep{
		index:        index,
		timestamp:    timestamp,
		measurements: measurements,
		geom:         geom,
		fields:       fields,
	}
}

// checkMeasurementName rejects names unusable as step attribute suffixes.
func checkMeasurementName(name string) error {
	switch {
	case name == "":
		return &InvalidNameError{Name: name, Reason: "must not be empty"}
	case strings.Contains(name, "/"):
		return &InvalidNameError{Name: name, Reason: "must not contain '/'"}
	case name == timestampAttr:
		return &InvalidNameError{Name: name, Reason: "reserved for the step timestamp"}
	}
	return nil
}

// Index returns the acquisition index.
func (ts *TimeStep) Index() int64 {
	return ts.index
}

// Timestamp returns the acquisition timestamp in seconds and whether one
// was set.
func (ts *TimeStep) Timestamp() (float64, bool) {
	if math.IsNaN(ts.timestamp) {
		return 0, false
	}
	return ts.timestamp, true
}

// WithTimestamp returns a new TimeStep carrying the timestamp.
func (ts *TimeStep) WithTimestamp(seconds float64) *TimeStep {
	out := ts.clone()
	out.timestamp = seconds
	return out
}

// Measurement returns the named scalar measurement and whether it exists.
func (ts *TimeStep) Measurement(name string) (float64, bool) {
	v, ok := ts.measurements[name]
	return v, ok
}

// Measurements returns a copy of the scalar measurement map.
func (ts *TimeStep) Measurements() map[string]float64 {
	out := make(map[string]float64, len(ts.measurements))
	for k, v := range ts.measurements {
		out[k] = v
	}
	return out
}

// WithMeasurement returns a new TimeStep carrying the named scalar
// measurement ("force", "mean_strain", ...). The name "timestamp" is
// reserved.
func (ts *TimeStep) WithMeasurement(name string, value float64) (*TimeStep, error) {
	if err := checkMeasurementName(name); err != nil {
		return nil, err
	}
	out := ts.clone()
	if out.measurements == nil {
		out.measurements = make(map[string]float64, 1)
	}
	out.measurements[name] = value
	return out, nil
}

// Geometry returns the step's geometry.
func (ts *TimeStep) Geometry() *Geometry {
	return ts.geom
}

// Field returns the named field and whether it exists.
func (ts *TimeStep) Field(name string) (*Field, bool) {
	f, ok := ts.fields[name]
	return f, ok
}

// FieldCount returns the number of fields.
func (ts *TimeStep) FieldCount() int {
	return len(ts.fields)
}

// FieldNames returns the field names in lexical order.
func (ts *TimeStep) FieldNames() []string {
	names := make([]string, 0, len(ts.fields))
	for name := range ts.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fields returns the fields in lexical name order.
func (ts *TimeStep) Fields() []*Field {
	names := ts.FieldNames()
	out := make([]*Field, len(names))
	for i, name := range names {
		out[i] = ts.fields[name]
	}
	return out
}

// clone copies the step's own state; geometry and fields are immutable
// and stay shared.
func (ts *TimeStep) clone() *TimeStep {
	out := &TimeStep{
		index:     ts.index,
		timestamp: ts.timestamp,
		geom:      ts.geom,
		fields:    make(map[string]*Field, len(ts.fields)),
	}
	for k, v := range ts.fields {
		out.fields[k] = v
	}
	if ts.measurements != nil {
		out.measurements = make(map[string]float64, len(ts.measurements))
		for k, v := range ts.measurements {
			out.measurements[k] = v
		}
	}
	return out
}
