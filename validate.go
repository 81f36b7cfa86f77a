// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validation violation codes (V100-V999).
const (
	// Session-level violations (V100-V109)
	CodeVersionUnsupported = "V100" // schema version outside supported range

	// Step ordering violations (V110-V119)
	CodeIndexOrder = "V110" // acquisition index negative or not strictly increasing

	// Geometry violations (V120-V129)
	CodeGeometryShape = "V120" // position or connectivity layout broken
	CodeDanglingIndex = "V121" // connectivity references a missing point

	// Field violations (V130-V139)
	CodeFieldShape      = "V130" // field extent disagrees with geometry or kind
	CodeFieldName       = "V131" // field name unusable as a dataset name
	CodeMeasurementName = "V132" // measurement name unusable as an attribute name

	// Coordinate-system violations (V140-V149)
	CodeCoordinateSystem = "V140" // unknown label or dimensionality disagreement

	// Non-fatal diagnostics (V900-V999)
	CodeEmptySession = "V900" // structurally valid but carries no steps
)

// Severity classifies a violation. Errors block container writes and
// reads; warnings are diagnostic only.
type Severity string

const (
	// SeverityError marks a fatal structural violation.
	SeverityError Severity = "error"

	// SeverityWarning marks a non-fatal diagnostic.
	SeverityWarning Severity = "warning"
)

// Violation is one structural finding, located by a human-readable path
// into the session.
type Violation struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
}

// Error formats the violation as a single diagnostic line.
func (v Violation) Error() string {
	return fmt.Sprintf("[%s] %s: %s", v.Code, v.Path, v.Message)
}

// Report is the ordered outcome of a full structural audit.
type Report struct {
	Violations []Violation `json:"violations"`
}

// OK reports whether the audit found no fatal violations. A report can be
// OK and still carry warnings.
func (r *Report) OK() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns the fatal violations in audit order.
func (r *Report) Errors() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			out = append(out, v)
		}
	}
	return out
}

// Warnings returns the non-fatal violations in audit order.
func (r *Report) Warnings() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityWarning {
			out = append(out, v)
		}
	}
	return out
}

// Err returns nil when the report carries no fatal violations, otherwise
// a ValidationError wrapping the full report.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Report: r}
}

// String renders one line per violation.
func (r *Report) String() string {
	if len(r.Violations) == 0 {
		return "no violations"
	}
	var b strings.Builder
	for i, v := range r.Violations {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s (%s)", v.Error(), v.Severity)
	}
	return b.String()
}

func (r *Report) add(code string, severity Severity, path, format string, args ...interface{}) {
	r.Violations = append(r.Violations, Violation{
		Code:     code,
		Severity: severity,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Validate runs the full structural audit of a session and collects every
// violation instead of stopping at the first: schema version range, step
// index ordering, geometry and field shape invariants, coordinate-system
// consistency against every geometry's dimensionality. A session with
// zero steps is valid but reported as a warning. The audit reads metadata
// and connectivity indices only; field payloads are never scanned.
func Validate(s *Session) *Report {
	r := &Report{}

	if _, err := layoutFor(s.version); err != nil {
		r.add(CodeVersionUnsupported, SeverityError, "session",
			"schema version %s is outside the supported range (majors %v)",
			s.version, supportedMajors())
	}
	if !s.coord.Known() {
		r.add(CodeCoordinateSystem, SeverityError, "session",
			"unknown coordinate system %q", s.coord)
	}

	prev := int64(-1)
	for _, ts := range s.steps {
		path := fmt.Sprintf("step %d", ts.Index())
		if ts.Index() < 0 {
			r.add(CodeIndexOrder, SeverityError, path,
				"acquisition index %d is negative", ts.Index())
		} else if ts.Index() <= prev {
			r.add(CodeIndexOrder, SeverityError, path,
				"acquisition index %d is not greater than previous index %d", ts.Index(), prev)
		}
		prev = ts.Index()
		validateStep(r, s.coord, ts)
	}

	if len(s.steps) == 0 {
		r.add(CodeEmptySession, SeverityWarning, "session",
			"session carries no time steps")
	}

	return r
}

// validateStep audits one step's own structure: geometry and field shape
// invariants, measurement names, and dimensionality against the session's
// coordinate system. Shared by Validate and the streaming read path,
// which audits each step as it is decoded.
func validateStep(r *Report, coord CoordinateSystem, ts *TimeStep) {
	path := fmt.Sprintf("step %d", ts.Index())

	validateGeometry(r, path, ts.Geometry())
	for _, name := range ts.FieldNames() {
		f, _ := ts.Field(name)
		validateField(r, path, ts.Geometry(), f)
	}
	for _, name := range sortedMeasurementNames(ts) {
		if err := checkMeasurementName(name); err != nil {
			r.add(CodeMeasurementName, SeverityError, path, "measurement %s", err)
		}
	}

	if coord.Known() {
		if d := ts.Geometry().Dim(); d != coord.Dim() {
			r.add(CodeCoordinateSystem, SeverityError, path+"/geometry",
				"dimensionality %d disagrees with coordinate system %q (expects %d)",
				d, coord, coord.Dim())
		}
	}
}

func sortedMeasurementNames(ts *TimeStep) []string {
	names := make([]string, 0, len(ts.measurements))
	for name := range ts.measurements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// validateGeometry re-runs the geometry construction checks so that
// unchecked decode results are audited with the same rules.
func validateGeometry(r *Report, stepPath string, g *Geometry) {
	path := stepPath + "/geometry"
	if err := checkPositions(g.dim, len(g.positions)); err != nil {
		r.add(CodeGeometryShape, SeverityError, path, "%s", err)
		return
	}
	if g.cells == nil {
		return
	}
	err := checkCells(g.cells, g.cellSize, g.PointCount())
	if err == nil {
		return
	}
	var dangling *DanglingIndexError
	if errors.As(err, &dangling) {
		r.add(CodeDanglingIndex, SeverityError, path, "%s", err)
		return
	}
	r.add(CodeGeometryShape, SeverityError, path, "%s", err)
}

// validateField re-runs the field construction checks against the step's
// own geometry.
func validateField(r *Report, stepPath string, g *Geometry, f *Field) {
	path := fmt.Sprintf("%s/field %q", stepPath, f.Name())
	if err := checkFieldName(f.Name()); err != nil {
		r.add(CodeFieldName, SeverityError, path, "%s", err)
	}
	if err := checkFieldShape(f.Name(), f.Kind(), g.Dim(), g.PointCount(), len(f.values)); err != nil {
		r.add(CodeFieldShape, SeverityError, path, "%s", err)
	}
}
