// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex

import "github.com/google/uuid"

// CoordinateSystem names the axis convention a session's geometries are
// expressed in. The label also fixes the expected spatial dimensionality:
// planar sessions are 2D, the others 3D.
type CoordinateSystem string

const (
	// PlanarXY is the in-plane convention of 2D DIC measurements.
	PlanarXY CoordinateSystem = "planar_xy"

	// RightHandedZUp is the common stereo (3D) DIC convention with z
	// pointing out of the specimen surface.
	RightHandedZUp CoordinateSystem = "right_handed_z_up"

	// RightHandedYUp is a 3D convention with y up.
	RightHandedYUp CoordinateSystem = "right_handed_y_up"

	// LeftHandedZUp is a 3D convention used by some commercial engines.
	LeftHandedZUp CoordinateSystem = "left_handed_z_up"
)

// Dim returns the dimensionality the convention implies, or 0 for an
// unknown label.
func (c CoordinateSystem) Dim() int {
	switch c {
	case PlanarXY:
		return 2
	case RightHandedZUp, RightHandedYUp, LeftHandedZUp:
		return 3
	default:
		return 0
	}
}

// Known reports whether the label is one this package defines.
func (c CoordinateSystem) Known() bool {
	return c.Dim() != 0
}

// Provenance records which measurement engine produced a session. It is
// serialized as a free-form string attribute on the container root.
type Provenance struct {
	Engine        string `json:"engine"`
	EngineVersion string `json:"engine_version,omitempty"`
	ExchangeID    string `json:"exchange_id,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// NewProvenance builds a Provenance with a fresh exchange id, so every
// produced container is distinguishable even when engine metadata
// repeats.
func NewProvenance(engine, engineVersion, notes string) Provenance {
	return Provenance{
		Engine:        engine,
		EngineVersion: engineVersion,
		ExchangeID:    uuid.NewString(),
		Notes:         notes,
	}
}

// Session is the complete exchange content of one measurement run: schema
// version, coordinate convention, provenance, and an ordered sequence of
// time steps. AppendStep is the only mutation; steps themselves are
// immutable. A Session is not safe for concurrent mutation; readers of a
// fully built session may share it freely.
type Session struct {
	version Version
	coord   CoordinateSystem
	prov    Provenance
	steps   []*TimeStep
}

// NewSession creates an empty session at the current schema version.
func NewSession(coord CoordinateSystem, prov Provenance) *Session {
	return &Session{
		version: CurrentVersion,
		coord:   coord,
		prov:    prov,
	}
}

// newSessionUnchecked assembles a decoded session without invariant
// checks; Validate audits the result before callers see it.
func newSessionUnchecked(version Version, coord CoordinateSystem, prov Provenance, steps []*TimeStep) *Session {
	return &Session{version: version, coord: coord, prov: prov, steps: steps}
}

// Version returns the session's schema version.
func (s *Session) Version() Version {
	return s.version
}

// CoordinateSystem returns the axis convention label.
func (s *Session) CoordinateSystem() CoordinateSystem {
	return s.coord
}

// Provenance returns the producing-engine metadata.
func (s *Session) Provenance() Provenance {
	return s.prov
}

// AppendStep appends a time step. The step's acquisition index must be
// strictly greater than the last appended index; otherwise a
// NonMonotonicIndexError is returned and the session is unchanged.
func (s *Session) AppendStep(ts *TimeStep) error {
	if last, ok := s.LastIndex(); ok && ts.Index() <= last {
		return &NonMonotonicIndexError{Last: last, Got: ts.Index()}
	}
	s.steps = append(s.steps, ts)
	return nil
}

// StepCount returns the number of time steps.
func (s *Session) StepCount() int {
	return len(s.steps)
}

// Step returns the time step at position i in acquisition order.
func (s *Session) Step(i int) *TimeStep {
	return s.steps[i]
}

// Steps returns the time steps in acquisition order. The slice is a
// copy and can be ranged over any number of times; the steps themselves
// are shared immutable values.
func (s *Session) Steps() []*TimeStep {
	return append([]*TimeStep(nil), s.steps...)
}

// LastIndex returns the highest appended acquisition index and whether
// the session has any steps.
func (s *Session) LastIndex() (int64, bool) {
	if len(s.steps) == 0 {
		return 0, false
	}
	return s.steps[len(s.steps)-1].Index(), true
}
