// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex

import (
	"fmt"
	"sort"
)

// StepRecord is one acquisition handed over by a producing DIC engine:
// the index, optional timing, optional scalar measurements, the
// reference geometry, and the measured fields.
type StepRecord struct {
	Index        int64
	Timestamp    float64
	HasTimestamp bool
	Measurements map[string]float64
	Geometry     *Geometry
	Fields       []*Field
}

// StepSource supplies acquisition records in increasing index order.
// Engine-specific importers implement it; the exchange core never parses
// an engine's own file format.
type StepSource interface {
	// Next returns the next record, reporting false when the stream is
	// exhausted.
	Next() (StepRecord, bool, error)
}

// SliceSource adapts an in-memory record slice to StepSource.
type SliceSource struct {
	records []StepRecord
	pos     int
}

// NewSliceSource creates a SliceSource over the given records.
func NewSliceSource(records ...StepRecord) *SliceSource {
	return &SliceSource{records: records}
}

// Next implements StepSource.
func (s *SliceSource) Next() (StepRecord, bool, error) {
	if s.pos >= len(s.records) {
		return StepRecord{}, false, nil
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, true, nil
}

// BuildSession drains a source into a new session, enforcing every
// construction invariant on the way: records must arrive with strictly
// increasing indices and with fields sized to their geometry.
func BuildSession(coord CoordinateSystem, prov Provenance, src StepSource) (*Session, error) {
	s := NewSession(coord, prov)
	for {
		rec, ok, err := src.Next()
		if err != nil {
			return nil, fmt.Errorf("step source: %w", err)
		}
		if !ok {
			return s, nil
		}
		ts, err := NewTimeStep(rec.Index, rec.Geometry, rec.Fields...)
		if err != nil {
			return nil, err
		}
		if rec.HasTimestamp {
			ts = ts.WithTimestamp(rec.Timestamp)
		}
		names := make([]string, 0, len(rec.Measurements))
		for name := range rec.Measurements {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ts, err = ts.WithMeasurement(name, rec.Measurements[name])
			if err != nil {
				return nil, err
			}
		}
		if err := s.AppendStep(ts); err != nil {
			return nil, err
		}
	}
}

// WriteFrom drains a source and writes the resulting session to a
// container at path in one call.
func WriteFrom(path string, coord CoordinateSystem, prov Provenance, src StepSource, opts ...WriteOption) error {
	s, err := BuildSession(coord, prov, src)
	if err != nil {
		return err
	}
	return Write(path, s, opts...)
}
