// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex

import "sort"

// StepSummary is the metadata of one time step as reported by Describe.
type StepSummary struct {
	Index        int64              `json:"index"`
	Timestamp    float64            `json:"timestamp,omitempty"`
	HasTimestamp bool               `json:"has_timestamp"`
	PointCount   int                `json:"point_count"`
	CellCount    int                `json:"cell_count"`
	FieldNames   []string           `json:"field_names"`
	Measurements map[string]float64 `json:"measurements,omitempty"`
}

// Summary is the aggregate view of a session returned by Describe.
type Summary struct {
	Version          string        `json:"schema_version"`
	CoordinateSystem string        `json:"coordinate_system"`
	Engine           string        `json:"engine,omitempty"`
	EngineVersion    string        `json:"engine_version,omitempty"`
	ExchangeID       string        `json:"exchange_id,omitempty"`
	StepCount        int           `json:"step_count"`
	FirstIndex       int64         `json:"first_index"`
	LastIndex        int64         `json:"last_index"`
	FieldNames       []string      `json:"field_names"`
	Steps            []StepSummary `json:"steps"`
}

// Describe returns aggregate session stats from metadata alone: counts,
// index range, and the union of field names across steps. Numeric
// payloads are never touched, so describing a large session is cheap.
func (s *Session) Describe() Summary {
	sum := Summary{
		Version:          s.version.String(),
		CoordinateSystem: string(s.coord),
		Engine:           s.prov.Engine,
		EngineVersion:    s.prov.EngineVersion,
		ExchangeID:       s.prov.ExchangeID,
		StepCount:        len(s.steps),
		FieldNames:       []string{},
		Steps:            make([]StepSummary, 0, len(s.steps)),
	}
	seen := make(map[string]bool)
	for _, ts := range s.steps {
		names := ts.FieldNames()
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				sum.FieldNames = append(sum.FieldNames, name)
			}
		}
		step := StepSummary{
			Index:      ts.Index(),
			PointCount: ts.Geometry().PointCount(),
			CellCount:  ts.Geometry().CellCount(),
			FieldNames: names,
		}
		if t, ok := ts.Timestamp(); ok {
			step.Timestamp = t
			step.HasTimestamp = true
		}
		if len(ts.measurements) > 0 {
			step.Measurements = ts.Measurements()
		}
		sum.Steps = append(sum.Steps, step)
	}
	sort.Strings(sum.FieldNames)
	if len(s.steps) > 0 {
		sum.FirstIndex = s.steps[0].Index()
		sum.LastIndex = s.steps[len(s.steps)-1].Index()
	}
	return sum
}
