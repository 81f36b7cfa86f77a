// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/scigolib/dicex/internal/store"
)

// WriteOption customizes container serialization.
type WriteOption func(*writeConfig)

type writeConfig struct {
	chunkBytes int
	gzipLevel  int
	shuffle    bool
}

func defaultWriteConfig() writeConfig {
	return writeConfig{chunkBytes: DefaultChunkBytes}
}

// WithChunkByteBudget overrides the byte budget a single chunk may
// occupy. Values below one row fall back to one row per chunk.
func WithChunkByteBudget(n int) WriteOption {
	return func(cfg *writeConfig) {
		if n > 0 {
			cfg.chunkBytes = n
		}
	}
}

// WithGZIP enables GZIP compression of chunked datasets with the given
// level (1-9).
func WithGZIP(level int) WriteOption {
	return func(cfg *writeConfig) {
		cfg.gzipLevel = level
	}
}

// WithShuffle enables the byte shuffle filter ahead of compression,
// which typically improves ratios on smooth field data.
func WithShuffle() WriteOption {
	return func(cfg *writeConfig) {
		cfg.shuffle = true
	}
}

// Write serializes a session into an HDF5 container at path.
//
// The session is audited first: fatal violations abort with a
// ValidationError before anything touches the filesystem, and warnings
// are recorded in a root attribute. The container is built in a hidden
// temporary file next to the destination and atomically renamed into
// place on success, so a failed write never leaves a partial or stale
// container at path. An existing file at path is replaced.
//
// Parameters:
//   - path: destination filename
//   - s: the session to serialize
//   - opts: WithChunkByteBudget, WithGZIP, WithShuffle
//
// Returns a ValidationError when the audit fails and a ContainerError
// wrapping the storage cause when I/O fails.
func Write(path string, s *Session, opts ...WriteOption) error {
	cfg := defaultWriteConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	report := Validate(s)
	if err := report.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return wrapContainer("create", path, err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return wrapContainer("create", path, err)
	}

	w, err := store.CreateHDF5(tmpPath, store.Options{GZIPLevel: cfg.gzipLevel, Shuffle: cfg.shuffle})
	if err != nil {
		os.Remove(tmpPath)
		return wrapContainer("create", path, err)
	}

	if err := writeSession(w, s, report, cfg); err != nil {
		w.Close()
		os.Remove(tmpPath)
		return wrapContainer("write", path, err)
	}
	if err := w.Close(); err != nil {
		os.Remove(tmpPath)
		return wrapContainer("close", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return wrapContainer("commit", path, err)
	}
	return nil
}

// writeSession maps a validated session onto store primitives. Shared by
// Write and the store tests; the caller owns handle lifecycle and
// cleanup.
func writeSession(w store.Writer, s *Session, report *Report, cfg writeConfig) error {
	layout, err := layoutFor(s.version)
	if err != nil {
		return err
	}

	if err := w.SetAttr("/", schemaVersionAttr, s.version.String()); err != nil {
		return err
	}
	if err := w.SetAttr("/", coordinateSystemAttr, string(s.coord)); err != nil {
		return err
	}
	prov, err := json.Marshal(s.prov)
	if err != nil {
		return fmt.Errorf("encode provenance: %w", err)
	}
	if err := w.SetAttr("/", provenanceAttr, string(prov)); err != nil {
		return err
	}
	if warnings := report.Warnings(); len(warnings) > 0 {
		lines := make([]string, len(warnings))
		for i, v := range warnings {
			lines[i] = v.Error()
		}
		if err := w.SetAttr("/", validationNotesAttr, strings.Join(lines, "\n")); err != nil {
			return err
		}
	}

	for _, ts := range s.steps {
		if err := writeStep(w, layout, ts, cfg); err != nil {
			return err
		}
	}
	return nil
}

func writeStep(w store.Writer, layout containerLayout, ts *TimeStep, cfg writeConfig) error {
	group := objectPath(layout.stepGroupName(ts.Index()))
	if err := w.CreateGroup(group); err != nil {
		return err
	}
	if t, ok := ts.Timestamp(); ok {
		if err := w.SetAttr(group, timestampAttr, t); err != nil {
			return err
		}
	}
	for _, name := range sortedMeasurementNames(ts) {
		if err := w.SetAttr(group, measurementAttrPrefix+name, ts.measurements[name]); err != nil {
			return err
		}
	}

	if err := writeGeometry(w, group, ts.Geometry(), cfg); err != nil {
		return err
	}
	for _, f := range ts.Fields() {
		if err := writeField(w, group, f, cfg); err != nil {
			return err
		}
	}
	slog.Debug("wrote time step",
		"group", group, "points", ts.Geometry().PointCount(), "fields", ts.FieldCount())
	return nil
}

func writeGeometry(w store.Writer, stepGroup string, g *Geometry, cfg writeConfig) error {
	group := stepGroup + "/" + geometryGroupName
	if err := w.CreateGroup(group); err != nil {
		return err
	}
	if err := w.SetAttr(group, dimensionAttr, int64(g.Dim())); err != nil {
		return err
	}

	dims := []uint64{uint64(g.PointCount()), uint64(g.Dim())}
	chunk := chunkDimsFor(dims, cfg.chunkBytes)
	if err := w.WriteFloats(group+"/"+positionsDataset, dims, chunk, g.positions); err != nil {
		return err
	}

	if !g.HasCells() {
		return nil
	}
	if err := w.SetAttr(group, cellSizeAttr, int64(g.CellSize())); err != nil {
		return err
	}
	cellDims := []uint64{uint64(g.CellCount()), uint64(g.CellSize())}
	cellChunk := chunkDimsFor(cellDims, cfg.chunkBytes)
	return w.WriteInts(group+"/"+connectivityDataset, cellDims, cellChunk, g.cells)
}

func writeField(w store.Writer, stepGroup string, f *Field, cfg writeConfig) error {
	path := stepGroup + "/" + f.Name()
	dims := []uint64{uint64(f.PointCount())}
	if comp := f.Components(); comp > 1 {
		dims = append(dims, uint64(comp))
	}
	chunk := chunkDimsFor(dims, cfg.chunkBytes)
	if err := w.WriteFloats(path, dims, chunk, f.values); err != nil {
		return err
	}
	if err := w.SetAttr(path, unitAttr, f.Unit()); err != nil {
		return err
	}
	return w.SetAttr(path, componentKindAttr, string(f.Kind()))
}
