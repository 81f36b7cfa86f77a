// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package store

import (
	"fmt"
	"sort"
	"strings"
)

// MemStore is an in-memory container implementing Writer and Reader. It
// enforces the same structural rules as the hdf5 backend (parents before
// children, no duplicate objects, extent and chunk validation) so codec
// tests catch layout bugs without touching the filesystem.
type MemStore struct {
	groups map[string]bool
	attrs  map[string]map[string]interface{}
	floats map[string][]float64
	ints   map[string][]int64
	dims   map[string][]uint64
	chunks map[string][]uint64
	closed bool
}

// NewMemStore creates an empty in-memory container with a root group.
func NewMemStore() *MemStore {
	return &MemStore{
		groups: map[string]bool{"/": true},
		attrs:  map[string]map[string]interface{}{},
		floats: map[string][]float64{},
		ints:   map[string][]int64{},
		dims:   map[string][]uint64{},
		chunks: map[string][]uint64{},
	}
}

func parentOf(path string) string {
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return "/"
	}
	return path[:i]
}

func (m *MemStore) objectExists(path string) bool {
	if m.groups[path] {
		return true
	}
	_, isFloat := m.floats[path]
	_, isInt := m.ints[path]
	return isFloat || isInt
}

func (m *MemStore) checkNewObject(path string) error {
	if m.closed {
		return fmt.Errorf("store is closed")
	}
	if path == "/" || !strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		return fmt.Errorf("invalid object path %q", path)
	}
	if m.objectExists(path) {
		return fmt.Errorf("object %q already exists", path)
	}
	if parent := parentOf(path); !m.groups[parent] {
		return fmt.Errorf("parent group %q does not exist", parent)
	}
	return nil
}

func checkExtent(path string, dims, chunk []uint64, length int) error {
	total := uint64(1)
	for _, d := range dims {
		total *= d
	}
	if uint64(length) != total {
		return fmt.Errorf("dataset %q: %d values do not fill dims %v", path, length, dims)
	}
	if chunk == nil {
		return nil
	}
	if len(chunk) != len(dims) {
		return fmt.Errorf("dataset %q: chunk rank %d does not match dims rank %d", path, len(chunk), len(dims))
	}
	for i, c := range chunk {
		if c == 0 {
			return fmt.Errorf("dataset %q: chunk dimension %d is zero", path, i)
		}
		if c > dims[i] {
			return fmt.Errorf("dataset %q: chunk dimension %d (%d) exceeds dataset dimension (%d)",
				path, i, c, dims[i])
		}
	}
	return nil
}

// CreateGroup implements Writer.
func (m *MemStore) CreateGroup(path string) error {
	if err := m.checkNewObject(path); err != nil {
		return err
	}
	m.groups[path] = true
	return nil
}

// SetAttr implements Writer.
func (m *MemStore) SetAttr(objectPath, name string, value interface{}) error {
	if m.closed {
		return fmt.Errorf("store is closed")
	}
	if !m.objectExists(objectPath) {
		return fmt.Errorf("object %q does not exist", objectPath)
	}
	switch value.(type) {
	case string, int64, float64:
	default:
		return fmt.Errorf("attribute %q: unsupported value type %T", name, value)
	}
	if m.attrs[objectPath] == nil {
		m.attrs[objectPath] = map[string]interface{}{}
	}
	m.attrs[objectPath][name] = value
	return nil
}

// WriteFloats implements Writer.
func (m *MemStore) WriteFloats(path string, dims, chunk []uint64, values []float64) error {
	if err := m.checkNewObject(path); err != nil {
		return err
	}
	if err := checkExtent(path, dims, chunk, len(values)); err != nil {
		return err
	}
	m.floats[path] = append([]float64(nil), values...)
	m.recordShape(path, dims, chunk)
	return nil
}

// WriteInts implements Writer.
func (m *MemStore) WriteInts(path string, dims, chunk []uint64, values []int64) error {
	if err := m.checkNewObject(path); err != nil {
		return err
	}
	if err := checkExtent(path, dims, chunk, len(values)); err != nil {
		return err
	}
	m.ints[path] = append([]int64(nil), values...)
	m.recordShape(path, dims, chunk)
	return nil
}

func (m *MemStore) recordShape(path string, dims, chunk []uint64) {
	m.dims[path] = append([]uint64(nil), dims...)
	if chunk != nil {
		m.chunks[path] = append([]uint64(nil), chunk...)
	}
}

// Attr implements Reader.
func (m *MemStore) Attr(objectPath, name string) (interface{}, bool, error) {
	if !m.objectExists(objectPath) {
		return nil, false, fmt.Errorf("object %q does not exist", objectPath)
	}
	v, ok := m.attrs[objectPath][name]
	return v, ok, nil
}

// ListAttrs implements Reader.
func (m *MemStore) ListAttrs(objectPath string) ([]string, error) {
	if !m.objectExists(objectPath) {
		return nil, fmt.Errorf("object %q does not exist", objectPath)
	}
	names := make([]string, 0, len(m.attrs[objectPath]))
	for name := range m.attrs[objectPath] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Children implements Reader.
func (m *MemStore) Children(objectPath string) ([]Entry, error) {
	if !m.groups[objectPath] {
		return nil, fmt.Errorf("group %q does not exist", objectPath)
	}
	var out []Entry
	appendChildren := func(paths []string, group bool) {
		for _, p := range paths {
			if p == "/" || parentOf(p) != objectPath {
				continue
			}
			out = append(out, Entry{Name: p[strings.LastIndex(p, "/")+1:], Group: group})
		}
	}
	groupPaths := make([]string, 0, len(m.groups))
	for p := range m.groups {
		groupPaths = append(groupPaths, p)
	}
	datasetPaths := make([]string, 0, len(m.floats)+len(m.ints))
	for p := range m.floats {
		datasetPaths = append(datasetPaths, p)
	}
	for p := range m.ints {
		datasetPaths = append(datasetPaths, p)
	}
	appendChildren(groupPaths, true)
	appendChildren(datasetPaths, false)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ReadFloats implements Reader.
func (m *MemStore) ReadFloats(path string) ([]float64, error) {
	v, ok := m.floats[path]
	if !ok {
		return nil, fmt.Errorf("dataset %q does not exist", path)
	}
	return append([]float64(nil), v...), nil
}

// ReadInts implements Reader.
func (m *MemStore) ReadInts(path string) ([]int64, error) {
	v, ok := m.ints[path]
	if !ok {
		return nil, fmt.Errorf("dataset %q does not exist", path)
	}
	return append([]int64(nil), v...), nil
}

// Dims returns a dataset's recorded dims, for test introspection.
func (m *MemStore) Dims(path string) ([]uint64, bool) {
	d, ok := m.dims[path]
	return d, ok
}

// ChunkDims returns a dataset's recorded chunk shape, for test
// introspection; contiguous datasets report false.
func (m *MemStore) ChunkDims(path string) ([]uint64, bool) {
	c, ok := m.chunks[path]
	return c, ok
}

// Close implements Writer and Reader.
func (m *MemStore) Close() error {
	m.closed = true
	return nil
}
