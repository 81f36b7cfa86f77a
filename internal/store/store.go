// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package store narrows hierarchical-container access to the handful of
// primitives the exchange codec needs: groups, flat numeric datasets with
// optional chunking, and attributes on any object including the root.
// The hdf5 adapter backs production files; MemStore backs tests.
package store

// Entry describes one child of a container group.
type Entry struct {
	Name  string
	Group bool
}

// Options configures storage filters for a container being written.
// Filters apply to chunked datasets only.
type Options struct {
	GZIPLevel int  // 1-9 enables gzip compression, 0 disables
	Shuffle   bool // byte shuffle ahead of compression
}

// Writer is an open container being populated. Object paths are absolute
// ("/", "/000001/geometry"); parents must exist before children are
// created. Implementations are not safe for concurrent use.
type Writer interface {
	// CreateGroup creates a group at path.
	CreateGroup(path string) error

	// SetAttr writes a scalar attribute (string, int64 or float64) on an
	// existing object; "/" addresses the root group.
	SetAttr(objectPath, name string, value interface{}) error

	// WriteFloats creates a float64 dataset at path with the given dims
	// and writes values row-major. A nil chunk shape stores the dataset
	// contiguously.
	WriteFloats(path string, dims, chunk []uint64, values []float64) error

	// WriteInts creates an int64 dataset at path with the given dims and
	// writes values row-major. A nil chunk shape stores the dataset
	// contiguously.
	WriteInts(path string, dims, chunk []uint64, values []int64) error

	// Close releases the handle, flushing any buffered state.
	Close() error
}

// Reader is an open container being consumed. Implementations are not
// safe for concurrent use; parallel consumers open one Reader each.
type Reader interface {
	// Attr reads a scalar attribute from an object, reporting whether it
	// exists.
	Attr(objectPath, name string) (interface{}, bool, error)

	// ListAttrs returns an object's attribute names in name order.
	ListAttrs(objectPath string) ([]string, error)

	// Children lists the direct children of a group in name order.
	Children(objectPath string) ([]Entry, error)

	// ReadFloats reads a float64 dataset as a flat row-major slice.
	ReadFloats(path string) ([]float64, error)

	// ReadInts reads an int64 dataset as a flat row-major slice.
	ReadInts(path string) ([]int64, error)

	// Close releases the handle.
	Close() error
}
