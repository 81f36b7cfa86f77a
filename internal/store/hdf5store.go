// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package store

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/scigolib/hdf5"
)

// hdf5Writer adapts hdf5.FileWriter to the Writer interface. Group and
// dataset handles are kept so attributes can be written after creation.
type hdf5Writer struct {
	fw       *hdf5.FileWriter
	opt      Options
	groups   map[string]*hdf5.GroupWriter
	datasets map[string]*hdf5.DatasetWriter
}

// CreateHDF5 creates a new HDF5 container at path, truncating any
// existing file.
func CreateHDF5(path string, opt Options) (Writer, error) {
	fw, err := hdf5.CreateForWrite(path, hdf5.CreateTruncate)
	if err != nil {
		return nil, fmt.Errorf("create hdf5 file: %w", err)
	}
	return &hdf5Writer{
		fw:       fw,
		opt:      opt,
		groups:   map[string]*hdf5.GroupWriter{},
		datasets: map[string]*hdf5.DatasetWriter{},
	}, nil
}

// CreateGroup implements Writer.
func (w *hdf5Writer) CreateGroup(path string) error {
	gw, err := w.fw.CreateGroup(path)
	if err != nil {
		return fmt.Errorf("create group %s: %w", path, err)
	}
	w.groups[path] = gw
	return nil
}

// SetAttr implements Writer. Root attributes go through the file
// writer's root group handle; requires scigolib/hdf5 with group
// attribute support.
func (w *hdf5Writer) SetAttr(objectPath, name string, value interface{}) error {
	if objectPath == "/" {
		if err := w.fw.RootGroup().WriteAttribute(name, value); err != nil {
			return fmt.Errorf("write root attribute %s: %w", name, err)
		}
		return nil
	}
	if gw, ok := w.groups[objectPath]; ok {
		if err := gw.WriteAttribute(name, value); err != nil {
			return fmt.Errorf("write group attribute %s on %s: %w", name, objectPath, err)
		}
		return nil
	}
	if dw, ok := w.datasets[objectPath]; ok {
		if err := dw.WriteAttribute(name, value); err != nil {
			return fmt.Errorf("write dataset attribute %s on %s: %w", name, objectPath, err)
		}
		return nil
	}
	return fmt.Errorf("object %q does not exist", objectPath)
}

// WriteFloats implements Writer.
func (w *hdf5Writer) WriteFloats(path string, dims, chunk []uint64, values []float64) error {
	opts := w.chunkOptions(chunk)
	dw, err := w.fw.CreateDataset(path, hdf5.Float64, dims, opts...)
	if err != nil {
		return fmt.Errorf("create dataset %s: %w", path, err)
	}
	if err := dw.Write(values); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	w.datasets[path] = dw
	return nil
}

// WriteInts implements Writer.
func (w *hdf5Writer) WriteInts(path string, dims, chunk []uint64, values []int64) error {
	opts := w.chunkOptions(chunk)
	dw, err := w.fw.CreateDataset(path, hdf5.Int64, dims, opts...)
	if err != nil {
		return fmt.Errorf("create dataset %s: %w", path, err)
	}
	if err := dw.Write(values); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	w.datasets[path] = dw
	return nil
}

func (w *hdf5Writer) chunkOptions(chunk []uint64) []hdf5.DatasetOption {
	if chunk == nil {
		return nil
	}
	opts := []hdf5.DatasetOption{hdf5.WithChunkDims(chunk)}
	if w.opt.Shuffle {
		opts = append(opts, hdf5.WithShuffle())
	}
	if w.opt.GZIPLevel > 0 {
		opts = append(opts, hdf5.WithGZIPCompression(w.opt.GZIPLevel))
	}
	return opts
}

// Close implements Writer.
func (w *hdf5Writer) Close() error {
	return w.fw.Close()
}

// hdf5Reader adapts hdf5.File to the Reader interface.
type hdf5Reader struct {
	f *hdf5.File
}

// OpenHDF5 opens an existing HDF5 container for reading.
func OpenHDF5(path string) (Reader, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hdf5 file: %w", err)
	}
	return &hdf5Reader{f: f}, nil
}

// group resolves an absolute path to a group object.
func (r *hdf5Reader) group(objectPath string) (*hdf5.Group, error) {
	cur := r.f.Root()
	if objectPath == "/" {
		return cur, nil
	}
	for _, part := range strings.Split(strings.Trim(objectPath, "/"), "/") {
		var next *hdf5.Group
		for _, child := range cur.Children() {
			g, ok := child.(*hdf5.Group)
			if ok && g.Name() == part {
				next = g
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("group %q does not exist", objectPath)
		}
		cur = next
	}
	return cur, nil
}

// dataset resolves an absolute path to a dataset object.
func (r *hdf5Reader) dataset(path string) (*hdf5.Dataset, error) {
	parent, err := r.group(parentOf(path))
	if err != nil {
		return nil, err
	}
	name := path[strings.LastIndex(path, "/")+1:]
	for _, child := range parent.Children() {
		if ds, ok := child.(*hdf5.Dataset); ok && ds.Name() == name {
			return ds, nil
		}
	}
	return nil, fmt.Errorf("dataset %q does not exist", path)
}

// Attr implements Reader.
func (r *hdf5Reader) Attr(objectPath, name string) (interface{}, bool, error) {
	if ds, err := r.dataset(objectPath); err == nil {
		names, err := ds.ListAttributes()
		if err != nil {
			return nil, false, fmt.Errorf("list attributes of %s: %w", objectPath, err)
		}
		for _, n := range names {
			if n != name {
				continue
			}
			v, err := ds.ReadAttribute(name)
			if err != nil {
				return nil, false, fmt.Errorf("read attribute %s of %s: %w", name, objectPath, err)
			}
			return v, true, nil
		}
		return nil, false, nil
	}
	grp, err := r.group(objectPath)
	if err != nil {
		return nil, false, err
	}
	attrs, err := grp.Attributes()
	if err != nil {
		return nil, false, fmt.Errorf("read attributes of %s: %w", objectPath, err)
	}
	for _, a := range attrs {
		if a.Name != name {
			continue
		}
		v, err := a.ReadValue()
		if err != nil {
			return nil, false, fmt.Errorf("read attribute %s of %s: %w", name, objectPath, err)
		}
		return v, true, nil
	}
	return nil, false, nil
}

// ListAttrs implements Reader.
func (r *hdf5Reader) ListAttrs(objectPath string) ([]string, error) {
	if ds, err := r.dataset(objectPath); err == nil {
		names, err := ds.ListAttributes()
		if err != nil {
			return nil, fmt.Errorf("list attributes of %s: %w", objectPath, err)
		}
		sort.Strings(names)
		return names, nil
	}
	grp, err := r.group(objectPath)
	if err != nil {
		return nil, err
	}
	attrs, err := grp.Attributes()
	if err != nil {
		return nil, fmt.Errorf("list attributes of %s: %w", objectPath, err)
	}
	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Children implements Reader.
func (r *hdf5Reader) Children(objectPath string) ([]Entry, error) {
	grp, err := r.group(objectPath)
	if err != nil {
		return nil, err
	}
	children := grp.Children()
	out := make([]Entry, 0, len(children))
	for _, child := range children {
		switch c := child.(type) {
		case *hdf5.Group:
			out = append(out, Entry{Name: c.Name(), Group: true})
		case *hdf5.Dataset:
			out = append(out, Entry{Name: c.Name(), Group: false})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ReadFloats implements Reader.
func (r *hdf5Reader) ReadFloats(path string) ([]float64, error) {
	ds, err := r.dataset(path)
	if err != nil {
		return nil, err
	}
	values, err := ds.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return values, nil
}

// ReadInts implements Reader. The underlying library surfaces integer
// datasets as float64; indices are exact up to 2^53.
func (r *hdf5Reader) ReadInts(path string) ([]int64, error) {
	ds, err := r.dataset(path)
	if err != nil {
		return nil, err
	}
	values, err := ds.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(math.Round(v))
	}
	return out, nil
}

// Close implements Reader.
func (r *hdf5Reader) Close() error {
	return r.f.Close()
}
