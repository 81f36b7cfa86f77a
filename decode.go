// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/scigolib/dicex/internal/store"
)

// Reader is an open exchange container. It resolves session metadata at
// open time and reconstructs time steps lazily, so large sessions can be
// consumed one step at a time. A Reader is not safe for concurrent use;
// parallel consumers open one Reader per goroutine.
type Reader struct {
	st      store.Reader
	path    string
	layout  containerLayout
	version Version
	coord   CoordinateSystem
	prov    Provenance
	entries []stepEntry
	listed  bool
}

type stepEntry struct {
	name  string
	index int64
}

// Open opens the container at path and gates on its schema version: a
// missing, malformed or unsupported-major schema_version attribute fails
// with UnsupportedVersionError before any step group is touched.
//
// Returns a ContainerError when the file itself cannot be opened. The
// caller owns the Reader and must Close it.
func Open(path string) (*Reader, error) {
	st, err := store.OpenHDF5(path)
	if err != nil {
		return nil, wrapContainer("open", path, err)
	}
	r, err := newReader(st, path)
	if err != nil {
		st.Close()
		return nil, err
	}
	return r, nil
}

// newReader resolves root metadata on an open store. Shared by Open and
// the store-level tests.
func newReader(st store.Reader, path string) (*Reader, error) {
	raw, ok, err := st.Attr("/", schemaVersionAttr)
	if err != nil {
		return nil, wrapContainer("read", path, err)
	}
	if !ok {
		return nil, &UnsupportedVersionError{Raw: "(missing)", Supported: supportedMajors()}
	}
	str, ok := attrString(raw)
	if !ok {
		return nil, &UnsupportedVersionError{Raw: fmt.Sprintf("%v", raw), Supported: supportedMajors()}
	}
	version, err := ParseVersion(str)
	if err != nil {
		return nil, &UnsupportedVersionError{Raw: str, Supported: supportedMajors()}
	}
	layout, err := layoutFor(version)
	if err != nil {
		return nil, err
	}

	r := &Reader{st: st, path: path, layout: layout, version: version}

	if raw, ok, err = st.Attr("/", coordinateSystemAttr); err != nil {
		return nil, wrapContainer("read", path, err)
	} else if ok {
		if str, sok := attrString(raw); sok {
			r.coord = CoordinateSystem(str)
		}
	}

	if raw, ok, err = st.Attr("/", provenanceAttr); err != nil {
		return nil, wrapContainer("read", path, err)
	} else if ok {
		if str, sok := attrString(raw); sok {
			if jsonErr := json.Unmarshal([]byte(str), &r.prov); jsonErr != nil {
				// Foreign producers may store plain text here.
				r.prov = Provenance{Notes: str}
			}
		}
	}
	return r, nil
}

// Path returns the filename the reader was opened on.
func (r *Reader) Path() string {
	return r.path
}

// Version returns the container's schema version.
func (r *Reader) Version() Version {
	return r.version
}

// CoordinateSystem returns the container's axis convention label.
func (r *Reader) CoordinateSystem() CoordinateSystem {
	return r.coord
}

// Provenance returns the container's producing-engine metadata.
func (r *Reader) Provenance() Provenance {
	return r.prov
}

// listSteps discovers the step groups once, ordered by parsed
// acquisition index. Root children that are not step groups are ignored,
// so additive minor versions stay readable.
func (r *Reader) listSteps() error {
	if r.listed {
		return nil
	}
	children, err := r.st.Children("/")
	if err != nil {
		return wrapContainer("list", r.path, err)
	}
	for _, c := range children {
		if !c.Group {
			continue
		}
		index, ok := r.layout.parseStepGroup(c.Name)
		if !ok {
			continue
		}
		r.entries = append(r.entries, stepEntry{name: c.Name, index: index})
	}
	sort.Slice(r.entries, func(i, j int) bool { return r.entries[i].index < r.entries[j].index })
	r.listed = true
	return nil
}

// StepCount returns the number of time steps in the container.
func (r *Reader) StepCount() (int, error) {
	if err := r.listSteps(); err != nil {
		return 0, err
	}
	return len(r.entries), nil
}

// Step reconstructs the time step at position i in acquisition order and
// audits its structure; a corrupt step surfaces as a ValidationError.
func (r *Reader) Step(i int) (*TimeStep, error) {
	if err := r.listSteps(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(r.entries) {
		return nil, fmt.Errorf("step %d out of range [0, %d)", i, len(r.entries))
	}
	ts, err := r.decodeStep(r.entries[i])
	if err != nil {
		return nil, err
	}
	rep := &Report{}
	validateStep(rep, r.coord, ts)
	if err := rep.Err(); err != nil {
		return nil, err
	}
	return ts, nil
}

// decodeStep reconstructs one step group without invariant checks; the
// caller audits the result.
func (r *Reader) decodeStep(e stepEntry) (*TimeStep, error) {
	group := objectPath(e.name)

	geom, err := r.decodeGeometry(group)
	if err != nil {
		return nil, err
	}

	timestamp := math.NaN()
	measurements := map[string]float64{}
	attrNames, err := r.st.ListAttrs(group)
	if err != nil {
		return nil, wrapContainer("decode", r.path, err)
	}
	for _, name := range attrNames {
		raw, ok, err := r.st.Attr(group, name)
		if err != nil {
			return nil, wrapContainer("decode", r.path, err)
		}
		if !ok {
			continue
		}
		switch {
		case name == timestampAttr:
			if v, fok := attrFloat(raw); fok {
				timestamp = v
			}
		case strings.HasPrefix(name, measurementAttrPrefix) && name != measurementAttrPrefix:
			if v, fok := attrFloat(raw); fok {
				measurements[strings.TrimPrefix(name, measurementAttrPrefix)] = v
			}
		}
	}
	if len(measurements) == 0 {
		measurements = nil
	}

	fields := map[string]*Field{}
	children, err := r.st.Children(group)
	if err != nil {
		return nil, wrapContainer("decode", r.path, err)
	}
	for _, c := range children {
		if c.Group {
			continue
		}
		f, err := r.decodeField(group, c.Name, geom.Dim())
		if err != nil {
			return nil, err
		}
		fields[c.Name] = f
	}

	slog.Debug("decoded time step",
		"group", e.name, "points", geom.PointCount(), "fields", len(fields))
	return newTimeStepUnchecked(e.index, timestamp, measurements, geom, fields), nil
}

func (r *Reader) decodeGeometry(stepGroup string) (*Geometry, error) {
	group := stepGroup + "/" + geometryGroupName

	dim := 0
	if raw, ok, err := r.st.Attr(group, dimensionAttr); err != nil {
		return nil, wrapContainer("decode", r.path, err)
	} else if ok {
		if v, iok := attrInt(raw); iok {
			dim = int(v)
		}
	}
	cellSize := 0
	if raw, ok, err := r.st.Attr(group, cellSizeAttr); err != nil {
		return nil, wrapContainer("decode", r.path, err)
	} else if ok {
		if v, iok := attrInt(raw); iok {
			cellSize = int(v)
		}
	}

	positions, err := r.st.ReadFloats(group + "/" + positionsDataset)
	if err != nil {
		return nil, wrapContainer("decode", r.path, err)
	}

	var cells []int64
	children, err := r.st.Children(group)
	if err != nil {
		return nil, wrapContainer("decode", r.path, err)
	}
	for _, c := range children {
		if !c.Group && c.Name == connectivityDataset {
			cells, err = r.st.ReadInts(group + "/" + connectivityDataset)
			if err != nil {
				return nil, wrapContainer("decode", r.path, err)
			}
			break
		}
	}
	return newGeometryUnchecked(dim, positions, cells, cellSize), nil
}

func (r *Reader) decodeField(stepGroup, name string, dim int) (*Field, error) {
	path := stepGroup + "/" + name

	unit := ""
	if raw, ok, err := r.st.Attr(path, unitAttr); err != nil {
		return nil, wrapContainer("decode", r.path, err)
	} else if ok {
		unit, _ = attrString(raw)
	}
	kind := ComponentKind("")
	if raw, ok, err := r.st.Attr(path, componentKindAttr); err != nil {
		return nil, wrapContainer("decode", r.path, err)
	} else if ok {
		if str, sok := attrString(raw); sok {
			kind = ComponentKind(str)
		}
	}

	values, err := r.st.ReadFloats(path)
	if err != nil {
		return nil, wrapContainer("decode", r.path, err)
	}
	return newFieldUnchecked(name, unit, kind, dim, values), nil
}

// Session materializes and audits the whole container. The full
// structural audit runs on the assembled view; a corrupt container
// surfaces as a ValidationError, never as a silently wrong session.
func (r *Reader) Session() (*Session, error) {
	if err := r.listSteps(); err != nil {
		return nil, err
	}
	steps := make([]*TimeStep, 0, len(r.entries))
	for _, e := range r.entries {
		ts, err := r.decodeStep(e)
		if err != nil {
			return nil, err
		}
		steps = append(steps, ts)
	}
	s := newSessionUnchecked(r.version, r.coord, r.prov, steps)
	if err := Validate(s).Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the underlying container handle.
func (r *Reader) Close() error {
	return r.st.Close()
}

// ReadFile opens, materializes, audits and closes a container in one
// call.
func ReadFile(path string) (*Session, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Session()
}

// StepIterator walks a container's time steps in acquisition order,
// decoding and auditing one step per Next call. Use it instead of
// Session when the whole run does not need to be resident at once.
//
// Example:
//
//	it := r.Steps()
//	for it.Next() {
//		process(it.Step())
//	}
//	if err := it.Err(); err != nil {
//		return err
//	}
type StepIterator struct {
	r   *Reader
	pos int
	cur *TimeStep
	err error
}

// Steps returns a restartable iterator over the container's time steps.
func (r *Reader) Steps() *StepIterator {
	return &StepIterator{r: r, pos: -1}
}

// Next advances to the next step, reporting false at the end or on the
// first error. Each decoded step is audited before it is handed out.
func (it *StepIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if err := it.r.listSteps(); err != nil {
		it.err = err
		return false
	}
	if it.pos+1 >= len(it.r.entries) {
		return false
	}
	it.pos++
	ts, err := it.r.decodeStep(it.r.entries[it.pos])
	if err != nil {
		it.err = err
		return false
	}
	rep := &Report{}
	validateStep(rep, it.r.coord, ts)
	if err := rep.Err(); err != nil {
		it.err = err
		return false
	}
	it.cur = ts
	return true
}

// Step returns the step decoded by the last successful Next.
func (it *StepIterator) Step() *TimeStep {
	return it.cur
}

// Err returns the error that stopped iteration, if any.
func (it *StepIterator) Err() error {
	return it.err
}

// Progress returns the number of steps consumed and the total count;
// the total is 0 until the first Next call lists the container.
func (it *StepIterator) Progress() (done, total int) {
	if !it.r.listed {
		return 0, 0
	}
	return it.pos + 1, len(it.r.entries)
}

// Reset rewinds the iterator so the sequence can be walked again.
func (it *StepIterator) Reset() {
	it.pos = -1
	it.cur = nil
	it.err = nil
}

// attrString coerces an attribute value read from a container.
func attrString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// attrInt coerces integer attribute values across the widths container
// libraries hand back.
func attrInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// attrFloat coerces numeric attribute values to float64.
func attrFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
