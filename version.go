// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Version is a semantic schema version. Containers written by an older
// minor of the same major stay readable; a different major is rejected
// outright and never migrated implicitly.
type Version struct {
	Major int
	Minor int
}

// CurrentVersion is the schema version this package writes.
var CurrentVersion = Version{Major: 1, Minor: 0}

// ParseVersion parses a "major.minor" string.
func ParseVersion(s string) (Version, error) {
	majorPart, minorPart, ok := strings.Cut(s, ".")
	if !ok {
		return Version{}, fmt.Errorf("version %q is not of the form major.minor", s)
	}
	major, err := strconv.Atoi(majorPart)
	if err != nil || major < 0 {
		return Version{}, fmt.Errorf("version %q has an invalid major component", s)
	}
	minor, err := strconv.Atoi(minorPart)
	if err != nil || minor < 0 {
		return Version{}, fmt.Errorf("version %q has an invalid minor component", s)
	}
	return Version{Major: major, Minor: minor}, nil
}

// String returns the "major.minor" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// containerLayout is the per-major-version layout strategy. Each readable
// major version owns one entry in the layout table; adding a major means
// adding an entry, never branching inside the codec.
type containerLayout interface {
	// stepGroupName returns the container group name for an acquisition
	// index.
	stepGroupName(index int64) string

	// parseStepGroup recovers the acquisition index from a group name,
	// reporting false for names that are not step groups.
	parseStepGroup(name string) (int64, bool)
}

// layoutV1 names step groups by the zero-padded acquisition index, six
// digits wide. Width six keeps container-native lexical listing aligned
// with numeric order for realistic session lengths; the reader orders by
// parsed index regardless, so wider names stay correct.
type layoutV1 struct{}

func (layoutV1) stepGroupName(index int64) string {
	return fmt.Sprintf("%06d", index)
}

func (layoutV1) parseStepGroup(name string) (int64, bool) {
	if len(name) < 6 {
		return 0, false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	index, err := strconv.ParseInt(name, 10, 64)
	if err != nil {
		return 0, false
	}
	return index, true
}

// layouts is the schema-version dispatch table, keyed by major version.
var layouts = map[int]containerLayout{
	1: layoutV1{},
}

// supportedMajors returns the readable major versions in ascending order.
func supportedMajors() []int {
	majors := make([]int, 0, len(layouts))
	for major := range layouts {
		majors = append(majors, major)
	}
	sort.Ints(majors)
	return majors
}

// layoutFor resolves the layout strategy for a version, returning an
// UnsupportedVersionError when the major version has no table entry.
func layoutFor(v Version) (containerLayout, error) {
	l, ok := layouts[v.Major]
	if !ok {
		return nil, &UnsupportedVersionError{Version: v, Supported: supportedMajors()}
	}
	return l, nil
}
