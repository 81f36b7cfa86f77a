// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex

import (
	"errors"
	"fmt"
)

// ShapeMismatchError reports a geometry array whose shape disagrees with
// its declared layout. Object is "positions" or "connectivity"; Stride is
// the declared dimensionality or cell size; FlatLen is the length of the
// offending flat array.
type ShapeMismatchError struct {
	Object  string
	Stride  int
	FlatLen int
}

// Error implements the error interface.
func (e *ShapeMismatchError) Error() string {
	if e.Object == "positions" && (e.Stride < 2 || e.Stride > 3) {
		return fmt.Sprintf("shape mismatch: dimensionality must be 2 or 3, got %d", e.Stride)
	}
	if e.Object == "connectivity" && e.Stride < 2 {
		return fmt.Sprintf("shape mismatch: cell size must be at least 2, got %d", e.Stride)
	}
	return fmt.Sprintf("shape mismatch: %s length %d is not divisible by %d",
		e.Object, e.FlatLen, e.Stride)
}

// DanglingIndexError reports connectivity referencing a point index that
// does not exist in the position sequence.
type DanglingIndexError struct {
	Cell       int   // cell number containing the bad reference
	Index      int64 // offending point index
	PointCount int   // valid indices are [0, PointCount)
}

// Error implements the error interface.
func (e *DanglingIndexError) Error() string {
	return fmt.Sprintf("dangling index: cell %d references point %d, valid range [0, %d)",
		e.Cell, e.Index, e.PointCount)
}

// FieldShapeMismatchError reports a field array whose extent does not
// agree with its geometry's point count and the declared component kind.
// Components is 0 when the kind itself is unknown.
type FieldShapeMismatchError struct {
	Field      string
	Kind       ComponentKind
	Points     int // geometry point count
	Components int // expected components per point
	FlatLen    int // length of the supplied array
}

// Error implements the error interface.
func (e *FieldShapeMismatchError) Error() string {
	if e.Components == 0 {
		return fmt.Sprintf("field %q: unknown component kind %q", e.Field, e.Kind)
	}
	return fmt.Sprintf("field %q: expected %d points x %d components = %d values, got %d",
		e.Field, e.Points, e.Components, e.Points*e.Components, e.FlatLen)
}

// NonMonotonicIndexError reports an append whose acquisition index is not
// strictly greater than the session's last index.
type NonMonotonicIndexError struct {
	Last int64
	Got  int64
}

// Error implements the error interface.
func (e *NonMonotonicIndexError) Error() string {
	return fmt.Sprintf("acquisition index %d is not greater than last index %d", e.Got, e.Last)
}

// InvalidNameError reports a field or measurement name that cannot be used
// as a container object name.
type InvalidNameError struct {
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Name, e.Reason)
}

// UnsupportedVersionError reports a container whose schema version cannot
// be read by this codec. Read paths fail with it before traversing any
// step group. Raw holds the version attribute verbatim when it could not
// even be parsed.
type UnsupportedVersionError struct {
	Version   Version
	Raw       string
	Supported []int // readable major versions
}

// Error implements the error interface.
func (e *UnsupportedVersionError) Error() string {
	name := e.Raw
	if name == "" {
		name = e.Version.String()
	}
	return fmt.Sprintf("unsupported schema version %s (supported major versions: %v)",
		name, e.Supported)
}

// ValidationError carries the full ordered violation list collected by
// Validate. It blocks container writes and blocks returning a
// reconstructed session to the caller.
type ValidationError struct {
	Report *Report
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	n := len(e.Report.Violations)
	if n == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %d violation(s), first: %s",
		n, e.Report.Violations[0].Error())
}

// ContainerError wraps a storage-layer failure with the operation and
// container path it occurred on. The underlying cause is surfaced
// verbatim; retry policy is the caller's concern.
type ContainerError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ContainerError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("container %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("container %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap provides compatibility with errors.Unwrap().
func (e *ContainerError) Unwrap() error {
	return e.Err
}

// wrapContainer creates a ContainerError, passing nil through untouched.
func wrapContainer(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &ContainerError{Op: op, Path: path, Err: err}
}

// IsUnsupportedVersion reports whether err is an UnsupportedVersionError.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedVersion(err error) bool {
	var ve *UnsupportedVersionError
	return errors.As(err, &ve)
}

// IsValidationFailed reports whether err carries a ValidationError.
// Uses errors.As to handle wrapped errors.
func IsValidationFailed(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsContainerError reports whether err is a ContainerError wrapping a
// storage-layer failure.
func IsContainerError(err error) bool {
	var ce *ContainerError
	return errors.As(err, &ce)
}
