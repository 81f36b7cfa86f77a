// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{
			&ShapeMismatchError{Object: "positions", Stride: 4, FlatLen: 8},
			"shape mismatch: dimensionality must be 2 or 3, got 4",
		},
		{
			&ShapeMismatchError{Object: "positions", Stride: 2, FlatLen: 5},
			"shape mismatch: positions length 5 is not divisible by 2",
		},
		{
			&ShapeMismatchError{Object: "connectivity", Stride: 1, FlatLen: 3},
			"shape mismatch: cell size must be at least 2, got 1",
		},
		{
			&DanglingIndexError{Cell: 2, Index: 9, PointCount: 4},
			"dangling index: cell 2 references point 9, valid range [0, 4)",
		},
		{
			&FieldShapeMismatchError{Field: "u", Kind: Vector, Points: 3, Components: 2, FlatLen: 5},
			`field "u": expected 3 points x 2 components = 6 values, got 5`,
		},
		{
			&FieldShapeMismatchError{Field: "q", Kind: ComponentKind("spinor")},
			`field "q": unknown component kind "spinor"`,
		},
		{
			&NonMonotonicIndexError{Last: 5, Got: 3},
			"acquisition index 3 is not greater than last index 5",
		},
		{
			&InvalidNameError{Name: "a/b", Reason: "must not contain '/'"},
			`invalid name "a/b": must not contain '/'`,
		},
		{
			&UnsupportedVersionError{Version: Version{Major: 2, Minor: 1}, Supported: []int{1}},
			"unsupported schema version 2.1 (supported major versions: [1])",
		},
		{
			&UnsupportedVersionError{Raw: "banana", Supported: []int{1}},
			"unsupported schema version banana (supported major versions: [1])",
		},
		{
			&ContainerError{Op: "open", Path: "run.h5", Err: fs.ErrNotExist},
			"container open run.h5: file does not exist",
		},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.err.Error())
	}
}

func TestValidationErrorMessage(t *testing.T) {
	r := &Report{}
	r.add(CodeFieldShape, SeverityError, "step 0", "broken")
	r.add(CodeFieldName, SeverityError, "step 1", "also broken")
	err := &ValidationError{Report: r}
	require.Equal(t,
		"validation failed: 2 violation(s), first: [V130] step 0: broken",
		err.Error())
}

func TestContainerErrorUnwrap(t *testing.T) {
	cause := fs.ErrNotExist
	err := wrapContainer("open", "run.h5", cause)
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.True(t, IsContainerError(err))

	require.NoError(t, wrapContainer("open", "run.h5", nil))
}

func TestErrorPredicatesThroughWrapping(t *testing.T) {
	uv := &UnsupportedVersionError{Version: Version{Major: 2}, Supported: []int{1}}
	wrapped := fmt.Errorf("reading header: %w", uv)
	require.True(t, IsUnsupportedVersion(wrapped))
	require.False(t, IsUnsupportedVersion(errors.New("other")))

	ve := &ValidationError{Report: &Report{}}
	require.True(t, IsValidationFailed(fmt.Errorf("audit: %w", ve)))
	require.False(t, IsValidationFailed(uv))
}
