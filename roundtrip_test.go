// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package dicex_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/dicex"
)

func sampleSession(t *testing.T) *dicex.Session {
	t.Helper()
	g, err := dicex.NewGeometryWithCells(2,
		[]float64{0, 0, 1, 0, 0, 1, 1, 1},
		[]int64{0, 1, 2, 1, 3, 2}, 3)
	require.NoError(t, err)
	u, err := dicex.NewField("u", "mm", dicex.Vector,
		[]float64{0, 0, 0.01, 0, 0, 0.01, 0.01, 0.01}, g)
	require.NoError(t, err)
	strain, err := dicex.NewField("epsilon", "1", dicex.Tensor,
		[]float64{
			1e-3, 0, 0,
			1.1e-3, 0, 1e-5,
			1.2e-3, 0, 2e-5,
			1.3e-3, 0, 3e-5,
		}, g)
	require.NoError(t, err)

	s := dicex.NewSession(dicex.PlanarXY,
		dicex.NewProvenance("stereo-dic", "4.2.0", "round trip"))
	for i, index := range []int64{0, 1, 4} {
		ts, err := dicex.NewTimeStep(index, g, u, strain)
		require.NoError(t, err)
		ts = ts.WithTimestamp(float64(i) * 0.5)
		ts, err = ts.WithMeasurement("force", 100*float64(i))
		require.NoError(t, err)
		require.NoError(t, s.AppendStep(ts))
	}
	return s
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.h5")
	s := sampleSession(t)
	require.NoError(t, dicex.Write(path, s))

	got, err := dicex.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, s.Version(), got.Version())
	require.Equal(t, s.CoordinateSystem(), got.CoordinateSystem())
	require.Equal(t, s.Provenance(), got.Provenance())
	require.Equal(t, 3, got.StepCount())

	for i := 0; i < s.StepCount(); i++ {
		want, have := s.Step(i), got.Step(i)
		require.Equal(t, want.Index(), have.Index())
		require.Equal(t, want.Geometry().Positions(), have.Geometry().Positions())
		require.Equal(t, want.Geometry().Cells(), have.Geometry().Cells())
		require.Equal(t, want.FieldNames(), have.FieldNames())
		require.Equal(t, want.Measurements(), have.Measurements())
		for _, name := range want.FieldNames() {
			wf, _ := want.Field(name)
			hf, _ := have.Field(name)
			require.Equal(t, wf.Values(), hf.Values())
			require.Equal(t, wf.Unit(), hf.Unit())
			require.Equal(t, wf.Kind(), hf.Kind())
		}
	}
}

func TestWriteWithFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compressed.h5")
	s := sampleSession(t)
	require.NoError(t, dicex.Write(path, s,
		dicex.WithGZIP(6), dicex.WithShuffle(), dicex.WithChunkByteBudget(64)))

	got, err := dicex.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, got.StepCount())
	wf, _ := s.Step(0).Field("epsilon")
	hf, ok := got.Step(0).Field("epsilon")
	require.True(t, ok)
	require.Equal(t, wf.Values(), hf.Values())
}

func TestWriteInvalidSessionLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rejected.h5")

	s := dicex.NewSession(dicex.CoordinateSystem("polar"),
		dicex.Provenance{Engine: "test"})
	err := dicex.Write(path, s)
	require.True(t, dicex.IsValidationFailed(err))

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "a rejected write must not create the file")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "a rejected write must not leave temporary files")
}

func TestWriteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.h5")
	s := sampleSession(t)
	require.NoError(t, dicex.Write(path, s))

	g, err := dicex.NewGeometry(2, []float64{0, 0})
	require.NoError(t, err)
	ts, err := dicex.NewTimeStep(9, g)
	require.NoError(t, err)
	replacement := dicex.NewSession(dicex.PlanarXY, dicex.Provenance{Engine: "second"})
	require.NoError(t, replacement.AppendStep(ts))
	require.NoError(t, dicex.Write(path, replacement))

	got, err := dicex.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, got.StepCount())
	require.Equal(t, "second", got.Provenance().Engine)
}

func TestWriteEmptySession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.h5")
	s := dicex.NewSession(dicex.RightHandedZUp, dicex.Provenance{Engine: "test"})
	require.NoError(t, dicex.Write(path, s), "an empty session is valid, only warned about")

	got, err := dicex.ReadFile(path)
	require.NoError(t, err)
	require.Zero(t, got.StepCount())
	require.Equal(t, dicex.RightHandedZUp, got.CoordinateSystem())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := dicex.Open(filepath.Join(t.TempDir(), "absent.h5"))
	require.Error(t, err)
	require.True(t, dicex.IsContainerError(err))
}

func TestReaderStreamsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.h5")
	require.NoError(t, dicex.Write(path, sampleSession(t)))

	r, err := dicex.Open(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, dicex.CurrentVersion, r.Version())
	n, err := r.StepCount()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	it := r.Steps()
	var indexes []int64
	for it.Next() {
		indexes = append(indexes, it.Step().Index())
	}
	require.NoError(t, it.Err())
	require.Equal(t, []int64{0, 1, 4}, indexes)

	done, total := it.Progress()
	require.Equal(t, 3, done)
	require.Equal(t, 3, total)
}
