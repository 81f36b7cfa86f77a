// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scigolib/dicex"
)

// convertFixture lays out a manifest plus the CSV files it references
// and returns the manifest path.
func convertFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"positions.csv": "0,0\n1,0\n0,1\n",
		"cells.csv":     "0,1,2\n",
		"u.csv":         "0,0\n0.1,0\n0,0.1\n",
		"sigma.csv":     "100\n110\n120\n",
		"manifest.yaml": `coordinate_system: planar_xy
engine: stereo-dic
engine_version: 4.2.0
notes: bench run 17
steps:
  - index: 0
    timestamp: 0.5
    positions: positions.csv
    connectivity: cells.csv
    fields:
      - name: u
        unit: mm
        kind: vector
        values: u.csv
  - index: 3
    timestamp: 1.5
    measurements:
      force: 1250
    positions: positions.csv
    connectivity: cells.csv
    fields:
      - name: u
        unit: mm
        kind: vector
        values: u.csv
      - name: sigma
        unit: MPa
        kind: scalar
        values: sigma.csv
`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return filepath.Join(dir, "manifest.yaml")
}

func TestConvert(t *testing.T) {
	manifest := convertFixture(t)
	outPath := filepath.Join(t.TempDir(), "run.h5")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{manifest, outPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "wrote")
	assert.Contains(t, buf.String(), "(2 steps)")

	s, err := dicex.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, dicex.PlanarXY, s.CoordinateSystem())
	assert.Equal(t, "stereo-dic", s.Provenance().Engine)
	assert.Equal(t, "4.2.0", s.Provenance().EngineVersion)
	assert.Equal(t, "bench run 17", s.Provenance().Notes)
	assert.NotEmpty(t, s.Provenance().ExchangeID)
	require.Equal(t, 2, s.StepCount())

	first := s.Step(0)
	assert.Equal(t, int64(0), first.Index())
	ts, ok := first.Timestamp()
	require.True(t, ok)
	assert.Equal(t, 0.5, ts)
	assert.Equal(t, 3, first.Geometry().PointCount())
	assert.Equal(t, 1, first.Geometry().CellCount())
	assert.Equal(t, []int64{0, 1, 2}, first.Geometry().Cells())

	second := s.Step(1)
	assert.Equal(t, int64(3), second.Index())
	force, ok := second.Measurement("force")
	require.True(t, ok)
	assert.Equal(t, 1250.0, force)

	sigma, ok := second.Field("sigma")
	require.True(t, ok)
	assert.Equal(t, dicex.Scalar, sigma.Kind())
	assert.Equal(t, "MPa", sigma.Unit())
	assert.Equal(t, []float64{100, 110, 120}, sigma.Values())

	u, ok := second.Field("u")
	require.True(t, ok)
	assert.Equal(t, dicex.Vector, u.Kind())
	assert.Equal(t, []float64{0, 0, 0.1, 0, 0, 0.1}, u.Values())
}

func TestConvertJSON(t *testing.T) {
	manifest := convertFixture(t)
	outPath := filepath.Join(t.TempDir(), "run.h5")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{manifest, outPath})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Container string `json:"container"`
			Steps     int    `json:"steps"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, outPath, resp.Data.Container)
	assert.Equal(t, 2, resp.Data.Steps)
}

func TestConvertCompressed(t *testing.T) {
	manifest := convertFixture(t)
	outPath := filepath.Join(t.TempDir(), "run.h5")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{manifest, outPath, "--gzip", "6", "--shuffle"})

	require.NoError(t, cmd.Execute())

	s, err := dicex.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, 2, s.StepCount())
	u, ok := s.Step(1).Field("u")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0, 0.1, 0, 0, 0.1}, u.Values())
}

func TestConvertBadManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("steps: []\n"), 0o644))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{manifest, filepath.Join(dir, "run.h5")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "E030")
	assert.Contains(t, buf.String(), "no steps")
}

func TestConvertMissingCSV(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(`coordinate_system: planar_xy
engine: stereo-dic
steps:
  - index: 0
    positions: absent.csv
`), 0o644))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{manifest, filepath.Join(dir, "run.h5")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "E031")
	assert.Contains(t, buf.String(), "step 0")
}

func TestConvertValidationFailure(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "positions.csv"),
		[]byte("0,0\n1,0\n"), 0o644))
	require.NoError(t, os.WriteFile(manifest, []byte(`coordinate_system: polar
engine: stereo-dic
steps:
  - index: 0
    positions: positions.csv
`), 0o644))
	outPath := filepath.Join(dir, "run.h5")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewConvertCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{manifest, outPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "E010")

	// A rejected session must leave no container behind.
	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}
