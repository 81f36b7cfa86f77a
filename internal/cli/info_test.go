// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scigolib/dicex"
)

// fixtureContainer writes a small deterministic container and returns
// its path. Provenance is fixed so output is stable across runs.
func fixtureContainer(t *testing.T) string {
	t.Helper()
	g, err := dicex.NewGeometryWithCells(2,
		[]float64{0, 0, 1, 0, 0, 1},
		[]int64{0, 1, 2}, 3)
	require.NoError(t, err)
	u, err := dicex.NewField("u", "mm", dicex.Vector,
		[]float64{0, 0, 0.1, 0, 0, 0.1}, g)
	require.NoError(t, err)
	sigma, err := dicex.NewField("sigma", "MPa", dicex.Scalar,
		[]float64{100, 110, 120}, g)
	require.NoError(t, err)

	s := dicex.NewSession(dicex.PlanarXY, dicex.Provenance{
		Engine:        "stereo-dic",
		EngineVersion: "4.2.0",
		ExchangeID:    "fixture-0001",
	})

	first, err := dicex.NewTimeStep(0, g, u)
	require.NoError(t, err)
	first = first.WithTimestamp(0.5)
	require.NoError(t, s.AppendStep(first))

	second, err := dicex.NewTimeStep(3, g, u, sigma)
	require.NoError(t, err)
	second = second.WithTimestamp(1.5)
	second, err = second.WithMeasurement("force", 1250)
	require.NoError(t, err)
	require.NoError(t, s.AppendStep(second))

	path := filepath.Join(t.TempDir(), "fixture.h5")
	require.NoError(t, dicex.Write(path, s))
	return path
}

func TestInfoText(t *testing.T) {
	path := fixtureContainer(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewInfoCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "schema version:     1.0")
	assert.Contains(t, output, "coordinate system:  planar_xy")
	assert.Contains(t, output, "engine:             stereo-dic 4.2.0")
	assert.Contains(t, output, "steps:              2 (indices 0..3)")
	assert.Contains(t, output, "step 000003: 3 points, 1 cells, 2 field(s), t=1.5s, force=1250")
}

func TestInfoTextGolden(t *testing.T) {
	path := fixtureContainer(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewInfoCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())

	// The first line names the temporary fixture path; the rest is stable.
	_, rest, ok := strings.Cut(buf.String(), "\n")
	require.True(t, ok)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "info_text", []byte(rest))
}

func TestInfoJSON(t *testing.T) {
	path := fixtureContainer(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewInfoCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string        `json:"status"`
		Data   dicex.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.0", resp.Data.Version)
	assert.Equal(t, 2, resp.Data.StepCount)
	assert.Equal(t, []string{"sigma", "u"}, resp.Data.FieldNames)
}

func TestInfoJSONGolden(t *testing.T) {
	path := fixtureContainer(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewInfoCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "info_json", buf.Bytes())
}

func TestInfoMissingFile(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewInfoCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "absent.h5")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "E012")
}
