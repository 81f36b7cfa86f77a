// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/scigolib/dicex"
)

// Manifest describes a measurement run to import: session metadata plus
// one entry per time step referencing CSV files. Paths are relative to
// the manifest file location.
type Manifest struct {
	// CoordinateSystem is the axis convention label ("planar_xy", ...).
	CoordinateSystem string `yaml:"coordinate_system"`

	// Engine and EngineVersion identify the producing DIC software.
	Engine        string `yaml:"engine"`
	EngineVersion string `yaml:"engine_version,omitempty"`

	// Notes is free-form provenance text.
	Notes string `yaml:"notes,omitempty"`

	// Steps lists the acquisitions in increasing index order.
	Steps []ManifestStep `yaml:"steps"`
}

// ManifestStep is one acquisition in a Manifest.
type ManifestStep struct {
	// Index is the acquisition index.
	Index int64 `yaml:"index"`

	// Timestamp is the acquisition time in seconds; omit for none.
	Timestamp *float64 `yaml:"timestamp,omitempty"`

	// Measurements holds per-step scalars ("force", ...).
	Measurements map[string]float64 `yaml:"measurements,omitempty"`

	// Positions references a CSV of point coordinates, one point per
	// row; the column count fixes the dimensionality.
	Positions string `yaml:"positions"`

	// Connectivity optionally references a CSV of cell vertex indices,
	// one cell per row.
	Connectivity string `yaml:"connectivity,omitempty"`

	// Fields lists the measured fields of this step.
	Fields []ManifestField `yaml:"fields,omitempty"`
}

// ManifestField is one field entry in a ManifestStep.
type ManifestField struct {
	Name string `yaml:"name"`
	Unit string `yaml:"unit"`

	// Kind is "scalar", "vector" or "tensor".
	Kind string `yaml:"kind"`

	// Values references a CSV of component values, one point per row.
	Values string `yaml:"values"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		gzipLevel int
		shuffle   bool
	)
	cmd := &cobra.Command{
		Use:   "convert <manifest.yaml> <container.h5>",
		Short: "Build a container from a YAML manifest and CSV files",
		Long: `Read a YAML manifest describing a measurement run, load the CSV files
it references, and write the run as an exchange container. The session
is fully validated before anything is written.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, args[0], args[1], gzipLevel, shuffle, cmd)
		},
	}
	cmd.Flags().IntVar(&gzipLevel, "gzip", 0, "gzip compression level (1-9, 0 disables)")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "byte shuffle filter ahead of compression")
	return cmd
}

func runConvert(opts *RootOptions, manifestPath, outPath string, gzipLevel int, shuffle bool, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		_ = formatter.Fail("E030", err.Error(), nil)
		return WrapExitError(ExitCommandError, manifestPath, err)
	}
	formatter.VerboseLog("manifest lists %d step(s)", len(manifest.Steps))

	baseDir := filepath.Dir(manifestPath)
	records, err := manifest.records(baseDir)
	if err != nil {
		_ = formatter.Fail("E031", err.Error(), nil)
		return WrapExitError(ExitCommandError, manifestPath, err)
	}

	var writeOpts []dicex.WriteOption
	if gzipLevel > 0 {
		writeOpts = append(writeOpts, dicex.WithGZIP(gzipLevel))
	}
	if shuffle {
		writeOpts = append(writeOpts, dicex.WithShuffle())
	}

	prov := dicex.NewProvenance(manifest.Engine, manifest.EngineVersion, manifest.Notes)
	err = dicex.WriteFrom(outPath, dicex.CoordinateSystem(manifest.CoordinateSystem),
		prov, dicex.NewSliceSource(records...), writeOpts...)
	if err != nil {
		exit := ExitCommandError
		code := "E032"
		if dicex.IsValidationFailed(err) {
			exit = ExitFailure
			code = "E010"
		}
		_ = formatter.Fail(code, err.Error(), nil)
		return WrapExitError(exit, outPath, err)
	}

	if formatter.Format == "json" {
		return formatter.JSON(Response{Status: "ok", Data: map[string]interface{}{
			"container": outPath,
			"steps":     len(records),
		}})
	}
	fmt.Fprintf(formatter.Writer, "wrote %s (%d steps)\n", outPath, len(records))
	return nil
}

// LoadManifest parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.Steps) == 0 {
		return nil, fmt.Errorf("manifest lists no steps")
	}
	return &m, nil
}

// records loads every referenced CSV and assembles the step records.
func (m *Manifest) records(baseDir string) ([]dicex.StepRecord, error) {
	out := make([]dicex.StepRecord, 0, len(m.Steps))
	for _, step := range m.Steps {
		rec, err := step.record(baseDir)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", step.Index, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *ManifestStep) record(baseDir string) (dicex.StepRecord, error) {
	positions, dim, err := readFloatCSV(filepath.Join(baseDir, s.Positions))
	if err != nil {
		return dicex.StepRecord{}, fmt.Errorf("positions: %w", err)
	}

	var geom *dicex.Geometry
	if s.Connectivity != "" {
		cells, cellSize, err := readIntCSV(filepath.Join(baseDir, s.Connectivity))
		if err != nil {
			return dicex.StepRecord{}, fmt.Errorf("connectivity: %w", err)
		}
		geom, err = dicex.NewGeometryWithCells(dim, positions, cells, cellSize)
		if err != nil {
			return dicex.StepRecord{}, err
		}
	} else {
		geom, err = dicex.NewGeometry(dim, positions)
		if err != nil {
			return dicex.StepRecord{}, err
		}
	}

	fields := make([]*dicex.Field, 0, len(s.Fields))
	for _, mf := range s.Fields {
		values, _, err := readFloatCSV(filepath.Join(baseDir, mf.Values))
		if err != nil {
			return dicex.StepRecord{}, fmt.Errorf("field %q: %w", mf.Name, err)
		}
		f, err := dicex.NewField(mf.Name, mf.Unit, dicex.ComponentKind(mf.Kind), values, geom)
		if err != nil {
			return dicex.StepRecord{}, err
		}
		fields = append(fields, f)
	}

	rec := dicex.StepRecord{
		Index:        s.Index,
		Measurements: s.Measurements,
		Geometry:     geom,
		Fields:       fields,
	}
	if s.Timestamp != nil {
		rec.Timestamp = *s.Timestamp
		rec.HasTimestamp = true
	}
	return rec, nil
}

// readFloatCSV loads a CSV of floats as a flat row-major array, returning
// the column count.
func readFloatCSV(path string) ([]float64, int, error) {
	rows, cols, err := readCSV(path)
	if err != nil {
		return nil, 0, err
	}
	out := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		for _, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, 0, fmt.Errorf("%s row %d: %w", path, i+1, err)
			}
			out = append(out, v)
		}
	}
	return out, cols, nil
}

// readIntCSV loads a CSV of integers as a flat row-major array, returning
// the column count.
func readIntCSV(path string) ([]int64, int, error) {
	rows, cols, err := readCSV(path)
	if err != nil {
		return nil, 0, err
	}
	out := make([]int64, 0, len(rows)*cols)
	for i, row := range rows {
		for _, cell := range row {
			v, err := strconv.ParseInt(cell, 10, 64)
			if err != nil {
				return nil, 0, fmt.Errorf("%s row %d: %w", path, i+1, err)
			}
			out = append(out, v)
		}
	}
	return out, cols, nil
}

func readCSV(path string) ([][]string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("%s: no rows", path)
	}
	return rows, len(rows[0]), nil
}
