// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/scigolib/dicex"
)

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		stepIndex int64
		fieldName string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "dump <container.h5>",
		Short: "Export one time step as CSV",
		Long: `Write one time step's point positions, and optionally one field's
values, as CSV rows: one row per measurement point.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(rootOpts, args[0], stepIndex, fieldName, output, cmd)
		},
	}
	cmd.Flags().Int64Var(&stepIndex, "step", 0, "acquisition index of the step to dump")
	cmd.Flags().StringVar(&fieldName, "field", "", "field to dump alongside the positions")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func runDump(opts *RootOptions, path string, stepIndex int64, fieldName, output string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	r, err := dicex.Open(path)
	if err != nil {
		return describeReadError(formatter, path, err)
	}
	defer r.Close()

	ts, err := findStep(r, stepIndex)
	if err != nil {
		if _, ok := err.(*stepNotFoundError); ok {
			_ = formatter.Fail("E020", err.Error(), nil)
			return WrapExitError(ExitCommandError, path, err)
		}
		return describeReadError(formatter, path, err)
	}

	out := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			_ = formatter.Fail("E021", err.Error(), nil)
			return WrapExitError(ExitCommandError, output, err)
		}
		defer f.Close()
		out = f
	}

	var field *dicex.Field
	if fieldName != "" {
		f, ok := ts.Field(fieldName)
		if !ok {
			err := fmt.Errorf("step %d has no field %q, available: %v",
				ts.Index(), fieldName, ts.FieldNames())
			_ = formatter.Fail("E022", err.Error(), nil)
			return WrapExitError(ExitCommandError, path, err)
		}
		field = f
	}

	if err := writeStepCSV(out, ts, field); err != nil {
		return WrapExitError(ExitCommandError, output, err)
	}
	formatter.VerboseLog("dumped step %d (%d points)", ts.Index(), ts.Geometry().PointCount())
	return nil
}

type stepNotFoundError struct {
	index int64
	have  []int64
}

func (e *stepNotFoundError) Error() string {
	return fmt.Sprintf("no step with acquisition index %d, container has %v", e.index, e.have)
}

// findStep resolves an acquisition index to its time step.
func findStep(r *dicex.Reader, index int64) (*dicex.TimeStep, error) {
	n, err := r.StepCount()
	if err != nil {
		return nil, err
	}
	var have []int64
	for i := 0; i < n; i++ {
		ts, err := r.Step(i)
		if err != nil {
			return nil, err
		}
		if ts.Index() == index {
			return ts, nil
		}
		have = append(have, ts.Index())
	}
	return nil, &stepNotFoundError{index: index, have: have}
}

// writeStepCSV renders one step as CSV: position columns, then the
// field's component columns.
func writeStepCSV(out io.Writer, ts *dicex.TimeStep, field *dicex.Field) error {
	w := csv.NewWriter(out)

	header := []string{"x", "y", "z"}[:ts.Geometry().Dim()]
	if field != nil {
		comp := field.Components()
		if comp == 1 {
			header = append(header, field.Name())
		} else {
			for c := 1; c <= comp; c++ {
				header = append(header, fmt.Sprintf("%s_%d", field.Name(), c))
			}
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	points := ts.Geometry().PointCount()
	row := make([]string, 0, len(header))
	for i := 0; i < points; i++ {
		row = row[:0]
		for _, v := range ts.Geometry().Position(i) {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if field != nil {
			for _, v := range field.At(i) {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
