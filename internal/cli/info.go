// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/scigolib/dicex"
)

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info <container.h5>",
		Short: "Summarize a container's metadata",
		Long: `Print schema version, coordinate system, provenance and per-step
metadata of an exchange container. Numeric payloads are not read.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, args[0], cmd)
		},
	}
}

func runInfo(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := dicex.ReadFile(path)
	if err != nil {
		return describeReadError(formatter, path, err)
	}
	sum := s.Describe()

	if formatter.Format == "json" {
		return formatter.JSON(Response{Status: "ok", Data: sum})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "container:          %s\n", path)
	fmt.Fprintf(w, "schema version:     %s\n", sum.Version)
	fmt.Fprintf(w, "coordinate system:  %s\n", sum.CoordinateSystem)
	if sum.Engine != "" {
		engine := sum.Engine
		if sum.EngineVersion != "" {
			engine += " " + sum.EngineVersion
		}
		fmt.Fprintf(w, "engine:             %s\n", engine)
	}
	if sum.ExchangeID != "" {
		fmt.Fprintf(w, "exchange id:        %s\n", sum.ExchangeID)
	}
	fmt.Fprintf(w, "steps:              %d", sum.StepCount)
	if sum.StepCount > 0 {
		fmt.Fprintf(w, " (indices %d..%d)", sum.FirstIndex, sum.LastIndex)
	}
	fmt.Fprintln(w)
	if len(sum.FieldNames) > 0 {
		fmt.Fprintf(w, "fields:             %v\n", sum.FieldNames)
	}
	for _, step := range sum.Steps {
		fmt.Fprintf(w, "  step %06d: %d points, %d cells, %d field(s)",
			step.Index, step.PointCount, step.CellCount, len(step.FieldNames))
		if step.HasTimestamp {
			fmt.Fprintf(w, ", t=%gs", step.Timestamp)
		}
		for _, name := range sortedKeys(step.Measurements) {
			fmt.Fprintf(w, ", %s=%g", name, step.Measurements[name])
		}
		fmt.Fprintln(w)
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// describeReadError classifies a read failure into the CLI error model.
func describeReadError(formatter *OutputFormatter, path string, err error) error {
	code := "E001"
	exit := ExitCommandError
	switch {
	case dicex.IsValidationFailed(err):
		code = "E010"
		exit = ExitFailure
	case dicex.IsUnsupportedVersion(err):
		code = "E011"
	case dicex.IsContainerError(err):
		code = "E012"
	}
	_ = formatter.Fail(code, err.Error(), nil)
	return WrapExitError(exit, path, err)
}
