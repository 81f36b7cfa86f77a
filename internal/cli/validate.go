// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scigolib/dicex"
)

// ValidationResult holds the audit outcome for CLI output.
type ValidationResult struct {
	Valid      bool              `json:"valid"`
	Violations []dicex.Violation `json:"violations,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <container.h5>",
		Short: "Audit a container's structure",
		Long: `Reconstruct a container and run the full structural audit, printing
every violation found rather than stopping at the first. Warnings do
not fail the command; fatal violations exit with code 1.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
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
	formatter.VerboseLog("opened %s, schema version %s", path, r.Version())

	s, err := r.Session()
	var report *dicex.Report
	switch {
	case err == nil:
		report = dicex.Validate(s)
	default:
		var ve *dicex.ValidationError
		if !errors.As(err, &ve) {
			return describeReadError(formatter, path, err)
		}
		report = ve.Report
	}

	violations := report.Violations
	if len(violations) == 0 {
		if formatter.Format == "json" {
			if err := formatter.JSON(Response{Status: "ok", Data: ValidationResult{Valid: true}}); err != nil {
				return err
			}
			return nil
		}
		fmt.Fprintln(formatter.Writer, "container is valid")
		return nil
	}

	valid := report.OK()
	if formatter.Format == "json" {
		resp := Response{Status: "ok", Data: ValidationResult{Valid: valid, Violations: violations}}
		if !valid {
			first := report.Errors()[0]
			resp.Status = "error"
			resp.Error = &Error{Code: first.Code, Message: first.Message}
		}
		if err := formatter.JSON(resp); err != nil {
			return err
		}
	} else {
		if valid {
			fmt.Fprintln(formatter.Writer, "container is valid, with warnings:")
		} else {
			fmt.Fprintln(formatter.Writer, "container is invalid:")
		}
		for _, v := range violations {
			fmt.Fprintf(formatter.Writer, "  %s (%s)\n", v.Error(), v.Severity)
		}
	}

	if !valid {
		return NewExitError(ExitFailure,
			fmt.Sprintf("validation failed with %d error(s)", len(report.Errors())))
	}
	return nil
}
