package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/consolemock/internal/harness"
)

// FileValidation is the validation outcome of one scenario file.
type FileValidation struct {
	Path  string `json:"path"`
	Name  string `json:"name,omitempty"`
	Steps int    `json:"steps,omitempty"`
	Error string `json:"error,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate scenario files without running them",
		Long: `Parse scenario files (.yaml, .yml, .cue) and check their structure:
required fields, one action per step, known severities, error kinds and
assertion types.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}
	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)
		fv := FileValidation{Path: path}
		scenario, err := harness.LoadScenario(path)
		if err != nil {
			fv.Error = err.Error()
			result.Valid = false
		} else {
			fv.Name = scenario.Name
			fv.Steps = len(scenario.Steps)
		}
		result.Files = append(result.Files, fv)
	}

	var cliErr *CLIError
	if !result.Valid {
		cliErr = &CLIError{Code: ErrCodeLoadFailed, Message: "one or more scenario files are invalid"}
	}

	if formatter.JSON() {
		if err := formatter.Report(result, cliErr); err != nil {
			return err
		}
	} else {
		for _, fv := range result.Files {
			if fv.Error != "" {
				fmt.Fprintf(formatter.Writer, "✗ %s\n  %s\n", fv.Path, fv.Error)
				continue
			}
			fmt.Fprintf(formatter.Writer, "✓ %s (%s, %d steps)\n", fv.Path, fv.Name, fv.Steps)
		}
	}

	if cliErr != nil {
		return NewExitError(ExitFailure, cliErr.Message).reported()
	}
	return nil
}
