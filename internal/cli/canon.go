package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/consolemock/console"
	"github.com/roach88/consolemock/internal/record"
)

// CanonResult is the JSON payload of the canon command.
type CanonResult struct {
	Type      string `json:"type"`
	Canonical string `json:"canonical"`
}

// NewCanonCommand creates the canon command.
func NewCanonCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canon <type> [args...]",
		Short: "Print the canonical form of a console call",
		Long: `Print the canonical form the mock compares calls by, for a call of the
given severity with the given text arguments.

Example:
  consolemock canon warn "disk almost full:" 91
  {"type":"warn","arguments":["disk almost full:","91"]}`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanon(rootOpts, args[0], args[1:], cmd)
		},
	}

	return cmd
}

func runCanon(opts *RootOptions, typ string, rest []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sev, err := console.ParseSeverity(typ)
	if err != nil {
		if outErr := formatter.Error(ErrCodeInvalidSeverity, err.Error(), severityNames()); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "invalid type", err).reported()
	}

	args := make([]any, len(rest))
	for i, a := range rest {
		args[i] = a
	}
	canonical := record.New(sev, args, nil).Canonical()

	if formatter.JSON() {
		return formatter.Success(CanonResult{Type: sev.String(), Canonical: canonical})
	}
	fmt.Fprintln(formatter.Writer, canonical)
	return nil
}

func severityNames() []string {
	sevs := console.Severities()
	names := make([]string, len(sevs))
	for i, s := range sevs {
		names[i] = s.String()
	}
	return names
}
