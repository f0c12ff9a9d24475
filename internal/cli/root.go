// Package cli implements the fuzz command tree: generation of labeled
// number sequences from rule blocks, with text, JSON, and grid output.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Output string // "text" | "json" | "grid"
}

// ValidOutputs defines the allowed output formats.
var ValidOutputs = []string{"text", "json", "grid"}

// NewRootCommand creates the root command for the fuzz CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Fuzz - rule-block FizzBuzz sequences",
		Long: "Evaluate ordered rule blocks (divisor, prime, fibonacci, range)\n" +
			"over an integer range and render the labeled sequence.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidOutput(opts.Output) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid output %q: must be one of %v", opts.Output, ValidOutputs))
			}
			return nil
		},
	}

	// Flag parse failures are usage errors, not runtime failures.
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid arguments", err)
	})

	cmd.PersistentFlags().StringVar(&opts.Output, "output", "text", "output format (text|json|grid)")

	cmd.AddCommand(NewGenerateCommand(opts))

	return cmd
}

// isValidOutput checks if the format is one of the allowed values.
func isValidOutput(output string) bool {
	for _, o := range ValidOutputs {
		if o == output {
			return true
		}
	}
	return false
}
