package cli

import (
	"github.com/spf13/cobra"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
	"github.com/AlexGitta/Fuzz/render"
	"github.com/AlexGitta/Fuzz/workspace"
)

// GenerateOptions holds the generate command's flags.
type GenerateOptions struct {
	Start  int
	End    int
	Blocks string
}

// resultJSON is one evaluated number in --output json mode.
type resultJSON struct {
	Number          int      `json:"number"`
	Label           string   `json:"label"`
	MatchedBlockIDs []string `json:"matched_block_ids,omitempty"`
}

// gridJSON is the --output grid payload: the square layout plus the
// color legend for its categories.
type gridJSON struct {
	Grid   render.Grid          `json:"grid"`
	Legend []render.LegendEntry `json:"legend"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Evaluate the block sequence over a number range",
		Long: `Evaluate rule blocks over an inclusive integer range.

Without --blocks the classic pair runs: Fizz on divisor 3 and Buzz on
divisor 5. With --blocks an ordered YAML list of block definitions is
loaded instead.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - main handles error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Start, "start", 1, "first number of the range (inclusive)")
	cmd.Flags().IntVar(&opts.End, "end", 100, "last number of the range (inclusive)")
	cmd.Flags().StringVar(&opts.Blocks, "blocks", "", "YAML file with an ordered block list")

	return cmd
}

func runGenerate(rootOpts *RootOptions, opts *GenerateOptions, cmd *cobra.Command) error {
	blocks, err := generateBlocks(opts.Blocks)
	if err != nil {
		return err
	}

	results, err := fizzbuzz.Evaluate(opts.Start, opts.End, blocks)
	if err != nil {
		// Evaluate only rejects bad ranges and bad blocks, both of
		// which come from user input here.
		return WrapExitError(ExitCommandError, "cannot evaluate", err)
	}

	out := cmd.OutOrStdout()
	switch rootOpts.Output {
	case "json":
		payload := make([]resultJSON, len(results))
		for i, r := range results {
			payload[i] = resultJSON{Number: r.Number, Label: r.Label, MatchedBlockIDs: r.MatchedBlockIDs}
		}
		return writeJSON(out, payload)
	case "grid":
		return writeJSON(out, gridJSON{
			Grid:   render.BuildGrid(results),
			Legend: render.BuildLegend(blocks, results),
		})
	default:
		if err := render.Write(out, results); err != nil {
			return WrapExitError(ExitFailure, "failed to write results", err)
		}
		return nil
	}
}

// generateBlocks resolves the block sequence for a run: the classic
// default pair, or the contents of a --blocks file.
func generateBlocks(path string) ([]fizzbuzz.RuleBlock, error) {
	if path == "" {
		ws := workspace.New("cli", "cli")
		if err := ws.SeedDefaults(); err != nil {
			return nil, WrapExitError(ExitFailure, "failed to seed default blocks", err)
		}
		return ws.Blocks(), nil
	}
	return LoadBlockFile(path)
}
