package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/bimmerbailey/jester/internal/content"
	"github.com/bimmerbailey/jester/internal/parser"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <jokes|stories> [file]",
	Short: "Parse a saved model reply",
	Long: `Parse a model reply saved with --raw (or written by hand) without calling
the model. Reads from stdin when no file is given or the file is "-".

Examples:
  jester jokes --raw > reply.txt && jester parse jokes reply.txt
  cat reply.txt | jester parse stories --format json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().Bool("stats", false, "print block and record counts to stderr")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	category, err := content.ParseCategory(args[0])
	if err != nil {
		return err
	}
	showStats, _ := cmd.Flags().GetBool("stats")

	var r io.Reader = cmd.InOrStdin()
	if len(args) == 2 && args[1] != "-" {
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[1], err)
		}
		defer f.Close()
		r = f
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read reply: %w", err)
	}

	opts := []parser.Option{parser.WithLogger(commandLogger())}
	if showStats {
		opts = append(opts, parser.WithObserver(func(o parser.Outcome) {
			fmt.Fprintf(cmd.ErrOrStderr(), "blocks=%d skipped=%d dropped=%d records=%d fallback=%t\n",
				o.Blocks, o.Skipped, o.Dropped, o.Records, o.Fallback)
		}))
	}
	p := parser.New(opts...)

	writer := newWriter(cmd)
	switch category {
	case content.Jokes:
		return writer.WriteJokes(p.Jokes(string(raw)))
	default:
		return writer.WriteStories(p.Stories(string(raw)))
	}
}
