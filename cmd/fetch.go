package cmd

import (
	"context"
	"fmt"

	"github.com/bimmerbailey/jester/internal/content"
	"github.com/spf13/cobra"
)

var jokesCmd = &cobra.Command{
	Use:   "jokes",
	Short: "Generate a batch of jokes",
	Long: `Ask the configured model for five jokes, each with a different style and
theme, and print them.

Examples:
  jester jokes
  jester jokes --format table
  jester jokes --provider ollama --model llama3.2
  jester jokes --raw > reply.txt`,
	Args: cobra.NoArgs,
	RunE: runFetch(content.Jokes),
}

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "Generate a batch of short stories",
	Long: `Ask the configured model for three short stories, each with a genre,
theme, title and optional moral, and print them.

Examples:
  jester stories
  jester stories --format json
  jester stories --raw`,
	Args: cobra.NoArgs,
	RunE: runFetch(content.Stories),
}

func init() {
	for _, c := range []*cobra.Command{jokesCmd, storiesCmd} {
		c.Flags().Bool("raw", false, "print the model's reply without parsing it")
		rootCmd.AddCommand(c)
	}
}

func runFetch(category content.Category) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := commandLogger()
		gen, err := buildGenerator(cfg, logger)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if raw {
			text, err := gen.Generate(ctx, category)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		}

		writer := newWriter(cmd)
		switch category {
		case content.Jokes:
			return writer.WriteJokes(gen.FetchJokes(ctx))
		default:
			return writer.WriteStories(gen.FetchStories(ctx))
		}
	}
}
