package cmd

import (
	"fmt"

	"github.com/bimmerbailey/jester/internal/content"
	"github.com/bimmerbailey/jester/internal/prompt"
	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt <jokes|stories>",
	Short: "Print the prompt sent to the model",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	category, err := content.ParseCategory(args[0])
	if err != nil {
		return err
	}

	p, err := prompt.Build(category)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), p)
	return nil
}
