package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bimmerbailey/jester/internal/llm"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the configured provider and model are reachable",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Duration("timeout", 10*time.Second, "how long to wait for the provider")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider, err := newProvider(cfg, commandLogger())
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out := cmd.OutOrStdout()
	if err := provider.Heartbeat(ctx); err != nil {
		if strings.EqualFold(cfg.LLM.Provider, "ollama") {
			return fmt.Errorf("cannot connect to Ollama at %s: %w\n\nStart Ollama with: ollama serve",
				cfg.LLM.Ollama.Host, err)
		}
		return fmt.Errorf("LLM provider %s unavailable: %w", cfg.LLM.Provider, err)
	}
	fmt.Fprintf(out, "provider: %s (reachable)\n", cfg.LLM.Provider)

	model := cfg.LLM.Model()
	ok, err := provider.ModelAvailable(ctx, model)
	if err != nil {
		return fmt.Errorf("failed to check model %s: %w", model, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", llm.ErrModelNotFound, model)
	}
	fmt.Fprintf(out, "model:    %s (available)\n", model)

	return nil
}
