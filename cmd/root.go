package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bimmerbailey/jester/internal/config"
	"github.com/bimmerbailey/jester/internal/generator"
	"github.com/bimmerbailey/jester/internal/llm"
	"github.com/bimmerbailey/jester/internal/output"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// newProvider is replaced in tests.
var newProvider = llm.NewProvider

var rootCmd = &cobra.Command{
	Use:   "jester",
	Short: "Jokes and short stories from a language model",
	Long: `Jester asks a generative language model for family-friendly jokes or
short stories and turns its reply into structured records.

When the model is unreachable or its reply cannot be understood, a fixed
fallback joke or story is shown instead.

Examples:
  jester jokes
  jester stories --format json
  jester parse stories reply.txt
  jester serve --addr :9000`,
	SilenceUsage: true,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.jester.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, json, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("color", "auto", "colorize text output (auto, always, never)")
	rootCmd.PersistentFlags().String("provider", "", "llm provider (gemini, ollama)")
	rootCmd.PersistentFlags().String("model", "", "model name for the selected provider")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	_ = viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
}

func initConfig() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".jester")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("JESTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// newLogger returns a text logger on w at ERROR, or INFO with verbose, or
// DEBUG with debug.
func newLogger(w io.Writer, verbose, debug bool) *slog.Logger {
	level := slog.LevelError
	switch {
	case debug:
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func commandLogger() *slog.Logger {
	return newLogger(os.Stderr, viper.GetBool("verbose"), viper.GetBool("debug"))
}

// loadConfig decodes the global viper state. The --model flag overrides the
// model of whichever provider is selected.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	if model := viper.GetString("model"); model != "" {
		switch strings.ToLower(cfg.LLM.Provider) {
		case "gemini":
			cfg.LLM.Gemini.Model = model
		case "ollama":
			cfg.LLM.Ollama.Model = model
		}
	}

	return cfg, nil
}

// buildGenerator creates the configured provider and a generator around it.
func buildGenerator(cfg *config.Config, logger *slog.Logger) (*generator.Generator, error) {
	provider, err := newProvider(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w\n\nTroubleshooting:\n- For Gemini, set GEMINI_API_KEY (a .env file works)\n- For Ollama, ensure it is running: ollama serve\n- Check provider config in ~/.jester.yaml", err)
	}
	return generator.FromConfig(provider, cfg, logger), nil
}

func newWriter(cmd *cobra.Command) *output.Writer {
	return output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format"))).
		WithColor(output.ParseColorMode(viper.GetString("color")))
}
