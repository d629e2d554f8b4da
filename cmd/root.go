package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/timvw/ollama-boolean/internal/classifier"
	"github.com/timvw/ollama-boolean/internal/cli"
	"github.com/timvw/ollama-boolean/internal/config"
	telem "github.com/timvw/ollama-boolean/internal/otel"
)

// Version is injected at build time via -ldflags "-X .../cmd.Version=...".
var Version = "dev"

// errExit carries a non-zero exit code out of cobra without printing anything.
type errExit struct{ code int }

func (e errExit) Error() string { return fmt.Sprintf("exit status %d", e.code) }

var rootCmd = &cobra.Command{
	Use:   cli.ProgramName + ` [options] "<prompt>" [model_name]`,
	Short: "Classify a yes/no question with a local LLM",
	Long: `ollama_boolean sends a question to a locally hosted language model
(Ollama by default) and classifies the answer as 1 (yes), 0 (no) or
2 (unknown/subjective).

The model makes the judgment; Go code only builds the request and
validates that the reply is exactly one of the three values.`,
	// Arguments follow the tool's own rules: any token starting with "-"
	// is a flag, unknown flags are ignored. pflag would reject them.
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if code := run(cmd.Context(), args, cmd.OutOrStdout(), cmd.ErrOrStderr()); code != 0 {
			return errExit{code: code}
		}
		return nil
	},
}

// Execute runs the root command and exits with its status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var exit errExit
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run drives one invocation and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := &cli.App{
		Stdout: stdout,
		Stderr: stderr,
		Setup:  setup,
	}
	return app.Run(ctx, args)
}

// setup loads configuration (defaults -> config file -> env vars),
// initializes telemetry and builds the classifier for the configured backend.
func setup(ctx context.Context) (*cli.Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	// Wire build version into OTEL service metadata
	telem.Version = Version

	// Initialize OTEL (no-op if no endpoint configured)
	tel, err := telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaderMap,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	cls := classifier.New(newBackend(cfg), classifier.Options{
		Timeout: cfg.TimeoutDuration,
		Metrics: tel.Metrics,
	})

	return &cli.Runtime{
		Classifier: cls,
		LogLevel:   cfg.Level,
		Attrs: []any{
			"version", Version,
			"config_file", cfg.ConfigFile,
			"provider", cfg.Provider,
			"base_url", cfg.BaseURL,
			"timeout", cfg.TimeoutDuration,
			"telemetry", tel.Enabled(),
		},
		Close: func() {
			// Flush with a fresh deadline; the run context may already be cancelled.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tel.Shutdown(shutdownCtx)
		},
	}, nil
}

// newBackend returns the backend for the configured provider.
// config.Load has already rejected unknown providers.
func newBackend(cfg *config.Config) classifier.Backend {
	if cfg.Provider == "anthropic" {
		return classifier.NewAnthropicBackend(classifier.AnthropicConfig{
			BaseURL:      cfg.BaseURL,
			APIKey:       cfg.APIKey,
			MaxTokens:    cfg.MaxTokens,
			ExtraHeaders: cfg.HeaderMap,
		})
	}
	return classifier.NewOpenAIBackend(classifier.OpenAIConfig{
		BaseURL:      cfg.BaseURL,
		APIKey:       cfg.APIKey,
		MaxTokens:    cfg.MaxTokens,
		ExtraHeaders: cfg.HeaderMap,
	})
}
