package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/timvw/ollama-boolean/internal/model"
)

// Classifier obtains one classification. Failures are reported through the
// returned Outcome, never as a panic or separate error.
type Classifier interface {
	Classify(ctx context.Context, req model.Request) model.Outcome
}

// Runtime is everything the shell needs once the arguments are known to be valid.
type Runtime struct {
	Classifier Classifier
	// LogLevel is the diagnostic level used in verbose mode.
	LogLevel slog.Level
	// Attrs are logged once at debug level before classifying
	// (e.g. config file, provider, backend URL).
	Attrs []any
	// Close releases resources (flushes telemetry). May be nil.
	Close func()
}

// App is the command-line shell.
type App struct {
	Stdout io.Writer
	Stderr io.Writer

	// Setup loads configuration and builds the classifier. It is only
	// called for a valid invocation: help and usage errors never load
	// configuration or contact the backend.
	Setup func(ctx context.Context) (*Runtime, error)
}

// Run executes one invocation and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) (code int) {
	inv := Parse(args)

	if inv.Help {
		PrintUsage(a.Stdout)
		return 0
	}

	if err := inv.Validate(); err != nil {
		a.errorf(inv, "%s", sentence(err.Error()))
		if errors.Is(err, ErrNoPrompt) && !inv.Quiet {
			PrintUsage(a.Stderr)
		}
		return 1
	}

	defer func() {
		if r := recover(); r != nil {
			a.errorf(inv, "Unexpected error: %v", r)
			code = 1
		}
	}()

	rt, err := a.Setup(ctx)
	if err != nil {
		a.errorf(inv, "%s", sentence(err.Error()))
		return 1
	}
	if rt.Close != nil {
		defer rt.Close()
	}

	logger := NewLogger(a.Stderr, inv.Quiet, rt.LogLevel)
	logger.Debug("backend configured", rt.Attrs...)
	if len(inv.Ignored) > 0 {
		logger.Debug("ignoring unrecognized flags", "flags", inv.Ignored)
	}

	if !inv.Quiet {
		fmt.Fprintf(a.Stdout, "Prompt: \"%s\"\n", inv.Prompt)
		fmt.Fprintf(a.Stdout, "Model: %s\n", inv.Model)
		fmt.Fprint(a.Stdout, "Classifying...\n\n")
	}

	out := rt.Classifier.Classify(ctx, model.NewRequest(inv.Prompt, inv.Model))
	if !out.Available() {
		logger.Error("classification failed",
			"provider", out.Provider,
			"model", out.Model,
			"duration", out.Duration,
			"error", out.Err,
		)
		a.errorf(inv, "Failed to get classification result")
		return 1
	}

	logger.Debug("classification complete",
		"result", out.Result.Name(),
		"duration", out.Duration,
		"input_tokens", out.Usage.InputTokens,
		"output_tokens", out.Usage.OutputTokens,
	)

	if inv.Quiet {
		fmt.Fprintln(a.Stdout, out.Result)
	} else {
		RenderReport(a.Stdout, out.Result)
	}
	return 0
}

// errorf prints a user-facing error line on stderr unless in quiet mode.
func (a *App) errorf(inv Invocation, format string, args ...any) {
	if inv.Quiet {
		return
	}
	fmt.Fprintf(a.Stderr, "Error: "+format+"\n", args...)
}

// RenderReport writes the verbose result and its interpretation.
// Colors are only emitted when w is a terminal.
func RenderReport(w io.Writer, r model.Result) {
	renderer := lipgloss.NewRenderer(w)
	label := renderer.NewStyle().Bold(true).Foreground(resultColor(r))

	fmt.Fprintf(w, "Result: %d\n", int(r))
	fmt.Fprintf(w, "Interpretation: %s\n", label.Render(r.Label()))
}

func resultColor(r model.Result) lipgloss.Color {
	switch r {
	case model.Affirmative:
		return lipgloss.Color("#7fd88f")
	case model.Negative:
		return lipgloss.Color("#e06c75")
	default:
		return lipgloss.Color("#f5a742")
	}
}

// sentence upper-cases the first letter of an error message for display.
func sentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
