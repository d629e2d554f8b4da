package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timvw/ollama-boolean/internal/model"
)

// fakeClassifier returns a fixed outcome and records the requests it saw.
type fakeClassifier struct {
	outcome  model.Outcome
	panicMsg string
	requests []model.Request
}

func (f *fakeClassifier) Classify(_ context.Context, req model.Request) model.Outcome {
	f.requests = append(f.requests, req)
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	out := f.outcome
	out.Model = req.Model
	return out
}

type harness struct {
	app        *App
	classifier *fakeClassifier
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
	setups     int
	closed     bool
}

func newHarness(outcome model.Outcome) *harness {
	h := &harness{
		classifier: &fakeClassifier{outcome: outcome},
		stdout:     &bytes.Buffer{},
		stderr:     &bytes.Buffer{},
	}
	h.app = &App{
		Stdout: h.stdout,
		Stderr: h.stderr,
		Setup: func(context.Context) (*Runtime, error) {
			h.setups++
			return &Runtime{
				Classifier: h.classifier,
				LogLevel:   slog.LevelInfo,
				Close:      func() { h.closed = true },
			}, nil
		},
	}
	return h
}

func (h *harness) run(args ...string) int {
	return h.app.Run(context.Background(), args)
}

func ok(r model.Result) model.Outcome {
	return model.Outcome{Result: r, Provider: "openai"}
}

func failed(err error) model.Outcome {
	return model.Outcome{Result: model.Unavailable, Provider: "openai", Err: err}
}

func TestRun_Help(t *testing.T) {
	for _, args := range [][]string{
		{"--help"},
		{"-h"},
		{"Is the sky blue?", "--help"},
		{"-q", "-h", "prompt", "model"},
		{"   ", "-h"},
	} {
		h := newHarness(ok(model.Affirmative))
		code := h.run(args...)

		assert.Equal(t, 0, code, "args %v", args)
		out := h.stdout.String()
		for _, section := range []string{"Usage:", "Arguments:", "Options:", "Examples:", "Returns:", ProgramName} {
			assert.Contains(t, out, section, "args %v", args)
		}
		assert.Zero(t, h.setups, "help must not load config, args %v", args)
		assert.Empty(t, h.classifier.requests, "args %v", args)
	}
}

func TestRun_NoPrompt(t *testing.T) {
	h := newHarness(ok(model.Affirmative))
	code := h.run()

	assert.Equal(t, 1, code)
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "Error: User prompt is required")
	assert.Contains(t, h.stderr.String(), "Usage:")
	assert.Zero(t, h.setups)
	assert.Empty(t, h.classifier.requests)
}

func TestRun_NoPromptQuiet(t *testing.T) {
	h := newHarness(ok(model.Affirmative))
	code := h.run("-q", "--debug")

	assert.Equal(t, 1, code)
	assert.Empty(t, h.stdout.String())
	assert.Empty(t, h.stderr.String())
	assert.Empty(t, h.classifier.requests)
}

func TestRun_BlankPrompt(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\t\t", "\n\n", " \t\n "} {
		h := newHarness(ok(model.Affirmative))
		code := h.run(prompt)

		assert.Equal(t, 1, code, "prompt %q", prompt)
		assert.Contains(t, h.stderr.String(), "Error: User prompt cannot be empty", "prompt %q", prompt)
		assert.Empty(t, h.classifier.requests, "prompt %q", prompt)

		h = newHarness(ok(model.Affirmative))
		code = h.run("--quiet", prompt)
		assert.Equal(t, 1, code, "prompt %q", prompt)
		assert.Empty(t, h.stdout.String(), "prompt %q", prompt)
		assert.Empty(t, h.stderr.String(), "prompt %q", prompt)
		assert.Empty(t, h.classifier.requests, "prompt %q", prompt)
	}
}

func TestRun_VerboseSuccess(t *testing.T) {
	h := newHarness(ok(model.Affirmative))
	code := h.run("Is the sky blue?")

	require.Equal(t, 0, code)
	out := h.stdout.String()
	assert.Contains(t, out, `Prompt: "Is the sky blue?"`)
	assert.Contains(t, out, "Model: qwen3")
	assert.Contains(t, out, "Result: 1")
	assert.Contains(t, out, "Interpretation: Yes/Positive")
	assert.Empty(t, h.stderr.String())
	assert.True(t, h.closed, "runtime must be closed")

	require.Len(t, h.classifier.requests, 1)
	req := h.classifier.requests[0]
	assert.Equal(t, "Is the sky blue?", req.Prompt)
	assert.Equal(t, "qwen3", req.Model)
	assert.Equal(t, float64(0), req.Temperature)
	assert.Equal(t, "json", req.Format)
}

func TestRun_VerboseLabels(t *testing.T) {
	tests := []struct {
		result model.Result
		want   string
	}{
		{model.Affirmative, "Interpretation: Yes/Positive"},
		{model.Negative, "Interpretation: No/Negative"},
		{model.Indeterminate, "Interpretation: Unknown/Subjective"},
	}

	for _, tt := range tests {
		h := newHarness(ok(tt.result))
		require.Equal(t, 0, h.run("question"))
		assert.Contains(t, h.stdout.String(), tt.want)
	}
}

func TestRun_QuietSuccess(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		result    model.Result
		wantOut   string
		wantModel string
	}{
		{"long quiet with model", []string{"--quiet", "Can pigs fly?", "llama3.2"}, model.Negative, "0\n", "llama3.2"},
		{"short quiet", []string{"-q", "Is this painting beautiful?"}, model.Indeterminate, "2\n", "qwen3"},
		{"quiet after prompt", []string{"Is the sky blue?", "-q"}, model.Affirmative, "1\n", "qwen3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(ok(tt.result))
			code := h.run(tt.args...)

			require.Equal(t, 0, code)
			assert.Equal(t, tt.wantOut, h.stdout.String())
			assert.Empty(t, h.stderr.String())
			require.Len(t, h.classifier.requests, 1)
			assert.Equal(t, tt.wantModel, h.classifier.requests[0].Model)
		})
	}
}

func TestRun_ClassificationFailure(t *testing.T) {
	h := newHarness(failed(errors.New("invalid character 'o' in literal null")))
	code := h.run("Test")

	assert.Equal(t, 1, code)
	assert.NotContains(t, h.stdout.String(), "Result:")
	assert.Contains(t, h.stderr.String(), "Error: Failed to get classification result")
	assert.Contains(t, h.stderr.String(), "classification failed")
	assert.True(t, h.closed)
}

func TestRun_ClassificationFailureQuiet(t *testing.T) {
	h := newHarness(failed(errors.New("connection refused")))
	code := h.run("-q", "Test")

	assert.Equal(t, 1, code)
	assert.Empty(t, h.stdout.String())
	assert.Empty(t, h.stderr.String())
}

func TestRun_SetupFailure(t *testing.T) {
	h := newHarness(ok(model.Affirmative))
	h.app.Setup = func(context.Context) (*Runtime, error) {
		return nil, errors.New("config: invalid timeout \"soon\"")
	}

	assert.Equal(t, 1, h.run("Is the sky blue?"))
	assert.Contains(t, h.stderr.String(), `Error: Config: invalid timeout "soon"`)

	h.stderr.Reset()
	assert.Equal(t, 1, h.run("-q", "Is the sky blue?"))
	assert.Empty(t, h.stderr.String())
}

func TestRun_PanicIsRecovered(t *testing.T) {
	h := newHarness(ok(model.Affirmative))
	h.classifier.panicMsg = "boom"

	code := h.run("Is the sky blue?")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "Error: Unexpected error: boom")
	assert.True(t, h.closed)

	h = newHarness(ok(model.Affirmative))
	h.classifier.panicMsg = "boom"
	assert.Equal(t, 1, h.run("-q", "Is the sky blue?"))
	assert.Empty(t, h.stderr.String())
	assert.Empty(t, h.stdout.String())
}

func TestRun_IgnoredFlagsLoggedAtDebug(t *testing.T) {
	h := newHarness(ok(model.Affirmative))
	h.app.Setup = func(context.Context) (*Runtime, error) {
		return &Runtime{Classifier: h.classifier, LogLevel: slog.LevelDebug}, nil
	}

	require.Equal(t, 0, h.run("--debug", "Is the sky blue?"))
	assert.Contains(t, h.stderr.String(), "ignoring unrecognized flags")
	assert.Contains(t, h.stdout.String(), "Interpretation: Yes/Positive")
}

func TestRenderReport_PlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	RenderReport(&buf, model.Negative)
	assert.Equal(t, "Result: 0\nInterpretation: No/Negative\n", buf.String())
}
