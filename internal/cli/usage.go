package cli

import (
	"fmt"
	"io"

	"github.com/timvw/ollama-boolean/internal/model"
)

// ProgramName is the name shown in usage text.
const ProgramName = "ollama_boolean"

const usageText = `
Usage: %[1]s [options] "<user_prompt>" [model_name]

Arguments:
  user_prompt  The question or prompt to classify (required, must be quoted)
  model_name   The Ollama model to use (optional, defaults to '%[2]s')

Options:
  -q, --quiet  Output only the result number (0, 1, or 2)
  -h, --help   Show this help message

Examples:
  %[1]s "Is the sky blue?"
  %[1]s "Can pigs fly?" llama3.2
  %[1]s "Is this painting beautiful?" qwen3
  %[1]s --quiet "Is the sky blue?"
  %[1]s -q "Can pigs fly?" llama3.2

Returns:
  1 - Yes/Positive answer
  0 - No/Negative answer
  2 - Unknown/Subjective answer
  Exit status is 1 and nothing is printed in quiet mode when no
  classification could be obtained.

Configuration:
  OLLAMA_HOST                  Ollama address (default: localhost:11434)
  OLLAMA_BOOLEAN_PROVIDER      Backend API: openai (default) or anthropic
  OLLAMA_BOOLEAN_BASE_URL      Full backend URL, overrides OLLAMA_HOST
  OLLAMA_BOOLEAN_API_KEY       API key sent to the backend (default: ollama)
  OLLAMA_BOOLEAN_TIMEOUT       Request timeout, e.g. 30s; 0 disables (default: 2m)
  OLLAMA_BOOLEAN_HEADERS       Extra request headers, e.g. X-Proxy-Token=abc
  OLLAMA_BOOLEAN_LOG_LEVEL     Diagnostic log level in verbose mode (default: info)
  OTEL_EXPORTER_OTLP_ENDPOINT  Export traces and metrics via OTLP/HTTP
  Settings can also be placed in .ollama-boolean.yaml or
  ~/.config/ollama-boolean/config.yaml.
`

// PrintUsage writes the help text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, ProgramName, model.DefaultModel)
}
