// Package cli is the command-line shell around the classifier: it turns raw
// arguments into an Invocation, validates it, drives one classification and
// renders the outcome in quiet or verbose form.
package cli

import (
	"errors"
	"strings"

	"github.com/timvw/ollama-boolean/internal/model"
)

var (
	// ErrNoPrompt indicates no positional prompt argument was given.
	ErrNoPrompt = errors.New("user prompt is required")

	// ErrBlankPrompt indicates the prompt is empty or only whitespace.
	ErrBlankPrompt = errors.New("user prompt cannot be empty")
)

// Invocation is the parsed command line. It is derived once and never mutated.
type Invocation struct {
	// Help is set by -h or --help anywhere in the arguments.
	Help bool
	// Quiet is set by -q or --quiet anywhere in the arguments.
	Quiet bool

	// Prompt is the first positional argument.
	Prompt string
	// HasPrompt reports whether a first positional argument was present at all.
	HasPrompt bool
	// Model is the second positional argument, or model.DefaultModel.
	Model string

	// Ignored holds unrecognized flag tokens, in order.
	Ignored []string
}

// Parse splits args (without the program name) into flags and positionals.
//
// Every token that starts with "-" is a flag, wherever it appears. Only
// -h/--help and -q/--quiet mean anything; other flags are dropped without
// error. A literal prompt starting with "-" therefore cannot be passed.
func Parse(args []string) Invocation {
	inv := Invocation{Model: model.DefaultModel}

	var positional []string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
			continue
		}
		switch arg {
		case "-h", "--help":
			inv.Help = true
		case "-q", "--quiet":
			inv.Quiet = true
		default:
			inv.Ignored = append(inv.Ignored, arg)
		}
	}

	if len(positional) > 0 {
		inv.Prompt = positional[0]
		inv.HasPrompt = true
	}
	if len(positional) > 1 && positional[1] != "" {
		inv.Model = positional[1]
	}

	return inv
}

// Validate checks that a non-blank prompt was given.
func (inv Invocation) Validate() error {
	if !inv.HasPrompt {
		return ErrNoPrompt
	}
	if strings.TrimSpace(inv.Prompt) == "" {
		return ErrBlankPrompt
	}
	return nil
}
