package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkdownFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON unchanged",
			input: `{"result": 1}`,
			want:  `{"result": 1}`,
		},
		{
			name:  "fenced json block",
			input: "```json\n{\"result\": 0}\n```",
			want:  `{"result": 0}`,
		},
		{
			name:  "fenced without language",
			input: "```\n{\"result\": 2}\n```",
			want:  `{"result": 2}`,
		},
		{
			name:  "fenced with whitespace",
			input: "  ```json\n{\"result\": 1}\n```  ",
			want:  `{"result": 1}`,
		},
		{
			name:  "multiline JSON in fences",
			input: "```json\n{\n  \"result\": 1\n}\n```",
			want:  "{\n  \"result\": 1\n}",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only fences no content",
			input: "```json\n```",
			want:  "",
		},
		{
			name:  "non-JSON text left for the parser to reject",
			input: "The answer is yes.",
			want:  "The answer is yes.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkdownFences(tt.input))
		})
	}
}
