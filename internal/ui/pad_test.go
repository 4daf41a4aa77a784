package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPadRight(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{name: "pads short string", input: "ok", width: 5, want: "ok   "},
		{name: "exact width unchanged", input: "exact", width: 5, want: "exact"},
		{name: "longer string unchanged", input: "overflow", width: 4, want: "overflow"},
		{name: "empty string", input: "", width: 3, want: "   "},
		{name: "ansi codes not counted", input: "\x1b[32mok\x1b[0m", width: 4, want: "\x1b[32mok\x1b[0m  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PadRight(tt.input, tt.width))
		})
	}
}
