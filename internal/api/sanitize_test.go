package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "Should I accept the offer?", "Should I accept the offer?"},
		{"tags removed", "<b>Hello</b> world", "Hello world"},
		{"script block removed with content", "Should I <script>alert(1)</script>move?", "Should I move?"},
		{"style block removed with content", "<style>body{color:red}</style>Keep this", "Keep this"},
		{"javascript protocol", "go to javascript:void(0)", "go to void(0)"},
		{"event handler", "click onclick=doit()", "click doit()"},
		{"data url header", "see data:text/html,payload", "see payload"},
		{"base64 image kept", "img data:image/png;base64,AAAA", "img data:image/png;base64,AAAA"},
		{"whitespace collapsed", "  Should   I\n\tmove?  ", "Should I move?"},
		{"stray angles", "a > b and c < d", "a b and c d"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sanitize(tc.input))
		})
	}
}
