package filename

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		input   string
		current string
		legacy  string
	}{
		{input: "Default", current: "Default", legacy: "Default"},
		{input: "Mac OS X 10.5+", current: "Mac OS X 10.5+", legacy: "Mac_OS_X_10.5_"},
		{input: "Darcula / Contrast", current: "Darcula _ Contrast", legacy: "Darcula___Contrast"},
		{input: `a:b*c?d"e<f>g|h\i`, current: "a_b_c_d_e_f_g_h_i", legacy: "a_b_c_d_e_f_g_h_i"},
		{input: "Ünïcödé", current: "Ünïcödé", legacy: "_n_c_d_"},
		{input: "trailing. ", current: "trailing", legacy: "trailing._"},
		{input: "..", current: "_", legacy: ".."},
		{input: "", current: "_", legacy: "_"},
		{input: "tab\there", current: "tab_here", legacy: "tab_here"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.current, Sanitize(tt.input, false), "current strategy for %q", tt.input)
		assert.Equal(t, tt.legacy, Sanitize(tt.input, true), "legacy strategy for %q", tt.input)
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Default.yaml", FileName("Default", ".yaml", false))
	assert.Equal(t, "Darcula___Contrast.yaml", FileName("Darcula / Contrast", ".yaml", true))

	long := strings.Repeat("é", 200)
	f := FileName(long, ".yaml", false)
	assert.LessOrEqual(t, len(f), MaxLength)
	assert.True(t, utf8.ValidString(f))
	assert.True(t, strings.HasSuffix(f, ".yaml"))
}
