package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeIdent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"foo", "foo"},
		{"default", "_default"},
		{"foo-bar", "foo_bar"},
		{"1st", "_1st"},
		{"٠x", "_٠x"},
		{"", "_"},
		{"$ok", "$ok"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := sanitizeIdent(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, isIdentifier(got), "%q is not a binding identifier", got)
		})
	}
}

func TestNamer_Fresh(t *testing.T) {
	n := newNamer()
	n.reserve("mod")

	assert.Equal(t, "mod1", n.fresh("mod"))
	assert.Equal(t, "mod2", n.fresh("mod"))
	assert.Equal(t, "exports1", n.fresh("exports"), "wrapper scope names are taken")
	assert.True(t, n.taken("mod2"))
}
