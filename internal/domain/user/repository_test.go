package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"bob", "bob"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\dir`, `c:\\dir`},
		{`%_\`, `\%\_\\`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.in), tt.in)
	}
}

func TestFilterNormalize(t *testing.T) {
	assert.Equal(t, Filter{Limit: defaultLimit}, Filter{}.normalize())
	assert.Equal(t, Filter{Limit: maxLimit}, Filter{Limit: 1000, Offset: -5}.normalize())
}
