package identity

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"portfolio/localstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Pattern(t *testing.T) {
	pattern := regexp.MustCompile(
		`^(` + strings.Join(Adjectives(), "|") + `)-(` + strings.Join(Animals(), "|") + `)-[1-9][0-9]{3}$`,
	)

	for i := 0; i < 500; i++ {
		name := Generate()
		assert.Regexp(t, pattern, name)
	}
}

func TestVocabularies(t *testing.T) {
	assert.Len(t, Adjectives(), 20)
	assert.Len(t, Animals(), 20)

	words := Adjectives()
	words[0] = "mutated"
	assert.Equal(t, "swift", Adjectives()[0])
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "alice", want: "alice"},
		{name: "inner whitespace", in: " al\tice \n", want: "alice"},
		{name: "only whitespace", in: "   ", want: ""},
		{name: "truncated", in: strings.Repeat("a", 30), want: strings.Repeat("a", 24)},
		{name: "multibyte", in: strings.Repeat("é", 30), want: strings.Repeat("é", 24)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), 24)
		})
	}
}

func TestStore_Choose(t *testing.T) {
	kv := localstore.NewMemory()
	s := NewStore(kv)

	name, err := s.Username()
	require.NoError(t, err)
	assert.Empty(t, name)

	name, err = s.Choose(" my name ")
	require.NoError(t, err)
	assert.Equal(t, "myname", name)

	stored, err := s.Username()
	require.NoError(t, err)
	assert.Equal(t, "myname", stored)
}

func TestStore_ChooseBlankGenerates(t *testing.T) {
	s := NewStore(localstore.NewMemory())

	name, err := s.Choose("  ")
	require.NoError(t, err)
	assert.NotEmpty(t, name)
	assert.Equal(t, 3, strings.Count(name, "-")+1)
}
