package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuzzyScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		candidate string
		wantMatch bool
	}{
		{name: "exact", query: "main.go", candidate: "main.go", wantMatch: true},
		{name: "subsequence", query: "mgo", candidate: "main.go", wantMatch: true},
		{name: "case insensitive", query: "readme", candidate: "README.md", wantMatch: true},
		{name: "no match", query: "zzz", candidate: "main.go", wantMatch: false},
		{name: "out of order", query: "gom", candidate: "main.go", wantMatch: false},
		{name: "empty query matches", query: "", candidate: "anything", wantMatch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, ok := NewFuzzy(tt.query).Score(tt.candidate)
			assert.Equal(t, tt.wantMatch, ok)
		})
	}
}

func TestFuzzyPrefersTighterMatch(t *testing.T) {
	t.Parallel()

	m := NewFuzzy("tree")
	tight, ok := m.Score("tree.go")
	assert.True(t, ok)
	loose, ok := m.Score("t_r_e_e_builder.go")
	assert.True(t, ok)
	assert.Greater(t, tight, loose)
}

func TestSubstringScore(t *testing.T) {
	t.Parallel()

	m := NewSubstring("log")
	prefix, ok := m.Score("logger.go")
	assert.True(t, ok)
	inner, ok := m.Score("catalog.go")
	assert.True(t, ok)
	assert.Greater(t, prefix, inner)

	_, ok = m.Score("main.go")
	assert.False(t, ok)

	_, ok = NewSubstring("LOG").Score("syslog")
	assert.True(t, ok, "matching is case-insensitive")
}
