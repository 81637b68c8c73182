package lexicon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureCSV = `word,valence,arousal
happy,0.9,0.7
tired,0.2,0.1
hopeful,0.7,0.5
`

func TestLoadFrom(t *testing.T) {
	lex, err := LoadFrom(strings.NewReader(fixtureCSV))
	require.NoError(t, err)
	assert.Len(t, lex.words, 3)
}

func TestLoadFromMissingColumn(t *testing.T) {
	_, err := LoadFrom(strings.NewReader("word,valence\nhappy,0.9\n"))
	require.Error(t, err)
}

func TestScoreAveragesMatchedTokens(t *testing.T) {
	lex, err := LoadFrom(strings.NewReader(fixtureCSV))
	require.NoError(t, err)

	result := lex.Score("I am happy and hopeful, but also tired.")

	assert.Equal(t, 8, result.TotalTokens)
	assert.Equal(t, 3, result.TokensInLexicon)
	assert.InDelta(t, (0.9+0.7+0.2)/3, result.Mood.Valence, 1e-9)
	assert.InDelta(t, (0.7+0.5+0.1)/3, result.Mood.Energy, 1e-9)
	assert.InDelta(t, 3.0/8.0, result.Rating(), 1e-9)
}

func TestScoreNoMatchesYieldsZeroMood(t *testing.T) {
	lex, err := LoadFrom(strings.NewReader(fixtureCSV))
	require.NoError(t, err)

	result := lex.Score("xyzzy plugh")

	assert.Equal(t, 0, result.TokensInLexicon)
	assert.Equal(t, 0.0, result.Rating())
	assert.Equal(t, 0.0, result.Mood.Valence)
}
