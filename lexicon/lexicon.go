// Package lexicon loads a word -> (valence, arousal) table from a CSV file
// and scores free text by averaging the rows matched by its tokens, the
// same approach as the NRC-VAD lexicon scoring it's grounded on.
package lexicon

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"moodquad/catalog"
)

// Entry is a single lexicon row.
type Entry struct {
	Valence float64
	Arousal float64
}

// Lexicon is a loaded word -> Entry table.
type Lexicon struct {
	words map[string]Entry
}

// Load reads a CSV file with header columns "word", "valence", "arousal"
// (the shape produced by create_csv.py's rec_dict_to_df export) and
// returns a Lexicon.
func Load(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: opening %s: %w", path, err)
	}
	defer f.Close()
	return LoadFrom(f)
}

// LoadFrom reads a CSV lexicon from an arbitrary reader, so tests don't
// need a file on disk.
func LoadFrom(r io.Reader) (*Lexicon, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("lexicon: reading header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	wordCol, ok := col["word"]
	if !ok {
		return nil, fmt.Errorf("lexicon: missing required column %q", "word")
	}
	valenceCol, ok := col["valence"]
	if !ok {
		return nil, fmt.Errorf("lexicon: missing required column %q", "valence")
	}
	arousalCol, ok := col["arousal"]
	if !ok {
		return nil, fmt.Errorf("lexicon: missing required column %q", "arousal")
	}

	lex := &Lexicon{words: make(map[string]Entry)}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("lexicon: reading row: %w", err)
		}

		valence, err := strconv.ParseFloat(record[valenceCol], 64)
		if err != nil {
			continue
		}
		arousal, err := strconv.ParseFloat(record[arousalCol], 64)
		if err != nil {
			continue
		}
		lex.words[cleanWord(record[wordCol])] = Entry{Valence: valence, Arousal: arousal}
	}
	return lex, nil
}

// cleanWord lowercases a token and strips the punctuation runes a
// tokenizer would otherwise leave attached to it.
func cleanWord(word string) string {
	return strings.ToLower(strings.Trim(word, ".,!?;:\"'()"))
}

// tokenize splits text on whitespace and cleans each token.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, len(fields))
	for i, f := range fields {
		tokens[i] = cleanWord(f)
	}
	return tokens
}

// ScoreResult is the outcome of scoring a piece of text against the lexicon.
type ScoreResult struct {
	Mood            catalog.MoodVector
	TotalTokens     int
	TokensInLexicon int
}

// Rating is the fraction of tokens found in the lexicon, matching the
// calc_rating ratio.
func (r ScoreResult) Rating() float64 {
	if r.TotalTokens == 0 {
		return 0
	}
	return float64(r.TokensInLexicon) / float64(r.TotalTokens)
}

// Score tokenizes text and averages the energy/valence of every token
// found in the lexicon, matching calc_energy_valence: tokens absent from
// the lexicon contribute nothing to the sum, and the average divides only
// by the count of tokens that WERE found.
func (l *Lexicon) Score(text string) ScoreResult {
	tokens := tokenize(text)

	var totalEnergy, totalValence float64
	var inLexicon int

	for _, token := range tokens {
		entry, ok := l.words[token]
		if !ok {
			continue
		}
		inLexicon++
		totalEnergy += entry.Arousal
		totalValence += entry.Valence
	}

	result := ScoreResult{TotalTokens: len(tokens), TokensInLexicon: inLexicon}
	if inLexicon > 0 {
		result.Mood = catalog.MoodVector{
			Energy:  totalEnergy / float64(inLexicon),
			Valence: totalValence / float64(inLexicon),
		}
	}
	return result
}
