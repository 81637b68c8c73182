// Package sentiment calls a remote language model to extract sentiment
// keywords from a user's free-text mood description, and blends the
// result with a lexicon-derived mood vector.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"moodquad/catalog"
)

// DefaultTimeout mirrors catalog.DefaultTimeout: an LLM call is the
// slowest collaborator in this repository, but still bounded the same way.
const DefaultTimeout = 15 * time.Second

// QueryWeight and SentimentsWeight are the fixed blend weights applied by
// BlendMoodVectors: 30% of the blended vector comes from the raw text's
// own lexicon score, 70% from the model's sentiment read.
const (
	QueryWeight      = 0.3
	SentimentsWeight = 0.7
)

// Analysis is the parsed result of a single prompt: a short list of
// sentiment keywords alongside the resulting mood read.
type Analysis struct {
	Keywords []string           `json:"keywords"`
	Mood     catalog.MoodVector `json:"mood"`
}

// Client calls the sentiment-extraction endpoint.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient builds a Client against baseURL, authenticating with apiKey.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

// generatePrompt wraps the user's free text the way the model expects it,
// same shape as the "\"<query>\"\n<suffix>" prompt built before the call.
func generatePrompt(query string) string {
	return fmt.Sprintf("%q\nExtract sentiment keywords and a mood reading.", query)
}

// Analyze sends query to the model and parses its sentiment/keyword/mood
// response.
func (c *Client) Analyze(ctx context.Context, query string) (Analysis, error) {
	body, err := json.Marshal(promptRequest{Prompt: generatePrompt(query)})
	if err != nil {
		return Analysis{}, fmt.Errorf("sentiment: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return Analysis{}, fmt.Errorf("sentiment: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Analysis{}, fmt.Errorf("sentiment: requesting analysis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Analysis{}, fmt.Errorf("sentiment: unexpected status %d", resp.StatusCode)
	}

	var analysis Analysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return Analysis{}, fmt.Errorf("sentiment: decoding analysis: %w", err)
	}
	return analysis, nil
}

// BlendMoodVectors combines a text-derived mood vector and a
// sentiment-derived mood vector into the single vector used to query the
// index, weighting the sentiment reading more heavily than the raw text.
func BlendMoodVectors(textMood, sentimentMood catalog.MoodVector) catalog.MoodVector {
	return catalog.MoodVector{
		Energy:  QueryWeight*textMood.Energy + SentimentsWeight*sentimentMood.Energy,
		Valence: QueryWeight*textMood.Valence + SentimentsWeight*sentimentMood.Valence,
	}
}
