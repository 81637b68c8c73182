// Package gifsearch looks up a single reaction gif by keyword list, the
// same call shape as the Giphy search used to decorate a mood match.
package gifsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public Giphy search endpoint.
	DefaultBaseURL = "https://api.giphy.com/v1/gifs/search"
	// Limit mirrors GIF_LIMIT: exactly one result per query.
	Limit = 1
	// Rating and Language mirror RESULTS_RATING / RESULTS_LANGUAGE.
	Rating   = "pg"
	Language = "en"

	// DefaultTimeout bounds a single search call.
	DefaultTimeout = 5 * time.Second
)

// Gif is a single search result.
type Gif struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type searchResponse struct {
	Data []Gif `json:"data"`
}

// Client calls the gif search API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient builds a Client authenticating with apiKey.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// buildSearchURL assembles the request URL the same way
// set_giphy_search_url does: api key, joined query, limit/offset/rating/lang.
func (c *Client) buildSearchURL(query string) string {
	values := url.Values{}
	values.Set("api_key", c.APIKey)
	values.Set("q", query)
	values.Set("limit", fmt.Sprintf("%d", Limit))
	values.Set("offset", "0")
	values.Set("rating", Rating)
	values.Set("lang", Language)
	return c.BaseURL + "?" + values.Encode()
}

// SearchByKeywords joins keywords the way create_keywords_query does
// (", "-separated) and returns the first matching gif, if any.
func (c *Client) SearchByKeywords(ctx context.Context, keywords []string) (Gif, bool, error) {
	query := strings.Join(keywords, ", ")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildSearchURL(query), nil)
	if err != nil {
		return Gif{}, false, fmt.Errorf("gifsearch: building request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Gif{}, false, fmt.Errorf("gifsearch: requesting %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Gif{}, false, fmt.Errorf("gifsearch: unexpected status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Gif{}, false, fmt.Errorf("gifsearch: decoding response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return Gif{}, false, nil
	}

	found := parsed.Data[0]
	found.URL = CleanURL(found.URL)
	return found, true, nil
}

// CleanURL strips the query string from a gif URL, same as clean_gif_url.
func CleanURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.RawQuery = ""
	return parsed.String()
}
