// Package catalog looks up a track's mood vector (energy, valence) against
// a Spotify-like catalog API. It never imports the quadtree package: per
// the core library's design, the index stores opaque payloads and knows
// nothing about songs.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds how long a single lookup is allowed to take. There
// is no configuration library anywhere in this module's dependency surface
// (see DESIGN.md), so tunables live as package-level constants, same as the
// teacher's numDrivers/moveInterval/searchRadiusX.
const DefaultTimeout = 5 * time.Second

// MoodVector is the two-dimensional point stored in the index: energy on
// one axis, valence (musical positivity) on the other. Every domain
// collaborator in this repository (catalog, sentiment, lexicon) produces
// one of these, and main.go is the only place that turns it into a
// quadtree.Point.
type MoodVector struct {
	Energy  float64 `json:"energy"`
	Valence float64 `json:"valence"`
}

// Track is a single catalog entry, corresponding to one row of the
// retrieved genre/track/valence/energy dataset.
type Track struct {
	ID     string     `json:"id"`
	Name   string     `json:"track_name"`
	Artist string     `json:"artist_name"`
	Mood   MoodVector `json:"mood"`
}

// Client talks to the catalog's HTTP API. There is no third-party HTTP
// client anywhere in the example pack's dependency surface (see DESIGN.md),
// so this wraps the standard net/http.Client the way a small internal
// service would.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a Client against baseURL with DefaultTimeout. Pass a
// custom *http.Client via the Client struct directly for tests.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// LookupTrack fetches a single track's metadata and mood vector by ID.
func (c *Client) LookupTrack(ctx context.Context, trackID string) (Track, error) {
	url := fmt.Sprintf("%s/tracks/%s", c.BaseURL, trackID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Track{}, fmt.Errorf("catalog: building request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Track{}, fmt.Errorf("catalog: requesting track %s: %w", trackID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Track{}, fmt.Errorf("catalog: track %s: unexpected status %d", trackID, resp.StatusCode)
	}

	var track Track
	if err := json.NewDecoder(resp.Body).Decode(&track); err != nil {
		return Track{}, fmt.Errorf("catalog: decoding track %s: %w", trackID, err)
	}
	return track, nil
}

// SeedTracks fetches every track in trackIDs, skipping (and not returning an
// error for) any individual lookup that fails — used by main.go to populate
// the index on boot without one bad track ID aborting the whole seed.
func (c *Client) SeedTracks(ctx context.Context, trackIDs []string) []Track {
	tracks := make([]Track, 0, len(trackIDs))
	for _, id := range trackIDs {
		track, err := c.LookupTrack(ctx, id)
		if err != nil {
			continue
		}
		tracks = append(tracks, track)
	}
	return tracks
}
