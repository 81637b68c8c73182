package main

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"moodquad/auth"
	"moodquad/catalog"
	"moodquad/gifsearch"
	"moodquad/lexicon"
	"moodquad/quadtree"
	"moodquad/sentiment"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

var index *quadtree.Quadtree

// searchDeps bundles the collaborators handleSearch needs to reproduce
// search()'s text -> sentiment -> blended-mood -> nearest-song -> gif
// pipeline. lex may be nil if the lexicon failed to load at boot; textMood
// scoring is then skipped and the blend falls back fully to the sentiment
// reading.
type searchDeps struct {
	lex             *lexicon.Lexicon
	sentimentClient *sentiment.Client
	gifClient       *gifsearch.Client
}

const (
	catalogSeedTimeout = 10 * time.Second
	catalogBaseURL     = "https://catalog.internal"
	giphyAPIKey        = ""
	sentimentBaseURL   = "https://sentiment.internal"
	sentimentAPIKey    = ""
	lexiconPath        = "lexicons/en/NRC-VAD-Lexicon.csv"
)

// seedIDs stands in for the track-ID list a real deployment would pull
// from a playlist or genre seed, the same role create_rec's genre loop
// plays against the catalog.
var seedIDs = []string{
	"seed-track-1", "seed-track-2", "seed-track-3",
}

func seedIndex(catalogClient *catalog.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), catalogSeedTimeout)
	defer cancel()

	tracks := catalogClient.SeedTracks(ctx, seedIDs)
	for _, track := range tracks {
		point := quadtree.Point{X: track.Mood.Valence, Y: track.Mood.Energy}
		if err := index.Insert(point, track); err != nil {
			log.Printf("seed: skipping track %s: %v", track.ID, err)
		}
	}
	log.Printf("seeded %d/%d tracks", index.Len(), len(seedIDs))
}

type moodResponse struct {
	ID      string  `json:"id,omitempty"`
	Name    string  `json:"name,omitempty"`
	Energy  float64 `json:"energy"`
	Valence float64 `json:"valence"`
}

func toMoodResponse(nd quadtree.NodeData) moodResponse {
	resp := moodResponse{Energy: nd.Position.Y, Valence: nd.Position.X}
	if track, ok := nd.Payload.(catalog.Track); ok {
		resp.ID = track.ID
		resp.Name = track.Name
	}
	return resp
}

func handleInsert(c *gin.Context) {
	var body struct {
		ID      string  `json:"id" binding:"required"`
		Name    string  `json:"name"`
		Energy  float64 `json:"energy"`
		Valence float64 `json:"valence"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	track := catalog.Track{
		ID:   body.ID,
		Name: body.Name,
		Mood: catalog.MoodVector{Energy: body.Energy, Valence: body.Valence},
	}
	point := quadtree.Point{X: body.Valence, Y: body.Energy}

	if err := index.Insert(point, track); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inserted": body.ID})
}

func parseMoodQuery(c *gin.Context) (quadtree.Point, bool) {
	energyStr := c.Query("energy")
	valenceStr := c.Query("valence")

	energy, errEnergy := strconv.ParseFloat(energyStr, 64)
	valence, errValence := strconv.ParseFloat(valenceStr, 64)
	if errEnergy != nil || errValence != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing 'energy'/'valence' parameters"})
		return quadtree.Point{}, false
	}
	return quadtree.Point{X: valence, Y: energy}, true
}

func handleNearest(c *gin.Context) {
	point, ok := parseMoodQuery(c)
	if !ok {
		return
	}

	nd, found := index.Nearest(point)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no match: index is empty or point is outside the domain"})
		return
	}
	c.JSON(http.StatusOK, toMoodResponse(nd))
}

func handleQueryRange(c *gin.Context) {
	minEnergy, err1 := strconv.ParseFloat(c.Query("min_energy"), 64)
	maxEnergy, err2 := strconv.ParseFloat(c.Query("max_energy"), 64)
	minValence, err3 := strconv.ParseFloat(c.Query("min_valence"), 64)
	maxValence, err4 := strconv.ParseFloat(c.Query("max_valence"), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing range parameters"})
		return
	}

	rect := quadtree.NewFrame(
		quadtree.Point{X: minValence, Y: maxEnergy},
		quadtree.Point{X: maxValence, Y: minEnergy},
	)

	results := index.QueryRange(rect)
	response := make([]moodResponse, 0, len(results))
	for _, nd := range results {
		response = append(response, toMoodResponse(nd))
	}
	c.JSON(http.StatusOK, response)
}

func handleQueryDisk(c *gin.Context) {
	point, ok := parseMoodQuery(c)
	if !ok {
		return
	}
	radius, err := strconv.ParseFloat(c.Query("radius"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing 'radius' parameter"})
		return
	}

	results := index.QueryDisk(point, radius)
	response := make([]moodResponse, 0, len(results))
	for _, nd := range results {
		response = append(response, toMoodResponse(nd))
	}
	c.JSON(http.StatusOK, response)
}

// searchResponse is a MoodItem-shaped reply: the nearest matching song plus
// a reaction gif chosen from the sentiment keywords, same pairing as
// search()'s MoodItem(song=..., gif=...).
type searchResponse struct {
	Song     moodResponse   `json:"song"`
	Keywords []string       `json:"keywords,omitempty"`
	Gif      *gifsearch.Gif `json:"gif,omitempty"`
}

// handleSearch reproduces search()'s pipeline: score the raw query text
// against the lexicon, send it to the sentiment model for keywords and a
// second mood reading, blend the two mood vectors, find the nearest song in
// the index, and look up a reaction gif for the extracted keywords.
func handleSearch(deps *searchDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Query string `json:"query" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()

		var textMood catalog.MoodVector
		if deps.lex != nil {
			textMood = deps.lex.Score(body.Query).Mood
		}

		analysis, err := deps.sentimentClient.Analyze(ctx, body.Query)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		blended := analysis.Mood
		if deps.lex != nil {
			blended = sentiment.BlendMoodVectors(textMood, analysis.Mood)
		}
		point := quadtree.Point{X: blended.Valence, Y: blended.Energy}

		nd, found := index.Nearest(point)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "no match: index is empty or point is outside the domain"})
			return
		}

		resp := searchResponse{Song: toMoodResponse(nd), Keywords: analysis.Keywords}
		if gif, ok, err := deps.gifClient.SearchByKeywords(ctx, analysis.Keywords); err != nil {
			log.Printf("search: gif lookup failed: %v", err)
		} else if ok {
			resp.Gif = &gif
		}

		c.JSON(http.StatusOK, resp)
	}
}

func registerAuthRoutes(r *gin.Engine, session *auth.Session) {
	r.GET("/login", func(c *gin.Context) {
		redirectURL, state, err := session.LoginURL()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.SetCookie("oauth_state", state, 300, "/", "", false, true)
		c.Redirect(http.StatusTemporaryRedirect, redirectURL)
	})

	r.GET("/callback", func(c *gin.Context) {
		code := c.Query("code")
		state := c.Query("state")

		token, err := session.Callback(c.Request.Context(), state, code)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"access_token": token.AccessToken})
	})
}

func main() {
	index = quadtree.New()

	catalogClient := catalog.NewClient(catalogBaseURL)

	lex, err := lexicon.Load(lexiconPath)
	if err != nil {
		log.Printf("lexicon: %v (continuing without it)", err)
	}
	search := &searchDeps{
		lex:             lex,
		sentimentClient: sentiment.NewClient(sentimentBaseURL, sentimentAPIKey),
		gifClient:       gifsearch.NewClient(giphyAPIKey),
	}

	oauthConfig := &oauth2.Config{
		ClientID:     "",
		ClientSecret: "",
		RedirectURL:  "http://localhost:8080/callback",
		Scopes:       []string{"user-top-read", "user-read-currently-playing"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.spotify.com/authorize",
			TokenURL: "https://accounts.spotify.com/api/token",
		},
	}
	session := auth.NewSession(oauthConfig)

	log.Println("seeding index from catalog...")
	go seedIndex(catalogClient)

	r := gin.Default()
	r.Use(cors.Default())

	r.POST("/insert", handleInsert)
	r.GET("/nearest", handleNearest)
	r.GET("/query-range", handleQueryRange)
	r.GET("/query-disk", handleQueryDisk)
	r.POST("/search", handleSearch(search))
	registerAuthRoutes(r, session)

	log.Println("API server listening on http://localhost:8080")
	r.Run(":8080")
}
