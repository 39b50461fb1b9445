// Package musicbrainz is a minimal MusicBrainz WS/2 client covering what the
// catalog ingester needs: artist search by country and per-artist recording
// browsing, both with tags.
package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public MusicBrainz API root.
const DefaultBaseURL = "https://musicbrainz.org/ws/2"

// BrowseLimit is the maximum page size the API allows for search and browse.
const BrowseLimit = 100

// Client talks to the MusicBrainz web service. The public API allows one
// request per second per client, enforced here with a rate limiter so callers
// can loop freely.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a client for the given API root (empty means the public
// server). MusicBrainz requires a meaningful User-Agent; it is assembled from
// MBUA_APP, MBUA_VERSION and MBUA_CONTACT.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	app := os.Getenv("MBUA_APP")
	if app == "" {
		app = "special-song-search"
	}
	version := os.Getenv("MBUA_VERSION")
	if version == "" {
		version = "dev"
	}
	userAgent := fmt.Sprintf("%s/%s", app, version)
	if contact := os.Getenv("MBUA_CONTACT"); contact != "" {
		userAgent = fmt.Sprintf("%s ( %s )", userAgent, contact)
	}

	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(1), 1),
	}
}

// Tag is a folksonomy tag with its vote count.
type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// LifeSpan is an artist's active period, year-resolution strings.
type LifeSpan struct {
	Begin string `json:"begin"`
	End   string `json:"end"`
}

// Rating is a community rating.
type Rating struct {
	VotesCount int     `json:"votes-count"`
	Value      float64 `json:"value"`
}

// Artist is one artist from a search result.
type Artist struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Disambiguation string   `json:"disambiguation"`
	Type           string   `json:"type"`
	Gender         string   `json:"gender"`
	Country        string   `json:"country"`
	LifeSpan       LifeSpan `json:"life-span"`
	Tags           []Tag    `json:"tags"`
	Rating         Rating   `json:"rating"`
}

// Release carries only the release status the catalog stores.
type Release struct {
	Status string `json:"status"`
}

// Recording is one recording from a browse result. Length is milliseconds.
type Recording struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Disambiguation   string    `json:"disambiguation"`
	Length           int       `json:"length"`
	FirstReleaseDate string    `json:"first-release-date"`
	Tags             []Tag     `json:"tags"`
	Rating           Rating    `json:"rating"`
	Releases         []Release `json:"releases"`
}

// ReleaseStatus returns the status of the recording's first listed release.
func (r *Recording) ReleaseStatus() string {
	if len(r.Releases) == 0 {
		return ""
	}
	return r.Releases[0].Status
}

type artistSearchResponse struct {
	Count   int      `json:"count"`
	Offset  int      `json:"offset"`
	Artists []Artist `json:"artists"`
}

type recordingBrowseResponse struct {
	Count      int         `json:"recording-count"`
	Offset     int         `json:"recording-offset"`
	Recordings []Recording `json:"recordings"`
}

// get performs one rate-limited JSON request.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("fmt", "json")
	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("musicbrainz API error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// SearchArtists pages through artists from one country starting at offset.
func (c *Client) SearchArtists(ctx context.Context, countryCode string, offset, n int) ([]Artist, error) {
	artists := make([]Artist, 0, n)

	for len(artists) < n {
		pageSize := n - len(artists)
		if pageSize > BrowseLimit {
			pageSize = BrowseLimit
		}

		params := url.Values{}
		params.Set("query", "country:"+countryCode)
		params.Set("offset", strconv.Itoa(offset+len(artists)))
		params.Set("limit", strconv.Itoa(pageSize))

		var page artistSearchResponse
		if err := c.get(ctx, "/artist", params, &page); err != nil {
			return nil, fmt.Errorf("artist search failed: %w", err)
		}
		if len(page.Artists) == 0 {
			break
		}
		artists = append(artists, page.Artists...)
	}

	if len(artists) > n {
		artists = artists[:n]
	}
	return artists, nil
}

// ArtistRecordings browses up to n recordings for an artist, with tags,
// ratings and release statuses. n < 0 means everything the API reports.
func (c *Client) ArtistRecordings(ctx context.Context, artistMBID string, n int) ([]Recording, error) {
	var recordings []Recording

	for {
		params := url.Values{}
		params.Set("artist", artistMBID)
		params.Set("inc", "tags+ratings+releases")
		params.Set("offset", strconv.Itoa(len(recordings)))
		params.Set("limit", strconv.Itoa(BrowseLimit))

		var page recordingBrowseResponse
		if err := c.get(ctx, "/recording", params, &page); err != nil {
			return nil, fmt.Errorf("recording browse failed: %w", err)
		}
		recordings = append(recordings, page.Recordings...)

		if len(page.Recordings) < BrowseLimit || len(recordings) >= page.Count {
			break
		}
		if n >= 0 && len(recordings) >= n {
			break
		}
	}

	if n >= 0 && len(recordings) > n {
		recordings = recordings[:n]
	}
	return recordings, nil
}
