// YouTube Music [Source] implementation
//
// Communicates with the FastAPI proxy server (music/) running on port 8080.
// The proxy wraps ytmusicapi Python library for YouTube Music operations.
package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/shared"
)

const (
	defaultYTBaseURL string = "http://localhost:8080"
	likedSongsPath   string = "/api/library/liked-songs"
)

// YouTubeImage represents an image/thumbnail from YouTube Music.
type YouTubeImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// YouTubeArtist represents an artist in YouTube Music responses.
type YouTubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type youtubeAlbum struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YouTubeTrack represents a track/video in YouTube Music responses.
type YouTubeTrack struct {
	VideoID     string          `json:"videoId"`
	Title       string          `json:"title"`
	Artists     []YouTubeArtist `json:"artists"`
	Album       *youtubeAlbum   `json:"album"`
	Duration    string          `json:"duration"`
	DurationSec int             `json:"duration_seconds"` // Duration in seconds
	Thumbnails  []YouTubeImage  `json:"thumbnails"`
}

// likedSongsResponse is the playlist object returned for the liked-songs endpoint.
type likedSongsResponse struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	TrackCount int             `json:"trackCount"`
	Tracks     *[]YouTubeTrack `json:"tracks"`
}

// YouTubeService implements [Source] for YouTube Music via proxy.
type YouTubeService struct {
	baseURL    string
	authFile   string
	authJSON   string
	limit      int
	httpClient *http.Client
}

// NewYouTubeService creates a new YouTube Music service instance.
func NewYouTubeService(baseURL string, client *http.Client) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &YouTubeService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube Music"
}

// Authenticate stores the credentials sent with subsequent requests.
//
// Expects credentials["auth_json"] to hold the credential JSON itself, or credentials["auth_file"] to hold a path
// to browser.json/oauth.json readable by the proxy. The blob wins when both are set.
func (y *YouTubeService) Authenticate(ctx context.Context, credentials map[string]string) error {
	authJSON := credentials["auth_json"]
	authFile := credentials["auth_file"]

	if authJSON == "" && authFile == "" {
		return fmt.Errorf("%w: auth_json or auth_file is required", shared.ErrMissingCredentials)
	}

	if authJSON != "" {
		if err := shared.ValidateJSON([]byte(authJSON)); err != nil {
			return fmt.Errorf("%w: auth_json is not valid JSON", shared.ErrInvalidCredentials)
		}
	}

	y.authJSON = authJSON
	y.authFile = authFile
	return nil
}

// SetLimit caps the number of liked songs requested; 0 requests all of them.
func (y *YouTubeService) SetLimit(limit int) {
	if limit < 0 {
		limit = 0
	}
	y.limit = limit
}

func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, result any) error {
	apiURL := y.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	switch {
	case y.authJSON != "":
		req.Header.Set("X-Auth-Json", base64.StdEncoding.EncodeToString([]byte(y.authJSON)))
	case y.authFile != "":
		req.Header.Set("X-Auth-File", y.authFile)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: youtube music API error (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: youtube music API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrMalformedResponse, err)
		}
	}

	return nil
}

// LikedSongs retrieves the liked-songs playlist.
//
// Calls GET /api/library/liked-songs on the proxy, which pages through the playlist on our behalf.
func (y *YouTubeService) LikedSongs(ctx context.Context) ([]models.Track, error) {
	endpoint := likedSongsPath
	if y.limit > 0 {
		endpoint += "?" + url.Values{"limit": {strconv.Itoa(y.limit)}}.Encode()
	}

	var playlist likedSongsResponse
	if err := y.doRequest(ctx, http.MethodGet, endpoint, &playlist); err != nil {
		return nil, err
	}

	if playlist.Tracks == nil {
		return nil, fmt.Errorf("%w: liked songs response has no tracks", shared.ErrMalformedResponse)
	}

	tracks := make([]models.Track, len(*playlist.Tracks))
	for i, ytt := range *playlist.Tracks {
		tracks[i] = ytt.toTrack()
	}

	return tracks, nil
}

// toTrack converts a proxy track into a [models.Track].
func (ytt YouTubeTrack) toTrack() models.Track {
	track := models.Track{
		VideoID:         ytt.VideoID,
		Title:           ytt.Title,
		Duration:        ytt.Duration,
		DurationSeconds: ytt.DurationSec,
		Artists:         make([]models.Artist, len(ytt.Artists)),
		Thumbnails:      make([]models.Thumbnail, len(ytt.Thumbnails)),
	}

	for i, a := range ytt.Artists {
		track.Artists[i] = models.Artist{Name: a.Name, ID: a.ID}
	}

	for i, img := range ytt.Thumbnails {
		track.Thumbnails[i] = models.Thumbnail{URL: img.URL, Width: img.Width, Height: img.Height}
	}

	if ytt.Album != nil {
		track.Album = &models.Album{Name: ytt.Album.Name, ID: ytt.Album.ID}
	}

	return track
}
