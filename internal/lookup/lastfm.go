package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNoRecentTrack indicates the user has no scrobbled tracks.
var ErrNoRecentTrack = errors.New("no recent track found for user")

// Track is the latest scrobbled (or currently playing) track.
type Track struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	NowPlaying bool   `json:"now_playing"`
}

// LastFM looks up a user's most recent track via the Last.fm API.
type LastFM struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewLastFM creates a LastFM client. baseURL points at the 2.0 endpoint.
func NewLastFM(baseURL, apiKey string, timeout time.Duration) *LastFM {
	return &LastFM{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  NewHTTPClient(timeout),
	}
}

// recentTracksResponse mirrors the slice of the Last.fm payload we read.
type recentTracksResponse struct {
	RecentTracks struct {
		Track []struct {
			Name   string `json:"name"`
			Artist struct {
				Text string `json:"#text"`
			} `json:"artist"`
			Album struct {
				Text string `json:"#text"`
			} `json:"album"`
			Attr struct {
				NowPlaying string `json:"nowplaying"`
			} `json:"@attr"`
		} `json:"track"`
	} `json:"recenttracks"`
}

// LatestTrack fetches the user's most recent track.
func (l *LastFM) LatestTrack(ctx context.Context, username string) (*Track, error) {
	params := url.Values{}
	params.Set("method", "user.getrecenttracks")
	params.Set("user", username)
	params.Set("api_key", l.apiKey)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build track request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch recent tracks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("track lookup failed with status %d", resp.StatusCode)
	}

	var payload recentTracksResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode recent tracks: %w", err)
	}

	tracks := payload.RecentTracks.Track
	if len(tracks) == 0 {
		return nil, ErrNoRecentTrack
	}

	first := tracks[0]
	return &Track{
		Title:      first.Name,
		Artist:     first.Artist.Text,
		Album:      first.Album.Text,
		NowPlaying: first.Attr.NowPlaying == "true",
	}, nil
}
