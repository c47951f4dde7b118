// Package plex is a minimal client for the Plex Media Server library API,
// covering just what a music player needs: finding the music section,
// browsing and searching it, and building playable stream URLs.
package plex

import (
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	requestTimeout = 5 * time.Second

	// DefaultLimit bounds list endpoints so a huge library cannot stall
	// the UI behind one response.
	DefaultLimit = 100
)

// Client talks to one Plex server. Safe for concurrent use; all state is
// set at construction.
type Client struct {
	serverURL  string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a client for the server at serverURL. Plex servers
// commonly run with self-signed certificates on the LAN, so verification
// is skipped for HTTPS.
func NewClient(serverURL, token string, log zerolog.Logger) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		token:     token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		log: log,
	}
}

// Connect verifies the server is reachable and the token is accepted.
func (c *Client) Connect(ctx context.Context) error {
	if c.serverURL == "" || c.token == "" {
		return fmt.Errorf("server URL and token are required")
	}
	var container mediaContainer
	if err := c.get(ctx, "/identity", nil, &container); err != nil {
		return fmt.Errorf("connecting to %s: %w", c.serverURL, err)
	}
	return nil
}

// MusicSectionID finds the first library section of type "artist". Plex
// calls music sections that regardless of how they are browsed.
func (c *Client) MusicSectionID(ctx context.Context) (int, error) {
	var container mediaContainer
	if err := c.get(ctx, "/library/sections", nil, &container); err != nil {
		return 0, err
	}
	for _, dir := range container.Directories {
		if dir.Type != "artist" {
			continue
		}
		id, err := strconv.Atoi(dir.Key)
		if err != nil {
			continue
		}
		return id, nil
	}
	return 0, fmt.Errorf("no music section on this server")
}

// SearchTracks queries a section for tracks matching query. start offsets
// into the result set for paging.
func (c *Client) SearchTracks(ctx context.Context, sectionID int, query string, limit, start int) ([]Track, error) {
	q := url.Values{
		"type":  {"10"},
		"query": {query},
		"limit": {strconv.Itoa(pickLimit(limit))},
	}
	if start > 0 {
		q.Set("X-Plex-Container-Start", strconv.Itoa(start))
	}
	return c.tracks(ctx, fmt.Sprintf("/library/sections/%d/search", sectionID), q)
}

// Tracks lists tracks in a section without a filter.
func (c *Client) Tracks(ctx context.Context, sectionID, limit int) ([]Track, error) {
	q := url.Values{
		"type":  {"10"},
		"limit": {strconv.Itoa(pickLimit(limit))},
	}
	return c.tracks(ctx, fmt.Sprintf("/library/sections/%d/all", sectionID), q)
}

// RecentTracks lists the most recently added tracks in a section.
func (c *Client) RecentTracks(ctx context.Context, sectionID, limit int) ([]Track, error) {
	q := url.Values{
		"type":  {"10"},
		"limit": {strconv.Itoa(pickLimit(limit))},
	}
	return c.tracks(ctx, fmt.Sprintf("/library/sections/%d/recentlyAdded", sectionID), q)
}

// Artists lists the artists in a section.
func (c *Client) Artists(ctx context.Context, sectionID, limit int) ([]Artist, error) {
	q := url.Values{
		"type":  {"8"},
		"limit": {strconv.Itoa(pickLimit(limit))},
	}
	var container mediaContainer
	if err := c.get(ctx, fmt.Sprintf("/library/sections/%d/all", sectionID), q, &container); err != nil {
		return nil, err
	}

	artists := make([]Artist, 0, len(container.Directories))
	for _, dir := range container.Directories {
		if dir.RatingKey == "" {
			continue
		}
		artists = append(artists, Artist{
			ID:       dir.RatingKey,
			Name:     dir.Title,
			ThumbURL: dir.Thumb,
		})
	}
	return artists, nil
}

// Albums lists albums, either all in a section (artistID empty) or the
// children of one artist.
func (c *Client) Albums(ctx context.Context, sectionID int, artistID string, limit int) ([]Album, error) {
	q := url.Values{
		"type":  {"9"},
		"limit": {strconv.Itoa(pickLimit(limit))},
	}
	endpoint := fmt.Sprintf("/library/sections/%d/all", sectionID)
	if artistID != "" {
		endpoint = "/library/metadata/" + artistID + "/children"
	}

	var container mediaContainer
	if err := c.get(ctx, endpoint, q, &container); err != nil {
		return nil, err
	}

	albums := make([]Album, 0, len(container.Directories))
	for _, dir := range container.Directories {
		if dir.RatingKey == "" {
			continue
		}
		albums = append(albums, Album{
			ID:       dir.RatingKey,
			Title:    dir.Title,
			Artist:   dir.ParentTitle,
			Year:     dir.Year,
			ThumbURL: dir.Thumb,
		})
	}
	return albums, nil
}

// AlbumTracks lists the tracks of one album in play order.
func (c *Client) AlbumTracks(ctx context.Context, albumID string) ([]Track, error) {
	return c.tracks(ctx, "/library/metadata/"+albumID+"/children", nil)
}

// Playlists lists the server's audio playlists.
func (c *Client) Playlists(ctx context.Context, limit int) ([]Playlist, error) {
	q := url.Values{"limit": {strconv.Itoa(pickLimit(limit))}}
	var container mediaContainer
	if err := c.get(ctx, "/playlists/all", q, &container); err != nil {
		return nil, err
	}

	playlists := make([]Playlist, 0, len(container.Playlists))
	for _, pl := range container.Playlists {
		if pl.RatingKey == "" {
			continue
		}
		playlists = append(playlists, Playlist{
			ID:    pl.RatingKey,
			Title: pl.Title,
			Count: pl.LeafCount,
		})
	}
	return playlists, nil
}

// PlaylistTracks lists the items of one playlist. start and size page
// through long playlists; size 0 means the server default.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, start, size int) ([]Track, error) {
	q := url.Values{}
	if start > 0 {
		q.Set("X-Plex-Container-Start", strconv.Itoa(start))
	}
	if size > 0 {
		q.Set("X-Plex-Container-Size", strconv.Itoa(size))
	}
	return c.tracks(ctx, "/playlists/"+playlistID+"/items", q)
}

// TrackMetadata fetches full metadata for one track by rating key.
func (c *Client) TrackMetadata(ctx context.Context, trackID string) (Track, error) {
	tracks, err := c.tracks(ctx, "/library/metadata/"+trackID, nil)
	if err != nil {
		return Track{}, err
	}
	if len(tracks) == 0 {
		return Track{}, fmt.Errorf("track %s not found", trackID)
	}
	return tracks[0], nil
}

// StreamURL builds the playable URL for a track, token included. Players
// that strip the token from the URL re-send it as a header instead.
func (c *Client) StreamURL(track Track) string {
	if track.MediaKey == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(track.MediaKey, "?") {
		sep = "&"
	}
	return c.serverURL + track.MediaKey + sep + "X-Plex-Token=" + url.QueryEscape(c.token)
}

// ResolveArtURL turns a server-relative thumb or art path into an
// absolute, fetchable URL. Absolute inputs pass through with the token
// appended.
func (c *Client) ResolveArtURL(path string) string {
	if path == "" {
		return ""
	}
	full := path
	if strings.HasPrefix(path, "/") {
		full = c.serverURL + path
	}
	sep := "?"
	if strings.Contains(full, "?") {
		sep = "&"
	}
	return full + sep + "X-Plex-Token=" + url.QueryEscape(c.token)
}

func (c *Client) tracks(ctx context.Context, endpoint string, q url.Values) ([]Track, error) {
	var container mediaContainer
	if err := c.get(ctx, endpoint, q, &container); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(container.Tracks))
	for _, t := range container.Tracks {
		if t.RatingKey == "" {
			continue
		}
		tracks = append(tracks, t.toTrack())
	}
	return tracks, nil
}

// get performs one API request and decodes the MediaContainer response.
// The token travels as a header, not in the URL, so it stays out of
// server-side request logs where possible.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out *mediaContainer) error {
	u := c.serverURL + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		c.log.Warn().Str("endpoint", endpoint).Int("status", resp.StatusCode).Msg("plex request failed")
		return fmt.Errorf("%s: server returned %s", endpoint, resp.Status)
	}

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return nil
}

func pickLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
