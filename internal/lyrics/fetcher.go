// Package lyrics fetches song lyrics from public APIs off the UI thread.
// LRCLIB is tried first for time-synced LRC text; lyrics.ovh is the plain
// fallback. Fetches run on a single worker goroutine so a slow provider
// never stalls playback or input handling.
package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const fetchTimeout = 10 * time.Second

// Request identifies the song to look up. Duration matters: LRCLIB uses
// it to disambiguate covers and live versions.
type Request struct {
	Artist   string
	Title    string
	Album    string
	Duration time.Duration
}

// Lyrics is a fetch outcome. Synced lyrics have per-line timestamps.
type Lyrics struct {
	Lines  []Line
	Synced bool
	Source string
}

// Result pairs a finished fetch with the request that caused it, so the
// UI can discard results for songs no longer playing.
type Result struct {
	Request Request
	Lyrics  Lyrics
	Err     error
}

// Fetcher runs lyric lookups on a background worker. Fetch is latest-wins:
// queueing a new request drops any not-yet-started one, since only the
// current song's lyrics matter.
type Fetcher struct {
	lrclibURL  string
	ovhURL     string
	httpClient *http.Client

	requests chan Request
	results  chan Result
	quit     chan struct{}
	done     chan struct{}

	log zerolog.Logger
}

// NewFetcher starts the worker goroutine. Callers must Close it.
func NewFetcher(log zerolog.Logger) *Fetcher {
	f := &Fetcher{
		lrclibURL:  "https://lrclib.net/api/get",
		ovhURL:     "https://api.lyrics.ovh/v1",
		httpClient: &http.Client{Timeout: fetchTimeout},
		requests:   make(chan Request, 1),
		results:    make(chan Result, 4),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		log:        log,
	}
	go f.worker()
	return f
}

// Fetch queues a lookup, replacing any queued-but-unstarted request.
func (f *Fetcher) Fetch(req Request) {
	for {
		select {
		case f.requests <- req:
			return
		case <-f.quit:
			return
		default:
		}
		select {
		case <-f.requests: // drop the stale queued request
		default:
		}
	}
}

// Results delivers finished fetches. The channel is never closed while
// the Fetcher is open; poll it with a select.
func (f *Fetcher) Results() <-chan Result {
	return f.results
}

// Close stops the worker. Any in-flight request is abandoned at its next
// network timeout.
func (f *Fetcher) Close() {
	close(f.quit)
	<-f.done
}

func (f *Fetcher) worker() {
	defer close(f.done)
	for {
		select {
		case <-f.quit:
			return
		case req := <-f.requests:
			res := Result{Request: req}
			res.Lyrics, res.Err = f.lookup(req)
			select {
			case f.results <- res:
			case <-f.quit:
				return
			}
		}
	}
}

func (f *Fetcher) lookup(req Request) (Lyrics, error) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	if lyr, err := f.fetchLRCLIB(ctx, req); err == nil {
		return lyr, nil
	} else {
		f.log.Debug().Err(err).Str("title", req.Title).Msg("lrclib lookup failed, trying fallback")
	}
	return f.fetchOVH(ctx, req)
}

// lrclibResponse is the LRCLIB /api/get body. Error bodies carry code and
// message instead of lyrics.
type lrclibResponse struct {
	SyncedLyrics string `json:"syncedLyrics"`
	PlainLyrics  string `json:"plainLyrics"`
	Code         int    `json:"code"`
	Message      string `json:"message"`
}

func (f *Fetcher) fetchLRCLIB(ctx context.Context, req Request) (Lyrics, error) {
	if req.Artist == "" || req.Title == "" || req.Duration <= 0 {
		return Lyrics{}, fmt.Errorf("artist, title and duration are required for a synced lookup")
	}

	q := url.Values{
		"track_name":  {req.Title},
		"artist_name": {req.Artist},
		"duration":    {strconv.Itoa(int(req.Duration.Round(time.Second) / time.Second))},
	}
	if req.Album != "" {
		q.Set("album_name", req.Album)
	}

	var body lrclibResponse
	if err := f.getJSON(ctx, f.lrclibURL+"?"+q.Encode(), &body); err != nil {
		return Lyrics{}, err
	}
	if body.Code != 0 {
		return Lyrics{}, fmt.Errorf("lrclib: %s", body.Message)
	}

	if body.SyncedLyrics != "" {
		lines := ParseLRC(body.SyncedLyrics)
		if len(lines) > 0 {
			return Lyrics{Lines: lines, Synced: true, Source: "lrclib"}, nil
		}
	}
	if body.PlainLyrics != "" {
		return Lyrics{Lines: plainLines(body.PlainLyrics), Source: "lrclib"}, nil
	}
	return Lyrics{}, fmt.Errorf("lrclib: no lyrics in response")
}

type ovhResponse struct {
	Lyrics string `json:"lyrics"`
}

func (f *Fetcher) fetchOVH(ctx context.Context, req Request) (Lyrics, error) {
	if req.Artist == "" || req.Title == "" {
		return Lyrics{}, fmt.Errorf("artist and title are required")
	}

	u := f.ovhURL + "/" + url.PathEscape(req.Artist) + "/" + url.PathEscape(req.Title)
	var body ovhResponse
	if err := f.getJSON(ctx, u, &body); err != nil {
		return Lyrics{}, err
	}
	if body.Lyrics == "" {
		return Lyrics{}, fmt.Errorf("no lyrics found for %q by %q", req.Title, req.Artist)
	}
	return Lyrics{Lines: plainLines(body.Lyrics), Source: "lyrics.ovh"}, nil
}

func (f *Fetcher) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching lyrics: %w", err)
	}
	defer resp.Body.Close()

	// 404 bodies are still JSON and carry the provider's error shape, so
	// they get decoded rather than rejected on status alone.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("lyrics provider returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding lyrics response: %w", err)
	}
	return nil
}

func plainLines(text string) []Line {
	var lines []Line
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimRight(l, "\r")
		lines = append(lines, Line{Text: l})
	}
	return lines
}
