package ui

import (
	"context"
	"image"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/plextty/plextty/internal/audio"
	"github.com/plextty/plextty/internal/config"
	"github.com/plextty/plextty/internal/lyrics"
	"github.com/plextty/plextty/internal/plex"
)

func newTestModel() Model {
	cfg := config.Default()
	client := plex.NewClient("http://plex.test:32400", "tok", zerolog.Nop())
	dec := audio.New(audio.Options{Logger: zerolog.Nop()})
	return NewModel(cfg, client, dec, nil, 5, zerolog.Nop())
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg(tea.Key{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestModel_TracksLoaded(t *testing.T) {
	m := newTestModel()

	updated, _ := m.Update(tracksLoadedMsg{
		label: "Search: miles",
		tracks: []plex.Track{
			{ID: "1", Title: "So What", Artist: "Miles Davis"},
			{ID: "2", Title: "Blue in Green", Artist: "Miles Davis"},
		},
	})
	m = updated.(Model)

	if got := len(m.list.Items()); got != 2 {
		t.Errorf("list has %d items, want 2", got)
	}
	if m.list.Title != "Search: miles" {
		t.Errorf("list title = %q", m.list.Title)
	}
}

func TestModel_PlexErrorShown(t *testing.T) {
	m := newTestModel()

	updated, _ := m.Update(plexErrMsg{err: errFake})
	m = updated.(Model)

	if m.errText == "" {
		t.Error("error text not set after a plex error")
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

var errFake = fakeErr("server unreachable")

func TestModel_VisualCycle(t *testing.T) {
	m := newTestModel()

	want := []visualMode{visualBraille, visualSpectrum, visualBars}
	for i, mode := range want {
		updated, _ := m.Update(keyMsg("v"))
		m = updated.(Model)
		if m.visual != mode {
			t.Errorf("press %d: visual = %d, want %d", i+1, m.visual, mode)
		}
	}
}

func TestModel_TabCyclesBrowseModes(t *testing.T) {
	m := newTestModel()

	want := []browseMode{browseArtists, browseAlbums, browsePlaylists, browseRecent}
	for i, mode := range want {
		updated, cmd := m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyTab}))
		m = updated.(Model)
		if m.browse != mode {
			t.Errorf("press %d: browse = %d, want %d", i+1, m.browse, mode)
		}
		if cmd == nil {
			t.Errorf("press %d: no load command issued", i+1)
		}
	}
}

func TestModel_LyricsToggle(t *testing.T) {
	m := newTestModel()
	before := m.showLyrics

	updated, _ := m.Update(keyMsg("l"))
	m = updated.(Model)
	if m.showLyrics == before {
		t.Error("l did not toggle the lyrics pane")
	}
}

func TestModel_SearchMode(t *testing.T) {
	m := newTestModel()

	updated, _ := m.Update(keyMsg("/"))
	m = updated.(Model)
	if !m.searching {
		t.Fatal("/ did not enter search mode")
	}

	updated, _ = m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyEsc}))
	m = updated.(Model)
	if m.searching {
		t.Error("esc did not leave search mode")
	}
}

func TestModel_QuitEmitsQuit(t *testing.T) {
	m := newTestModel()

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q command produced %T, want tea.QuitMsg", cmd())
	}
}

func TestModel_ArtForStaleTrackDropped(t *testing.T) {
	m := newTestModel()
	track := plex.Track{ID: "7", Title: "Now Playing"}
	m.current = &track

	updated, _ := m.Update(artMsg{trackID: "other", rows: []string{"x"}})
	m = updated.(Model)
	if m.artRows != nil {
		t.Error("artwork for a stale track was kept")
	}

	updated, _ = m.Update(artMsg{trackID: "7", rows: []string{"x"}})
	m = updated.(Model)
	if len(m.artRows) != 1 {
		t.Error("artwork for the current track was dropped")
	}
}

func TestFetchArt_FailureYieldsPlaceholder(t *testing.T) {
	defer func(f func(context.Context, string) (image.Image, error)) { artFetch = f }(artFetch)
	artFetch = func(context.Context, string) (image.Image, error) {
		return nil, errFake
	}

	client := plex.NewClient("http://plex.test:32400", "tok", zerolog.Nop())
	msg, ok := fetchArt(client, plex.Track{ID: "9", ThumbURL: "/library/metadata/9/thumb"})().(artMsg)
	if !ok {
		t.Fatal("fetchArt did not produce an artMsg")
	}
	if msg.trackID != "9" {
		t.Errorf("trackID = %q, want 9", msg.trackID)
	}
	if len(msg.rows) != config.ArtHeight {
		t.Errorf("failed fetch produced %d rows, want %d placeholder rows", len(msg.rows), config.ArtHeight)
	}
}

func TestFetchArt_NoThumbYieldsPlaceholder(t *testing.T) {
	client := plex.NewClient("http://plex.test:32400", "tok", zerolog.Nop())
	msg := fetchArt(client, plex.Track{ID: "9"})().(artMsg)
	if len(msg.rows) != config.ArtHeight {
		t.Errorf("thumb-less track produced %d rows, want %d placeholder rows", len(msg.rows), config.ArtHeight)
	}
}

func TestLyricsForTrack(t *testing.T) {
	track := &plex.Track{Title: "Intro", Artist: "Miles Davis"}

	if !lyricsForTrack(lyrics.Request{Title: "Intro", Artist: "Miles Davis"}, track) {
		t.Error("matching artist and title rejected")
	}
	if lyricsForTrack(lyrics.Request{Title: "Intro", Artist: "The xx"}, track) {
		t.Error("same title from another artist accepted")
	}
	if lyricsForTrack(lyrics.Request{Title: "Outro", Artist: "Miles Davis"}, track) {
		t.Error("different title accepted")
	}
	if lyricsForTrack(lyrics.Request{Title: "Intro", Artist: "Miles Davis"}, nil) {
		t.Error("result accepted with nothing playing")
	}
}

func TestModel_LyricsDisabledMessage(t *testing.T) {
	m := newTestModel() // no fetcher wired
	m.showLyrics = true

	if out := m.viewLyrics(); !strings.Contains(out, "lyrics disabled") {
		t.Errorf("viewLyrics = %q, want the disabled notice", out)
	}
}

func TestModel_ViewWithoutTrack(t *testing.T) {
	m := newTestModel()
	m.width = 80
	m.height = 24

	out := m.View()
	if out == "" {
		t.Fatal("empty view")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{59 * time.Second, "0:59"},
		{90 * time.Second, "1:30"},
		{10 * time.Minute, "10:00"},
	}
	for _, tc := range tests {
		if got := formatDuration(tc.in); got != tc.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
