// Package ui is the terminal front end: a library browser above a player
// pane showing the current track, its artwork, a live waveform or
// spectrum, and time-synced lyrics. All audio state lives in the audio
// package; the UI only polls it on a timer.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/plextty/plextty/internal/audio"
	"github.com/plextty/plextty/internal/config"
	"github.com/plextty/plextty/internal/lyrics"
	"github.com/plextty/plextty/internal/plex"
)

type visualMode int

const (
	visualBars visualMode = iota
	visualBraille
	visualSpectrum
	visualModes
)

// browseMode is the top-level library view cycled with tab.
type browseMode int

const (
	browseRecent browseMode = iota
	browseArtists
	browseAlbums
	browsePlaylists
	browseModes
)

// tickMsg drives the poll loop refreshing levels, lyrics position and
// elapsed time.
type tickMsg time.Time

// Model is the root bubbletea model.
type Model struct {
	cfg       config.Config
	client    *plex.Client
	dec       *audio.Decoder
	fetcher   *lyrics.Fetcher
	sectionID int
	log       zerolog.Logger

	list      list.Model
	search    textinput.Model
	searching bool
	browse    browseMode

	current    *plex.Track
	playStart  time.Time
	pausedFor  time.Duration
	pauseBegan time.Time

	levels []float64
	bars   []float64
	visual visualMode

	lyr        lyrics.Lyrics
	lyrErr     error
	showLyrics bool

	artRows []string

	errText string
	width   int
	height  int
}

// NewModel wires the collaborators into a ready-to-run model.
func NewModel(cfg config.Config, client *plex.Client, dec *audio.Decoder, fetcher *lyrics.Fetcher, sectionID int, log zerolog.Logger) Model {
	return Model{
		cfg:        cfg,
		client:     client,
		dec:        dec,
		fetcher:    fetcher,
		sectionID:  sectionID,
		log:        log,
		list:       newTrackList(),
		search:     newSearchInput(),
		showLyrics: cfg.EnableLyrics,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadRecent(m.client, m.sectionID), m.tick())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.cfg.RefreshRateMS)*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := m.height - m.playerPaneHeight() - 3
		if listHeight < 4 {
			listHeight = 4
		}
		m.list.SetSize(m.width-4, listHeight)
		return m, nil

	case tickMsg:
		if m.dec.Active() && m.cfg.EnableWaveform {
			if m.visual == visualSpectrum {
				m.bars = m.dec.Spectrum(config.NumBars)
			} else {
				m.levels = m.dec.Samples(m.cfg.WaveformPoints)
			}
		}
		m.drainLyricsResults()
		return m, m.tick()

	case tracksLoadedMsg:
		m.errText = ""
		m.list.Title = msg.label
		items := make([]list.Item, len(msg.tracks))
		for i, t := range msg.tracks {
			items[i] = trackItem{track: t}
		}
		return m, m.list.SetItems(items)

	case artistsLoadedMsg:
		m.errText = ""
		m.list.Title = "Artists"
		items := make([]list.Item, len(msg.artists))
		for i, a := range msg.artists {
			items[i] = artistItem{artist: a}
		}
		return m, m.list.SetItems(items)

	case albumsLoadedMsg:
		m.errText = ""
		m.list.Title = msg.label
		items := make([]list.Item, len(msg.albums))
		for i, a := range msg.albums {
			items[i] = albumItem{album: a}
		}
		return m, m.list.SetItems(items)

	case playlistsLoadedMsg:
		m.errText = ""
		m.list.Title = "Playlists"
		items := make([]list.Item, len(msg.playlists))
		for i, p := range msg.playlists {
			items[i] = playlistItem{playlist: p}
		}
		return m, m.list.SetItems(items)

	case plexErrMsg:
		m.errText = msg.err.Error()
		m.log.Error().Err(msg.err).Msg("library request failed")
		return m, nil

	case artMsg:
		if m.current != nil && msg.trackID == m.current.ID && len(msg.rows) > 0 {
			m.artRows = msg.rows
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := strings.TrimSpace(m.search.Value())
		m.searching = false
		m.search.Blur()
		if query == "" {
			return m, nil
		}
		return m, searchLibrary(m.client, m.sectionID, query)
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.dec.Stop()
		return m, tea.Quit

	case "/":
		m.searching = true
		m.search.Focus()
		m.search.SetValue("")
		return m, textinput.Blink

	case "tab":
		m.browse = (m.browse + 1) % browseModes
		switch m.browse {
		case browseArtists:
			return m, loadArtists(m.client, m.sectionID)
		case browseAlbums:
			return m, loadAlbums(m.client, m.sectionID, "", "Albums")
		case browsePlaylists:
			return m, loadPlaylists(m.client)
		default:
			return m, loadRecent(m.client, m.sectionID)
		}

	case "enter":
		switch item := m.list.SelectedItem().(type) {
		case trackItem:
			return m.play(item.track)
		case artistItem:
			return m, loadAlbums(m.client, m.sectionID, item.artist.ID, item.artist.Name)
		case albumItem:
			return m, loadAlbumTracks(m.client, item.album)
		case playlistItem:
			return m, loadPlaylistTracks(m.client, item.playlist)
		}
		return m, nil

	case " ":
		if !m.dec.Active() {
			return m, nil
		}
		if m.dec.Paused() {
			if m.dec.Resume() {
				m.pausedFor += time.Since(m.pauseBegan)
			}
		} else {
			if m.dec.Pause() {
				m.pauseBegan = time.Now()
			}
		}
		return m, nil

	case "s":
		m.dec.Stop()
		m.current = nil
		m.levels = nil
		m.bars = nil
		m.artRows = nil
		m.lyr = lyrics.Lyrics{}
		m.lyrErr = nil
		return m, nil

	case "v":
		m.visual = (m.visual + 1) % visualModes
		return m, nil

	case "l":
		m.showLyrics = !m.showLyrics
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) play(track plex.Track) (tea.Model, tea.Cmd) {
	streamURL := m.client.StreamURL(track)
	if streamURL == "" {
		m.errText = "track has no playable media"
		return m, nil
	}
	if !m.dec.Start(streamURL, m.cfg.Token) {
		m.errText = "could not start playback; is ffplay installed?"
		return m, nil
	}

	t := track
	m.current = &t
	m.playStart = time.Now()
	m.pausedFor = 0
	m.errText = ""
	m.levels = nil
	m.bars = nil
	m.artRows = nil
	m.lyr = lyrics.Lyrics{}
	m.lyrErr = nil
	m.log.Info().Str("track", track.Title).Str("artist", track.Artist).Msg("playing")

	var cmds []tea.Cmd
	if m.cfg.EnableLyrics {
		m.fetcher.Fetch(lyrics.Request{
			Artist:   track.Artist,
			Title:    track.Title,
			Album:    track.Album,
			Duration: track.Duration,
		})
	}
	if m.cfg.EnableAlbumArt {
		cmds = append(cmds, fetchArt(m.client, track))
	}
	return m, tea.Batch(cmds...)
}

// drainLyricsResults applies any finished lookups, discarding results for
// tracks that are no longer current.
func (m *Model) drainLyricsResults() {
	if m.fetcher == nil {
		return
	}
	for {
		select {
		case res := <-m.fetcher.Results():
			if !lyricsForTrack(res.Request, m.current) {
				continue
			}
			m.lyr = res.Lyrics
			m.lyrErr = res.Err
		default:
			return
		}
	}
}

// lyricsForTrack reports whether a finished lookup belongs to the track
// still playing. Title alone is not enough; interludes and intros share
// names across artists.
func lyricsForTrack(req lyrics.Request, track *plex.Track) bool {
	return track != nil && req.Title == track.Title && req.Artist == track.Artist
}

// elapsed reports playback position, freezing while paused.
func (m Model) elapsed() time.Duration {
	if m.current == nil || !m.dec.Active() {
		return 0
	}
	if m.dec.Paused() {
		return m.pauseBegan.Sub(m.playStart) - m.pausedFor
	}
	return time.Since(m.playStart) - m.pausedFor
}

func (m Model) playerPaneHeight() int {
	h := 8
	if m.cfg.EnableAlbumArt {
		h = config.ArtHeight + 2
	}
	return h
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewPlayer())
	b.WriteString("\n")

	if m.searching {
		b.WriteString(paneStyle.Render("Search: " + m.search.View()))
		b.WriteString("\n")
	}

	b.WriteString(m.list.View())
	b.WriteString("\n")

	if m.errText != "" {
		b.WriteString(errorStyle.Render(m.errText))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter play · space pause · s stop · tab library · / search · v visual · l lyrics · q quit"))
	return b.String()
}

func (m Model) viewPlayer() string {
	if m.current == nil {
		return paneStyle.Render(trackMetaStyle.Render("Nothing playing. Pick a track and press enter."))
	}

	var info strings.Builder
	info.WriteString(trackTitleStyle.Render(m.current.Title))
	info.WriteString("\n")
	info.WriteString(trackMetaStyle.Render(m.current.Artist + " · " + m.current.Album))
	info.WriteString("\n")

	state := "playing"
	if m.dec.Paused() {
		state = "paused"
	} else if !m.dec.Active() {
		state = "stopped"
	}
	info.WriteString(statusStyle.Render(fmt.Sprintf("[%s] %s / %s",
		state, formatDuration(m.elapsed()), formatDuration(m.current.Duration))))
	info.WriteString("\n\n")

	if m.cfg.EnableWaveform {
		visualWidth := m.width - config.ArtWidth - 10
		if visualWidth < 20 {
			visualWidth = 20
		}
		switch m.visual {
		case visualSpectrum:
			info.WriteString(RenderSpectrum(m.bars, visualWidth))
		case visualBraille:
			info.WriteString(RenderWaveformMirrored(m.levels, visualWidth))
		default:
			info.WriteString(RenderWaveform(m.levels, visualWidth))
		}
		info.WriteString("\n")
	}

	if m.showLyrics {
		info.WriteString("\n")
		info.WriteString(m.viewLyrics())
	}

	if m.cfg.EnableAlbumArt && len(m.artRows) > 0 {
		return paneStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
			strings.Join(m.artRows, "\n"), "  ", info.String()))
	}
	return paneStyle.Render(info.String())
}

// viewLyrics shows a window of lines around the current one. Synced
// lyrics track the playback clock; plain lyrics just show the top.
func (m Model) viewLyrics() string {
	if m.fetcher == nil {
		return trackMetaStyle.Render("lyrics disabled")
	}
	if m.lyrErr != nil {
		return trackMetaStyle.Render("no lyrics found")
	}
	if len(m.lyr.Lines) == 0 {
		return trackMetaStyle.Render("fetching lyrics...")
	}

	const window = 3
	idx := 0
	if m.lyr.Synced {
		pos := m.elapsed()
		for i, line := range m.lyr.Lines {
			if line.Time > pos {
				break
			}
			idx = i
		}
	}

	start := idx - 1
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(m.lyr.Lines) {
		end = len(m.lyr.Lines)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		if i == idx && m.lyr.Synced {
			b.WriteString(lyricCurrentStyle.Render(m.lyr.Lines[i].Text))
		} else {
			b.WriteString(lyricStyle.Render(m.lyr.Lines[i].Text))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
