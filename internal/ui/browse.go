package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/plextty/plextty/internal/art"
	"github.com/plextty/plextty/internal/config"
	"github.com/plextty/plextty/internal/plex"
)

const browseTimeout = 10 * time.Second

// Seams for tests; production code always uses the art package.
var (
	artFetch  = art.Fetch
	artRender = art.Render
)

// trackItem adapts a plex.Track to the list component.
type trackItem struct {
	track plex.Track
}

func (i trackItem) Title() string { return i.track.Title }

func (i trackItem) Description() string {
	return fmt.Sprintf("%s · %s · %s", i.track.Artist, i.track.Album, formatDuration(i.track.Duration))
}

func (i trackItem) FilterValue() string {
	return i.track.Artist + " " + i.track.Title + " " + i.track.Album
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func newTrackList() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(titleStyle.GetForeground()).
		BorderLeftForeground(titleStyle.GetForeground())
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(trackMetaStyle.GetForeground()).
		BorderLeftForeground(titleStyle.GetForeground())

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Recently Added"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "search the library"
	ti.CharLimit = 80
	ti.Width = 40
	return ti
}

// artistItem, albumItem and playlistItem make the other library levels
// listable; enter on one drills down.
type artistItem struct {
	artist plex.Artist
}

func (i artistItem) Title() string       { return i.artist.Name }
func (i artistItem) Description() string { return "artist" }
func (i artistItem) FilterValue() string { return i.artist.Name }

type albumItem struct {
	album plex.Album
}

func (i albumItem) Title() string { return i.album.Title }

func (i albumItem) Description() string {
	if i.album.Year > 0 {
		return fmt.Sprintf("%s · %d", i.album.Artist, i.album.Year)
	}
	return i.album.Artist
}

func (i albumItem) FilterValue() string { return i.album.Artist + " " + i.album.Title }

type playlistItem struct {
	playlist plex.Playlist
}

func (i playlistItem) Title() string       { return i.playlist.Title }
func (i playlistItem) Description() string { return fmt.Sprintf("%d tracks", i.playlist.Count) }
func (i playlistItem) FilterValue() string { return i.playlist.Title }

type tracksLoadedMsg struct {
	label  string
	tracks []plex.Track
}

type artistsLoadedMsg struct {
	artists []plex.Artist
}

type albumsLoadedMsg struct {
	label  string
	albums []plex.Album
}

type playlistsLoadedMsg struct {
	playlists []plex.Playlist
}

type plexErrMsg struct {
	err error
}

// loadRecent fetches the recently-added list for the initial view.
func loadRecent(client *plex.Client, sectionID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), browseTimeout)
		defer cancel()

		tracks, err := client.RecentTracks(ctx, sectionID, plex.DefaultLimit)
		if err != nil {
			return plexErrMsg{err}
		}
		return tracksLoadedMsg{label: "Recently Added", tracks: tracks}
	}
}

// searchLibrary runs a track search and replaces the list contents.
func searchLibrary(client *plex.Client, sectionID int, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), browseTimeout)
		defer cancel()

		tracks, err := client.SearchTracks(ctx, sectionID, query, plex.DefaultLimit, 0)
		if err != nil {
			return plexErrMsg{err}
		}
		return tracksLoadedMsg{label: fmt.Sprintf("Search: %s", query), tracks: tracks}
	}
}

func loadArtists(client *plex.Client, sectionID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), browseTimeout)
		defer cancel()

		artists, err := client.Artists(ctx, sectionID, plex.DefaultLimit)
		if err != nil {
			return plexErrMsg{err}
		}
		return artistsLoadedMsg{artists: artists}
	}
}

// loadAlbums lists a section's albums, or one artist's when artistID is
// set.
func loadAlbums(client *plex.Client, sectionID int, artistID, label string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), browseTimeout)
		defer cancel()

		albums, err := client.Albums(ctx, sectionID, artistID, plex.DefaultLimit)
		if err != nil {
			return plexErrMsg{err}
		}
		return albumsLoadedMsg{label: label, albums: albums}
	}
}

func loadAlbumTracks(client *plex.Client, album plex.Album) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), browseTimeout)
		defer cancel()

		tracks, err := client.AlbumTracks(ctx, album.ID)
		if err != nil {
			return plexErrMsg{err}
		}
		return tracksLoadedMsg{label: album.Title, tracks: tracks}
	}
}

func loadPlaylists(client *plex.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), browseTimeout)
		defer cancel()

		playlists, err := client.Playlists(ctx, plex.DefaultLimit)
		if err != nil {
			return plexErrMsg{err}
		}
		return playlistsLoadedMsg{playlists: playlists}
	}
}

func loadPlaylistTracks(client *plex.Client, playlist plex.Playlist) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), browseTimeout)
		defer cancel()

		tracks, err := client.PlaylistTracks(ctx, playlist.ID, 0, 0)
		if err != nil {
			return plexErrMsg{err}
		}
		return tracksLoadedMsg{label: playlist.Title, tracks: tracks}
	}
}

type artMsg struct {
	trackID string
	rows    []string
}

// fetchArt downloads and renders the track's thumb for the player pane.
// Failures still produce rows, a flat placeholder, so the pane keeps its
// shape no matter what the server returns.
func fetchArt(client *plex.Client, track plex.Track) tea.Cmd {
	return func() tea.Msg {
		placeholder := artMsg{trackID: track.ID, rows: art.Placeholder(config.ArtWidth, config.ArtHeight)}

		url := client.ResolveArtURL(track.ThumbURL)
		if url == "" {
			return placeholder
		}

		ctx, cancel := context.WithTimeout(context.Background(), browseTimeout)
		defer cancel()

		img, err := artFetch(ctx, url)
		if err != nil {
			return placeholder
		}
		return artMsg{trackID: track.ID, rows: artRender(img, config.ArtWidth, config.ArtHeight)}
	}
}
