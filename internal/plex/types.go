package plex

import "time"

// Track is one playable item from the music library.
type Track struct {
	ID       string
	Title    string
	Artist   string // grandparent in Plex's hierarchy
	Album    string // parent
	Duration time.Duration
	Bitrate  int
	Codec    string
	MediaKey string // server-relative path of the media part
	ThumbURL string
	ArtURL   string
}

// Artist is a top-level directory in a music section.
type Artist struct {
	ID       string
	Name     string
	ThumbURL string
}

// Album groups tracks under an artist.
type Album struct {
	ID       string
	Title    string
	Artist   string
	Year     int
	ThumbURL string
}

// Playlist is a server-side audio playlist.
type Playlist struct {
	ID    string
	Title string
	Count int
}
