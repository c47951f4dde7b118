package plex

import (
	"encoding/xml"
	"time"
)

// The Plex API answers every library endpoint with a MediaContainer
// wrapping a flat list of typed children. Everything interesting lives in
// attributes, so the structs below only map the ones the client reads.

type mediaContainer struct {
	XMLName     xml.Name       `xml:"MediaContainer"`
	Size        int            `xml:"size,attr"`
	Directories []xmlDirectory `xml:"Directory"`
	Tracks      []xmlTrack     `xml:"Track"`
	Playlists   []xmlPlaylist  `xml:"Playlist"`
}

type xmlDirectory struct {
	RatingKey   string `xml:"ratingKey,attr"`
	Key         string `xml:"key,attr"`
	Type        string `xml:"type,attr"`
	Title       string `xml:"title,attr"`
	ParentTitle string `xml:"parentTitle,attr"`
	Year        int    `xml:"year,attr"`
	Thumb       string `xml:"thumb,attr"`
}

type xmlTrack struct {
	RatingKey        string     `xml:"ratingKey,attr"`
	Title            string     `xml:"title,attr"`
	GrandparentTitle string     `xml:"grandparentTitle,attr"`
	ParentTitle      string     `xml:"parentTitle,attr"`
	Duration         int64      `xml:"duration,attr"` // milliseconds
	Thumb            string     `xml:"thumb,attr"`
	Art              string     `xml:"art,attr"`
	Media            []xmlMedia `xml:"Media"`
}

type xmlMedia struct {
	Bitrate    int       `xml:"bitrate,attr"`
	AudioCodec string    `xml:"audioCodec,attr"`
	Parts      []xmlPart `xml:"Part"`
}

type xmlPart struct {
	Key string `xml:"key,attr"`
}

type xmlPlaylist struct {
	RatingKey string `xml:"ratingKey,attr"`
	Title     string `xml:"title,attr"`
	LeafCount int    `xml:"leafCount,attr"`
}

func (t xmlTrack) toTrack() Track {
	track := Track{
		ID:       t.RatingKey,
		Title:    t.Title,
		Artist:   t.GrandparentTitle,
		Album:    t.ParentTitle,
		Duration: time.Duration(t.Duration) * time.Millisecond,
		ThumbURL: t.Thumb,
		ArtURL:   t.Art,
	}
	if len(t.Media) > 0 {
		m := t.Media[0]
		track.Bitrate = m.Bitrate
		track.Codec = m.AudioCodec
		if len(m.Parts) > 0 {
			track.MediaKey = m.Parts[0].Key
		}
	}
	return track
}
