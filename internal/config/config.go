package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Audio settings. The decoder process is asked for this exact output
// format, so the analysis pipeline and the capture tap share these.
const (
	SampleRate  = 44100
	NumChannels = 1
	BitDepth    = 16

	// LevelWindow is the number of mono samples reduced to one loudness
	// value: 4410 samples is 100 ms at 44.1 kHz, giving ~10 level updates
	// per second regardless of pipe chunk sizing.
	LevelWindow = 4410

	// RingCapacity is the number of loudness values kept for the waveform.
	RingCapacity = 200

	// FFTSize is the window for the spectrum view. Must be a power of two.
	FFTSize = 2048
)

// Visualization settings
const (
	NumBars          = 48
	DefaultRefreshMS = 250
	WaveformPoints   = 100

	// Album art pane size in character cells. Height is doubled in
	// pixels by the half-block renderer.
	ArtWidth  = 24
	ArtHeight = 12
)

// Config holds user-facing settings, loaded from an INI-style file and
// overridable from the command line.
type Config struct {
	ServerURL string
	Token     string

	RefreshRateMS  int
	WaveformPoints int

	EnableWaveform bool
	EnableLyrics   bool
	EnableAlbumArt bool

	CapturePath string // when set, tee analyzed PCM to a WAV file
	Debug       bool
	LogPath     string
}

// Default returns a Config carrying the documented defaults.
func Default() Config {
	return Config{
		RefreshRateMS:  DefaultRefreshMS,
		WaveformPoints: WaveformPoints,
		EnableWaveform: true,
		EnableLyrics:   true,
		EnableAlbumArt: true,
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.ini"
	}
	return filepath.Join(dir, "plextty", "config.ini")
}

// DefaultLogPath returns the conventional log file location.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "plextty.log"
	}
	return filepath.Join(home, ".local", "state", "plextty", "plextty.log")
}

// Load reads an INI-style config file. A missing file is not an error:
// defaults are returned and ok is false.
func Load(path string) (cfg Config, ok bool, err error) {
	cfg = Default()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, false, nil
		}
		return cfg, false, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	section := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		if line[0] == '[' && line[len(line)-1] == ']' {
			section = line[1 : len(line)-1]
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		cfg.apply(section, strings.TrimSpace(key), strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return cfg, false, fmt.Errorf("reading config: %w", err)
	}

	return cfg, true, nil
}

func (c *Config) apply(section, key, value string) {
	switch section {
	case "plex":
		switch key {
		case "server_url":
			c.ServerURL = value
		case "token":
			c.Token = value
		}
	case "display":
		switch key {
		case "refresh_rate_ms":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				c.RefreshRateMS = n
			}
		case "waveform_points":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				c.WaveformPoints = n
			}
		}
	case "features":
		switch key {
		case "waveform":
			c.EnableWaveform = parseBool(value)
		case "lyrics":
			c.EnableLyrics = parseBool(value)
		case "album_art":
			c.EnableAlbumArt = parseBool(value)
		case "debug":
			c.Debug = parseBool(value)
		case "log_path":
			c.LogPath = value
		}
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// Save writes the config in the same INI layout Load reads, creating
// parent directories as needed.
func (c Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}

	var b strings.Builder
	b.WriteString("# plextty configuration\n\n")
	b.WriteString("[plex]\n")
	fmt.Fprintf(&b, "server_url = %s\n", c.ServerURL)
	fmt.Fprintf(&b, "token = %s\n\n", c.Token)
	b.WriteString("[display]\n")
	fmt.Fprintf(&b, "refresh_rate_ms = %d\n", c.RefreshRateMS)
	fmt.Fprintf(&b, "waveform_points = %d\n\n", c.WaveformPoints)
	b.WriteString("[features]\n")
	fmt.Fprintf(&b, "waveform = %t\n", c.EnableWaveform)
	fmt.Fprintf(&b, "lyrics = %t\n", c.EnableLyrics)
	fmt.Fprintf(&b, "album_art = %t\n", c.EnableAlbumArt)
	fmt.Fprintf(&b, "debug = %t\n", c.Debug)
	if c.LogPath != "" {
		fmt.Fprintf(&b, "log_path = %s\n", c.LogPath)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
