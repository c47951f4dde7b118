package audio

import (
	"fmt"
	"os"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/plextty/plextty/internal/config"
)

// Capture tees the analyzed PCM stream into a WAV file, mainly for
// debugging the analysis path: play the capture back and compare it with
// what the waveform showed. A nil *Capture is a valid no-op sink, and the
// first write error disables further writes rather than disturbing
// playback.
type Capture struct {
	mu     sync.Mutex
	file   *os.File
	enc    *wav.Encoder
	broken bool
}

// NewCapture creates the WAV file at path, truncating any existing one.
// The header matches Format: mono 16-bit at 44.1 kHz.
func NewCapture(path string) (*Capture, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating capture file: %w", err)
	}
	enc := wav.NewEncoder(f, Format.SampleRate, config.BitDepth, Format.NumChannels, 1)
	return &Capture{file: f, enc: enc}, nil
}

// Write appends samples to the capture. Safe on a nil or closed Capture.
func (c *Capture) Write(samples []int16) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enc == nil || c.broken {
		return
	}

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &goaudio.IntBuffer{
		Format:         &Format,
		Data:           data,
		SourceBitDepth: config.BitDepth,
	}
	if err := c.enc.Write(buf); err != nil {
		c.broken = true
	}
}

// Close finalizes the WAV header and releases the file. Idempotent.
func (c *Capture) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enc == nil {
		return nil
	}

	encErr := c.enc.Close()
	fileErr := c.file.Close()
	c.enc = nil
	c.file = nil
	if encErr != nil {
		return fmt.Errorf("finalizing capture: %w", encErr)
	}
	return fileErr
}
