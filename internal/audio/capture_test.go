package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func TestCapture_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.wav")

	c, err := NewCapture(path)
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}

	samples := make([]int16, 4410)
	for i := range samples {
		samples[i] = int16(10000 * math.Sin(2*math.Pi*440*float64(i)/44100))
	}
	c.Write(samples)
	c.Write(samples)

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening capture: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("capture is not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("reading capture PCM: %v", err)
	}
	if got := len(buf.Data); got != 2*len(samples) {
		t.Errorf("captured %d samples, want %d", got, 2*len(samples))
	}
	if got := buf.Format.SampleRate; got != Format.SampleRate {
		t.Errorf("sample rate = %d, want %d", got, Format.SampleRate)
	}
	if got := buf.Format.NumChannels; got != Format.NumChannels {
		t.Errorf("channels = %d, want %d", got, Format.NumChannels)
	}
	for i := 0; i < 100; i++ {
		if int16(buf.Data[i]) != samples[i] {
			t.Fatalf("sample %d = %d, want %d", i, buf.Data[i], samples[i])
		}
	}
}

func TestCapture_NilSafe(t *testing.T) {
	var c *Capture
	c.Write([]int16{1, 2, 3})
	if err := c.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestCapture_CloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.wav")
	c, err := NewCapture(path)
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	// Writes after close must not panic.
	c.Write([]int16{1})
}

func TestCapture_BadPath(t *testing.T) {
	if _, err := NewCapture(filepath.Join(t.TempDir(), "missing", "capture.wav")); err == nil {
		t.Error("NewCapture succeeded on a nonexistent directory")
	}
}
