package audio

import (
	"math"

	goaudio "github.com/go-audio/audio"

	"github.com/plextty/plextty/internal/config"
)

// Format describes the PCM the decoder process is asked to emit: mono
// 16-bit little-endian at 44.1 kHz. Shared with the capture tap so the
// WAV header always matches what flowed through the pipe.
var Format = goaudio.Format{
	NumChannels: config.NumChannels,
	SampleRate:  config.SampleRate,
}

// levelGain scales RMS up for visibility before clamping. Music rarely
// sustains full-scale RMS, so raw values hug the bottom of the range.
const levelGain = 2.0

// Level reduces a chunk of signed 16-bit samples to one loudness value in
// [0, 1] using RMS. An empty chunk yields 0. Pure and deterministic.
func Level(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sumSquares float64
	for _, s := range samples {
		normalized := float64(s) / 32768.0
		sumSquares += normalized * normalized
	}

	rms := math.Sqrt(sumSquares / float64(len(samples)))
	return math.Min(1.0, rms*levelGain)
}

// DecodePCM converts raw little-endian 16-bit bytes to samples. A trailing
// odd byte is dropped; pipe reads are not frame-aligned.
func DecodePCM(raw []byte) []int16 {
	n := len(raw) / 2
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		samples[i] = int16(uint16(raw[i*2]) | uint16(raw[i*2+1])<<8)
	}
	return samples
}
