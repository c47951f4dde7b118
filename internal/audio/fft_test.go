package audio

import (
	"math"
	"testing"

	"github.com/plextty/plextty/internal/config"
)

func TestApplyHanning_WindowProperties(t *testing.T) {
	size := 8
	input := make([]float64, size)
	for i := range input {
		input[i] = 1.0
	}

	windowed := ApplyHanning(input)

	if len(windowed) != size {
		t.Fatalf("window changed length: got %d, want %d", len(windowed), size)
	}

	epsilon := 1e-10
	if math.Abs(windowed[0]) > epsilon {
		t.Errorf("window start = %v, want 0", windowed[0])
	}
	if math.Abs(windowed[size-1]) > epsilon {
		t.Errorf("window end = %v, want 0", windowed[size-1])
	}

	for i := 0; i < size/2; i++ {
		if math.Abs(windowed[i]-windowed[size-1-i]) > epsilon {
			t.Errorf("window not symmetric at %d: %v != %v", i, windowed[i], windowed[size-1-i])
		}
	}
}

// A 440 Hz sine at 44.1 kHz with a 2048-point FFT lands around bin 20, so
// the peak bar must sit in the low end of the spectrum and dominate.
func TestSpectrumBars_KnownSineWave(t *testing.T) {
	const frequency = 440.0
	samples := make([]float64, config.FFTSize)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * frequency * float64(i) / float64(config.SampleRate))
	}

	bars := SpectrumBars(samples, config.NumBars)
	if len(bars) != config.NumBars {
		t.Fatalf("got %d bars, want %d", len(bars), config.NumBars)
	}

	maxVal, maxBar := 0.0, 0
	for i, v := range bars {
		if v > maxVal {
			maxVal, maxBar = v, i
		}
	}

	if maxVal <= 0 {
		t.Fatal("sine wave produced no spectral energy")
	}
	if maxBar >= config.NumBars/2 {
		t.Errorf("peak bar %d in upper half; 440 Hz belongs in the low bars", maxBar)
	}

	var sumOthers float64
	for i, v := range bars {
		if i != maxBar {
			sumOthers += v
		}
	}
	if avg := sumOthers / float64(config.NumBars-1); maxVal <= avg {
		t.Errorf("peak %v not dominant over average %v", maxVal, avg)
	}
}

func TestSpectrumBars_Silence(t *testing.T) {
	bars := SpectrumBars(make([]float64, config.FFTSize), config.NumBars)
	for i, v := range bars {
		if v != 0 {
			t.Errorf("bar %d = %v, want 0 for silence", i, v)
		}
	}
}

func TestSpectrumBars_EmptyInput(t *testing.T) {
	bars := SpectrumBars(nil, 16)
	if len(bars) != 16 {
		t.Fatalf("got %d bars, want 16", len(bars))
	}
	for i, v := range bars {
		if v != 0 {
			t.Errorf("bar %d = %v, want 0", i, v)
		}
	}
}

func TestSpectrumBars_RangeBounds(t *testing.T) {
	// Full-scale noise-ish input must stay within [0, 1].
	samples := make([]float64, config.FFTSize)
	for i := range samples {
		samples[i] = math.Sin(float64(i)*0.7) + 0.5*math.Sin(float64(i)*3.1)
	}

	for i, v := range SpectrumBars(samples, config.NumBars) {
		if v < 0 || v > 1 {
			t.Errorf("bar %d = %v, outside [0, 1]", i, v)
		}
	}
}

func TestSpectrumBars_NoiseGate(t *testing.T) {
	samples := make([]float64, config.FFTSize)
	for i := range samples {
		samples[i] = 0.0005 * math.Sin(2*math.Pi*float64(i)/100)
	}

	zero := 0
	for _, v := range SpectrumBars(samples, config.NumBars) {
		if v == 0 {
			zero++
		}
	}
	if zero == 0 {
		t.Error("noise gate left every bar lit on a near-silent signal")
	}
}
