package audio

import (
	"math"

	"github.com/argusdusty/gofft"
)

// barScale brings averaged FFT magnitudes of typical music into the
// [0, 1] range before log shaping.
const barScale = 0.0075

// ApplyHanning applies a Hanning window to the input, taming spectral
// leakage before the FFT.
func ApplyHanning(data []float64) []float64 {
	windowed := make([]float64, len(data))
	n := len(data)
	if n < 2 {
		copy(windowed, data)
		return windowed
	}
	for i := range data {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = data[i] * window
	}
	return windowed
}

// SpectrumBars reduces normalized samples to nBars frequency bars in
// [0, 1]. The input length must be a power of two; anything else (or an
// empty input) yields all-zero bars. Only the lower three quarters of the
// positive spectrum is shown, where musical content actually lives.
func SpectrumBars(samples []float64, nBars int) []float64 {
	if nBars <= 0 {
		return nil
	}
	bars := make([]float64, nBars)
	if len(samples) == 0 {
		return bars
	}

	coeffs := gofft.Float64ToComplex128Array(ApplyHanning(samples))
	if err := gofft.FFT(coeffs); err != nil {
		return bars
	}

	maxBin := (len(coeffs) / 2) * 3 / 4
	binsPerBar := maxBin / nBars
	if binsPerBar == 0 {
		binsPerBar = 1
	}

	for bar := 0; bar < nBars; bar++ {
		start := bar * binsPerBar
		end := start + binsPerBar
		if start >= maxBin {
			break
		}
		if end > maxBin {
			end = maxBin
		}

		var sum float64
		for i := start; i < end; i++ {
			sum += math.Hypot(real(coeffs[i]), imag(coeffs[i]))
		}
		avg := sum / float64(end-start)

		scaled := avg * barScale
		if scaled < 0.01 {
			continue // noise gate
		}
		bars[bar] = math.Min(1, math.Log10(1+scaled*9))
	}
	return bars
}
