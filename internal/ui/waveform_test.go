package ui

import (
	"strings"
	"testing"
)

// stripANSI drops escape sequences so tests can count glyphs.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestRenderWaveform_Width(t *testing.T) {
	levels := []float64{0.1, 0.5, 0.9, 0.3}

	for _, width := range []int{4, 10, 80} {
		out := stripANSI(RenderWaveform(levels, width))
		if got := len([]rune(out)); got != width {
			t.Errorf("width %d: rendered %d cells", width, got)
		}
	}
}

func TestRenderWaveform_SilenceIsBlank(t *testing.T) {
	out := stripANSI(RenderWaveform(make([]float64, 10), 10))
	if out != strings.Repeat(" ", 10) {
		t.Errorf("silence rendered %q, want blanks", out)
	}
}

func TestRenderWaveform_LoudUsesTallBlocks(t *testing.T) {
	out := stripANSI(RenderWaveform([]float64{1, 1, 1}, 3))
	if out != "███" {
		t.Errorf("full level rendered %q, want full blocks", out)
	}
}

func TestRenderWaveform_Empty(t *testing.T) {
	if got := RenderWaveform(nil, 10); got != "" {
		t.Errorf("RenderWaveform(nil) = %q, want empty", got)
	}
	if got := RenderWaveform([]float64{0.5}, 0); got != "" {
		t.Errorf("RenderWaveform with zero width = %q, want empty", got)
	}
}

func TestRenderSpectrum_TwoRows(t *testing.T) {
	bars := []float64{0.2, 0.8, 1.0, 0.4}
	out := RenderSpectrum(bars, 8)

	rows := strings.Split(out, "\n")
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for i, row := range rows {
		if got := len([]rune(stripANSI(row))); got != 8 {
			t.Errorf("row %d has %d cells, want 8", i, got)
		}
	}
}

func TestRenderSpectrum_QuietBarsStayLow(t *testing.T) {
	out := RenderSpectrum([]float64{0.3, 0.3}, 2)
	rows := strings.Split(out, "\n")

	if top := stripANSI(rows[0]); top != "  " {
		t.Errorf("top row lit for quiet bars: %q", top)
	}
	if bottom := stripANSI(rows[1]); strings.TrimSpace(bottom) == "" {
		t.Error("bottom row blank for audible bars")
	}
}

func TestRenderWaveformMirrored_Shape(t *testing.T) {
	levels := []float64{0.2, 0.9, 0.5, 1.0}
	out := RenderWaveformMirrored(levels, 6)

	rows := strings.Split(out, "\n")
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for i, row := range rows {
		if got := len([]rune(stripANSI(row))); got != 6 {
			t.Errorf("row %d has %d cells, want 6", i, got)
		}
	}
}

func TestRenderWaveformMirrored_FullLevelFillsCell(t *testing.T) {
	out := RenderWaveformMirrored([]float64{1, 1}, 1)
	rows := strings.Split(out, "\n")

	full := string(rune(0x2800) | 0xFF)
	if got := stripANSI(rows[0]); got != full {
		t.Errorf("top cell = %q, want fully lit braille", got)
	}
	if got := stripANSI(rows[1]); got != full {
		t.Errorf("bottom cell = %q, want fully lit braille", got)
	}
}

func TestRenderWaveformMirrored_SilenceIsBlank(t *testing.T) {
	out := RenderWaveformMirrored(make([]float64, 8), 4)
	rows := strings.Split(out, "\n")

	for i, row := range rows {
		if row != "    " {
			t.Errorf("row %d rendered %q for silence, want blanks", i, row)
		}
	}
}

func TestRenderWaveformMirrored_Empty(t *testing.T) {
	if got := RenderWaveformMirrored(nil, 10); got != "" {
		t.Errorf("RenderWaveformMirrored(nil) = %q, want empty", got)
	}
}

func TestResample(t *testing.T) {
	in := []float64{1, 2, 3, 4}

	out := resample(in, 2)
	if out[0] != 1 || out[1] != 3 {
		t.Errorf("downsample = %v, want [1 3]", out)
	}

	out = resample(in, 8)
	if len(out) != 8 {
		t.Fatalf("upsample length = %d, want 8", len(out))
	}
	if out[0] != 1 || out[7] != 4 {
		t.Errorf("upsample endpoints = %v %v, want 1 4", out[0], out[7])
	}
}
