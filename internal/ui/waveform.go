package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var levelBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderWaveform draws a scrolling loudness history as one row of block
// glyphs, newest level at the right edge. Levels are expected in [0, 1]
// and the input is resampled to fit width.
func RenderWaveform(levels []float64, width int) string {
	if len(levels) == 0 || width <= 0 {
		return ""
	}

	display := resample(levels, width)

	var b strings.Builder
	for _, level := range display {
		if level <= 0 {
			b.WriteRune(' ')
			continue
		}
		idx := int(level * float64(len(levelBlocks)))
		if idx >= len(levelBlocks) {
			idx = len(levelBlocks) - 1
		}
		b.WriteString(lipgloss.NewStyle().
			Foreground(barColor(level)).
			Render(string(levelBlocks[idx])))
	}
	return b.String()
}

// RenderSpectrum draws frequency bars two rows tall: the top row lights
// up only past half height, so quiet passages stay as a low shimmer.
func RenderSpectrum(bars []float64, width int) string {
	if len(bars) == 0 || width <= 0 {
		return ""
	}

	display := resample(bars, width)

	var top, bottom strings.Builder
	for _, h := range display {
		if h > 0.5 {
			portion := (h - 0.5) * 2
			idx := int(portion * float64(len(levelBlocks)-1))
			if idx >= len(levelBlocks) {
				idx = len(levelBlocks) - 1
			}
			top.WriteString(lipgloss.NewStyle().
				Foreground(barColor(h)).
				Render(string(levelBlocks[idx])))
		} else {
			top.WriteRune(' ')
		}

		if h <= 0 {
			bottom.WriteRune(' ')
			continue
		}
		portion := h * 2
		if portion > 1 {
			portion = 1
		}
		idx := int(portion * float64(len(levelBlocks)-1))
		bottom.WriteString(lipgloss.NewStyle().
			Foreground(barColor(h)).
			Render(string(levelBlocks[idx])))
	}
	return top.String() + "\n" + bottom.String()
}

// Braille cells pack two columns of four dots each; the bit for each
// dot position, top to bottom, per column.
var brailleBits = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// RenderWaveformMirrored draws the loudness history as a braille
// waveform mirrored about a horizontal center line, two rows tall.
// Each cell packs two history samples, so the row shows twice as much
// history as the bar style at the same width.
func RenderWaveformMirrored(levels []float64, width int) string {
	if len(levels) == 0 || width <= 0 {
		return ""
	}

	display := resample(levels, width*2)

	var top, bottom strings.Builder
	for cell := 0; cell < width; cell++ {
		var topBits, bottomBits rune
		var peak float64
		for col := 0; col < 2; col++ {
			level := display[cell*2+col]
			if level > peak {
				peak = level
			}
			dots := int(level * 4)
			if dots > 4 {
				dots = 4
			}
			// Top half grows upward from the center line, the
			// bottom half is its reflection.
			for d := 0; d < dots; d++ {
				topBits |= brailleBits[col][3-d]
				bottomBits |= brailleBits[col][d]
			}
		}

		if topBits == 0 {
			top.WriteRune(' ')
			bottom.WriteRune(' ')
			continue
		}
		style := lipgloss.NewStyle().Foreground(barColor(peak))
		top.WriteString(style.Render(string(rune(0x2800) + topBits)))
		bottom.WriteString(style.Render(string(rune(0x2800) + bottomBits)))
	}
	return top.String() + "\n" + bottom.String()
}

// resample stretches or shrinks values to exactly width entries using
// nearest-neighbour mapping, which is plenty for glyph output.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	for i := range out {
		src := i * len(values) / width
		out[i] = values[src]
	}
	return out
}

func barColor(level float64) lipgloss.Color {
	if level < 0 {
		level = 0
	}
	idx := int(level * float64(len(barColors)-1))
	if idx >= len(barColors) {
		idx = len(barColors) - 1
	}
	return barColors[idx]
}
