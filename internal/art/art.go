// Package art fetches album artwork and renders it as terminal cells.
// Each character cell shows two image pixels using the upper half block
// with independent foreground and background colors, so a w x h cell
// region carries a w x 2h pixel image.
package art

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
	"time"

	"golang.org/x/image/draw"
)

const fetchTimeout = 10 * time.Second

var httpClient = &http.Client{Timeout: fetchTimeout}

// Fetch downloads and decodes artwork. Plex serves JPEG thumbs almost
// exclusively but PNG shows up for custom posters.
func Fetch(ctx context.Context, url string) (image.Image, error) {
	if url == "" {
		return nil, fmt.Errorf("no artwork URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building artwork request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork fetch returned %s", resp.Status)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding artwork: %w", err)
	}
	return img, nil
}

// Render scales img to the cell region and returns one string per row,
// colored with truecolor escapes. Width and height are in character
// cells.
func Render(img image.Image, width, height int) []string {
	if img == nil || width <= 0 || height <= 0 {
		return nil
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height*2))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	rows := make([]string, height)
	var b strings.Builder
	for row := 0; row < height; row++ {
		b.Reset()
		for x := 0; x < width; x++ {
			top := scaled.RGBAAt(x, row*2)
			bottom := scaled.RGBAAt(x, row*2+1)
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
		}
		b.WriteString("\x1b[0m")
		rows[row] = b.String()
	}
	return rows
}

// Placeholder renders a flat gray block for tracks without artwork, same
// shape as a real render so the layout never shifts.
func Placeholder(width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	gray := color.RGBA{R: 64, G: 64, B: 64, A: 255}
	img.SetRGBA(0, 0, gray)
	img.SetRGBA(0, 1, gray)
	return Render(img, width, height)
}
