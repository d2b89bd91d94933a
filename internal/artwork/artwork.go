// Package artwork derives accent colours from album art.
package artwork

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"net/http"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	// Fallback is used when no pixel qualifies.
	Fallback = []string{"#1DB954", "#191414"}

	// LoadFallback is used when the image cannot be loaded.
	LoadFallback = []string{"#535353", "#121212"}
)

const (
	sampleSize = 100
	sampleStep = 10
	quantum    = 20
	maxBytes   = 8 << 20
)

// DominantColors returns the n most frequent colours of img as hex strings.
// The image is scaled to 100x100 and every 10th pixel sampled; transparent,
// near-black and near-white pixels are skipped and channels quantized to
// multiples of 20.
func DominantColors(img image.Image, n int) []string {
	if img == nil {
		return slices.Clone(LoadFallback)
	}

	small := image.NewNRGBA(image.Rect(0, 0, sampleSize, sampleSize))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), img, img.Bounds(), draw.Src, nil)

	type bucket struct {
		r, g, b uint8
		count   int
		first   int
	}
	buckets := make(map[[3]uint8]*bucket)

	pix := small.Pix
	for i := 0; i+3 < len(pix); i += 4 * sampleStep {
		r, g, b, a := pix[i], pix[i+1], pix[i+2], pix[i+3]
		if a < 128 || (r < 20 && g < 20 && b < 20) || (r > 240 && g > 240 && b > 240) {
			continue
		}
		key := [3]uint8{quantize(r), quantize(g), quantize(b)}
		bk, ok := buckets[key]
		if !ok {
			bk = &bucket{r: key[0], g: key[1], b: key[2], first: i}
			buckets[key] = bk
		}
		bk.count++
	}

	if len(buckets) == 0 {
		return slices.Clone(Fallback)
	}

	ranked := make([]*bucket, 0, len(buckets))
	for _, bk := range buckets {
		ranked = append(ranked, bk)
	}
	slices.SortFunc(ranked, func(a, b *bucket) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return a.first - b.first
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]string, len(ranked))
	for i, bk := range ranked {
		out[i] = Hex(bk.r, bk.g, bk.b)
	}
	return out
}

// quantize rounds v to the nearest multiple of 20, capped at 255.
func quantize(v uint8) uint8 {
	q := math.Round(float64(v)/quantum) * quantum
	return uint8(min(q, 255))
}

// Hex formats an RGB triple as #rrggbb.
func Hex(r, g, b uint8) string {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
}

// Foreground picks black or white text for a background colour.
func Foreground(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#FFFFFF"
	}
	_, _, l := c.Hsl()
	if l > 0.6 {
		return "#000000"
	}
	return "#FFFFFF"
}

// Decode reads a JPEG, PNG, GIF or WebP image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(io.LimitReader(r, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("decode artwork: %w", err)
	}
	return img, nil
}

// Fetch downloads the image at url and returns its dominant colours. Any
// failure yields LoadFallback.
func Fetch(ctx context.Context, client *http.Client, url string, n int) []string {
	if url == "" {
		return slices.Clone(LoadFallback)
	}
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return slices.Clone(LoadFallback)
	}
	resp, err := client.Do(req)
	if err != nil {
		return slices.Clone(LoadFallback)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return slices.Clone(LoadFallback)
	}
	img, err := Decode(resp.Body)
	if err != nil {
		return slices.Clone(LoadFallback)
	}
	return DominantColors(img, n)
}
