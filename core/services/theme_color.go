package services

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/EdlinOrg/prominentcolor"
	_ "golang.org/x/image/webp"
)

const maxPreviewImageSize = 10 << 20

// dominantColor downloads the preview image and returns its most prominent color as #rrggbb
func (s *PageMetadataService) dominantColor(ctx context.Context, imageURL string) (hex string, err error) {
	// prominentcolor can panic on degenerate images
	defer func() {
		if rec := recover(); rec != nil {
			hex = ""
			err = fmt.Errorf("color extraction panicked: %v", rec)
		}
	}()

	if s.deps.HTTPClient == nil {
		return "", fmt.Errorf("HTTP client not configured")
	}
	if strings.HasSuffix(strings.ToLower(imageURL), ".svg") {
		return "", fmt.Errorf("SVG images are not supported")
	}

	resp, err := s.deps.HTTPClient.Get(ctx, imageURL)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body().Close()

	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body(), maxPreviewImageSize))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return "", fmt.Errorf("image has empty bounds")
	}
	nrgba := image.NewNRGBA(bounds)
	draw.Draw(nrgba, bounds, img, bounds.Min, draw.Src)

	// Background masks first, then the whole image
	colors, err := prominentcolor.KmeansWithAll(prominentcolor.DefaultK, nrgba, prominentcolor.ArgumentDefault,
		prominentcolor.DefaultSize, prominentcolor.GetDefaultMasks())
	if err != nil || len(colors) == 0 {
		colors, err = prominentcolor.KmeansWithAll(prominentcolor.DefaultK, nrgba, prominentcolor.ArgumentDefault,
			prominentcolor.DefaultSize, nil)
		if err != nil || len(colors) == 0 {
			return "", fmt.Errorf("no colors extracted from image")
		}
	}

	c := colors[0].Color
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), nil
}
