package feedback

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp"

	"conversion-roast-api/core/domain"
	"conversion-roast-api/core/errors"
)

// loadedImage is a screenshot ready to send to the model
type loadedImage struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// loadImage returns the image bytes, from the reference itself, the cache or the network
func (g *Generator) loadImage(ctx context.Context, ref domain.ImageRef) (*loadedImage, error) {
	var data []byte
	mimeType := ref.MIMEType

	switch {
	case ref.IsInline():
		data = ref.Data
	default:
		fetched, contentType, err := g.fetchImage(ctx, ref.URL)
		if err != nil {
			return nil, err
		}
		data = fetched
		if mimeType == "" {
			mimeType = contentType
		}
	}

	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}

	img := &loadedImage{Data: data, MIMEType: mimeType}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Width = cfg.Width
		img.Height = cfg.Height
	}
	return img, nil
}

func (g *Generator) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	cacheKey := domain.ImageCacheKey(imageURL)
	if g.deps.Cache != nil {
		if data, err := g.deps.Cache.Get(ctx, cacheKey); err == nil && len(data) > 0 {
			return data, "", nil
		}
	}

	if g.deps.HTTPClient == nil {
		return nil, "", fmt.Errorf("HTTP client not configured")
	}

	resp, err := g.deps.HTTPClient.Get(ctx, imageURL)
	if err != nil {
		return nil, "", &errors.FetchError{URL: imageURL, Err: err}
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, "", &errors.FetchError{URL: imageURL, StatusCode: resp.StatusCode()}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body(), domain.MaxImageSize+1))
	if err != nil {
		return nil, "", &errors.FetchError{URL: imageURL, Err: err}
	}
	if len(data) > domain.MaxImageSize {
		return nil, "", &errors.FetchError{URL: imageURL, Err: errors.ErrImageTooLarge}
	}
	if len(data) == 0 {
		return nil, "", &errors.FetchError{URL: imageURL, Err: io.ErrUnexpectedEOF}
	}

	if g.deps.Cache != nil {
		_ = g.deps.Cache.Set(ctx, cacheKey, data, g.cfg.ImageCacheTTL)
	}

	contentType := resp.Header("Content-Type")
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return data, contentType, nil
}
