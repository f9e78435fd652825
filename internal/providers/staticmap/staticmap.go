// Package staticmap fetches raster map images centered on a coordinate from
// interchangeable providers. Every adapter honors the same contract: the
// returned image is exactly Size×Size pixels regardless of the provider's own
// request caps, upsampling with a high-quality filter when needed.
package staticmap

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	xdraw "golang.org/x/image/draw"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"mapposter/internal/apperr"
	"mapposter/internal/infra"
)

// Request describes one map fetch. Zoom and Size are assumed pre-clamped by
// the caller.
type Request struct {
	Lat  float64
	Lng  float64
	Zoom int
	Size int
}

// Fetcher is the contract implemented by all map providers.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (image.Image, error)
	// Attribution is the credit line the poster must carry for this provider.
	Attribution() string
}

// FromConfig selects and constructs the configured provider adapter.
func FromConfig(cfg *infra.Config) (Fetcher, error) {
	client := &http.Client{Timeout: cfg.OutboundTimeout}
	switch cfg.MapProvider {
	case infra.ProviderGoogle:
		return NewGoogle(GoogleOptions{APIKey: cfg.GoogleMapsAPIKey, HTTPClient: client})
	case infra.ProviderOSM:
		return NewOSM(OSMOptions{BaseURL: cfg.OSMBaseURL, HTTPClient: client}), nil
	case infra.ProviderMapTiler:
		return NewMapTiler(MapTilerOptions{APIKey: cfg.MapTilerAPIKey, Style: cfg.MapTilerStyle, HTTPClient: client})
	default:
		return nil, fmt.Errorf("staticmap: unsupported provider %q", cfg.MapProvider)
	}
}

func defaultHTTPClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: 25 * time.Second}
}

// fetchImage performs one provider GET, surfaces non-success statuses as
// provider errors, and normalizes the decoded raster to size×size.
func fetchImage(ctx context.Context, client *http.Client, provider, endpoint string, size int) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", provider, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: http request: %w", provider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", provider, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Upstream(provider, resp.StatusCode, raw)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: decode image: %w", provider, err)
	}
	return ensureSize(img, size), nil
}

// ensureSize returns img unchanged when it already matches the requested
// square, otherwise resamples it with Catmull-Rom to exactly size×size.
func ensureSize(img image.Image, size int) image.Image {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func capDim(size, max int) int {
	if size > max {
		return max
	}
	return size
}
