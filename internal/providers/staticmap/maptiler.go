package staticmap

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strings"
)

// maptilerMaxDim is the per-request raster cap of the MapTiler static API.
const maptilerMaxDim = 2048

// MapTilerOptions configures the MapTiler adapter.
type MapTilerOptions struct {
	APIKey     string
	Style      string
	BaseURL    string
	HTTPClient *http.Client
}

// MapTiler fetches rasters from the MapTiler static maps API.
type MapTiler struct {
	apiKey     string
	style      string
	baseURL    string
	httpClient *http.Client
}

func NewMapTiler(opts MapTilerOptions) (*MapTiler, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("staticmap: maptiler api key is required")
	}
	style := opts.Style
	if style == "" {
		style = "streets-v2"
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.maptiler.com"
	}
	return &MapTiler{
		apiKey:     strings.TrimSpace(opts.APIKey),
		style:      style,
		baseURL:    baseURL,
		httpClient: defaultHTTPClient(opts.HTTPClient),
	}, nil
}

func (m *MapTiler) Fetch(ctx context.Context, req Request) (image.Image, error) {
	dim := capDim(req.Size, maptilerMaxDim)

	// MapTiler takes lng,lat order in the path, unlike the others.
	endpoint := fmt.Sprintf("%s/maps/%s/static/%f,%f,%d/%dx%d.png?key=%s",
		m.baseURL, m.style, req.Lng, req.Lat, req.Zoom, dim, dim, m.apiKey)

	return fetchImage(ctx, m.httpClient, "maptiler", endpoint, req.Size)
}

func (m *MapTiler) Attribution() string {
	return "© MapTiler © OpenStreetMap contributors"
}

var _ Fetcher = (*MapTiler)(nil)
