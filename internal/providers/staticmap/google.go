package staticmap

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// The Static Maps API caps requests at 640×640 logical pixels; the
	// scale multiplier doubles the rendered resolution.
	googleMaxDim = 640
	googleScale  = 2
)

// GoogleOptions configures the Google Static Maps adapter.
type GoogleOptions struct {
	APIKey     string
	BaseURL    string
	MapType    string
	HTTPClient *http.Client
}

// Google fetches rasters from the Google Static Maps API.
type Google struct {
	apiKey     string
	baseURL    string
	mapType    string
	httpClient *http.Client
}

func NewGoogle(opts GoogleOptions) (*Google, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("staticmap: google api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com/maps/api/staticmap"
	}
	mapType := opts.MapType
	if mapType == "" {
		mapType = "roadmap"
	}
	return &Google{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		mapType:    mapType,
		httpClient: defaultHTTPClient(opts.HTTPClient),
	}, nil
}

func (g *Google) Fetch(ctx context.Context, req Request) (image.Image, error) {
	// Request the largest raster the cap allows; the scale multiplier gets
	// us to 2× that, and ensureSize covers the rest of the way up.
	dim := capDim((req.Size+googleScale-1)/googleScale, googleMaxDim)

	params := url.Values{}
	params.Set("center", fmt.Sprintf("%f,%f", req.Lat, req.Lng))
	params.Set("zoom", strconv.Itoa(req.Zoom))
	params.Set("size", fmt.Sprintf("%dx%d", dim, dim))
	params.Set("scale", strconv.Itoa(googleScale))
	params.Set("maptype", g.mapType)
	params.Set("key", g.apiKey)

	return fetchImage(ctx, g.httpClient, "google static maps", g.baseURL+"?"+params.Encode(), req.Size)
}

func (g *Google) Attribution() string {
	return "Map data © Google"
}

var _ Fetcher = (*Google)(nil)
