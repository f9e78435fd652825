package staticmap

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// osmMaxDim is the largest raster the staticmap.openstreetmap.de style
// renderers serve per request.
const osmMaxDim = 1024

// OSMOptions configures the keyless OSM static-map adapter.
type OSMOptions struct {
	BaseURL    string
	HTTPClient *http.Client
}

// OSM fetches rasters from an OpenStreetMap static-map renderer. No API key
// is required, which makes it the default provider.
type OSM struct {
	baseURL    string
	httpClient *http.Client
}

func NewOSM(opts OSMOptions) *OSM {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://staticmap.openstreetmap.de"
	}
	return &OSM{baseURL: baseURL, httpClient: defaultHTTPClient(opts.HTTPClient)}
}

func (o *OSM) Fetch(ctx context.Context, req Request) (image.Image, error) {
	dim := capDim(req.Size, osmMaxDim)

	params := url.Values{}
	params.Set("center", fmt.Sprintf("%f,%f", req.Lat, req.Lng))
	params.Set("zoom", strconv.Itoa(req.Zoom))
	params.Set("size", fmt.Sprintf("%dx%d", dim, dim))
	params.Set("maptype", "mapnik")

	return fetchImage(ctx, o.httpClient, "osm staticmap", o.baseURL+"/staticmap.php?"+params.Encode(), req.Size)
}

func (o *OSM) Attribution() string {
	return "© OpenStreetMap contributors"
}

var _ Fetcher = (*OSM)(nil)
