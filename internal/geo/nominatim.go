package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"mapposter/internal/apperr"
)

// Nominatim is a forward-geocoding client for the OpenStreetMap Nominatim
// API. The shared public instance enforces a fair-use policy: requests must
// carry a descriptive User-Agent and be spaced at least a second apart. A
// rate limiter enforces the spacing.
type Nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NominatimOptions configures the client. Zero values get fair-use defaults.
type NominatimOptions struct {
	BaseURL    string
	UserAgent  string
	Spacing    time.Duration
	HTTPClient *http.Client
}

func NewNominatim(opts NominatimOptions) *Nominatim {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = "mapposter/1.0 (poster rendering service)"
	}
	spacing := opts.Spacing
	if spacing <= 0 {
		spacing = time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 25 * time.Second}
	}
	return &Nominatim{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Every(spacing), 1),
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves an address to the coordinates of its best match.
func (n *Nominatim) Geocode(ctx context.Context, address string) (float64, float64, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return 0, 0, apperr.Validation("address is required")
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return 0, 0, fmt.Errorf("geocoder: wait for rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	endpoint := n.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoder: build request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoder: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoder: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, 0, apperr.Upstream("geocoder", resp.StatusCode, raw)
	}

	var results []nominatimResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return 0, 0, fmt.Errorf("geocoder: decode response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, apperr.NotFound("no results for address %q", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoder: parse latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoder: parse longitude %q: %w", results[0].Lon, err)
	}
	return lat, lng, nil
}
