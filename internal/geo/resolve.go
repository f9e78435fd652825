package geo

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"mapposter/internal/apperr"
)

// Zoom levels supported across the static-map providers.
const (
	MinZoom = 0
	MaxZoom = 20
)

// ZoomSource records where the final zoom value came from.
type ZoomSource string

const (
	ZoomSourceExplicit ZoomSource = "explicit"
	ZoomSourceLink     ZoomSource = "parsedFromLink"
	ZoomSourceDefault  ZoomSource = "default"
)

// Query is the caller-supplied location in one of three forms: a Google Maps
// share link, explicit coordinates, or a free-text address. When several
// forms are present, explicit coordinates win over the link and the link
// wins over the address.
type Query struct {
	MapsLink string
	Lat      *float64
	Lng      *float64
	Address  string
}

// Resolved is the canonical location triple. Immutable once produced.
type Resolved struct {
	Latitude   float64
	Longitude  float64
	Zoom       int
	ZoomSource ZoomSource
}

// Geocoder turns a free-text address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

var (
	// Primary pattern: the "/@54.707849,25.3968932,16z" segment of a share
	// link. The zoom may carry a fractional part; it is truncated.
	linkAtPattern = regexp.MustCompile(`/@(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?),(\d+(?:\.\d+)?)z`)
	// Fallback pattern: a "q=" or "ll=" query parameter holding bare
	// coordinates. Carries no zoom.
	linkParamPattern = regexp.MustCompile(`[?&](?:q|ll)=(-?\d+(?:\.\d+)?)(?:,|%2C)(-?\d+(?:\.\d+)?)`)
)

// Resolver turns heterogeneous location input into a Resolved triple.
type Resolver struct {
	geocoder    Geocoder
	defaultZoom int
}

func NewResolver(geocoder Geocoder, defaultZoom int) *Resolver {
	return &Resolver{geocoder: geocoder, defaultZoom: ClampZoom(defaultZoom)}
}

// Resolve produces a canonical (latitude, longitude, zoom) triple from q.
// explicitZoom, when non-nil, wins over any zoom parsed from a link; the
// configured default fills in last. The final zoom is always clamped.
func (r *Resolver) Resolve(ctx context.Context, q Query, explicitZoom *int) (Resolved, error) {
	res, err := r.locate(ctx, q)
	if err != nil {
		return Resolved{}, err
	}
	if explicitZoom != nil {
		res.Zoom = *explicitZoom
		res.ZoomSource = ZoomSourceExplicit
	}
	res.Zoom = ClampZoom(res.Zoom)
	if res.Latitude < -90 || res.Latitude > 90 {
		return Resolved{}, apperr.Validation("latitude %v out of range [-90, 90]", res.Latitude)
	}
	if res.Longitude < -180 || res.Longitude > 180 {
		return Resolved{}, apperr.Validation("longitude %v out of range [-180, 180]", res.Longitude)
	}
	return res, nil
}

func (r *Resolver) locate(ctx context.Context, q Query) (Resolved, error) {
	switch {
	case q.Lat != nil || q.Lng != nil:
		if q.Lat == nil || q.Lng == nil {
			return Resolved{}, apperr.Validation("lat and lng must be supplied together")
		}
		return Resolved{
			Latitude:   *q.Lat,
			Longitude:  *q.Lng,
			Zoom:       r.defaultZoom,
			ZoomSource: ZoomSourceDefault,
		}, nil

	case strings.TrimSpace(q.MapsLink) != "":
		return r.parseLink(strings.TrimSpace(q.MapsLink))

	case strings.TrimSpace(q.Address) != "":
		if r.geocoder == nil {
			return Resolved{}, apperr.Configuration("no geocoder configured for address lookup")
		}
		lat, lng, err := r.geocoder.Geocode(ctx, strings.TrimSpace(q.Address))
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{
			Latitude:   lat,
			Longitude:  lng,
			Zoom:       r.defaultZoom,
			ZoomSource: ZoomSourceDefault,
		}, nil

	default:
		return Resolved{}, apperr.Validation("a maps_link, lat/lng pair, or address is required")
	}
}

func (r *Resolver) parseLink(link string) (Resolved, error) {
	if m := linkAtPattern.FindStringSubmatch(link); m != nil {
		lat, err1 := strconv.ParseFloat(m[1], 64)
		lng, err2 := strconv.ParseFloat(m[2], 64)
		zoomF, err3 := strconv.ParseFloat(m[3], 64)
		if err1 == nil && err2 == nil && err3 == nil {
			return Resolved{
				Latitude:   lat,
				Longitude:  lng,
				Zoom:       int(zoomF),
				ZoomSource: ZoomSourceLink,
			}, nil
		}
	}
	if m := linkParamPattern.FindStringSubmatch(link); m != nil {
		lat, err1 := strconv.ParseFloat(m[1], 64)
		lng, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			return Resolved{
				Latitude:   lat,
				Longitude:  lng,
				Zoom:       r.defaultZoom,
				ZoomSource: ZoomSourceDefault,
			}, nil
		}
	}
	return Resolved{}, apperr.Validation("unparseable location link: expected /@lat,lng,zoomz or q=lat,lng")
}

// ClampZoom bounds a zoom level to the provider-supported range.
func ClampZoom(zoom int) int {
	if zoom < MinZoom {
		return MinZoom
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}
