package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"mapposter/internal/apperr"
	"mapposter/internal/geo"
	"mapposter/internal/poster"
	"mapposter/internal/providers/staticmap"
)

type renderRequest struct {
	MapsLink string   `json:"maps_link"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Address  string   `json:"address"`
	Zoom     *int     `json:"zoom"`
	Size     int      `json:"size"`
	Theme    string   `json:"theme"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Output   string   `json:"output"`
}

type renderResponse struct {
	OK   bool   `json:"ok"`
	File string `json:"file"`
	URL  string `json:"url"`
}

// Render is the heart of the service: resolve the location, fetch the base
// map, theme it, compose the poster, encode, and deliver.
func (a *App) Render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, r, apperr.Validation("invalid json payload: %v", err))
		return
	}

	resolved, err := a.Resolver.Resolve(ctx, geo.Query{
		MapsLink: req.MapsLink,
		Lat:      req.Lat,
		Lng:      req.Lng,
		Address:  req.Address,
	}, req.Zoom)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	size := a.clampSize(req.Size)
	theme := poster.NormalizeTheme(req.Theme, poster.NormalizeTheme(a.Cfg.DefaultTheme, poster.ThemeDark))
	format := poster.NormalizeFormat(req.Output)

	base, err := a.Maps.Fetch(ctx, staticmap.Request{
		Lat:  resolved.Latitude,
		Lng:  resolved.Longitude,
		Zoom: resolved.Zoom,
		Size: size,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}

	canvas := poster.Compose(poster.ApplyTheme(base, theme), poster.Options{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Theme:       theme,
		Lat:         resolved.Latitude,
		Lng:         resolved.Longitude,
		Attribution: a.Maps.Attribution(),
	})

	p, err := poster.Encode(canvas, format, req.Title)
	if err != nil {
		a.fail(w, r, apperr.Internal("compose poster", err))
		return
	}

	a.Log.Info().
		Float64("lat", resolved.Latitude).
		Float64("lng", resolved.Longitude).
		Int("zoom", resolved.Zoom).
		Str("zoom_source", string(resolved.ZoomSource)).
		Int("size", size).
		Str("theme", string(theme)).
		Str("file", p.Filename).
		Msg("poster rendered")

	if a.Store == nil {
		w.Header().Set("Content-Type", p.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(p.Data)))
		w.Header().Set("Content-Disposition", `inline; filename="`+p.Filename+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(p.Data)
		return
	}

	key := p.Filename
	if a.Cfg.StoragePrefix != "" {
		key = a.Cfg.StoragePrefix + "/" + p.Filename
	}
	url, err := a.Store.Put(ctx, key, p.ContentType, p.Data)
	if err != nil {
		a.fail(w, r, apperr.Internal("store poster", err))
		return
	}

	a.json(w, http.StatusOK, renderResponse{OK: true, File: p.Filename, URL: url})
}

func (a *App) clampSize(size int) int {
	if size <= 0 {
		size = a.Cfg.DefaultSize
	}
	if size < a.Cfg.MinSize {
		return a.Cfg.MinSize
	}
	if size > a.Cfg.MaxSize {
		return a.Cfg.MaxSize
	}
	return size
}
