package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mapposter/internal/apperr"
	"mapposter/internal/geo"
	"mapposter/internal/infra"
	"mapposter/internal/providers/staticmap"
	"mapposter/internal/storage"

	"github.com/rs/zerolog"
)

type stubFetcher struct {
	lastReq staticmap.Request
	err     error
}

func (s *stubFetcher) Fetch(_ context.Context, req staticmap.Request) (image.Image, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastReq = req
	img := image.NewRGBA(image.Rect(0, 0, req.Size, req.Size))
	for y := 0; y < req.Size; y++ {
		for x := 0; x < req.Size; x++ {
			img.Set(x, y, color.RGBA{R: 90, G: 120, B: 150, A: 255})
		}
	}
	return img, nil
}

func (s *stubFetcher) Attribution() string { return "© Test Tiles" }

func testApp(t *testing.T, fetcher staticmap.Fetcher, store storage.Store) *App {
	t.Helper()
	cfg := &infra.Config{
		DefaultZoom:   16,
		DefaultTheme:  "dark",
		DefaultSize:   512,
		MinSize:       128,
		MaxSize:       1024,
		StoragePrefix: "renders",
	}
	return NewApp(cfg, zerolog.Nop(), geo.NewResolver(nil, cfg.DefaultZoom), fetcher, store)
}

func doRender(t *testing.T, app *App, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.Render(rec, req)
	return rec
}

func TestRenderStoresAndReturnsURL(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir(), "http://localhost:8080/static")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	fetcher := &stubFetcher{}
	app := testApp(t, fetcher, store)

	rec := doRender(t, app, `{"maps_link":"https://www.google.com/maps/@54.707849,25.3968932,16z","title":"Pupoja","subtitle":"Vilnius","size":256,"output":"png"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		OK   bool   `json:"ok"`
		File string `json:"file"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.OK {
		t.Fatalf("ok = false: %s", rec.Body.String())
	}
	if !strings.HasPrefix(resp.File, "pupoja-") || !strings.HasSuffix(resp.File, ".png") {
		t.Fatalf("file = %q", resp.File)
	}
	if !strings.HasPrefix(resp.URL, "http://localhost:8080/static/renders/") {
		t.Fatalf("url = %q", resp.URL)
	}
	if fetcher.lastReq.Zoom != 16 {
		t.Fatalf("fetched zoom = %d, want 16", fetcher.lastReq.Zoom)
	}
	if fetcher.lastReq.Size != 256 {
		t.Fatalf("fetched size = %d, want 256", fetcher.lastReq.Size)
	}
}

func TestRenderInlineStreamsImage(t *testing.T) {
	app := testApp(t, &stubFetcher{}, nil)

	rec := doRender(t, app, `{"lat":54.707849,"lng":25.3968932,"size":128}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("body is not a png, first bytes %q", rec.Body.Bytes()[:8])
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, ".png") {
		t.Fatalf("content disposition = %q", cd)
	}
}

func TestRenderPDFOutput(t *testing.T) {
	app := testApp(t, &stubFetcher{}, nil)

	rec := doRender(t, app, `{"lat":54.707849,"lng":25.3968932,"size":128,"output":"pdf"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a pdf")
	}
}

func TestRenderClampsSize(t *testing.T) {
	fetcher := &stubFetcher{}
	app := testApp(t, fetcher, nil)

	rec := doRender(t, app, `{"lat":1,"lng":2,"size":99999}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if fetcher.lastReq.Size != 1024 {
		t.Fatalf("fetched size = %d, want clamp to 1024", fetcher.lastReq.Size)
	}
}

func TestRenderBadLinkIsClientError(t *testing.T) {
	app := testApp(t, &stubFetcher{}, nil)

	rec := doRender(t, app, `{"maps_link":"not-a-link"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ok, _ := resp["ok"].(bool); ok {
		t.Fatalf("ok should be false: %s", rec.Body.String())
	}
	if _, has := resp["error"]; !has {
		t.Fatalf("missing error field: %s", rec.Body.String())
	}
}

func TestRenderMissingLocation(t *testing.T) {
	app := testApp(t, &stubFetcher{}, nil)

	rec := doRender(t, app, `{"title":"No Location"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRenderMalformedJSON(t *testing.T) {
	app := testApp(t, &stubFetcher{}, nil)

	rec := doRender(t, app, `{"lat": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRenderProviderFailure(t *testing.T) {
	app := testApp(t, &stubFetcher{err: apperr.Upstream("tiles", 503, []byte("overloaded"))}, nil)

	rec := doRender(t, app, `{"lat":1,"lng":2}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "tiles") {
		t.Fatalf("body should name the provider: %s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	app := testApp(t, &stubFetcher{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	app.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp["ok"] {
		t.Fatalf("ok = false")
	}
}
