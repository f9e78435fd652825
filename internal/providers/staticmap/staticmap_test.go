package staticmap

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"mapposter/internal/apperr"
)

// pngHandler serves a solid PNG whose dimensions come from the provider's
// own size query parameter, mimicking a renderer that honors caps.
func pngHandler(t *testing.T, onRequest func(r *http.Request)) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if onRequest != nil {
			onRequest(r)
		}
		dim := 256
		if size := r.URL.Query().Get("size"); size != "" {
			parts := strings.SplitN(size, "x", 2)
			if v, err := strconv.Atoi(parts[0]); err == nil {
				dim = v
			}
		}
		img := image.NewRGBA(image.Rect(0, 0, dim, dim))
		for i := range img.Pix {
			img.Pix[i] = 0x7F
		}
		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, img); err != nil {
			t.Errorf("encode png: %v", err)
		}
	}
}

func TestGoogleFetchUsesScaleAndCap(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(pngHandler(t, func(r *http.Request) {
		gotQuery = r.URL.Query()
	}))
	defer srv.Close()

	g, err := NewGoogle(GoogleOptions{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewGoogle returned error: %v", err)
	}

	img, err := g.Fetch(context.Background(), Request{Lat: 54.707849, Lng: 25.3968932, Zoom: 16, Size: 2048})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2048 || b.Dy() != 2048 {
		t.Fatalf("image bounds = %v, want 2048x2048", b)
	}
	if got := gotQuery["size"]; len(got) != 1 || got[0] != "640x640" {
		t.Fatalf("size param = %v, want [640x640]", got)
	}
	if got := gotQuery["scale"]; len(got) != 1 || got[0] != "2" {
		t.Fatalf("scale param = %v, want [2]", got)
	}
	if got := gotQuery["key"]; len(got) != 1 || got[0] != "test-key" {
		t.Fatalf("key param = %v, want [test-key]", got)
	}
	if got := gotQuery["zoom"]; len(got) != 1 || got[0] != "16" {
		t.Fatalf("zoom param = %v, want [16]", got)
	}
}

func TestGoogleRequiresAPIKey(t *testing.T) {
	if _, err := NewGoogle(GoogleOptions{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestOSMFetchStaysWithinCap(t *testing.T) {
	var gotPath, gotSize string
	srv := httptest.NewServer(pngHandler(t, func(r *http.Request) {
		gotPath = r.URL.Path
		gotSize = r.URL.Query().Get("size")
	}))
	defer srv.Close()

	o := NewOSM(OSMOptions{BaseURL: srv.URL})

	img, err := o.Fetch(context.Background(), Request{Lat: 1, Lng: 2, Zoom: 12, Size: 4096})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if gotPath != "/staticmap.php" {
		t.Fatalf("path = %q, want /staticmap.php", gotPath)
	}
	if gotSize != "1024x1024" {
		t.Fatalf("size param = %q, want 1024x1024", gotSize)
	}
	if b := img.Bounds(); b.Dx() != 4096 || b.Dy() != 4096 {
		t.Fatalf("image bounds = %v, want 4096x4096 after upsampling", b)
	}
}

func TestMapTilerFetchBuildsLngLatPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		img := image.NewRGBA(image.Rect(0, 0, 512, 512))
		w.Header().Set("Content-Type", "image/png")
		_ = png.Encode(w, img)
	}))
	defer srv.Close()

	m, err := NewMapTiler(MapTilerOptions{APIKey: "mt-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewMapTiler returned error: %v", err)
	}

	img, err := m.Fetch(context.Background(), Request{Lat: 54.707849, Lng: 25.3968932, Zoom: 16, Size: 512})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 512 || b.Dy() != 512 {
		t.Fatalf("image bounds = %v, want 512x512", b)
	}
	if !strings.HasPrefix(gotPath, "/maps/streets-v2/static/25.396893,54.707849,16/") {
		t.Fatalf("path = %q, want lng,lat order under the style", gotPath)
	}
	if !strings.HasSuffix(gotPath, "/512x512.png") {
		t.Fatalf("path = %q, want 512x512.png suffix", gotPath)
	}
}

func TestFetchSurfacesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("The provided API key is invalid."))
	}))
	defer srv.Close()

	o := NewOSM(OSMOptions{BaseURL: srv.URL})

	_, err := o.Fetch(context.Background(), Request{Lat: 1, Lng: 2, Zoom: 12, Size: 512})
	if err == nil {
		t.Fatal("expected error for 403")
	}
	if apperr.KindOf(err) != apperr.KindProvider {
		t.Fatalf("error kind = %d, want provider: %v", apperr.KindOf(err), err)
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "API key is invalid") {
		t.Fatalf("error should carry status and body excerpt: %v", err)
	}
}

func TestFetchRejectsNonImageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not a map</html>"))
	}))
	defer srv.Close()

	o := NewOSM(OSMOptions{BaseURL: srv.URL})

	if _, err := o.Fetch(context.Background(), Request{Lat: 1, Lng: 2, Zoom: 12, Size: 512}); err == nil {
		t.Fatal("expected decode error for html body")
	}
}

func TestEnsureSizePreservesExactMatch(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 512, 512))
	if got := ensureSize(src, 512); got != image.Image(src) {
		t.Fatal("ensureSize should return the image unchanged when dimensions match")
	}
}

func TestEnsureSizeUpsamples(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	got := ensureSize(src, 300)
	if b := got.Bounds(); b.Dx() != 300 || b.Dy() != 300 {
		t.Fatalf("bounds = %v, want 300x300", b)
	}
	// Interior pixels of a solid image stay the same color after resampling.
	r, g, b, _ := got.At(150, 150).RGBA()
	if r>>8 != 200 || g>>8 != 100 || b>>8 != 50 {
		t.Fatalf("center pixel = (%d, %d, %d), want (200, 100, 50)", r>>8, g>>8, b>>8)
	}
}
