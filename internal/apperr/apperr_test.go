package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("maps_link is required"), http.StatusBadRequest},
		{"not found", NotFound("no results"), http.StatusBadRequest},
		{"provider", Upstream("maptiler", 403, []byte("forbidden")), http.StatusBadRequest},
		{"configuration", Configuration("OUTPUT_BUCKET is required"), http.StatusInternalServerError},
		{"internal", Internal("encode poster", errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("%s: HTTPStatus = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestHTTPStatusSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("resolve location: %w", Validation("unparseable location link"))
	if got := HTTPStatus(err); got != http.StatusBadRequest {
		t.Fatalf("HTTPStatus = %d, want %d", got, http.StatusBadRequest)
	}
	if got := KindOf(err); got != KindValidation {
		t.Fatalf("KindOf = %d, want %d", got, KindValidation)
	}
}

func TestUpstreamTruncatesBody(t *testing.T) {
	body := strings.Repeat("x", 4096)
	err := Upstream("google static maps", 403, []byte(body))
	if err.UpstreamStatus != 403 {
		t.Fatalf("UpstreamStatus = %d, want 403", err.UpstreamStatus)
	}
	if len(err.Message) > maxUpstreamBody+64 {
		t.Fatalf("message not truncated: %d bytes", len(err.Message))
	}
	if !strings.Contains(err.Message, "status 403") {
		t.Fatalf("message missing status: %q", err.Message)
	}
	if !strings.HasSuffix(err.Message, "...") {
		t.Fatalf("truncated message should end with ellipsis: %q", err.Message[len(err.Message)-8:])
	}
}

func TestUpstreamTruncatesOnRuneBoundary(t *testing.T) {
	// Three-byte runes guarantee the byte cap lands mid-rune.
	body := strings.Repeat("€", 2*maxUpstreamBody)
	err := Upstream("geocoder", 429, []byte(body))
	if !utf8.ValidString(err.Message) {
		t.Fatalf("truncated message is not valid UTF-8: %q", err.Message)
	}
	if !strings.HasSuffix(err.Message, "...") {
		t.Fatalf("truncated message should end with ellipsis")
	}
}
