package poster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
)

// Format selects the poster's output encoding.
type Format string

const (
	FormatPNG Format = "PNG"
	FormatPDF Format = "PDF"
)

// NormalizeFormat sanitizes free-form user input into a supported format.
// Anything unrecognized falls back to PNG.
func NormalizeFormat(format string) Format {
	if strings.EqualFold(strings.TrimSpace(format), string(FormatPDF)) {
		return FormatPDF
	}
	return FormatPNG
}

// Poster is the finished artifact. Transient: it is streamed to the caller
// or handed to a storage sink, never persisted here.
type Poster struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Encode serializes the composed canvas. PNG is the native encoding; PDF
// wraps the PNG as a single full-bleed page sized exactly to the raster's
// pixel dimensions (1 px = 1 pt).
func Encode(img *image.RGBA, format Format, title string) (*Poster, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("poster: encode png: %w", err)
	}

	if format == FormatPDF {
		data, err := wrapPDF(buf.Bytes(), img.Bounds())
		if err != nil {
			return nil, err
		}
		return &Poster{Data: data, ContentType: "application/pdf", Filename: Filename(title, "pdf")}, nil
	}
	return &Poster{Data: buf.Bytes(), ContentType: "image/png", Filename: Filename(title, "png")}, nil
}

func wrapPDF(pngData []byte, bounds image.Rectangle) ([]byte, error) {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: w, Ht: h},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("poster", opt, bytes.NewReader(pngData))
	doc.ImageOptions("poster", 0, 0, w, h, false, opt, 0, "")

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, fmt.Errorf("poster: write pdf: %w", err)
	}
	return out.Bytes(), nil
}

// maxSlugLen bounds how much of the title ends up in the filename.
const maxSlugLen = 40

// Filename generates a unique object name: a bounded slug of the title (when
// present) plus a uuid hex suffix and the extension.
func Filename(title, ext string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if slug := slugify(title); slug != "" {
		return slug + "-" + id + "." + ext
	}
	return id + "." + ext
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
		if b.Len() >= maxSlugLen {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}
