package poster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BandFraction is the height of the text band relative to the map's side.
const BandFraction = 0.20

// Options carries the text content and styling for the band beneath the map.
type Options struct {
	Title       string
	Subtitle    string
	Theme       Theme
	Lat         float64
	Lng         float64
	Attribution string
}

type palette struct {
	band      color.NRGBA
	primary   color.NRGBA
	secondary color.NRGBA
}

func themePalette(t Theme) palette {
	if t == ThemeLight {
		return palette{
			band:      color.NRGBA{0xF4, 0xF1, 0xE8, 0xFF},
			primary:   color.NRGBA{0x1E, 0x1E, 0x1E, 0xFF},
			secondary: color.NRGBA{0x6E, 0x6A, 0x62, 0xFF},
		}
	}
	return palette{
		band:      color.NRGBA{0x0E, 0x0E, 0x12, 0xFF},
		primary:   color.NRGBA{0xEC, 0xEC, 0xEC, 0xFF},
		secondary: color.NRGBA{0x98, 0x98, 0x9E, 0xFF},
	}
}

var upper = cases.Upper(language.Und)

// Compose lays out the finished poster: the map square on top and the text
// band beneath it. All offsets are proportional to the map's side so the
// layout holds at any requested size.
func Compose(mapImg image.Image, opts Options) *image.RGBA {
	side := mapImg.Bounds().Dx()
	band := int(float64(side) * BandFraction)
	pal := themePalette(opts.Theme)

	canvas := image.NewRGBA(image.Rect(0, 0, side, side+band))
	draw.Draw(canvas, image.Rect(0, 0, side, side), mapImg, mapImg.Bounds().Min, draw.Src)
	draw.Draw(canvas, image.Rect(0, side, side, side+band), &image.Uniform{C: pal.band}, image.Point{}, draw.Src)

	marginX := side * 6 / 100
	title := upper.String(strings.TrimSpace(opts.Title))
	subtitle := upper.String(strings.TrimSpace(opts.Subtitle))

	if title != "" {
		drawText(canvas, title, marginX, side+band*36/100, pal.primary, face(float64(band)*0.26, true))
	}
	if subtitle != "" {
		drawText(canvas, subtitle, marginX, side+band*58/100, pal.secondary, face(float64(band)*0.13, false))
	}

	small := face(float64(band)*0.09, false)
	bottomY := side + band - band*14/100
	coords := fmt.Sprintf("%.5f, %.5f", opts.Lat, opts.Lng)
	drawText(canvas, coords, marginX, bottomY, pal.secondary, small)

	if attribution := strings.TrimSpace(opts.Attribution); attribution != "" {
		w := font.MeasureString(small, attribution).Ceil()
		drawText(canvas, attribution, side-marginX-w, bottomY, pal.secondary, small)
	}

	return canvas
}

func drawText(dst draw.Image, text string, x, y int, c color.NRGBA, f font.Face) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: f,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
