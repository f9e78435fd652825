package poster

import (
	"image"
	"image/draw"
	"strings"
)

// Theme is a named visual treatment applied to the map raster before the
// text band is composed.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeNeon  Theme = "neon"
)

// NormalizeTheme sanitizes free-form user input into a supported theme.
func NormalizeTheme(theme string, fallback Theme) Theme {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case string(ThemeLight):
		return ThemeLight
	case string(ThemeDark):
		return ThemeDark
	case string(ThemeNeon):
		return ThemeNeon
	default:
		return fallback
	}
}

const (
	darkOverlayAlpha = 135
	neonOverlayAlpha = 160
	// Neon tint: pull green slightly, push blue, for a cooler cast.
	neonGreenScale = 0.95
	neonBlueScale  = 1.10
)

// ApplyTheme returns a themed copy of src. It is a pure function of the
// pixel data: the same input always yields byte-identical output, and src is
// never modified.
func ApplyTheme(src image.Image, theme Theme) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)

	switch theme {
	case ThemeDark:
		darken(out, darkOverlayAlpha)
	case ThemeNeon:
		darken(out, neonOverlayAlpha)
		tint(out, 1.0, neonGreenScale, neonBlueScale)
	}
	return out
}

// darken composites a semi-transparent black overlay over the image:
// each channel becomes c * (255-alpha) / 255.
func darken(img *image.RGBA, alpha uint32) {
	keep := 255 - alpha
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = uint8(uint32(img.Pix[i+0]) * keep / 255)
		img.Pix[i+1] = uint8(uint32(img.Pix[i+1]) * keep / 255)
		img.Pix[i+2] = uint8(uint32(img.Pix[i+2]) * keep / 255)
	}
}

// tint scales each channel independently, clamping to the valid range.
func tint(img *image.RGBA, r, g, b float64) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = clamp8(float64(img.Pix[i+0]) * r)
		img.Pix[i+1] = clamp8(float64(img.Pix[i+1]) * g)
		img.Pix[i+2] = clamp8(float64(img.Pix[i+2]) * b)
	}
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
