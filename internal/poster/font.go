package poster

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Font acquisition is best effort: a failure to parse or size the bundled
// TTFs degrades to the fixed bitmap face and never fails a render.

var (
	fontOnce    sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
)

func loadFonts() {
	fontOnce.Do(func() {
		if f, err := opentype.Parse(goregular.TTF); err == nil {
			regularFont = f
		}
		if f, err := opentype.Parse(gobold.TTF); err == nil {
			boldFont = f
		}
	})
}

// face returns a font face at the given pixel size, falling back to
// basicfont.Face7x13 when the scalable fonts are unavailable. Only the
// parsed fonts are shared: an opentype.Face mutates rasterizer state while
// drawing and must not be used from more than one goroutine, so every call
// builds a fresh face.
func face(size float64, bold bool) font.Face {
	loadFonts()

	src := regularFont
	if bold && boldFont != nil {
		src = boldFont
	}
	if src == nil {
		return basicfont.Face7x13
	}

	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return f
}
