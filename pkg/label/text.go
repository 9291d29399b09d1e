package label

import (
	"image"
	"image/color"
	"math"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/flopp/go-findfont"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/matzehuels/bricklabels/pkg/errors"
)

// Caption rendering uses a system font located at runtime. The ratio
// leaves breathing room above and below the glyphs.
const (
	captionHeightRatio = 0.6
	captionPaddingPx   = 8
)

// fontCandidates are tried in order; the first one findfont locates wins.
var fontCandidates = []string{
	"DejaVuSans.ttf",
	"LiberationSans-Regular.ttf",
	"Arial.ttf",
	"Helvetica.ttf",
}

var (
	loadFontOnce sync.Once
	loadedFont   *truetype.Font
	loadFontErr  error
)

// systemFont locates and parses a usable TTF once per process.
func systemFont() (*truetype.Font, error) {
	loadFontOnce.Do(func() {
		for _, name := range fontCandidates {
			path, err := findfont.Find(name)
			if err != nil {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			f, err := truetype.Parse(data)
			if err != nil {
				continue
			}
			loadedFont = f
			return
		}
		loadFontErr = errors.New(errors.ErrCodeUnsupported,
			"no usable system font found (tried %v)", fontCandidates)
	})
	return loadedFont, loadFontErr
}

// renderText draws a caption into an image of exactly heightPx pixels,
// wide enough for the measured string plus padding. Black text on a white
// background, vertically and horizontally centered.
func renderText(text string, heightPx int) (*image.NRGBA, error) {
	if heightPx <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"caption height %d px, must be positive", heightPx)
	}

	ttf, err := systemFont()
	if err != nil {
		return nil, err
	}

	size := float64(heightPx) * captionHeightRatio
	var face font.Face = truetype.NewFace(ttf, &truetype.Options{Size: size})

	measure := gg.NewContext(1, 1)
	measure.SetFontFace(face)
	textWidth, _ := measure.MeasureString(text)
	width := int(math.Ceil(textWidth)) + 2*captionPaddingPx

	dc := gg.NewContext(width, heightPx)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)
	dc.SetFontFace(face)
	dc.DrawStringAnchored(text, float64(width)/2, float64(heightPx)/2, 0.5, 0.5)

	return imaging.Clone(dc.Image()), nil
}
