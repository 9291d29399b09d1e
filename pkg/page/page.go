// Package page flows finished labels onto fixed-size printable pages.
//
// Labels are placed left to right, top to bottom inside the page margins,
// with a configurable gutter between them. When a label no longer fits on
// the current row it wraps; when it no longer fits on the page, a new
// page is started. Label order is preserved across pages.
package page

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/bricklabels/pkg/errors"
	"github.com/matzehuels/bricklabels/pkg/units"
)

// DefaultGutterMM is the gap between neighboring labels on a page.
const DefaultGutterMM = 2.0

// Sheet accumulates labels and breaks them into pages.
type Sheet struct {
	conv   units.Converter
	width  int // page width in px
	height int // page height in px
	box    image.Rectangle
	gutter int

	pages   []*image.NRGBA
	current *image.NRGBA
	x, y    int // next placement position
	rowH    int // height of the tallest label in the current row
}

// Option configures a Sheet.
type Option func(*sheetConfig)

type sheetConfig struct {
	dpi     int
	margins units.Margins
	gutter  float64
}

// WithDPI sets the page resolution in dots per inch (default 300).
func WithDPI(dpi int) Option {
	return func(c *sheetConfig) { c.dpi = dpi }
}

// WithMargins sets the page margins in millimeters (default zero).
func WithMargins(m units.Margins) Option {
	return func(c *sheetConfig) { c.margins = m }
}

// WithGutter sets the gap between labels in millimeters (default 2).
func WithGutter(mm float64) Option {
	return func(c *sheetConfig) { c.gutter = mm }
}

// NewSheet creates a sheet with the given physical page size in millimeters.
func NewSheet(widthMM, heightMM float64, opts ...Option) (*Sheet, error) {
	if widthMM <= 0 || heightMM <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"page size %vx%v mm: dimensions must be positive", widthMM, heightMM)
	}

	cfg := sheetConfig{dpi: 300, gutter: DefaultGutterMM}
	for _, opt := range opts {
		opt(&cfg)
	}

	conv := units.NewConverter(cfg.dpi)
	s := &Sheet{
		conv:   conv,
		width:  conv.ToPixels(widthMM),
		height: conv.ToPixels(heightMM),
		gutter: conv.ToPixels(cfg.gutter),
	}

	px := cfg.margins.ToPixels(conv)
	// Check the usable size before building the Rect: image.Rect swaps a
	// flipped rectangle into canonical form, which would hide crushed
	// margins behind a positive Dx.
	usableW := s.width - px.Left - px.Right
	usableH := s.height - px.Top - px.Bottom
	if usableW <= 0 || usableH <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"page margins %+v leave no usable area on a %dx%d px page", cfg.margins, s.width, s.height)
	}
	s.box = image.Rect(px.Left, px.Top, s.width-px.Right, s.height-px.Bottom)
	return s, nil
}

// Add places one label raster onto the sheet, wrapping rows and starting
// new pages as needed. Fails with [errors.ErrCodeInvalidConfig] when the
// label is larger than the usable page area.
func (s *Sheet) Add(label image.Image) error {
	b := label.Bounds()
	if b.Dx() > s.box.Dx() || b.Dy() > s.box.Dy() {
		return errors.New(errors.ErrCodeInvalidConfig,
			"label %dx%d px exceeds usable page area %dx%d px",
			b.Dx(), b.Dy(), s.box.Dx(), s.box.Dy())
	}

	if s.current == nil {
		s.newPage()
	}
	if s.x+b.Dx() > s.box.Max.X {
		s.wrapRow()
	}
	if s.y+b.Dy() > s.box.Max.Y {
		s.newPage()
	}

	s.current = imaging.Paste(s.current, imaging.Clone(label), image.Pt(s.x, s.y))
	s.pages[len(s.pages)-1] = s.current
	s.x += b.Dx() + s.gutter
	if b.Dy() > s.rowH {
		s.rowH = b.Dy()
	}
	return nil
}

// Pages returns the composited pages in order. The result is empty when no
// labels were added.
func (s *Sheet) Pages() []image.Image {
	out := make([]image.Image, len(s.pages))
	for i, p := range s.pages {
		out[i] = p
	}
	return out
}

func (s *Sheet) newPage() {
	s.current = imaging.New(s.width, s.height, color.White)
	s.pages = append(s.pages, s.current)
	s.x, s.y = s.box.Min.X, s.box.Min.Y
	s.rowH = 0
}

func (s *Sheet) wrapRow() {
	s.x = s.box.Min.X
	s.y += s.rowH + s.gutter
	s.rowH = 0
}
