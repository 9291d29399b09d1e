// Package label implements the label surface and its layout engine.
//
// A [Label] is a fixed-size printable raster composed of part images
// (and/or a text caption) stacked along the label's long axis. Images are
// scaled to a common row height, as many as fit are packed within the
// usable width, and a dot-dot-dot indicator stands in for items that
// don't fit.
//
// # Lifecycle
//
// A Label moves through three states:
//
//	Empty ──AddImage/AddText──▶ Configured ──Layout──▶ LaidOut
//
// Margins and spacing are mutable until [Label.Layout] runs; the raster
// is written exactly once by the layout pass and is read-only afterwards
// via [Label.Image], [Label.Save] or [Label.Preview]. Calling Layout a
// second time is an error, as is reading the raster before layout.
//
// # Orientation
//
// Physical dimensions are canonicalized so the larger one is always the
// internal width: a portrait label (height > width) is processed in
// landscape and rotated back on output. Added images are rotated into the
// canonical space on ingestion, keeping the layout engine itself
// orientation-agnostic.
package label

import (
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/bricklabels/pkg/errors"
	"github.com/matzehuels/bricklabels/pkg/units"
)

type state int

const (
	stateEmpty state = iota
	stateConfigured
	stateLaidOut
)

// Default physical parameters, matching common 25mm label tape at 300 dpi.
const (
	DefaultDPI       = 300
	DefaultDotSizeMM = 2.0
)

// Label is a printable label surface. Create one with [New], add items
// with [Label.AddImage] and [Label.AddText], lay it out once with
// [Label.Layout], then read the finished raster.
type Label struct {
	conv    units.Converter
	width   int  // canonical width in px, always the larger dimension
	height  int  // canonical height in px
	rotated bool // true when the requested orientation was portrait

	box     image.Rectangle // content box inside the margins, canonical space
	spacing int
	dotSize int

	items  []labelItem
	canvas *image.NRGBA
	state  state
}

// labelItem is one entry in the placement sequence: either a raster added
// via AddImage, or caption text that is rendered during the layout pass so
// it is sized against the content box in effect then.
type labelItem struct {
	img  *image.NRGBA
	text string
}

// Option configures a Label at construction time.
type Option func(*config)

type config struct {
	dpi     int
	margins units.Margins
	spacing float64
	dotSize float64
}

// WithDPI sets the raster resolution in dots per inch (default 300).
func WithDPI(dpi int) Option {
	return func(c *config) { c.dpi = dpi }
}

// WithMargins sets the label margins in millimeters (default zero).
func WithMargins(m units.Margins) Option {
	return func(c *config) { c.margins = m }
}

// WithSpacing sets the gap between placed items in millimeters (default zero).
func WithSpacing(mm float64) Option {
	return func(c *config) { c.spacing = mm }
}

// WithDotSize sets the diameter in millimeters of the dots in the
// overflow indicator (default 2).
func WithDotSize(mm float64) Option {
	return func(c *config) { c.dotSize = mm }
}

// New creates a Label with the given physical size in millimeters.
//
// If heightMM is larger than widthMM the label is treated internally as
// landscape and rotated back when the finished raster is read. Returns an
// [errors.ErrCodeInvalidConfig] error for non-positive dimensions or
// margins that leave no usable content area.
func New(widthMM, heightMM float64, opts ...Option) (*Label, error) {
	if widthMM <= 0 || heightMM <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"label size %vx%v mm: dimensions must be positive", widthMM, heightMM)
	}

	cfg := config{dpi: DefaultDPI, dotSize: DefaultDotSizeMM}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.dpi <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "resolution %d dpi: must be positive", cfg.dpi)
	}

	rotated := heightMM > widthMM
	if rotated {
		widthMM, heightMM = heightMM, widthMM
	}

	conv := units.NewConverter(cfg.dpi)
	l := &Label{
		conv:    conv,
		width:   conv.ToPixels(widthMM),
		height:  conv.ToPixels(heightMM),
		rotated: rotated,
		dotSize: conv.ToPixels(cfg.dotSize),
	}
	l.canvas = imaging.New(l.width, l.height, color.White)

	if err := l.SetMargins(cfg.margins); err != nil {
		return nil, err
	}
	l.SetSpacing(cfg.spacing)
	return l, nil
}

// Rotated reports whether the label was requested in portrait orientation.
func (l *Label) Rotated() bool { return l.rotated }

// ContentBox returns the usable rectangle inside the margins, in canonical
// (landscape) pixel space.
func (l *Label) ContentBox() image.Rectangle { return l.box }

// SetMargins recomputes the content box from the current physical size and
// the given margins in millimeters.
//
// Fails with [errors.ErrCodeInvalidConfig] when the margins leave a usable
// width or height of zero or less, and with [errors.ErrCodeAlreadyMade]
// after the layout pass has run.
func (l *Label) SetMargins(m units.Margins) error {
	if l.state == stateLaidOut {
		return errors.New(errors.ErrCodeAlreadyMade, "margins are immutable after layout")
	}

	px := m.ToPixels(l.conv)
	// Check the usable size before building the Rect: image.Rect swaps a
	// flipped rectangle into canonical form, which would hide crushed
	// margins behind a positive Dx.
	usableW := l.width - px.Left - px.Right
	usableH := l.height - px.Top - px.Bottom
	if usableW <= 0 || usableH <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"margins %+v leave no usable area on a %dx%d px label", m, l.width, l.height)
	}
	l.box = image.Rect(px.Left, px.Top, l.width-px.Right, l.height-px.Bottom)
	return nil
}

// SetSpacing sets the gap between placed items in millimeters.
// Zero is valid; negative spacing is a caller error and is not guarded.
func (l *Label) SetSpacing(mm float64) {
	l.spacing = l.conv.ToPixels(mm)
}

// AddImage appends an image to the placement sequence. Order is preserved:
// items appear on the label in the order they were added.
//
// The image is copied into the label's pixel format; the caller's image is
// never mutated. For portrait labels the copy is rotated into the internal
// landscape space. Fails with [errors.ErrCodeAlreadyMade] after layout.
func (l *Label) AddImage(img image.Image) error {
	if l.state == stateLaidOut {
		return errors.New(errors.ErrCodeAlreadyMade, "items cannot be added after layout")
	}

	item := imaging.Clone(img)
	if l.rotated {
		item = imaging.Rotate90(item)
	}
	l.items = append(l.items, labelItem{img: item})
	l.state = stateConfigured
	return nil
}

// AddText appends a text caption to the placement sequence. The caption is
// rendered during [Label.Layout] at the content box height in effect then,
// so it occupies a slot like any image but is not rescaled further. Margin
// changes between AddText and Layout are therefore honored.
func (l *Label) AddText(text string) error {
	if l.state == stateLaidOut {
		return errors.New(errors.ErrCodeAlreadyMade, "items cannot be added after layout")
	}
	if text == "" {
		return errors.New(errors.ErrCodeInvalidInput, "caption text cannot be empty")
	}

	l.items = append(l.items, labelItem{text: text})
	l.state = stateConfigured
	return nil
}

// Image returns the finished label raster in the originally requested
// orientation. Fails with [errors.ErrCodeNotReady] before a successful
// [Label.Layout].
func (l *Label) Image() (image.Image, error) {
	if l.state != stateLaidOut {
		return nil, errors.New(errors.ErrCodeNotReady, "label has not been laid out")
	}
	if l.rotated {
		return imaging.Rotate270(l.canvas), nil
	}
	return imaging.Clone(l.canvas), nil
}

// Save writes the finished label to path. The image format is derived from
// the file extension (.png, .jpg, ...). Same failure contract as
// [Label.Image].
func (l *Label) Save(path string) error {
	img, err := l.Image()
	if err != nil {
		return err
	}
	return imaging.Save(img, path)
}

// Preview writes the finished label to a temporary PNG file and returns
// its path, so callers can hand it to an image viewer. Same failure
// contract as [Label.Image].
func (l *Label) Preview() (string, error) {
	img, err := l.Image()
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "bricklabels-*.png")
	if err != nil {
		return "", err
	}
	f.Close()
	if err := imaging.Save(img, f.Name()); err != nil {
		return "", err
	}
	return f.Name(), nil
}
