package label

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/bricklabels/pkg/errors"
)

// Layout scales and places the added items onto the label raster.
//
// Every item gets a scale factor normalizing it to the content box height.
// A greedy scan determines how many leading items fit within the usable
// width; when not all do, the trailing items are replaced by the overflow
// indicator, and real items are dropped one by one until the placement
// fits. The placed block is centered horizontally.
//
// Layout fails with [errors.ErrCodeNoItems] when nothing was added, with
// [errors.ErrCodeInvalidConfig] when the content box is degenerate, and
// with [errors.ErrCodeAlreadyMade] when called twice. On failure the
// raster is left untouched and the label stays not-ready.
func (l *Label) Layout() error {
	if l.state == stateLaidOut {
		return errors.New(errors.ErrCodeAlreadyMade, "label is already laid out")
	}
	if len(l.items) == 0 {
		return errors.New(errors.ErrCodeNoItems, "no items added to label")
	}

	maxWidth := l.box.Dx()
	maxHeight := l.box.Dy()
	if maxWidth <= 0 || maxHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"content box is %dx%d px, must be positive", maxWidth, maxHeight)
	}

	// Render pending captions now so they are sized against the content
	// box that is actually in effect, not the one at add time.
	for i := range l.items {
		if l.items[i].img != nil {
			continue
		}
		caption, err := renderText(l.items[i].text, maxHeight)
		if err != nil {
			return err
		}
		if l.rotated {
			caption = imaging.Rotate90(caption)
		}
		l.items[i].img = caption
	}

	// Scale each item to the content box height; width follows.
	factors := make([]float64, len(l.items))
	for i, item := range l.items {
		factors[i] = float64(maxHeight) / float64(item.img.Bounds().Dy())
	}

	fit := l.fitCount(factors, maxWidth)
	placed := make([]*image.NRGBA, 0, fit+1)
	for _, item := range l.items[:fit] {
		placed = append(placed, item.img)
	}
	factors = factors[:fit]

	if fit < len(l.items) {
		// Overflow: the indicator takes the last slot at fixed scale 1
		// and is never dropped. Shrink by removing the last real item
		// until the placement fits; the indicator was sized against the
		// content box, so the loop terminates with at worst only the
		// indicator left.
		placed = append(placed, l.overflowIndicator())
		factors = append(factors, 1)
		for totalScaledWidth(placed, factors, l.spacing) > maxWidth && len(placed) > 1 {
			placed = append(placed[:len(placed)-2], placed[len(placed)-1])
			factors = append(factors[:len(factors)-2], factors[len(factors)-1])
		}
	}

	total := totalScaledWidth(placed, factors, l.spacing)
	x := l.box.Min.X + int(math.Floor(float64(maxWidth)/2-float64(total)/2))
	y := l.box.Min.Y

	for i, item := range placed {
		w := scaledSize(item.Bounds().Dx(), factors[i])
		h := scaledSize(item.Bounds().Dy(), factors[i])
		resized := imaging.Resize(item, w, h, imaging.Lanczos)
		draw.Draw(l.canvas, image.Rect(x, y, x+w, y+h), resized, resized.Bounds().Min, draw.Over)
		x += w + l.spacing
	}

	l.state = stateLaidOut
	return nil
}

// fitCount returns the number of leading items that fit within width.
// The scan subtracts each item's scaled width and the spacing after it;
// the first item that exhausts the budget is the first that does not fit.
// It uses the same rounded widths as placement, so an approved prefix can
// never round up past the width the scan checked against.
func (l *Label) fitCount(factors []float64, width int) int {
	remaining := width
	for i, item := range l.items {
		remaining -= scaledSize(item.img.Bounds().Dx(), factors[i])
		if remaining <= 0 {
			return i
		}
		remaining -= l.spacing
	}
	return len(l.items)
}

// totalScaledWidth is the width of the placement: the sum of rounded
// scaled item widths plus the interior spacing.
func totalScaledWidth(items []*image.NRGBA, factors []float64, spacing int) int {
	total := 0
	for i, item := range items {
		total += scaledSize(item.Bounds().Dx(), factors[i])
	}
	return total + spacing*(len(items)-1)
}

func scaledSize(n int, factor float64) int {
	return int(math.Round(float64(n) * factor))
}
