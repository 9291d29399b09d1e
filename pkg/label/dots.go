package label

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// overflowIndicator synthesizes the dot-dot-dot marker that stands in for
// items that did not fit.
//
// The marker is three filled circles of diameter d on a white strip of
// 4d+1 by d+1 pixels, where d is the configured dot size. It is centered
// vertically on a panel of the content box height, so the panel competes
// for width like any real item. On portrait labels the marker is rotated
// into the canonical space, giving a vertical dot column of width d+1.
func (l *Label) overflowIndicator() *image.NRGBA {
	d := float64(l.dotSize)

	dc := gg.NewContext(l.dotSize*4+1, l.dotSize+1)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	for _, cx := range []float64{d / 2, 2 * d, 3.5 * d} {
		dc.DrawCircle(cx, d/2, d/2)
		dc.Fill()
	}

	marker := imaging.Clone(dc.Image())
	width := l.dotSize*4 + 1
	if l.rotated {
		marker = imaging.Rotate90(marker)
		width = l.dotSize + 1
	}

	panel := imaging.New(width, l.box.Dy(), color.White)
	offset := image.Pt(0, panel.Bounds().Dy()/2-marker.Bounds().Dy()/2)
	return imaging.Paste(panel, marker, offset)
}
