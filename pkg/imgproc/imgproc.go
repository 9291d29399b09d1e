// Package imgproc prepares catalog images for label layout.
//
// Catalog renders come with a generous uniform background border around the
// part. [CropBorder] trims it so the layout engine scales the part itself,
// not its padding. [Decode] handles the image formats the catalog serves
// (JPEG, PNG, GIF).
package imgproc

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/bricklabels/pkg/errors"
)

// Decode reads and decodes an image from r.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode image")
	}
	return img, nil
}

// Normalize converts an image to NRGBA, the pixel format the rest of the
// pipeline works in.
func Normalize(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// CropBorder removes the uniform-colored border around an image.
//
// The border color is taken from the top-left pixel. Rows and columns are
// trimmed edge by edge (top, bottom, left, right) while they consist
// entirely of that color. An image that is one uniform color is returned
// unchanged rather than cropped to nothing.
func CropBorder(img image.Image) *image.NRGBA {
	src := Normalize(img)
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return src
	}

	bg := src.NRGBAAt(b.Min.X, b.Min.Y)
	top, bottom := b.Min.Y, b.Max.Y
	left, right := b.Min.X, b.Max.X

	for top < bottom && uniformRow(src, top, left, right, bg) {
		top++
	}
	if top == bottom {
		// Entire image is the border color.
		return src
	}
	for bottom-1 > top && uniformRow(src, bottom-1, left, right, bg) {
		bottom--
	}
	for left < right && uniformCol(src, left, top, bottom, bg) {
		left++
	}
	for right-1 > left && uniformCol(src, right-1, top, bottom, bg) {
		right--
	}

	return imaging.Crop(src, image.Rect(left, top, right, bottom))
}

func uniformRow(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) bool {
	for x := x0; x < x1; x++ {
		if img.NRGBAAt(x, y) != c {
			return false
		}
	}
	return true
}

func uniformCol(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) bool {
	for y := y0; y < y1; y++ {
		if img.NRGBAAt(x, y) != c {
			return false
		}
	}
	return true
}
