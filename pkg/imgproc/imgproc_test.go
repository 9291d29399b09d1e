package imgproc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

var (
	white = color.NRGBA{255, 255, 255, 255}
	red   = color.NRGBA{200, 30, 30, 255}
)

// framed builds an image of the given size filled with bg, with a centered
// content rectangle filled with fg.
func framed(w, h int, content image.Rectangle, bg, fg color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if image.Pt(x, y).In(content) {
				img.SetNRGBA(x, y, fg)
			} else {
				img.SetNRGBA(x, y, bg)
			}
		}
	}
	return img
}

func TestCropBorder(t *testing.T) {
	tests := []struct {
		name    string
		img     *image.NRGBA
		wantW   int
		wantH   int
	}{
		{
			name:  "symmetric border",
			img:   framed(20, 20, image.Rect(5, 5, 15, 15), white, red),
			wantW: 10, wantH: 10,
		},
		{
			name:  "asymmetric border",
			img:   framed(30, 20, image.Rect(2, 7, 12, 18), white, red),
			wantW: 10, wantH: 11,
		},
		{
			name:  "no border",
			img:   framed(8, 8, image.Rect(0, 0, 8, 8), white, red),
			wantW: 8, wantH: 8,
		},
		{
			name:  "uniform image returned unchanged",
			img:   framed(10, 10, image.Rect(0, 0, 0, 0), white, red),
			wantW: 10, wantH: 10,
		},
		{
			name:  "single content pixel",
			img:   framed(9, 9, image.Rect(4, 4, 5, 5), white, red),
			wantW: 1, wantH: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CropBorder(tt.img)
			b := got.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("CropBorder() size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCropBorderKeepsContent(t *testing.T) {
	img := framed(20, 20, image.Rect(5, 5, 15, 15), white, red)
	got := CropBorder(img)

	b := got.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if got.NRGBAAt(x, y) != red {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got.NRGBAAt(x, y), red)
			}
		}
	}
}

func TestDecode(t *testing.T) {
	src := framed(12, 12, image.Rect(3, 3, 9, 9), white, red)
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 12 {
		t.Errorf("Decode() size = %v", img.Bounds())
	}
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")))
	if err == nil {
		t.Fatal("Decode() = nil error for garbage input")
	}
}
