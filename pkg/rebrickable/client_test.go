package rebrickable

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/bricklabels/pkg/cache"
	"github.com/matzehuels/bricklabels/pkg/errors"
	"github.com/matzehuels/bricklabels/pkg/httputil"
)

// testServer serves a minimal slice of the catalog API: one known part with
// an image hosted on the same server.
func testServer(t *testing.T, imgRequests *int) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/lego/parts/3005/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "key test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprintf(w, `{"part_num":"3005","name":"Brick 1 x 1","part_img_url":"%s/media/3005.png","year_from":1968,"year_to":2026}`, srv.URL)
	})
	mux.HandleFunc("/lego/parts/9999/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/lego/parts/77777/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"part_num":"77777","name":"Unreleased","part_img_url":""}`)
	})
	mux.HandleFunc("/media/3005.png", func(w http.ResponseWriter, r *http.Request) {
		if imgRequests != nil {
			*imgRequests++
		}
		img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
		for i := range img.Pix {
			img.Pix[i] = 0xFF
		}
		img.SetNRGBA(2, 2, color.NRGBA{200, 30, 30, 255})
		var buf bytes.Buffer
		png.Encode(&buf, img)
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, imgCache cache.Cache) *Client {
	t.Helper()
	meta, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}
	if imgCache == nil {
		imgCache = cache.NewNullCache()
	}
	return NewClient("test-key",
		WithBaseURL(srv.URL),
		WithMetadataCache(meta),
		WithImageCache(imgCache, 0),
	)
}

func TestPart(t *testing.T) {
	srv := testServer(t, nil)
	c := newTestClient(t, srv, nil)

	info, err := c.Part(context.Background(), "3005", false)
	if err != nil {
		t.Fatalf("Part() failed: %v", err)
	}
	if info.Name != "Brick 1 x 1" {
		t.Errorf("Name = %q, want %q", info.Name, "Brick 1 x 1")
	}
	if info.PartImgURL == "" {
		t.Error("PartImgURL is empty")
	}
}

func TestPartNotFound(t *testing.T) {
	srv := testServer(t, nil)
	c := newTestClient(t, srv, nil)

	_, err := c.Part(context.Background(), "9999", false)
	if !errors.Is(err, errors.ErrCodePartNotFound) {
		t.Fatalf("Part() error = %v, want PART_NOT_FOUND", err)
	}
}

func TestPartBadKey(t *testing.T) {
	srv := testServer(t, nil)
	meta, _ := httputil.NewCache(t.TempDir(), time.Hour)
	c := NewClient("wrong-key", WithBaseURL(srv.URL), WithMetadataCache(meta))

	_, err := c.Part(context.Background(), "3005", false)
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Fatalf("Part() error = %v, want UNAUTHORIZED", err)
	}
}

func TestPartInvalidNumber(t *testing.T) {
	srv := testServer(t, nil)
	c := newTestClient(t, srv, nil)

	_, err := c.Part(context.Background(), "../etc/passwd", false)
	if !errors.Is(err, errors.ErrCodeInvalidPart) {
		t.Fatalf("Part() error = %v, want INVALID_PART", err)
	}
}

func TestPartMetadataCached(t *testing.T) {
	srv := testServer(t, nil)
	c := newTestClient(t, srv, nil)
	ctx := context.Background()

	if _, err := c.Part(ctx, "3005", false); err != nil {
		t.Fatalf("Part() failed: %v", err)
	}
	srv.Close() // second call must be served from cache

	info, err := c.Part(ctx, "3005", false)
	if err != nil {
		t.Fatalf("cached Part() failed: %v", err)
	}
	if info.PartNum != "3005" {
		t.Errorf("PartNum = %q", info.PartNum)
	}
}

func TestPartImage(t *testing.T) {
	srv := testServer(t, nil)
	c := newTestClient(t, srv, nil)

	img, err := c.PartImage(context.Background(), "3005", false)
	if err != nil {
		t.Fatalf("PartImage() failed: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("image size = %v, want 4x4", img.Bounds())
	}
}

func TestPartImageCached(t *testing.T) {
	requests := 0
	srv := testServer(t, &requests)
	imgCache, _ := cache.NewFileCache(t.TempDir())
	c := newTestClient(t, srv, imgCache)
	ctx := context.Background()

	if _, err := c.PartImage(ctx, "3005", false); err != nil {
		t.Fatalf("PartImage() failed: %v", err)
	}
	if _, err := c.PartImage(ctx, "3005", false); err != nil {
		t.Fatalf("second PartImage() failed: %v", err)
	}
	if requests != 1 {
		t.Errorf("image downloads = %d, want 1 (second hit should come from cache)", requests)
	}
}

func TestPartImageNoRender(t *testing.T) {
	srv := testServer(t, nil)
	c := newTestClient(t, srv, nil)

	_, err := c.PartImage(context.Background(), "77777", false)
	if !errors.Is(err, errors.ErrCodeNoImage) {
		t.Fatalf("PartImage() error = %v, want NO_IMAGE", err)
	}
}
