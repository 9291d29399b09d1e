package cli

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testEncodedPages(t *testing.T, n int) [][]byte {
	t.Helper()
	pages := make([]image.Image, n)
	for i := range pages {
		pages[i] = image.NewNRGBA(image.Rect(0, 0, 10, 10))
	}
	encoded, err := encodePages(pages)
	if err != nil {
		t.Fatalf("encodePages() error: %v", err)
	}
	return encoded
}

func TestPageRouterIndex(t *testing.T) {
	handler := pageRouter(testEncodedPages(t, 2))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"/pages/1.png", "/pages/2.png"} {
		if !bytes.Contains([]byte(body), []byte(want)) {
			t.Errorf("index should reference %s", want)
		}
	}
}

func TestPageRouterServesPNG(t *testing.T) {
	handler := pageRouter(testEncodedPages(t, 1))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pages/1.png", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /pages/1.png status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("response is not a valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 10 {
		t.Errorf("decoded width = %d, want 10", img.Bounds().Dx())
	}
}

func TestPageRouterOutOfRange(t *testing.T) {
	handler := pageRouter(testEncodedPages(t, 1))

	for _, path := range []string{"/pages/0.png", "/pages/2.png", "/pages/x.png"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, rec.Code)
		}
	}
}
