// Package rebrickable provides access to the Rebrickable catalog API.
//
// The client fetches part metadata and part images, with two layers of
// caching: JSON metadata goes through a pkg/httputil file cache, raw image
// bytes through a pkg/cache backend. Transient HTTP failures are retried
// with exponential backoff.
//
// All methods are safe for concurrent use by multiple goroutines.
package rebrickable

import (
	"context"
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/bricklabels/pkg/cache"
	"github.com/matzehuels/bricklabels/pkg/errors"
	"github.com/matzehuels/bricklabels/pkg/httputil"
	"github.com/matzehuels/bricklabels/pkg/imgproc"
)

// DefaultBaseURL is the production Rebrickable API endpoint.
const DefaultBaseURL = "https://rebrickable.com/api/v3"

// PartInfo holds metadata for a part from the Rebrickable catalog.
//
// Zero values: all string fields are empty, year fields zero. PartImgURL
// may legitimately be empty for parts without a catalog render; callers
// that need an image should treat that as [errors.ErrCodeNoImage].
// This struct is safe for concurrent reads after construction.
type PartInfo struct {
	PartNum    string `json:"part_num"`
	Name       string `json:"name"`
	PartImgURL string `json:"part_img_url"`
	PartURL    string `json:"part_url"`
	YearFrom   int    `json:"year_from"`
	YearTo     int    `json:"year_to"`
}

// Client provides access to the Rebrickable catalog API.
type Client struct {
	http    *http.Client
	meta    *httputil.Cache
	images  cache.Cache
	baseURL string
	apiKey  string
	imgTTL  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests to point the
// client at an httptest server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMetadataCache sets the cache for JSON part metadata.
func WithMetadataCache(mc *httputil.Cache) Option {
	return func(c *Client) { c.meta = mc }
}

// WithImageCache sets the cache backend for raw image bytes and its TTL.
// A TTL of 0 keeps images forever; catalog renders are immutable so that
// is the default.
func WithImageCache(ic cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.images = ic
		c.imgTTL = ttl
	}
}

// NewClient creates a catalog client authenticated with the given API key.
//
// Without options the client uses the production endpoint, a 30-second
// HTTP timeout, and no caching (a nil metadata cache and a NullCache for
// images). The CLI wires file-backed caches in.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		images:  cache.NewNullCache(),
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Part retrieves metadata for a part.
//
// If refresh is true, the metadata cache is bypassed and a fresh API call
// is made. Returns:
//   - [errors.ErrCodePartNotFound] if the part doesn't exist
//   - [errors.ErrCodeUnauthorized] for a rejected API key
//   - [errors.ErrCodeNetwork] for HTTP failures (after retries)
func (c *Client) Part(ctx context.Context, num string, refresh bool) (*PartInfo, error) {
	if err := errors.ValidatePartNumber(num); err != nil {
		return nil, err
	}

	var info PartInfo
	if c.meta != nil && !refresh {
		if ok, _ := c.meta.Get(num, &info); ok {
			return &info, nil
		}
	}

	url := fmt.Sprintf("%s/lego/parts/%s/", c.baseURL, num)
	err := httputil.RetryWithBackoff(ctx, func() error {
		return c.getJSON(ctx, url, &info)
	})
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return nil, errors.New(errors.ErrCodePartNotFound, "part %s not found in catalog", num)
		}
		return nil, err
	}

	if c.meta != nil {
		_ = c.meta.Set(num, info)
	}
	return &info, nil
}

// PartImage retrieves the catalog render for a part, decoded and ready for
// layout. The raw bytes are cached so repeated generator runs stay offline.
//
// Returns [errors.ErrCodeNoImage] when the catalog has no render for the
// part, in addition to the errors [Client.Part] can return.
func (c *Client) PartImage(ctx context.Context, num string, refresh bool) (image.Image, error) {
	key := "img:" + num

	if !refresh {
		if data, ok, _ := c.images.Get(ctx, key); ok {
			return imgproc.Decode(bytes.NewReader(data))
		}
	}

	info, err := c.Part(ctx, num, refresh)
	if err != nil {
		return nil, err
	}
	if info.PartImgURL == "" {
		return nil, errors.New(errors.ErrCodeNoImage, "part %s has no catalog image", num)
	}

	var data []byte
	err = httputil.RetryWithBackoff(ctx, func() error {
		var ferr error
		data, ferr = c.getBytes(ctx, info.PartImgURL)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	img, err := imgproc.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	_ = c.images.Set(ctx, key, data, c.imgTTL)
	return img, nil
}

// getJSON performs an authenticated GET and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	body, err := c.do(ctx, url, map[string]string{
		"Accept":        "application/json",
		"Authorization": "key " + c.apiKey,
	})
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode API response")
	}
	return nil
}

// getBytes performs an unauthenticated GET and returns the raw body.
// Image URLs point at the Rebrickable CDN, which takes no API key.
func (c *Client) getBytes(ctx context.Context, url string) ([]byte, error) {
	body, err := c.do(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (c *Client) do(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "request %s", url)}
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "not found")
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.New(errors.ErrCodeUnauthorized, "API key rejected (status %d)", code)
	case code == http.StatusTooManyRequests:
		return &httputil.RetryableError{Err: &errors.RateLimitedError{}}
	case code >= 500:
		return &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "status %d", code)}
	default:
		return errors.New(errors.ErrCodeNetwork, "status %d", code)
	}
}
