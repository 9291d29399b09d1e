// Package httputil provides HTTP utilities for the catalog client.
//
// # Overview
//
// This package provides the infrastructure the Rebrickable client builds on:
//
//   - [Cache]: File-based caching of JSON API responses
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores API responses in the filesystem (~/.cache/bricklabels/)
// with configurable TTL. Part metadata rarely changes, so long TTLs are
// safe and keep repeated generator runs off the network entirely.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	var info PartInfo
//	if ok, _ := cache.Get("part:3005", &info); !ok {
//	    info = fetchFromAPI()
//	    cache.Set("part:3005", info)
//	}
//
// Cache keys should be namespaced to avoid collisions (e.g. "part:3005"
// vs "color:1").
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// The cache can be cleared via `bricklabels cache clear` or by deleting
// the cache directory.
package httputil
