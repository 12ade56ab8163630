/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/mikeb26/boylstonchessclub-brackets/store"
)

// NewCachedHttpClient returns an http.Client that caches responses in the
// given S3 bucket for maxAge regardless of what the origin says. If the bucket
// cannot be reached it falls back to an in-memory cache.
func NewCachedHttpClient(ctx context.Context, bucket string,
	maxAge time.Duration) *http.Client {

	var cache httpcache.Cache
	s3Cache := store.NewS3Backend(ctx, bucket, "webcache", false)
	if err := s3Cache.Init(); err != nil {
		log.Printf("httpcache: warning failed to init S3 cache: %v; falling back to memory cache",
			err)
		cache = httpcache.NewMemoryCache()
	} else {
		cache = s3Cache
	}

	return newCachedHttpClient(cache, http.DefaultTransport, maxAge)
}

func newCachedHttpClient(cache httpcache.Cache, rt http.RoundTripper,
	maxAge time.Duration) *http.Client {

	hc := httpcache.NewTransport(cache)
	// origin cache headers are replaced so that our TTL wins
	hc.Transport = &HeaderOverrideTransport{
		wrappedRT: rt,
		Response: func(resp *http.Response) error {
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Del("Cache-Control")
			resp.Header.Set("Cache-Control",
				fmt.Sprintf("public, max-age=%d", int(maxAge/time.Second)))
			return nil
		},
	}

	return &http.Client{Transport: hc}
}

type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	wrappedRT http.RoundTripper
}

// RoundTrip applies Request and Response hooks around the underlying transport.
func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so we don’t stomp on the caller’s original
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	resp, err := t.wrappedRT.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
