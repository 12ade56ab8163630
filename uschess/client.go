/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package uschess

import (
	"context"
	"net/http"
	"time"

	"github.com/mikeb26/boylstonchessclub-brackets/internal"
)

const DefaultAPIURL = "https://ratings-api.uschess.org/api/v1"

type Client struct {
	APIURL string
	// ratings change at most daily
	httpClient1day *http.Client
}

// NewClient returns a client whose responses are cached for a day in
// bucket, or in memory if the bucket is unreachable.
func NewClient(ctx context.Context, bucket string) *Client {
	return NewClientWithHTTP(internal.NewCachedHttpClient(ctx, bucket,
		24*time.Hour))
}

func NewClientWithHTTP(httpClient *http.Client) *Client {
	return &Client{
		APIURL:         DefaultAPIURL,
		httpClient1day: httpClient,
	}
}
