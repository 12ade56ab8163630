/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bcc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/mikeb26/boylstonchessclub-brackets/internal"
)

const (
	DefaultAPIURL = "https://beta.boylstonchess.org/api"
	DefaultWebURL = "https://boylstonchess.org"
)

// Client talks to the club's JSON API and, when that is unavailable, scrapes
// the public website.
type Client struct {
	APIURL string
	WebURL string
	HTTP   *http.Client
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		APIURL: DefaultAPIURL,
		WebURL: DefaultWebURL,
		HTTP:   httpClient,
	}
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %v (new): %w", url, err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %v (do): %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unable to fetch %v (http): %v", url,
			resp.StatusCode)
	}

	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("unable to parse %v: %w", url, err)
	}

	return nil
}

func (c *Client) fetchDoc(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return goquery.NewDocumentFromReader(resp.Body)
}
