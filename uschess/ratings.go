/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package uschess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/boylstonchessclub-brackets/internal"
	"github.com/mikeb26/boylstonchessclub-brackets/tournament"
)

type MemID int64

var ErrUnknownMember = errors.New("unknown uschess member")

// Ratings holds the current published ratings of a USCF member. Zero means
// unrated.
type Ratings struct {
	MemberID MemID
	Name     string
	Regular  int
	Quick    int
	Blitz    int
}

// apiMemberResponse represents the JSON response from the member API endpoint
type apiMemberResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Ratings   []struct {
		Rating       int    `json:"rating"`
		RatingSystem string `json:"ratingSystem"`
	} `json:"ratings"`
}

// FetchRatings retrieves the ratings of memberID from the ratings API.
func (client *Client) FetchRatings(ctx context.Context,
	memberID MemID) (*Ratings, error) {

	endpoint := fmt.Sprintf("%v/members/%v", client.APIURL, memberID)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating profile request: %w", err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.httpClient1day.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing profile HTTP GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%v: %w", memberID, ErrUnknownMember)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected profile status %d: %s",
			resp.StatusCode, string(body))
	}

	var memberData apiMemberResponse
	if err := json.NewDecoder(resp.Body).Decode(&memberData); err != nil {
		return nil, fmt.Errorf("decoding profile JSON: %w", err)
	}

	ret := &Ratings{
		MemberID: memberID,
		Name: internal.NormalizeName(memberData.FirstName + " " +
			memberData.LastName),
	}
	for _, rating := range memberData.Ratings {
		switch rating.RatingSystem {
		case "R":
			ret.Regular = rating.Rating
		case "Q":
			ret.Quick = rating.Rating
		case "B":
			ret.Blitz = rating.Rating
		}
	}

	return ret, nil
}

// RefreshRatings replaces the rating of every entrant that has a USCF id with
// its current regular rating. Lookups that fail leave the entrant unchanged;
// only a cancelled context is an error.
func (client *Client) RefreshRatings(ctx context.Context,
	entrants []tournament.Entrant) ([]tournament.Entrant, error) {

	ret := append([]tournament.Entrant(nil), entrants...)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range ret {
		if ret[i].UscfID == 0 {
			continue
		}
		i := i
		g.Go(func() error {
			r, err := client.FetchRatings(gctx, MemID(ret[i].UscfID))
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Printf("uschess.refresh: keeping rating of %v: %v",
					ret[i].Name, err)
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			if r.Regular != 0 {
				ret[i].Rating = r.Regular
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("uschess.refresh: %w", err)
	}

	return ret, nil
}
