/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bcc

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/mikeb26/boylstonchessclub-brackets/internal"
	"github.com/mikeb26/boylstonchessclub-brackets/tournament"
)

type Source int

const (
	SourceAPI Source = iota
	SourceWebsite
)

func (s Source) String() string {
	if s == SourceAPI {
		return "api"
	} else if s == SourceWebsite {
		return "website"
	} else {
		return "?"
	}
}

// Player is a registered entrant of a club event.
type Player struct {
	Name    string
	Section string
	Rating  int
	UscfID  int
}

// GetEntries returns the registered players of an event. The API and the
// website are queried concurrently; the API answer is preferred.
func (c *Client) GetEntries(ctx context.Context,
	eventID int64) ([]Player, Source, error) {

	var wg sync.WaitGroup
	var viaAPI, viaWeb []Player
	var apiErr, webErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		viaAPI, apiErr = c.getEntriesViaAPI(ctx, eventID)
	}()
	go func() {
		defer wg.Done()
		viaWeb, webErr = c.getEntriesViaWeb(ctx, eventID)
	}()
	wg.Wait()

	if apiErr == nil {
		return viaAPI, SourceAPI, nil
	}
	if webErr != nil {
		return nil, SourceAPI, fmt.Errorf("bcc.entries: api: %v; web: %w", apiErr,
			webErr)
	}
	log.Printf("bcc.entries: api failed for %v, using website: %v", eventID,
		apiErr)

	return viaWeb, SourceWebsite, nil
}

func (c *Client) getEntriesViaAPI(ctx context.Context,
	eventID int64) ([]Player, error) {

	detail, err := c.GetEventDetail(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(detail.Entries) == 0 {
		return nil, fmt.Errorf("bcc event %v API returned no entries", eventID)
	}

	players := make([]Player, 0, len(detail.Entries))
	for _, e := range detail.Entries {
		players = append(players, entryToPlayer(e))
	}

	return players, nil
}

func (c *Client) getEntriesViaWeb(ctx context.Context,
	eventID int64) ([]Player, error) {

	url := fmt.Sprintf("%v/tournament/entries/%d", c.WebURL, eventID)
	doc, err := c.fetchDoc(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch entries page: %w", err)
	}
	players := parsePlayers(doc)
	if len(players) == 0 {
		return nil, fmt.Errorf("no entries found at %v", url)
	}

	return players, nil
}

// parsePlayers extracts players from the entries table. A section heading
// row (a single cell spanning the table) applies to the rows after it.
func parsePlayers(doc *goquery.Document) []Player {
	var players []Player
	section := ""
	doc.Find("table#members tbody tr").Each(func(_ int, s *goquery.Selection) {
		cells := s.Find("td")
		if cells.Length() == 1 {
			section = strings.TrimSuffix(strings.TrimSpace(cells.Text()),
				" Section")
			return
		}
		if cells.Length() < 4 {
			return
		}
		name := strings.TrimSpace(cells.Eq(1).Text())
		rating := strRatingToInt(strings.TrimSpace(cells.Eq(2).Text()))
		uscfID, _ := strconv.Atoi(strings.TrimSpace(cells.Eq(3).Text()))

		players = append(players, Player{
			Name:    internal.NormalizeName(name),
			Section: section,
			Rating:  rating,
			UscfID:  uscfID,
		})
	})

	return players
}

func entryToPlayer(entry Entry) Player {
	return Player{
		Name:    internal.NormalizeName(entry.FirstName + " " + entry.LastName),
		Section: entry.SectionName,
		Rating:  strRatingToInt(entry.PrimaryRating),
		UscfID:  entry.UscfID,
	}
}

// Sections returns the distinct sections of players in display order.
func Sections(players []Player) []string {
	seen := make(map[string]bool)
	var ret []string
	for _, p := range players {
		if !seen[p.Section] {
			seen[p.Section] = true
			ret = append(ret, p.Section)
		}
	}
	sort.Sort(SectionSorter(ret))

	return ret
}

// rankSection returns the players of section ordered by rating, highest
// first. all selects every player regardless of section.
func rankSection(players []Player, section string, all bool) []Player {
	var ret []Player
	for _, p := range players {
		if all || p.Section == section {
			ret = append(ret, p)
		}
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Rating > ret[j].Rating
	})

	return ret
}

// EntrantsForSection returns the bracket entrants of one section ordered by
// rating so that seeding keeps the strongest players apart. An empty section
// selects every player.
func EntrantsForSection(players []Player, section string) []tournament.Entrant {
	ranked := rankSection(players, section, section == "")
	ret := make([]tournament.Entrant, 0, len(ranked))
	for _, p := range ranked {
		ret = append(ret, tournament.Entrant{
			Name:   p.Name,
			Rating: p.Rating,
			UscfID: int64(p.UscfID),
		})
	}

	return ret
}

// BuildEntriesOutput formats players into grouped, aligned string output
func BuildEntriesOutput(players []Player) string {
	sectionNames := Sections(players)
	var sb strings.Builder

	for _, sec := range sectionNames {
		type row struct {
			player, rating string
			memid          int
		}
		var rows []row
		for _, p := range rankSection(players, sec, false) {
			r := "unrated"
			if p.Rating != 0 {
				r = fmt.Sprintf("%v", p.Rating)
			}
			rows = append(rows, row{player: p.Name, rating: r, memid: p.UscfID})
		}

		// Compute column widths
		maxP, maxR, maxM := len("Player"), len("Rating"), len("USCF memid")
		for _, r := range rows {
			if l := len(r.player); l > maxP {
				maxP = l
			}
			if l := len(r.rating); l > maxR {
				maxR = l
			}
			if l := len(fmt.Sprintf("%v", r.memid)); l > maxM {
				maxM = l
			}
		}

		if len(sectionNames) > 1 {
			if sec == "" {
				sec = "UNNAMED"
			}
			sb.WriteString(fmt.Sprintf("%s Section\n", sec))
		}
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s\n", maxP, "Player", maxR,
			"Rating", maxM, "USCF memid"))
		for _, r := range rows {
			sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*v\n", maxP, r.player,
				maxR, r.rating, maxM, r.memid))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
