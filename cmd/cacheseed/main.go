/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikeb26/boylstonchessclub-brackets/internal"
	"github.com/mikeb26/boylstonchessclub-brackets/store"
	"github.com/mikeb26/boylstonchessclub-brackets/tournament"
	"github.com/mikeb26/boylstonchessclub-brackets/uschess"
)

// this program exists just to seed the http cache with the ratings of every
// entrant in a stored bracket

func main() {
	ctx := context.Background()

	cfg, err := internal.LoadConfig(internal.ConfigPath())
	if err != nil {
		log.Fatalf("cacheseed: %v", err)
	}
	backend, err := internal.OpenBackend(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("cacheseed: failed to open %v store: %v", cfg.Store.Backend,
			err)
	}
	manager := tournament.NewManager(store.New(backend, "tournaments"))
	client := uschess.NewClient(ctx, cfg.WebCacheBucket)

	list, err := manager.List(ctx)
	if err != nil {
		log.Fatalf("cacheseed: %v", err)
	}

	seen := make(map[int64]struct{})
	for _, summary := range list {
		rec, err := manager.Record(ctx, summary.ID)
		if err != nil {
			// best effort
			continue
		}
		for _, e := range rec.Entrants {
			if e.UscfID == 0 {
				continue
			}
			if _, ok := seen[e.UscfID]; ok {
				continue
			}
			seen[e.UscfID] = struct{}{}

			ratings, err := client.FetchRatings(ctx, uschess.MemID(e.UscfID))
			time.Sleep(2 * time.Second) // avoid pegging uschess.org
			if err != nil {
				// best effort
				continue
			}

			fmt.Printf("seeded %v ratings (%v)\n", ratings.Name, rec.Name)
		}
	}
}
