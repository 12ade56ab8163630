/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/mikeb26/boylstonchessclub-brackets/tournament"
)

func apiTournamentHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := manager.Snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, tournament.ErrNotFound) ||
			errors.Is(err, tournament.ErrInvalidID) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("discordbot.api: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, snap)
}

func apiListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := manager.List(r.Context())
	if err != nil {
		log.Printf("discordbot.api: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, list)
}
