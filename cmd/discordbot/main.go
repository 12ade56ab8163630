/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/boylstonchessclub-brackets/internal"
	"github.com/mikeb26/boylstonchessclub-brackets/live"
	"github.com/mikeb26/boylstonchessclub-brackets/store"
	"github.com/mikeb26/boylstonchessclub-brackets/tournament"

	_ "embed"
)

var botPubKey ed25519.PublicKey

var client *discordgo.Session

// manager serves every handler; set up by main and by tests.
var manager *tournament.Manager

type TopLevelCommand string

const (
	BracketCmd TopLevelCommand = "bracket"
)

type CmdHandler func(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	BracketCmd: bracketCmdHandler,
}

func interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, botPubKey) {
		log.Printf("discordbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("discordbot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.Printf("discordbot.int: failed to unmarshal interaction: err:%v body:%v",
			err, body)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	writeJSON(w, dispatchInteraction(r.Context(), &inter))
}

func dispatchInteraction(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{}
	switch inter.Type {
	case discordgo.InteractionPing:
		resp.Type = discordgo.InteractionResponsePong
	case discordgo.InteractionApplicationCommand:
		name := inter.ApplicationCommandData().Name
		hdlr, ok := topLevelCmdHdlrs[TopLevelCommand(name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'", name),
				Flags:   discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(ctx, inter)
		}
	default:
		log.Printf("discordbot.int: unimplemented interation type %v", inter.Type)
		resp.Type = discordgo.InteractionResponseChannelMessageWithSource
		resp.Data = &discordgo.InteractionResponseData{
			Content: "unsupported interaction",
			Flags:   discordgo.MessageFlagsEphemeral,
		}
	}

	return resp
}

func writeJSON(w http.ResponseWriter, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("discordbot.json: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(raw); err != nil {
		log.Printf("discordbot.json: failed to write resp: err:%v", err)
	}
}

//go:embed lastupdate.hash
var lastCmdUpdateHash string

func shouldUpdateCmdRegistration(cmd *discordgo.ApplicationCommand) bool {
	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		log.Fatalf("discordbot.reg: failed to marshal cmd: %v", err)
		return false
	}
	hasher := sha256.New()
	hasher.Write(cmdJson)
	hash := hasher.Sum(nil)
	hexString := hex.EncodeToString(hash)

	shouldUpdate := (hexString != strings.TrimSpace(lastCmdUpdateHash))

	if shouldUpdate {
		log.Printf("discordbot.reg: updating cmd reg; please update lastupdate.hash to %v",
			hexString)
	}

	return shouldUpdate
}

func registerSlashCommands(cfg internal.DiscordConfig) {
	cmd := bracketCommand()

	if cfg.CommandID == "" {
		created, err := client.ApplicationCommandCreate(cfg.AppID, "", cmd)
		if err != nil {
			log.Printf("discordbot.reg: failed to register %v: %v", cmd.Name,
				err)
			return
		}

		log.Printf("discordbot.reg: registered %v(cmdID:%v)", created.Name,
			created.ID)
	} else if shouldUpdateCmdRegistration(cmd) {
		updated, err := client.ApplicationCommandEdit(cfg.AppID, "",
			cfg.CommandID, cmd)
		if err != nil {
			log.Printf("discordbot.reg: failed to update %v: %v", cmd.Name,
				err)
			return
		}

		log.Printf("discordbot.reg: updated %v(cmdID:%v)", updated.Name,
			updated.ID)
	}
}

func newMux(hub *live.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /DiscordBot/Interaction", interactionHandler)
	mux.HandleFunc("GET /api/tournaments", apiListHandler)
	mux.HandleFunc("GET /api/tournaments/{id}", apiTournamentHandler)
	mux.Handle("GET /live/{id}", hub)

	return mux
}

func main() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
	ctx := context.Background()

	cfg, err := internal.LoadConfig(internal.ConfigPath())
	if err != nil {
		log.Fatalf("discordbot.main: %v", err)
	}

	pubKeyBytes, err := hex.DecodeString(strings.TrimSpace(cfg.Discord.PublicKey))
	if err != nil {
		log.Fatalf("discordbot.main: Failed to parse public key: %v", err)
	}
	botPubKey = ed25519.PublicKey(pubKeyBytes)

	client, err = discordgo.New("Bot " + strings.TrimSpace(cfg.Discord.Token))
	if err != nil {
		log.Fatalf("discordbot.main: Failed to initialize discord client: %v", err)
	}

	backend, err := internal.OpenBackend(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("discordbot.main: Failed to open %v store: %v",
			cfg.Store.Backend, err)
	}
	manager = tournament.NewManager(store.New(backend, "tournaments"))
	hub := live.NewHub(manager)
	manager.Subscribe(hub.Publish)

	go registerSlashCommands(cfg.Discord)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Printf("discordbot.main: starting server on %v%v", hostname,
		cfg.Server.Listen)

	if err := http.ListenAndServe(cfg.Server.Listen, newMux(hub)); err != nil {
		log.Fatalf("discordbot.main: Serve failed: %v", err)
	}

	log.Printf("discordbot.main: exiting")
}
