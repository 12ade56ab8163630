/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/boylstonchessclub-brackets/bracket"
	"github.com/mikeb26/boylstonchessclub-brackets/bracketfmt"
	"github.com/mikeb26/boylstonchessclub-brackets/tournament"
)

type BracketSubCommand string

const (
	BracketHelpCmd      BracketSubCommand = "help"
	BracketListCmd      BracketSubCommand = "list"
	BracketShowCmd      BracketSubCommand = "show"
	BracketMatchesCmd   BracketSubCommand = "matches"
	BracketStandingsCmd BracketSubCommand = "standings"
	BracketReportCmd    BracketSubCommand = "report"
)

var bracketSubCmdHdlrs = map[BracketSubCommand]CmdHandler{
	BracketHelpCmd:      bracketHelpCmdHandler,
	BracketListCmd:      bracketListCmdHandler,
	BracketShowCmd:      bracketShowCmdHandler,
	BracketMatchesCmd:   bracketMatchesCmdHandler,
	BracketStandingsCmd: bracketStandingsCmdHandler,
	BracketReportCmd:    bracketReportCmdHandler,
}

// reporting results is limited to members who can manage the server
const reportPermission = discordgo.PermissionManageServer

func bracketCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := bracketHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := bracketSubCmdHdlrs[BracketSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

func newResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

// subOptions holds the options of the invoked subcommand.
type subOptions struct {
	id        string
	match     int64
	winner    int64
	score     string
	ready     bool
	broadcast bool
	found     map[string]bool
}

func parseSubOptions(inter *discordgo.Interaction) subOptions {
	ret := subOptions{found: make(map[string]bool)}
	data := inter.ApplicationCommandData()
	if len(data.Options) == 0 {
		return ret
	}
	for _, opt := range data.Options[0].Options {
		ret.found[opt.Name] = true
		switch opt.Name {
		case "id":
			ret.id = strings.TrimSpace(opt.StringValue())
		case "match":
			ret.match = opt.IntValue()
		case "winner":
			ret.winner = opt.IntValue()
		case "score":
			ret.score = strings.TrimSpace(opt.StringValue())
		case "ready":
			ret.ready = opt.BoolValue()
		case "broadcast":
			ret.broadcast = opt.BoolValue()
		}
	}

	return ret
}

//go:embed help.md
var helpText string

func bracketHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	resp.Data.Content = truncateContent(helpText)
	return resp
}

func bracketListCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := parseSubOptions(inter)

	list, err := manager.List(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error listing brackets: %v", err)
		log.Printf("discordbot.list: %v", resp.Data.Content)
		return resp
	}
	if len(list) == 0 {
		resp.Data.Content = "No brackets found."
		return resp
	}

	var sb strings.Builder
	for _, s := range list {
		sb.WriteString(fmt.Sprintf("**%v** (%v, %v)", s.Name, s.Format, s.State))
		if s.Champion != "" {
			sb.WriteString(fmt.Sprintf(" champion: %v", s.Champion))
		}
		sb.WriteString(fmt.Sprintf("\n  id: `%v`\n", s.ID))
	}
	resp.Data.Content = truncateContent(sb.String())
	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// viewCmd renders a stored bracket with build wrapped in a code block.
func viewCmd(ctx context.Context, inter *discordgo.Interaction, logTag string,
	build func(rec *tournament.Record,
		b *bracket.Bracket[tournament.Entrant], opts subOptions) string) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := parseSubOptions(inter)
	if opts.id == "" {
		resp.Data.Content = "Please provide a bracket ID."
		log.Printf("discordbot.%v: %v", logTag, resp.Data.Content)
		return resp
	}

	var title, body string
	err := manager.View(ctx, opts.id, func(rec *tournament.Record,
		b *bracket.Bracket[tournament.Entrant]) error {
		title = fmt.Sprintf("**%v** (%v)", rec.Name, b.State())
		body = build(rec, b, opts)
		return nil
	})
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading bracket %v: %v", opts.id,
			err)
		log.Printf("discordbot.%v: %v", logTag, resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("%v\n```\n%s```", title,
		truncateContent(body))
	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

func bracketShowCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return viewCmd(ctx, inter, "show", func(rec *tournament.Record,
		b *bracket.Bracket[tournament.Entrant], opts subOptions) string {
		return bracketfmt.BuildBracketOutput(b, rec.EntrantName)
	})
}

func bracketMatchesCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return viewCmd(ctx, inter, "matches", func(rec *tournament.Record,
		b *bracket.Bracket[tournament.Entrant], opts subOptions) string {
		return bracketfmt.BuildMatchesOutput(b, rec.EntrantName, opts.ready)
	})
}

func bracketStandingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return viewCmd(ctx, inter, "standings", func(rec *tournament.Record,
		b *bracket.Bracket[tournament.Entrant], opts subOptions) string {
		return bracketfmt.BuildStandingsOutput(b, rec.EntrantName)
	})
}

func canReport(inter *discordgo.Interaction) bool {
	return inter.Member != nil &&
		inter.Member.Permissions&reportPermission != 0
}

func bracketReportCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	if !canReport(inter) {
		resp.Data.Content = "Only tournament directors may report results."
		return resp
	}
	opts := parseSubOptions(inter)
	if opts.id == "" || !opts.found["match"] || !opts.found["winner"] {
		resp.Data.Content = "Please provide a bracket ID, match and winner."
		log.Printf("discordbot.report: %v", resp.Data.Content)
		return resp
	}
	scores, err := tournament.ParseScores(int(opts.winner), opts.score)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Invalid result: %v", err)
		return resp
	}

	snap, err := manager.Report(ctx, opts.id, int(opts.match), scores)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error reporting match %v: %v",
			opts.match, err)
		log.Printf("discordbot.report: %v", resp.Data.Content)
		return resp
	}

	mv := snap.Matches[opts.match]
	winner := mv.Slots[opts.winner].Name
	resp.Data.Content = fmt.Sprintf("Recorded match %v of **%v**: %v won",
		opts.match, snap.Name, winner)
	if snap.Champion != nil {
		resp.Data.Content += fmt.Sprintf("\n%v is the champion!",
			snap.Entrants[*snap.Champion].Name)
	}
	if opts.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

func bracketCommand() *discordgo.ApplicationCommand {
	idOpt := func(required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "Bracket id (as returned by list)",
			Required:    required,
		}
	}
	broadcastOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "broadcast",
		Description: "Share with the rest of the channel instead of only to you (default is false)",
		Required:    false,
	}

	return &discordgo.ApplicationCommand{
		Name:        string(BracketCmd),
		Description: "Knockout brackets; try /bracket help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(BracketHelpCmd),
				Description: "Show usage for bracket",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(BracketListCmd),
				Description: "List brackets",
				Options:     []*discordgo.ApplicationCommandOption{broadcastOpt},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(BracketShowCmd),
				Description: "Draw a bracket",
				Options: []*discordgo.ApplicationCommandOption{idOpt(true),
					broadcastOpt},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(BracketMatchesCmd),
				Description: "List the matches of a bracket",
				Options: []*discordgo.ApplicationCommandOption{
					idOpt(true),
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "ready",
						Description: "Only show matches awaiting a result (default is false)",
						Required:    false,
					},
					broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(BracketStandingsCmd),
				Description: "Show standings of a bracket",
				Options: []*discordgo.ApplicationCommandOption{idOpt(true),
					broadcastOpt},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(BracketReportCmd),
				Description: "Report a match result (tournament directors only)",
				Options: []*discordgo.ApplicationCommandOption{
					idOpt(true),
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "match",
						Description: "Match number (as shown by matches)",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "winner",
						Description: "0 if the first listed entrant won, 1 if the second did",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "score",
						Description: "Score as A-B (default 1-0 to the winner)",
						Required:    false,
					},
					broadcastOpt,
				},
			},
		},
	}
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
