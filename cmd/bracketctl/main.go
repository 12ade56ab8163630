/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mikeb26/boylstonchessclub-brackets/bcc"
	"github.com/mikeb26/boylstonchessclub-brackets/bracket"
	"github.com/mikeb26/boylstonchessclub-brackets/bracketfmt"
	"github.com/mikeb26/boylstonchessclub-brackets/internal"
	"github.com/mikeb26/boylstonchessclub-brackets/store"
	"github.com/mikeb26/boylstonchessclub-brackets/tournament"
	"github.com/mikeb26/boylstonchessclub-brackets/uschess"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":      handleHelp,
	"cal":       handleCal,
	"options":   handleOptions,
	"new":       handleNew,
	"import":    handleImport,
	"list":      handleList,
	"show":      handleShow,
	"matches":   handleMatches,
	"report":    handleReport,
	"reset":     handleReset,
	"standings": handleStandings,
	"log":       handleLog,
	"delete":    handleDelete,
}

func main() {
	log.SetFlags(0)
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func loadConfig() internal.Config {
	cfg, err := internal.LoadConfig(internal.ConfigPath())
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	return cfg
}

func openManager(ctx context.Context) *tournament.Manager {
	cfg := loadConfig()
	backend, err := internal.OpenBackend(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("Error opening %v store: %v", cfg.Store.Backend, err)
	}

	return tournament.NewManager(store.New(backend, "tournaments"))
}

// optionFlags collects repeated --opt key=value flags.
type optionFlags map[string]string

func (o optionFlags) String() string {
	var parts []string
	for k, v := range o {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (o optionFlags) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	o[k] = v
	return nil
}

// requireID parses fs and exits unless --id was given.
func requireID(fs *flag.FlagSet, id *string, args []string) {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *id == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --id ID.")
		fs.Usage()
		os.Exit(1)
	}
}

func parseFormat(fs *flag.FlagSet, s string) bracket.Format {
	format, err := bracket.ParseFormat(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		fs.Usage()
		os.Exit(1)
	}
	return format
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

func handleCal(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("cal", flag.ExitOnError)
	days := fs.Int("days", 14, "Number of days to retrieve (1-60)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	// enforce bounds
	if *days < -60 {
		*days = -60
	} else if *days > 60 {
		*days = 60
	}

	var start time.Time
	now := time.Now()
	end := now.AddDate(0, 0, *days)

	if now.After(end) {
		start = end
		end = now
	} else {
		start = now
	}
	events, err := bcc.NewClient(nil).GetEvents(ctx)
	if err != nil {
		log.Fatalf("Error fetching events: %v", err)
	}
	// Filter and group events by date
	eventsByDate := make(map[string][]bcc.Event)
	for _, ev := range events {
		if ev.Date.Before(start) || ev.Date.After(end) {
			continue
		}
		key := ev.Date.Format("2006-01-02")
		eventsByDate[key] = append(eventsByDate[key], ev)
	}

	if len(eventsByDate) == 0 {
		fmt.Printf("No events found in the next %d days.\n", *days)
		return
	}
	var dates []string
	for d := range eventsByDate {
		dates = append(dates, d)
	}
	if start == now {
		sort.Strings(dates)
	} else {
		sort.Slice(dates, func(i, j int) bool {
			return dates[j] < dates[i]
		})
	}
	for _, d := range dates {
		fmt.Println(d)
		for _, ev := range eventsByDate[d] {
			fmt.Printf("  - %s (EventID:%d)\n", ev.Title, ev.EventID)
		}
	}
	fmt.Printf("\nRun '%s import --eventid <EventID>' to seed a bracket from an event\n",
		os.Args[0])
}

func handleOptions(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("options", flag.ExitOnError)
	formatStr := fs.String("format", "", "Bracket format (default: all)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	formats := bracket.Formats()
	if *formatStr != "" {
		formats = []bracket.Format{parseFormat(fs, *formatStr)}
	}

	out, err := buildFormatsOutput(formats)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	fmt.Print(out)
}

// buildFormatsOutput lists the options of each format in turn.
func buildFormatsOutput(formats []bracket.Format) (string, error) {
	var sb strings.Builder
	for i, f := range formats {
		schema, err := bracket.SchemaFor(f)
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%v:\n", f))
		sb.WriteString(buildOptionsOutput(schema))
	}

	return sb.String(), nil
}

func buildOptionsOutput(schema bracket.Schema) string {
	type row struct{ key, name, kind, def string }
	var rows []row
	for _, opt := range schema.Options() {
		def := opt.Value.String()
		if len(opt.Choices) > 0 {
			def += " (" + strings.Join(opt.Choices, "|") + ")"
		}
		rows = append(rows, row{opt.Key, opt.Name, opt.Value.Kind().String(), def})
	}

	maxK, maxN, maxT := len("Key"), len("Description"), len("Type")
	for _, r := range rows {
		maxK = max(maxK, len(r.key))
		maxN = max(maxN, len(r.name))
		maxT = max(maxT, len(r.kind))
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %s\n", maxK, "Key", maxN,
		"Description", maxT, "Type", "Default"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %s\n", maxK, r.key, maxN,
			r.name, maxT, r.kind, r.def))
	}

	return sb.String()
}

func handleNew(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	name := fs.String("name", "", "Bracket name")
	formatStr := fs.String("format", "single", "Bracket format")
	opts := optionFlags{}
	fs.Var(opts, "opt", "Format option as key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *name == "" || fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Please provide --name and at least one entrant.")
		fs.Usage()
		os.Exit(1)
	}

	var entrants []tournament.Entrant
	for _, n := range fs.Args() {
		entrants = append(entrants, tournament.Entrant{Name: n})
	}
	create(ctx, *name, parseFormat(fs, *formatStr), entrants, opts, 0)
}

func handleImport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	eventID := fs.Int("eventid", 0, "Event ID to import entries from")
	section := fs.String("section", "", "Section to import (default: all)")
	name := fs.String("name", "", "Bracket name (default: event title)")
	formatStr := fs.String("format", "single", "Bracket format")
	refresh := fs.Bool("refresh", false, "Refresh ratings from USCF before seeding")
	opts := optionFlags{}
	fs.Var(opts, "opt", "Format option as key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *eventID <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --eventid ID.")
		fs.Usage()
		os.Exit(1)
	}
	format := parseFormat(fs, *formatStr)
	if _, ok := opts[bracket.OptionSeeding]; !ok {
		// rating order is only meaningful with bracket seeding
		opts[bracket.OptionSeeding] = bracket.SeedingStandard
	}

	client := bcc.NewClient(nil)
	players, src, err := client.GetEntries(ctx, int64(*eventID))
	if err != nil {
		log.Fatalf("Error fetching entries for event %d: %v", *eventID, err)
	}
	entrants := bcc.EntrantsForSection(players, *section)
	if len(entrants) == 0 {
		log.Fatalf("No entries in section %q of event %d; sections are %q",
			*section, *eventID, bcc.Sections(players))
	}
	if *refresh {
		cfg := loadConfig()
		entrants, err = uschess.NewClient(ctx, cfg.WebCacheBucket).RefreshRatings(ctx,
			entrants)
		if err != nil {
			log.Fatalf("Error refreshing ratings: %v", err)
		}
		sort.SliceStable(entrants, func(i, j int) bool {
			return entrants[i].Rating > entrants[j].Rating
		})
	}

	if *name == "" {
		*name = fmt.Sprintf("Event %d", *eventID)
		if detail, err := client.GetEventDetail(ctx, int64(*eventID)); err == nil {
			*name = detail.Title
			fmt.Print(bcc.BuildEventOutput(&detail))
		}
		if *section != "" {
			*name += " " + *section
		}
	}
	fmt.Printf("Imported %v entrants via %v\n", len(entrants), src)
	create(ctx, *name, format, entrants, opts, int64(*eventID))
}

func create(ctx context.Context, name string, format bracket.Format,
	entrants []tournament.Entrant, opts optionFlags, eventID int64) {

	rec, err := tournament.NewRecord(name, format, entrants, opts)
	if err != nil {
		log.Fatalf("Error creating bracket: %v", err)
	}
	rec.EventID = eventID

	snap, err := openManager(ctx).Create(ctx, rec)
	if err != nil {
		log.Fatalf("Error saving bracket: %v", err)
	}
	fmt.Printf("Created %v (%v, %v entrants)\nID: %v\n", snap.Name, snap.Format,
		len(snap.Entrants), snap.ID)
}

func handleList(ctx context.Context, args []string) {
	list, err := openManager(ctx).List(ctx)
	if err != nil {
		log.Fatalf("Error listing brackets: %v", err)
	}
	if len(list) == 0 {
		fmt.Println("No brackets found.")
		return
	}

	maxN := len("Name")
	for _, s := range list {
		maxN = max(maxN, len([]rune(s.Name)))
	}
	fmt.Printf("%-36s  %-*s  %-18s  %-13s  %s\n", "ID", maxN, "Name", "Format",
		"State", "Champion")
	for _, s := range list {
		fmt.Printf("%-36s  %-*s  %-18s  %-13s  %s\n", s.ID, maxN, s.Name,
			s.Format, s.State, s.Champion)
	}
}

// view runs fn against a stored bracket or exits.
func view(ctx context.Context, id string,
	fn func(rec *tournament.Record, b *bracket.Bracket[tournament.Entrant])) {

	err := openManager(ctx).View(ctx, id,
		func(rec *tournament.Record, b *bracket.Bracket[tournament.Entrant]) error {
			fn(rec, b)
			return nil
		})
	if err != nil {
		log.Fatalf("Error loading bracket %v: %v", id, err)
	}
}

func handleShow(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	id := fs.String("id", "", "Bracket ID")
	requireID(fs, id, args)

	view(ctx, *id, func(rec *tournament.Record,
		b *bracket.Bracket[tournament.Entrant]) {
		fmt.Printf("%v (%v, %v)\n\n", rec.Name, b.Format(), b.State())
		fmt.Print(bracketfmt.BuildBracketOutput(b, rec.EntrantName))
	})
}

func handleMatches(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("matches", flag.ExitOnError)
	id := fs.String("id", "", "Bracket ID")
	ready := fs.Bool("ready", false, "Only show matches awaiting a result")
	requireID(fs, id, args)

	view(ctx, *id, func(rec *tournament.Record,
		b *bracket.Bracket[tournament.Entrant]) {
		fmt.Print(bracketfmt.BuildMatchesOutput(b, rec.EntrantName, *ready))
	})
}

func handleStandings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("standings", flag.ExitOnError)
	id := fs.String("id", "", "Bracket ID")
	requireID(fs, id, args)

	view(ctx, *id, func(rec *tournament.Record,
		b *bracket.Bracket[tournament.Entrant]) {
		fmt.Print(bracketfmt.BuildStandingsOutput(b, rec.EntrantName))
	})
}

func handleReport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	id := fs.String("id", "", "Bracket ID")
	match := fs.Int("match", -1, "Match number (as shown by matches)")
	winner := fs.Int("winner", -1, "Winning slot: 0 for Entrant, 1 for Opponent")
	score := fs.String("score", "", "Optional score as A-B")
	requireID(fs, id, args)

	scores, err := tournament.ParseScores(*winner, *score)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		os.Exit(1)
	}
	snap, err := openManager(ctx).Report(ctx, *id, *match, scores)
	if err != nil {
		log.Fatalf("Error reporting match %v: %v", *match, err)
	}
	printProgress(snap)
}

func handleReset(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	id := fs.String("id", "", "Bracket ID")
	match := fs.Int("match", -1, "Match number (as shown by matches)")
	requireID(fs, id, args)

	snap, err := openManager(ctx).Reset(ctx, *id, *match)
	if err != nil {
		log.Fatalf("Error resetting match %v: %v", *match, err)
	}
	printProgress(snap)
}

func printProgress(snap tournament.Snapshot) {
	if snap.Champion != nil {
		fmt.Printf("%v is complete; champion: %v\n", snap.Name,
			snap.Entrants[*snap.Champion].Name)
		return
	}
	ready := 0
	for _, m := range snap.Matches {
		if m.Ready && !m.Concluded {
			ready++
		}
	}
	fmt.Printf("%v is %v; %v matches ready to play\n", snap.Name, snap.State,
		ready)
}

func handleLog(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	id := fs.String("id", "", "Bracket ID")
	sinceStr := fs.String("since", "", "Only show entries after this date")
	requireID(fs, id, args)

	since, err := internal.ParseDateOrZero(*sinceStr)
	if err != nil {
		log.Fatalf("Error parsing --since %q: %v", *sinceStr, err)
	}
	rec, err := openManager(ctx).Record(ctx, *id)
	if err != nil {
		log.Fatalf("Error loading bracket %v: %v", *id, err)
	}

	fmt.Print(buildLogOutput(rec, since))
}

func buildLogOutput(rec *tournament.Record, since time.Time) string {
	var sb strings.Builder
	for _, e := range rec.Log {
		if e.Time.Before(since) {
			continue
		}
		ts := e.Time.Local().Format("2006-01-02 15:04")
		if e.Reset {
			sb.WriteString(fmt.Sprintf("%v  match %-3v reset\n", ts, e.Match))
			continue
		}
		sb.WriteString(fmt.Sprintf("%v  match %-3v %v-%v", ts, e.Match,
			e.Scores[0].Score, e.Scores[1].Score))
		for slot, s := range e.Scores {
			if s.Winner {
				sb.WriteString(fmt.Sprintf(" (slot %v won)", slot))
			}
		}
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		return "No results recorded.\n"
	}

	return sb.String()
}

func handleDelete(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "Bracket ID")
	requireID(fs, id, args)

	if err := openManager(ctx).Delete(ctx, *id); err != nil {
		log.Fatalf("Error deleting bracket %v: %v", *id, err)
	}
	fmt.Printf("Deleted %v\n", *id)
}
