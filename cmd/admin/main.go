package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"magictrail.dev/internal/persistence/archive"
	persistlog "magictrail.dev/internal/persistence/log"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "saves":
			savesCmd(os.Args[2:])
			return
		case "show":
			showCmd(os.Args[2:])
			return
		case "delete":
			deleteCmd(os.Args[2:])
			return
		case "catalogs":
			catalogsCmd(os.Args[2:])
			return
		case "ticks":
			ticksCmd(os.Args[2:])
			return
		case "runs":
			runsCmd(os.Args[2:])
			return
		case "health":
			healthCmd(os.Args[2:])
			return
		case "fetch":
			fetchCmd(os.Args[2:])
			return
		}
	}
	fmt.Fprintln(os.Stderr, "usage: admin saves|show|delete|catalogs|ticks|runs|health|fetch [flags]")
	os.Exit(2)
}

func ticksCmd(args []string) {
	fs := flag.NewFlagSet("ticks", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	player := fs.String("player", "", "only this player's days (optional)")
	limit := fs.Int("limit", 30, "show the last N days (0: all)")
	_ = fs.Parse(args)

	if err := printTicks(os.Stdout, *dataDir, *player, *limit); err != nil {
		fmt.Fprintln(os.Stderr, "ticks:", err)
		os.Exit(1)
	}
}

func printTicks(w io.Writer, dataDir, player string, limit int) error {
	entries, err := persistlog.ReadTicks(dataDir)
	if err != nil {
		return err
	}
	if player != "" {
		kept := entries[:0]
		for _, e := range entries {
			if strings.EqualFold(e.Player, player) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	for _, e := range entries {
		line := fmt.Sprintf("%-10s day %3d %-10s %-9s %-8s +%2d mi %5d total  food %4d  morale %3d  alive %d",
			e.Player, e.Day, e.Date, e.Outcome, e.Pace, e.Miles, e.Traveled, e.Food, e.Morale, e.Alive)
		if e.EventID != "" {
			line += "  event " + e.EventID
		}
		if e.Waypoint != "" {
			line += "  at " + e.Waypoint
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func runsCmd(args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	_ = fs.Parse(args)

	if err := printRuns(os.Stdout, archive.New(*dataDir), time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, "runs:", err)
		os.Exit(1)
	}
}

func printRuns(w io.Writer, a *archive.Archive, now time.Time) error {
	runs, err := a.Runs()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "no finished runs")
		return nil
	}
	for _, r := range runs {
		when := r.CreatedAt
		if t, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
			when = humanize.RelTime(t, now, "ago", "from now")
		}
		fmt.Fprintf(w, "%-12s %-9s %4d days %6s miles  %d alive  %2d achievements  %s  (%s)\n",
			r.Player, r.Mode, r.Days, humanize.Comma(int64(r.Miles)), r.Survivors, len(r.Achievements), when, r.Status)
	}
	return nil
}
