// Command simulate plays a seeded run headlessly and prints the outcome.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	persistlog "magictrail.dev/internal/persistence/log"
	"magictrail.dev/internal/persistence/snapshot"
	"magictrail.dev/internal/sim/achievements"
	"magictrail.dev/internal/sim/catalogs"
	"magictrail.dev/internal/sim/trail"
	"magictrail.dev/internal/sim/tuning"
)

type summary struct {
	Player       string           `json:"player"`
	Profession   string           `json:"profession"`
	Seed         int64            `json:"seed"`
	Mode         string           `json:"mode"`
	Status       string           `json:"status"`
	Date         string           `json:"date"`
	Days         int              `json:"days"`
	Miles        int              `json:"miles"`
	Waypoint     string           `json:"waypoint"`
	Morale       int              `json:"morale"`
	Resources    map[string]int   `json:"resources"`
	Party        []trail.Traveler `json:"party"`
	Achievements []string         `json:"achievements"`
}

func main() {
	var (
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		seed       = flag.Int64("seed", 1, "random seed")
		player     = flag.String("player", "Kristin", "player name")
		profession = flag.String("profession", "actress", "profession")
		pace       = flag.String("pace", trail.PaceSteady, "travel pace")
		maxSteps   = flag.Int("max_steps", 5000, "stop after this many decisions")
		savePath   = flag.String("save", "", "write the final save blob here (optional)")
		ticksDir   = flag.String("ticks", "", "write tick history under this data dir (optional)")
		asJSON     = flag.Bool("json", false, "print JSON even on a terminal")
	)
	flag.Parse()

	tp := *tuningPath
	if tp == "" {
		tp = *configDir + "/tuning.yaml"
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load tuning:", err)
		os.Exit(1)
	}
	cats, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}

	var ticks *persistlog.TickLogger
	if *ticksDir != "" {
		ticks = persistlog.NewTickLogger(*ticksDir)
		defer ticks.Close()
	}

	g, err := trail.New(tune, cats, rand.New(rand.NewSource(*seed)))
	if err != nil {
		fmt.Fprintln(os.Stderr, "new game:", err)
		os.Exit(1)
	}
	if err := g.NewGame(*player, *profession); err != nil {
		fmt.Fprintln(os.Stderr, "new game:", err)
		os.Exit(1)
	}
	if err := g.SetPace(*pace); err != nil {
		fmt.Fprintln(os.Stderr, "pace:", err)
		os.Exit(2)
	}

	s, err := play(g, *maxSteps, ticks)
	if err != nil {
		fmt.Fprintln(os.Stderr, "simulate:", err)
		os.Exit(1)
	}
	s.Seed = *seed

	if *savePath != "" {
		if err := snapshot.WriteFile(*savePath, g.Snapshot(), time.Now()); err != nil {
			fmt.Fprintln(os.Stderr, "write save:", err)
			os.Exit(1)
		}
	}

	if *asJSON || !isatty.IsTerminal(os.Stdout.Fd()) {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(s)
		return
	}
	printText(os.Stdout, s)
}

// play drives g with the autopilot until the run ends or maxSteps decisions
// have been made.
func play(g *trail.Game, maxSteps int, ticks *persistlog.TickLogger) (summary, error) {
	var tickErr error
	pilot := newAutopilot(func(res trail.TickResult) {
		if ticks != nil && tickErr == nil {
			tickErr = ticks.WriteTick(g.LogEntry(res))
		}
	})
	for range maxSteps {
		done, err := pilot.step(g)
		if err != nil {
			return summary{}, err
		}
		g.Unlock(achievements.Evaluate(g.Snapshot())...)
		if done {
			break
		}
	}
	if tickErr != nil {
		return summary{}, fmt.Errorf("tick log: %w", tickErr)
	}

	snap := g.Snapshot()
	return summary{
		Player:       snap.Player,
		Profession:   snap.Profession,
		Mode:         snap.Mode,
		Status:       snap.Status,
		Date:         snap.Date.String(),
		Days:         snap.DaysElapsed,
		Miles:        snap.Travel.DistanceTraveled,
		Waypoint:     g.CurrentWaypoint().Name,
		Morale:       snap.Morale,
		Resources:    snap.Resources,
		Party:        snap.Party,
		Achievements: g.Unlocked(),
	}, nil
}

func printText(w io.Writer, s summary) {
	fmt.Fprintf(w, "%s the %s: %s (%s)\n", s.Player, s.Profession, s.Mode, s.Status)
	fmt.Fprintf(w, "day %d (%s), %d miles, last stop %s, morale %d\n", s.Days, s.Date, s.Miles, s.Waypoint, s.Morale)
	fmt.Fprintln(w, "party:")
	for _, m := range s.Party {
		state := "alive"
		if !m.Alive {
			state = "lost"
		}
		fmt.Fprintf(w, "  %-12s %-9s %3d/%d %s\n", m.Name, m.Kind, m.Health, m.MaxHealth, state)
	}
	keys := make([]string, 0, len(s.Resources))
	for k := range s.Resources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, s.Resources[k]))
	}
	fmt.Fprintf(w, "resources: %s\n", strings.Join(parts, " "))
	fmt.Fprintf(w, "achievements (%d):\n", len(s.Achievements))
	for _, id := range s.Achievements {
		if a, ok := achievements.Lookup(id); ok {
			fmt.Fprintf(w, "  %-22s %s\n", a.Name, a.Description)
		}
	}
}
