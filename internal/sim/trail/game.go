package trail

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"magictrail.dev/internal/sim/catalogs"
	"magictrail.dev/internal/sim/logic/mathx"
	"magictrail.dev/internal/sim/tuning"
)

const (
	ModeMenu      = "main-menu"
	ModeShop      = "shop"
	ModeTravel    = "travel"
	ModeEvent     = "event"
	ModeLandmark  = "landmark"
	ModeRest      = "rest"
	ModeChallenge = "challenge"
	ModeGameOver  = "game-over"
	ModeVictory   = "victory"
)

const (
	moraleMin = 0
	moraleMax = 100
)

// Roller is the randomness source. *math/rand.Rand satisfies it.
type Roller interface {
	Float64() float64
	Intn(n int) int
}

type Travel struct {
	DistanceTraveled int    `json:"distance_traveled"`
	DistanceToNext   int    `json:"distance_to_next"`
	WaypointIndex    int    `json:"waypoint_index"`
	Pace             string `json:"pace"`
	Rations          string `json:"rations"`
}

type Flags struct {
	SecretMode         bool     `json:"secret_mode"`
	WagonClicks        int      `json:"wagon_clicks"`
	LandmarkEventsSeen []string `json:"landmark_events_seen,omitempty"`
	RiversCrossed      []string `json:"rivers_crossed,omitempty"`
	// Roadside marks a shop opened from the trail rather than at a waypoint.
	Roadside bool `json:"roadside,omitempty"`
	// ForagedNothing latches when a forage came back empty with no food left.
	ForagedNothing bool `json:"foraged_nothing,omitempty"`
}

func (f Flags) clone() Flags {
	f.LandmarkEventsSeen = append([]string(nil), f.LandmarkEventsSeen...)
	f.RiversCrossed = append([]string(nil), f.RiversCrossed...)
	return f
}

func contains(list []string, id string) bool {
	for _, s := range list {
		if s == id {
			return true
		}
	}
	return false
}

// Game is the whole simulation state for one run. It is not safe for
// concurrent use; the session loop is its only writer.
type Game struct {
	tune   tuning.Tuning
	cat    *catalogs.Catalogs
	route  *Route
	policy PacePolicy
	rng    Roller

	started    bool
	player     string
	profession string
	mode       string

	date        Date
	daysElapsed int

	ledger *Ledger
	roster *Roster
	morale int
	travel Travel
	stats  Stats
	flags  Flags

	event       *catalogs.Event
	eventReturn string

	challenge       string
	challengeReturn string

	status   string
	unlocked []string
}

func New(tune tuning.Tuning, cat *catalogs.Catalogs, rng Roller) (*Game, error) {
	if cat == nil {
		return nil, fmt.Errorf("trail: nil catalogs")
	}
	if rng == nil {
		return nil, fmt.Errorf("trail: nil roller")
	}
	route, err := NewRoute(cat.Route.Waypoints)
	if err != nil {
		return nil, err
	}
	g := &Game{
		tune:   tune,
		cat:    cat,
		route:  route,
		policy: NewPacePolicy(tune),
		rng:    rng,
	}
	g.Reset()
	return g, nil
}

// Reset returns to the main menu with a fresh party and ledger.
func (g *Game) Reset() {
	g.started = false
	g.player = ""
	g.profession = ""
	g.mode = ModeMenu
	g.date = Date{Day: g.tune.Calendar.StartDay, Month: g.tune.Calendar.StartMonth, Year: g.tune.Calendar.StartYear}
	g.daysElapsed = 0
	g.ledger = NewLedger(g.tune.StartingResources)
	g.roster = NewRoster(defaultParty(g.cat.Party))
	g.morale = mathx.ClampInt(g.tune.StartMorale, moraleMin, moraleMax)
	g.travel = Travel{
		DistanceToNext: g.route.DistanceToNext(0, 0),
		Pace:           PaceSteady,
		Rations:        RationsFilling,
	}
	g.stats = Stats{}
	g.flags = Flags{}
	g.event = nil
	g.eventReturn = ""
	g.challenge = ""
	g.challengeReturn = ""
	g.status = ""
	g.unlocked = nil
}

func defaultParty(p catalogs.PartyCatalog) []Traveler {
	out := make([]Traveler, 0, len(p.Members))
	for _, m := range p.Members {
		out = append(out, Traveler{
			ID:        m.ID,
			Name:      m.Name,
			Kind:      m.Kind,
			Health:    m.Health,
			MaxHealth: m.MaxHealth,
		})
	}
	return out
}

// NewGame starts a run. Known professions replace the starting gold.
func (g *Game) NewGame(player, profession string) error {
	player = strings.TrimSpace(player)
	if player == "" {
		return fmt.Errorf("%w: player name is required", ErrBadChoice)
	}
	g.Reset()
	g.started = true
	g.player = player
	g.profession = profession
	if gold, ok := g.tune.ProfessionGold[profession]; ok {
		g.ledger.Adjust(ResGold, gold-g.ledger.Get(ResGold))
	}
	g.mode = ModeShop
	start, _ := g.route.At(0)
	g.status = fmt.Sprintf("Welcome, %s! Stock up in %s before heading out.", player, start.Name)
	return nil
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func (g *Game) AddTraveler(name, kind string) (Traveler, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Traveler{}, fmt.Errorf("%w: traveler name is required", ErrBadChoice)
	}
	switch kind {
	case KindCompanion, KindHuman, KindGuest:
	default:
		return Traveler{}, fmt.Errorf("%w: traveler kind %q", ErrBadChoice, kind)
	}
	t := Traveler{
		ID:        strings.Trim(slugRe.ReplaceAllString(strings.ToLower(name), "-"), "-"),
		Name:      name,
		Kind:      kind,
		Health:    100,
		MaxHealth: 100,
	}
	if err := g.roster.Add(t); err != nil {
		return Traveler{}, err
	}
	got, _ := g.roster.Find(t.ID)
	return got, nil
}

func (g *Game) SetPace(pace string) error {
	if _, ok := g.policy.Miles(pace); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPace, pace)
	}
	g.travel.Pace = pace
	if pace == PaceGrueling {
		g.stats.UsedGruelingPace = true
	}
	return nil
}

func (g *Game) SetRations(rations string) error {
	if _, ok := g.policy.FoodPerTraveler(rations); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRations, rations)
	}
	g.travel.Rations = rations
	return nil
}

// ClickWagon counts clicks on the wagon; every full run of clicks toggles
// secret mode.
func (g *Game) ClickWagon() bool {
	g.flags.WagonClicks++
	need := g.tune.WagonClicksForSecret
	if need > 0 && g.flags.WagonClicks >= need {
		g.flags.WagonClicks = 0
		g.flags.SecretMode = !g.flags.SecretMode
	}
	return g.flags.SecretMode
}

// EndRun moves to game-over with cause as the status line.
func (g *Game) EndRun(cause string) {
	g.mode = ModeGameOver
	g.event = nil
	g.challenge = ""
	g.status = cause
}

func (g *Game) Mode() string      { return g.mode }
func (g *Game) Started() bool     { return g.started }
func (g *Game) Player() string    { return g.player }
func (g *Game) Date() Date        { return g.date }
func (g *Game) DaysElapsed() int  { return g.daysElapsed }
func (g *Game) Morale() int       { return g.morale }
func (g *Game) Travel() Travel    { return g.travel }
func (g *Game) Stats() Stats      { return g.stats.clone() }
func (g *Game) Flags() Flags      { return g.flags.clone() }
func (g *Game) Status() string    { return g.status }
func (g *Game) Route() *Route     { return g.route }
func (g *Game) Party() []Traveler { return g.roster.Members() }
func (g *Game) Resource(id string) int {
	return g.ledger.Get(id)
}
func (g *Game) Resources() map[string]int { return g.ledger.Totals() }

func (g *Game) Catalogs() *catalogs.Catalogs { return g.cat }

func (g *Game) ActiveEvent() (catalogs.Event, bool) {
	if g.event == nil {
		return catalogs.Event{}, false
	}
	return *g.event, true
}

func (g *Game) ActiveChallenge() string { return g.challenge }

// Unlocked lists achievement ids latched so far, sorted.
func (g *Game) Unlocked() []string { return append([]string(nil), g.unlocked...) }

// Unlock latches ids and returns the ones that were new.
func (g *Game) Unlock(ids ...string) []string {
	var fresh []string
	for _, id := range ids {
		if id == "" || contains(g.unlocked, id) {
			continue
		}
		g.unlocked = append(g.unlocked, id)
		fresh = append(fresh, id)
	}
	sort.Strings(g.unlocked)
	return fresh
}

func (g *Game) CurrentWaypoint() catalogs.Waypoint {
	w, _ := g.route.At(g.travel.WaypointIndex)
	return w
}

// NextWaypoint is false at the terminal waypoint.
func (g *Game) NextWaypoint() (catalogs.Waypoint, bool) {
	return g.route.At(g.travel.WaypointIndex + 1)
}

func (g *Game) adjustMorale(delta int) {
	g.morale = mathx.ClampInt(g.morale+delta, moraleMin, moraleMax)
}

func (g *Game) advanceDay() {
	g.date = g.date.Next(g.tune.Calendar.MonthLength)
	g.daysElapsed++
}

func (g *Game) requireMode(modes ...string) error {
	for _, m := range modes {
		if g.mode == m {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrWrongMode, g.mode)
}
