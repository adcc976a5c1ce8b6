package trail

import (
	"fmt"

	"magictrail.dev/internal/sim/catalogs"
	"magictrail.dev/internal/sim/logic/mathx"
)

const SnapshotVersion = 1

// Snapshot is the serializable run state. Route-derived fields are filled
// on export for evaluators and ignored on restore.
type Snapshot struct {
	Version     int    `json:"version"`
	Started     bool   `json:"started"`
	Player      string `json:"player"`
	Profession  string `json:"profession"`
	Mode        string `json:"mode"`
	Status      string `json:"status,omitempty"`
	Date        Date   `json:"date"`
	DaysElapsed int    `json:"days_elapsed"`

	Party     []Traveler     `json:"party"`
	Morale    int            `json:"morale"`
	Resources map[string]int `json:"resources"`
	Travel    Travel         `json:"travel"`
	Stats     Stats          `json:"stats"`
	Flags     Flags          `json:"flags"`

	ActiveEventID   string `json:"active_event_id,omitempty"`
	EventReturn     string `json:"event_return,omitempty"`
	ActiveChallenge string `json:"active_challenge,omitempty"`
	ChallengeReturn string `json:"challenge_return,omitempty"`

	Unlocked []string `json:"unlocked,omitempty"`

	RouteLength    int      `json:"route_length"`
	RouteDistance  int      `json:"route_distance"`
	RegionsVisited []string `json:"regions_visited,omitempty"`
}

// Completed is true once the terminal waypoint has been reached.
func (s Snapshot) Completed() bool {
	return s.RouteLength > 0 && s.Travel.WaypointIndex >= s.RouteLength-1
}

func (s Snapshot) AliveCount(kind string) int {
	n := 0
	for _, m := range s.Party {
		if m.Alive && (kind == "" || m.Kind == kind) {
			n++
		}
	}
	return n
}

func (s Snapshot) CountKind(kind string) int {
	n := 0
	for _, m := range s.Party {
		if kind == "" || m.Kind == kind {
			n++
		}
	}
	return n
}

func (s Snapshot) Member(id string) (Traveler, bool) {
	for _, m := range s.Party {
		if m.ID == id {
			return m, true
		}
	}
	return Traveler{}, false
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Version:         SnapshotVersion,
		Started:         g.started,
		Player:          g.player,
		Profession:      g.profession,
		Mode:            g.mode,
		Status:          g.status,
		Date:            g.date,
		DaysElapsed:     g.daysElapsed,
		Party:           g.roster.Members(),
		Morale:          g.morale,
		Resources:       g.ledger.Totals(),
		Travel:          g.travel,
		Stats:           g.stats.clone(),
		Flags:           g.flags.clone(),
		EventReturn:     g.eventReturn,
		ActiveChallenge: g.challenge,
		ChallengeReturn: g.challengeReturn,
		Unlocked:        g.Unlocked(),
		RouteLength:     g.route.Len(),
		RouteDistance:   g.route.Total(),
	}
	if g.event != nil {
		s.ActiveEventID = g.event.ID
	}
	seen := map[string]bool{}
	for i := 0; i <= g.travel.WaypointIndex; i++ {
		w, ok := g.route.At(i)
		if !ok || w.Region == "" || seen[w.Region] {
			continue
		}
		seen[w.Region] = true
		s.RegionsVisited = append(s.RegionsVisited, w.Region)
	}
	return s
}

var knownModes = map[string]bool{
	ModeMenu: true, ModeShop: true, ModeTravel: true, ModeEvent: true, ModeLandmark: true,
	ModeRest: true, ModeChallenge: true, ModeGameOver: true, ModeVictory: true,
}

// Restore replaces the run state with s. Nothing changes unless s is valid.
// A run saved mid-challenge resumes where the challenge was started.
func (g *Game) Restore(s Snapshot) error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrBadSnapshot, fmt.Sprintf(format, args...))
	}
	if s.Version != SnapshotVersion {
		return bad("version %d", s.Version)
	}
	if !s.Date.Valid(g.tune.Calendar.MonthLength) {
		return bad("date %s", s.Date)
	}
	if s.DaysElapsed < 0 {
		return bad("days_elapsed %d", s.DaysElapsed)
	}
	if !knownModes[s.Mode] {
		return bad("mode %q", s.Mode)
	}
	if s.Travel.WaypointIndex < 0 || s.Travel.WaypointIndex > g.route.Terminal() {
		return bad("waypoint index %d", s.Travel.WaypointIndex)
	}
	if s.Travel.DistanceTraveled < 0 {
		return bad("distance_traveled %d", s.Travel.DistanceTraveled)
	}
	if _, ok := g.policy.Miles(s.Travel.Pace); !ok {
		return bad("pace %q", s.Travel.Pace)
	}
	if _, ok := g.policy.FoodPerTraveler(s.Travel.Rations); !ok {
		return bad("rations %q", s.Travel.Rations)
	}
	seen := map[string]bool{}
	for _, m := range s.Party {
		if m.ID == "" || seen[m.ID] {
			return bad("party member id %q", m.ID)
		}
		seen[m.ID] = true
	}

	mode := s.Mode
	var active *catalogs.Event
	eventReturn := ""
	if mode == ModeEvent {
		ev, ok := g.cat.Events.ByID[s.ActiveEventID]
		if !ok {
			return bad("active event %q", s.ActiveEventID)
		}
		if s.EventReturn != ModeTravel && s.EventReturn != ModeLandmark && s.EventReturn != ModeShop {
			return bad("event return mode %q", s.EventReturn)
		}
		active = &ev
		eventReturn = s.EventReturn
	}
	if mode == ModeChallenge {
		mode = s.ChallengeReturn
		if mode != ModeLandmark {
			mode = ModeTravel
		}
	}

	travel := s.Travel
	travel.DistanceToNext = g.route.DistanceToNext(travel.WaypointIndex, travel.DistanceTraveled)

	g.started = s.Started
	g.player = s.Player
	g.profession = s.Profession
	g.mode = mode
	g.status = s.Status
	g.date = s.Date
	g.daysElapsed = s.DaysElapsed
	g.roster = NewRoster(s.Party)
	g.morale = mathx.ClampInt(s.Morale, moraleMin, moraleMax)
	g.ledger = NewLedger(s.Resources)
	g.travel = travel
	g.stats = s.Stats.clone()
	g.flags = s.Flags.clone()
	if mode != ModeShop {
		g.flags.Roadside = false
	}
	g.event = active
	g.eventReturn = eventReturn
	g.challenge = ""
	g.challengeReturn = ""
	g.unlocked = nil
	g.Unlock(s.Unlocked...)
	return nil
}
