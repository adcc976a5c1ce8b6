package trail

import (
	"sort"

	"magictrail.dev/internal/sim/catalogs"
)

// Stats only ever grow: counters increase, flags latch true.
type Stats struct {
	MischiefEvents int `json:"mischief_events"`
	BreakEvents    int `json:"break_events"`
	TreatsGiven    int `json:"treats_given"`
	RestDays       int `json:"rest_days"`
	Camps          int `json:"camps"`
	RiverCrossings int `json:"river_crossings"`

	KaraokeSongs     int `json:"karaoke_songs"`
	KaraokeSRanks    int `json:"karaoke_s_ranks"`
	KaraokeHighScore int `json:"karaoke_high_score"`
	DanceRoutines    int `json:"dance_routines"`
	DanceSRanks      int `json:"dance_s_ranks"`
	DanceHighScore   int `json:"dance_high_score"`
	DancePerfects    int `json:"dance_perfects"`
	MaxCombo         int `json:"max_combo"`
	ForageTrips      int `json:"forage_trips"`
	ForagingFood     int `json:"foraging_food"`

	CharactersMet []string `json:"characters_met,omitempty"`

	FoundBooster          bool `json:"found_booster"`
	FoundDuckBlessing     bool `json:"found_duck_blessing"`
	FoundTheaterReference bool `json:"found_theater_reference"`
	FoundLoveNote         bool `json:"found_love_note"`
	MetMike               bool `json:"met_mike"`
	RanOutOfFood          bool `json:"ran_out_of_food"`
	UsedGruelingPace      bool `json:"used_grueling_pace"`
}

func (s *Stats) MeetCharacter(name string) {
	if name == "" {
		return
	}
	i := sort.SearchStrings(s.CharactersMet, name)
	if i < len(s.CharactersMet) && s.CharactersMet[i] == name {
		return
	}
	s.CharactersMet = append(s.CharactersMet, "")
	copy(s.CharactersMet[i+1:], s.CharactersMet[i:])
	s.CharactersMet[i] = name
}

func raise(field *int, v int) {
	if v > *field {
		*field = v
	}
}

func countMischief(s *Stats) { s.MischiefEvents++ }
func countBreak(s *Stats)    { s.BreakEvents++ }

// eventStatHooks is the side channel from resolved event ids to stats.
var eventStatHooks = map[string]func(*Stats){
	"minestrone-mouse":       countMischief,
	"minestrone-treat-stash": countMischief,
	"minestrone-food-raid":   countMischief,
	"minestrone-squeak-hunt": countMischief,
	"mac-wheel":              countBreak,
	"mac-axle":               countBreak,
	"mtg-booster":            func(s *Stats) { s.FoundBooster = true },
	"oregon-duck-blessing":   func(s *Stats) { s.FoundDuckBlessing = true },
	"theater-troupe":         func(s *Stats) { s.FoundTheaterReference = true },
	"theater-nw":             func(s *Stats) { s.FoundTheaterReference = true },
	"mike-love-note":         func(s *Stats) { s.FoundLoveNote = true },
	"mike-merchant":          func(s *Stats) { s.MetMike = true },
}

func recordEvent(s *Stats, ev catalogs.Event) {
	if hook, ok := eventStatHooks[ev.ID]; ok {
		hook(s)
	}
	s.MeetCharacter(ev.Character)
}

func (s Stats) clone() Stats {
	s.CharactersMet = append([]string(nil), s.CharactersMet...)
	return s
}
