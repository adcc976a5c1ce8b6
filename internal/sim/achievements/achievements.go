// Package achievements evaluates unlocks from a run snapshot. Evaluation is
// pure: the same snapshot always yields the same set.
package achievements

import (
	"sort"

	"magictrail.dev/internal/sim/trail"
)

const (
	CategoryJourney   = "journey"
	CategoryMinigame  = "minigame"
	CategoryCompanion = "cats"
	CategorySecret    = "secret"
	CategoryChallenge = "challenge"
)

const Completionist = "completionist"

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`

	check func(trail.Snapshot) bool
}

func traveled(miles int) func(trail.Snapshot) bool {
	return func(s trail.Snapshot) bool { return s.Travel.DistanceTraveled >= miles }
}

func completedAnd(pred func(trail.Snapshot) bool) func(trail.Snapshot) bool {
	return func(s trail.Snapshot) bool { return s.Completed() && pred(s) }
}

func allCompanions(s trail.Snapshot, pred func(trail.Traveler) bool) bool {
	n := 0
	for _, m := range s.Party {
		if m.Kind != trail.KindCompanion {
			continue
		}
		if !pred(m) {
			return false
		}
		n++
	}
	return n > 0
}

func noCompanionLost(s trail.Snapshot) bool {
	return allCompanions(s, func(m trail.Traveler) bool { return m.Alive })
}

var table = []Achievement{
	{ID: "first-steps", Name: "First Steps", Description: "Begin the journey from Tigard", Category: CategoryJourney,
		check: func(s trail.Snapshot) bool { return s.Travel.DistanceTraveled > 0 }},
	{ID: "oregon-explorer", Name: "Oregon Explorer", Description: "Leave the state of Oregon", Category: CategoryJourney,
		check: traveled(300)},
	{ID: "mountain-climber", Name: "Mountain Climber", Description: "Cross the Rocky Mountains", Category: CategoryJourney,
		check: traveled(1300)},
	{ID: "halfway-there", Name: "Halfway There", Description: "Travel 1600 miles", Category: CategoryJourney,
		check: traveled(1600)},
	{ID: "southern-hospitality", Name: "Southern Hospitality", Description: "Reach Tennessee", Category: CategoryJourney,
		check: traveled(2350)},
	{ID: "florida-bound", Name: "Florida Bound", Description: "Enter the Sunshine State", Category: CategoryJourney,
		check: traveled(3000)},
	{ID: "disney-dreamer", Name: "Disney Dreamer", Description: "Reach Walt Disney World", Category: CategoryJourney,
		check: trail.Snapshot.Completed},
	{ID: "cross-country", Name: "Cross Country", Description: "Travel through 5 different states", Category: CategoryJourney,
		check: func(s trail.Snapshot) bool { return len(s.RegionsVisited) >= 5 }},
	{ID: "road-warrior", Name: "Road Warrior", Description: "Travel 100 days", Category: CategoryJourney,
		check: func(s trail.Snapshot) bool { return s.DaysElapsed >= 100 }},

	{ID: "karaoke-star", Name: "Karaoke Star", Description: "Get an S rank in karaoke", Category: CategoryMinigame,
		check: func(s trail.Snapshot) bool { return s.Stats.KaraokeSRanks >= 1 }},
	{ID: "singing-sensation", Name: "Singing Sensation", Description: "Perform 5 karaoke songs", Category: CategoryMinigame,
		check: func(s trail.Snapshot) bool { return s.Stats.KaraokeSongs >= 5 }},
	{ID: "dancing-queen", Name: "Dancing Queen", Description: "Score 1000+ points in a dance routine", Category: CategoryMinigame,
		check: func(s trail.Snapshot) bool { return s.Stats.DanceHighScore >= 1000 }},
	{ID: "combo-master", Name: "Combo Master", Description: "Get a 20x combo in any challenge", Category: CategoryMinigame,
		check: func(s trail.Snapshot) bool { return s.Stats.MaxCombo >= 20 }},
	{ID: "foraging-expert", Name: "Foraging Expert", Description: "Collect 500 food while foraging", Category: CategoryMinigame,
		check: func(s trail.Snapshot) bool { return s.Stats.ForagingFood >= 500 }},
	{ID: "rhythm-king", Name: "Rhythm Royalty", Description: "Hit 50 perfect notes in dancing", Category: CategoryMinigame,
		check: func(s trail.Snapshot) bool { return s.Stats.DancePerfects >= 50 }},

	{ID: "cat-whisperer", Name: "Cat Whisperer", Description: "Keep all cats alive until Disney World", Category: CategoryCompanion,
		check: completedAnd(noCompanionLost)},
	{ID: "marge-approved", Name: "Marge Approved", Description: "Keep Marge at full health", Category: CategoryCompanion,
		check: func(s trail.Snapshot) bool {
			m, ok := s.Member("marge")
			return ok && s.Started && s.Travel.DistanceTraveled > 0 && m.Alive && m.Health >= m.MaxHealth
		}},
	{ID: "minestrone-mischief", Name: "Minestrone's Mischief", Description: "Survive 10 Minestrone-caused events", Category: CategoryCompanion,
		check: func(s trail.Snapshot) bool { return s.Stats.MischiefEvents >= 10 }},
	{ID: "mac-attack", Name: "Mac Attack", Description: "Mac has broken 3 things", Category: CategoryCompanion,
		check: func(s trail.Snapshot) bool { return s.Stats.BreakEvents >= 3 }},
	{ID: "treat-master", Name: "Treat Master", Description: "Give the cats 100 treats", Category: CategoryCompanion,
		check: func(s trail.Snapshot) bool { return s.Stats.TreatsGiven >= 100 }},
	{ID: "cuddle-champion", Name: "Cuddle Champion", Description: "Rest 10 times with the cats", Category: CategoryCompanion,
		check: func(s trail.Snapshot) bool { return s.Stats.RestDays >= 10 }},
	{ID: "happy-family", Name: "Happy Family", Description: "All cats at 90%+ health and happiness", Category: CategoryCompanion,
		check: func(s trail.Snapshot) bool {
			return s.Morale >= 90 && allCompanions(s, func(m trail.Traveler) bool { return m.Alive && m.Health >= 90 })
		}},
	{ID: "cat-nap-king", Name: "Cat Nap King", Description: "Camp 5 times with the cats", Category: CategoryCompanion,
		check: func(s trail.Snapshot) bool { return s.Stats.Camps >= 5 }},

	{ID: "googly-discoverer", Name: "Googly Discoverer", Description: "Find the secret googly eyes mode", Category: CategorySecret,
		check: func(s trail.Snapshot) bool { return s.Flags.SecretMode }},
	{ID: "oregon-duck-fan", Name: "Go Ducks!", Description: "Find the Oregon Duck blessing", Category: CategorySecret,
		check: func(s trail.Snapshot) bool { return s.Stats.FoundDuckBlessing }},
	{ID: "mtg-collector", Name: "MTG Collector", Description: "Find a Magic: The Gathering booster pack", Category: CategorySecret,
		check: func(s trail.Snapshot) bool { return s.Stats.FoundBooster }},
	{ID: "mikes-best-customer", Name: "Mike's Best Customer", Description: "Meet Mike on the road", Category: CategorySecret,
		check: func(s trail.Snapshot) bool { return s.Stats.MetMike }},
	{ID: "theater-kid", Name: "Theater Kid", Description: "Find the NW Children's Theater reference", Category: CategorySecret,
		check: func(s trail.Snapshot) bool { return s.Stats.FoundTheaterReference }},
	{ID: "disney-superfan", Name: "Disney Superfan", Description: "Meet 10 different Disney characters", Category: CategorySecret,
		check: func(s trail.Snapshot) bool { return len(s.Stats.CharactersMet) >= 10 }},
	{ID: "christmas-miracle", Name: "Christmas Miracle", Description: "Discover the love note", Category: CategorySecret,
		check: func(s trail.Snapshot) bool { return s.Stats.FoundLoveNote }},
	{ID: "truck-clicker", Name: "Truck Clicker", Description: "Click the wagon 10 times", Category: CategorySecret,
		check: func(s trail.Snapshot) bool { return s.Flags.SecretMode || s.Flags.WagonClicks >= 10 }},

	{ID: "speed-runner", Name: "Speed Runner", Description: "Reach Disney World in under 100 days", Category: CategoryChallenge,
		check: completedAnd(func(s trail.Snapshot) bool { return s.DaysElapsed < 100 })},
	{ID: "no-cat-left-behind", Name: "No Cat Left Behind", Description: "Finish with all cats at 100% health", Category: CategoryChallenge,
		check: completedAnd(func(s trail.Snapshot) bool {
			return allCompanions(s, func(m trail.Traveler) bool { return m.Alive && m.Health >= m.MaxHealth })
		})},
	{ID: "wealthy-wanderer", Name: "Wealthy Wanderer", Description: "Finish with 500+ gold coins", Category: CategoryChallenge,
		check: completedAnd(func(s trail.Snapshot) bool { return s.Resources[trail.ResGold] >= 500 })},
	{ID: "resourceful", Name: "Resourceful", Description: "Never run out of food", Category: CategoryChallenge,
		check: completedAnd(func(s trail.Snapshot) bool { return !s.Stats.RanOutOfFood })},
	{ID: "steady-pace", Name: "Steady Pace", Description: "Complete the journey without the grueling pace", Category: CategoryChallenge,
		check: completedAnd(func(s trail.Snapshot) bool { return !s.Stats.UsedGruelingPace })},
	{ID: "perfect-journey", Name: "Perfect Journey", Description: "No cat lost and an S rank in every kind of challenge", Category: CategoryChallenge,
		check: completedAnd(func(s trail.Snapshot) bool {
			return noCompanionLost(s) && s.Stats.KaraokeSRanks > 0 && s.Stats.DanceSRanks > 0
		})},
	{ID: Completionist, Name: "Completionist", Description: "Unlock all other achievements", Category: CategoryChallenge},
}

var byID = func() map[string]Achievement {
	m := make(map[string]Achievement, len(table))
	for _, a := range table {
		m[a.ID] = a
	}
	return m
}()

// All lists every achievement in display order.
func All() []Achievement {
	return append([]Achievement(nil), table...)
}

func Lookup(id string) (Achievement, bool) {
	a, ok := byID[id]
	return a, ok
}

// Evaluate returns the sorted ids unlocked by s, including the ones the run
// already latched. Completionist needs every other achievement.
func Evaluate(s trail.Snapshot) []string {
	got := map[string]bool{}
	for _, id := range s.Unlocked {
		if _, ok := byID[id]; ok {
			got[id] = true
		}
	}
	others := 0
	for _, a := range table {
		if a.check == nil {
			continue
		}
		others++
		if a.check(s) {
			got[a.ID] = true
		}
	}
	delete(got, Completionist)
	if others > 0 && len(got) == others {
		got[Completionist] = true
	}
	out := make([]string, 0, len(got))
	for id := range got {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Newly returns ids in now that are not in before. Both must be sorted.
func Newly(before, now []string) []string {
	var out []string
	i := 0
	for _, id := range now {
		for i < len(before) && before[i] < id {
			i++
		}
		if i < len(before) && before[i] == id {
			continue
		}
		out = append(out, id)
	}
	return out
}
