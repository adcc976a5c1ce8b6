package protocol

import "time"

// HELLO (client -> server)
type HelloMsg struct {
	Type              string   `json:"type"`
	ProtocolVersion   string   `json:"protocol_version"`
	SupportedVersions []string `json:"supported_versions,omitempty"`
	PlayerName        string   `json:"player_name"`
	Profession        string   `json:"profession,omitempty"`
	// Resume names a save slot to load instead of starting fresh.
	Resume string `json:"resume,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	SessionID       string            `json:"session_id"`
	Route           RouteSummary      `json:"route"`
	Catalogs        map[string]string `json:"catalogs"`
	Timing          Timing            `json:"timing"`
	Resumed         bool              `json:"resumed,omitempty"`
}

type RouteSummary struct {
	Waypoints []WaypointView `json:"waypoints"`
	Distance  int            `json:"distance"`
}

type Timing struct {
	TravelIntervalMs int `json:"travel_interval_ms"`
	FrameIntervalMs  int `json:"frame_interval_ms"`
}

// Intent names.
const (
	IntentNewGame        = "NEW_GAME"
	IntentReset          = "RESET"
	IntentAddTraveler    = "ADD_TRAVELER"
	IntentSetPace        = "SET_PACE"
	IntentSetRations     = "SET_RATIONS"
	IntentStartTravel    = "START_TRAVEL"
	IntentStopTravel     = "STOP_TRAVEL"
	IntentTravelDay      = "TRAVEL_DAY"
	IntentResolveEvent   = "RESOLVE_EVENT"
	IntentLandmarkEvent  = "LANDMARK_EVENT"
	IntentContinue       = "CONTINUE"
	IntentOpenShop       = "OPEN_SHOP"
	IntentBuy            = "BUY"
	IntentCrossRiver     = "CROSS_RIVER"
	IntentOpenCamp       = "OPEN_CAMP"
	IntentCamp           = "CAMP"
	IntentMedkit         = "MEDKIT"
	IntentStargaze       = "STARGAZE"
	IntentBreakCamp      = "BREAK_CAMP"
	IntentForage         = "FORAGE"
	IntentStartChallenge = "START_CHALLENGE"
	IntentChallengeHit   = "CHALLENGE_HIT"
	IntentQuitChallenge  = "QUIT_CHALLENGE"
	IntentClickWagon     = "CLICK_WAGON"
	IntentSave           = "SAVE"
	IntentLoad           = "LOAD"
	IntentDeleteSave     = "DELETE_SAVE"
)

var knownIntents = []string{
	IntentNewGame, IntentReset, IntentAddTraveler, IntentSetPace, IntentSetRations,
	IntentStartTravel, IntentStopTravel, IntentTravelDay, IntentResolveEvent,
	IntentLandmarkEvent, IntentContinue, IntentOpenShop, IntentBuy, IntentCrossRiver,
	IntentOpenCamp, IntentCamp, IntentMedkit, IntentStargaze, IntentBreakCamp,
	IntentForage, IntentStartChallenge, IntentChallengeHit, IntentQuitChallenge,
	IntentClickWagon, IntentSave, IntentLoad, IntentDeleteSave,
}

func Intents() []string { return append([]string(nil), knownIntents...) }

func IsKnownIntent(name string) bool {
	for _, in := range knownIntents {
		if in == name {
			return true
		}
	}
	return false
}

// INTENT (client -> server). Only the fields the intent needs are set.
type IntentMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Seq             uint64 `json:"seq,omitempty"`
	Intent          string `json:"intent"`

	Player     string `json:"player,omitempty"`
	Profession string `json:"profession,omitempty"`
	Pace       string `json:"pace,omitempty"`
	Rations    string `json:"rations,omitempty"`
	// Choice is the event choice index; absent resolves a choiceless event.
	Choice    *int   `json:"choice,omitempty"`
	Item      string `json:"item,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Option    string `json:"option,omitempty"`
	Challenge string `json:"challenge,omitempty"`
	Name      string `json:"name,omitempty"`
	Kind      string `json:"kind,omitempty"`
}

// STATE (server -> client): the full view after every change.
type StateMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Seq             uint64 `json:"seq"`
	Ack             uint64 `json:"ack,omitempty"`
	Reason          string `json:"reason"`

	Mode        string         `json:"mode"`
	Status      string         `json:"status,omitempty"`
	Player      string         `json:"player,omitempty"`
	Date        string         `json:"date"`
	DaysElapsed int            `json:"days_elapsed"`
	Morale      int            `json:"morale"`
	Resources   map[string]int `json:"resources"`
	Party       []TravelerView `json:"party"`
	Travel      TravelView     `json:"travel"`
	Traveling   bool           `json:"traveling"`
	// Stranded is set while the party has no food; Recovery lists what it
	// can still do about it.
	Stranded bool     `json:"stranded,omitempty"`
	Recovery []string `json:"recovery,omitempty"`

	Event     *EventView     `json:"event,omitempty"`
	Challenge *ChallengeView `json:"challenge,omitempty"`
	Tick      *TickView      `json:"tick,omitempty"`
	River     *RiverView     `json:"river,omitempty"`

	Achievements    []string `json:"achievements,omitempty"`
	NewAchievements []string `json:"new_achievements,omitempty"`

	Error *ErrorView `json:"error,omitempty"`
	Save  *SaveView  `json:"save,omitempty"`
}

type TravelerView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Health int    `json:"health"`
	Alive  bool   `json:"alive"`
}

type WaypointView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Region   string `json:"region,omitempty"`
	Distance int    `json:"distance"`
	HasShop  bool   `json:"has_shop,omitempty"`
	HasRiver bool   `json:"has_river,omitempty"`
}

type TravelView struct {
	Pace             string        `json:"pace"`
	Rations          string        `json:"rations"`
	DistanceTraveled int           `json:"distance_traveled"`
	DistanceToNext   int           `json:"distance_to_next"`
	Waypoint         WaypointView  `json:"waypoint"`
	Next             *WaypointView `json:"next,omitempty"`
}

type EventView struct {
	ID          string       `json:"id"`
	Category    string       `json:"category"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Character   string       `json:"character,omitempty"`
	Choices     []ChoiceView `json:"choices,omitempty"`
}

type ChoiceView struct {
	Text       string `json:"text"`
	Affordable bool   `json:"affordable"`
}

type ChallengeView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Kind      string    `json:"kind"`
	State     string    `json:"state"`
	Segment   int       `json:"segment"`
	Text      string    `json:"text,omitempty"`
	Pointer   float64   `json:"pointer"`
	Targets   []float64 `json:"targets,omitempty"`
	Score     int       `json:"score"`
	Combo     int       `json:"combo"`
	Feedback  string    `json:"feedback,omitempty"`
	Grade     string    `json:"grade,omitempty"`
	ElapsedMs int64     `json:"elapsed_ms"`
}

type TickView struct {
	Outcome     string `json:"outcome"`
	Miles       int    `json:"miles"`
	FoodEaten   int    `json:"food_eaten"`
	TreatsEaten int    `json:"treats_eaten"`
	Starving    bool   `json:"starving,omitempty"`
	NoTreats    bool   `json:"no_treats,omitempty"`
	Waypoint    string `json:"waypoint,omitempty"`
}

type RiverView struct {
	Option   string `json:"option"`
	Depth    int    `json:"depth"`
	Success  bool   `json:"success"`
	FoodLost int    `json:"food_lost,omitempty"`
}

type ErrorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SaveView struct {
	Op      string    `json:"op"`
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at,omitempty"`
	Found   bool      `json:"found"`
}
