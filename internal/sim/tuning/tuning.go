package tuning

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	Calendar Calendar `yaml:"calendar"`

	// Miles per tick keyed by pace id, food per traveler keyed by ration id.
	PaceMiles  map[string]int `yaml:"pace_miles"`
	RationFood map[string]int `yaml:"ration_food"`

	TreatsPerDay int `yaml:"treats_per_day"`

	StartMorale       int            `yaml:"start_morale"`
	StartingResources map[string]int `yaml:"starting_resources"`
	ProfessionGold    map[string]int `yaml:"profession_gold"`

	Events    Events    `yaml:"events"`
	Penalties Penalties `yaml:"penalties"`
	Rest      Rest      `yaml:"rest"`
	River     River     `yaml:"river"`

	WagonClicksForSecret int `yaml:"wagon_clicks_for_secret"`

	Rhythm map[string]Geometry `yaml:"rhythm"`
	Grades Grades              `yaml:"grades"`

	Scheduler Scheduler `yaml:"scheduler"`
}

type Calendar struct {
	MonthLength int `yaml:"month_length"`
	StartDay    int `yaml:"start_day"`
	StartMonth  int `yaml:"start_month"`
	StartYear   int `yaml:"start_year"`
}

type Events struct {
	TriggerChance float64 `yaml:"trigger_chance"`
	Favorable     float64 `yaml:"favorable_weight"`
	Adverse       float64 `yaml:"adverse_weight"`
	Special       float64 `yaml:"special_weight"`
}

type Penalties struct {
	StarveHealth  int `yaml:"starve_health"`
	StarveMorale  int `yaml:"starve_morale"`
	NoTreatHealth int `yaml:"no_treat_health"`
	NoTreatMorale int `yaml:"no_treat_morale"`
}

type Rest struct {
	TickHeal        int     `yaml:"tick_heal"`
	TickMorale      int     `yaml:"tick_morale"`
	CampHeal        int     `yaml:"camp_heal"`
	MedkitHeal      int     `yaml:"medkit_heal"`
	MedkitThreshold int     `yaml:"medkit_threshold"`
	StargazeChance  float64 `yaml:"stargaze_chance"`
	StargazeReward  int     `yaml:"stargaze_reward"`
}

type River struct {
	MinDepth    int `yaml:"min_depth"`
	MaxDepth    int `yaml:"max_depth"`
	DeepAt      int `yaml:"deep_at"`
	DamageFloor int `yaml:"damage_floor"`
}

// Geometry is the track layout and scoring rule for one rhythm challenge kind.
type Geometry struct {
	TrackLength   float64 `yaml:"track_length"`
	PerfectRadius float64 `yaml:"perfect_radius"`
	GoodRadius    float64 `yaml:"good_radius"`
	SegmentMs     int     `yaml:"segment_ms"`
	GraceMs       int     `yaml:"grace_ms"`

	PerfectPoints      int     `yaml:"perfect_points"`
	PerfectComboFactor float64 `yaml:"perfect_combo_factor"`
	GoodPoints         int     `yaml:"good_points"`
	GoodComboFactor    float64 `yaml:"good_combo_factor"`
}

type Grade struct {
	Grade       string  `yaml:"grade"`
	MinAccuracy float64 `yaml:"min_accuracy"`
}

type Grades struct {
	Thresholds []Grade `yaml:"thresholds"`
	Bottom     string  `yaml:"bottom"`
}

type Scheduler struct {
	TravelIntervalMs int `yaml:"travel_interval_ms"`
	FrameIntervalMs  int `yaml:"frame_interval_ms"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		Calendar: Calendar{
			MonthLength: 30,
			StartDay:    1,
			StartMonth:  3,
			StartYear:   2025,
		},
		PaceMiles: map[string]int{
			"steady":    15,
			"strenuous": 20,
			"grueling":  25,
			"resting":   0,
		},
		RationFood: map[string]int{
			"filling":    3,
			"meager":     2,
			"bare-bones": 1,
		},
		TreatsPerDay: 1,
		StartMorale:  100,
		StartingResources: map[string]int{
			"food":           200,
			"cat_treats":     50,
			"wagon_wheels":   3,
			"wagon_axles":    2,
			"wagon_tongues":  1,
			"pixie_dust":     0,
			"gold_coins":     400,
			"first_aid_kits": 3,
		},
		ProfessionGold: map[string]int{
			"actress":          400,
			"card-shop-owner":  600,
			"dance-teacher":    350,
			"theater-director": 500,
		},
		Events: Events{
			TriggerChance: 0.25,
			Favorable:     0.4,
			Adverse:       0.4,
			Special:       0.2,
		},
		Penalties: Penalties{
			StarveHealth:  5,
			StarveMorale:  10,
			NoTreatHealth: 2,
			NoTreatMorale: 5,
		},
		Rest: Rest{
			TickHeal:        5,
			TickMorale:      5,
			CampHeal:        15,
			MedkitHeal:      40,
			MedkitThreshold: 70,
			StargazeChance:  0.3,
			StargazeReward:  5,
		},
		River: River{
			MinDepth:    2,
			MaxDepth:    5,
			DeepAt:      4,
			DamageFloor: 10,
		},
		WagonClicksForSecret: 10,
		Rhythm: map[string]Geometry{
			"karaoke": {
				TrackLength:        100,
				PerfectRadius:      8,
				GoodRadius:         20,
				SegmentMs:          4000,
				GraceMs:            5000,
				PerfectPoints:      100,
				PerfectComboFactor: 0.1,
				GoodPoints:         50,
				GoodComboFactor:    0.05,
			},
			"dance": {
				TrackLength:        100,
				PerfectRadius:      5,
				GoodRadius:         15,
				SegmentMs:          2000,
				GraceMs:            2000,
				PerfectPoints:      100,
				PerfectComboFactor: 0.1,
				GoodPoints:         50,
				GoodComboFactor:    0.1,
			},
			"forage": {
				TrackLength:        100,
				PerfectRadius:      6,
				GoodRadius:         15,
				SegmentMs:          5000,
				GraceMs:            5000,
				PerfectPoints:      10,
				PerfectComboFactor: 0.1,
				GoodPoints:         6,
				GoodComboFactor:    0.1,
			},
		},
		Grades: Grades{
			Thresholds: []Grade{
				{Grade: "S", MinAccuracy: 95},
				{Grade: "A", MinAccuracy: 85},
				{Grade: "B", MinAccuracy: 70},
				{Grade: "C", MinAccuracy: 50},
			},
			Bottom: "D",
		},
		Scheduler: Scheduler{
			TravelIntervalMs: 2000,
			FrameIntervalMs:  50,
		},
	}
}

// Load reads a tuning file layered over Defaults. Keys absent from the
// file keep their default values.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.Grades.Thresholds = SortedThresholds(t.Grades.Thresholds)
	return t, nil
}

func (t Tuning) Validate() error {
	var errs []error
	if t.Calendar.MonthLength <= 0 {
		errs = append(errs, errors.New("calendar.month_length must be > 0"))
	}
	if t.Calendar.StartDay < 1 || t.Calendar.StartDay > t.Calendar.MonthLength {
		errs = append(errs, fmt.Errorf("calendar.start_day %d out of range", t.Calendar.StartDay))
	}
	if t.Calendar.StartMonth < 1 || t.Calendar.StartMonth > 12 {
		errs = append(errs, fmt.Errorf("calendar.start_month %d out of range", t.Calendar.StartMonth))
	}
	if len(t.PaceMiles) == 0 {
		errs = append(errs, errors.New("pace_miles is empty"))
	}
	for id, m := range t.PaceMiles {
		if m < 0 {
			errs = append(errs, fmt.Errorf("pace_miles.%s must be >= 0", id))
		}
	}
	if _, ok := t.PaceMiles["resting"]; !ok {
		errs = append(errs, errors.New("pace_miles.resting is required"))
	}
	if len(t.RationFood) == 0 {
		errs = append(errs, errors.New("ration_food is empty"))
	}
	for id, f := range t.RationFood {
		if f < 0 {
			errs = append(errs, fmt.Errorf("ration_food.%s must be >= 0", id))
		}
	}
	for id, q := range t.StartingResources {
		if q < 0 {
			errs = append(errs, fmt.Errorf("starting_resources.%s must be >= 0", id))
		}
	}
	if t.StartMorale < 0 || t.StartMorale > 100 {
		errs = append(errs, fmt.Errorf("start_morale %d out of range", t.StartMorale))
	}
	if p := t.Events.TriggerChance; p < 0 || p > 1 {
		errs = append(errs, fmt.Errorf("events.trigger_chance %v out of range", p))
	}
	if t.Events.Favorable < 0 || t.Events.Adverse < 0 || t.Events.Special < 0 {
		errs = append(errs, errors.New("events weights must be >= 0"))
	}
	if t.River.MinDepth > t.River.MaxDepth {
		errs = append(errs, errors.New("river.min_depth > river.max_depth"))
	}
	for kind, g := range t.Rhythm {
		if g.TrackLength <= 0 || g.SegmentMs <= 0 {
			errs = append(errs, fmt.Errorf("rhythm.%s: track_length and segment_ms must be > 0", kind))
		}
		if g.PerfectRadius < 0 || g.GoodRadius < g.PerfectRadius {
			errs = append(errs, fmt.Errorf("rhythm.%s: need 0 <= perfect_radius <= good_radius", kind))
		}
	}
	if t.Grades.Bottom == "" {
		errs = append(errs, errors.New("grades.bottom is required"))
	}
	if t.Scheduler.TravelIntervalMs <= 0 || t.Scheduler.FrameIntervalMs <= 0 {
		errs = append(errs, errors.New("scheduler intervals must be > 0"))
	}
	return errors.Join(errs...)
}

// SortedThresholds returns a copy ordered from highest to lowest accuracy.
func SortedThresholds(in []Grade) []Grade {
	out := append([]Grade(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinAccuracy > out[j].MinAccuracy })
	return out
}
