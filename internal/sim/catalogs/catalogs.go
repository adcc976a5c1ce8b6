package catalogs

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const (
	CategoryFavorable = "favorable"
	CategoryAdverse   = "adverse"
	CategorySpecial   = "special"
	CategoryLandmark  = "landmark"
)

const (
	EffectResource = "resource"
	EffectHealth   = "health"
	EffectMorale   = "morale"
	EffectTime     = "time"
)

const (
	KindKaraoke = "karaoke"
	KindDance   = "dance"
	KindForage  = "forage"
)

type Catalogs struct {
	Route      RouteCatalog
	Party      PartyCatalog
	Events     EventCatalog
	Shop       ShopCatalog
	River      RiverCatalog
	Challenges ChallengeCatalog
}

type RouteCatalog struct {
	Waypoints []Waypoint `json:"waypoints"`
	Index     map[string]int
	Digest    string
}

type Waypoint struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Region            string `json:"region,omitempty"`
	DistanceFromStart int    `json:"distance_from_start"`
	HasShop           bool   `json:"has_shop"`
	HasRiver          bool   `json:"has_river"`
	LandmarkEvent     string `json:"landmark_event,omitempty"`
	Description       string `json:"description,omitempty"`
}

type PartyCatalog struct {
	Members []MemberDef `json:"members"`
	Digest  string
}

type MemberDef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"` // "companion","human","guest"
	Health    int    `json:"health"`
	MaxHealth int    `json:"max_health"`
}

type Effect struct {
	Kind     string `json:"kind"`
	Resource string `json:"resource,omitempty"`
	Target   string `json:"target,omitempty"`
	Amount   int    `json:"amount"`
}

type Cost struct {
	Resource string `json:"resource"`
	Amount   int    `json:"amount"`
}

type Choice struct {
	Text    string   `json:"text"`
	Cost    *Cost    `json:"required_cost,omitempty"`
	Effects []Effect `json:"effects"`
}

type Event struct {
	ID          string   `json:"id"`
	Category    string   `json:"-"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Character   string   `json:"character,omitempty"`
	Effects     []Effect `json:"effects"`
	Choices     []Choice `json:"choices,omitempty"`
}

type EventCatalog struct {
	Pools  map[string][]Event
	ByID   map[string]Event
	Digest string
}

// Pool returns the events of one category in file order.
func (c EventCatalog) Pool(category string) []Event {
	return c.Pools[category]
}

type ShopCatalog struct {
	Currency string     `json:"currency"`
	Items    []ShopItem `json:"items"`
	ByID     map[string]ShopItem
	Digest   string
}

type ShopItem struct {
	ID       string `json:"id"`
	Label    string `json:"label,omitempty"`
	Resource string `json:"resource"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
}

type RiverCatalog struct {
	Options []RiverOption `json:"options"`
	ByID    map[string]RiverOption
	Digest  string
}

type RiverOption struct {
	ID                string  `json:"id"`
	Label             string  `json:"label,omitempty"`
	Cost              *Cost   `json:"cost,omitempty"`
	SuccessChance     float64 `json:"success_chance"`
	DeepSuccessChance float64 `json:"deep_success_chance"`
	FoodLossMin       int     `json:"food_loss_min"`
	FoodLossMax       int     `json:"food_loss_max"`
	CompanionDamage   int     `json:"companion_damage"`
	Character         string  `json:"character,omitempty"`
}

type ChallengeCatalog struct {
	ByID   map[string]ChallengeDef
	IDs    []string
	Digest string
}

type ChallengeDef struct {
	ID       string              `json:"id"`
	Title    string              `json:"title"`
	Kind     string              `json:"kind"`
	Geometry string              `json:"geometry"`
	Source   string              `json:"source,omitempty"`
	Segments []Segment           `json:"segments"`
	Rewards  map[string][]Effect `json:"rewards,omitempty"`
	Payout   *Payout             `json:"payout,omitempty"`
}

// Payout pays the final score into a resource, up to Cap when Cap > 0.
type Payout struct {
	Resource string `json:"resource"`
	Cap      int    `json:"cap,omitempty"`
}

// FirstOfKind returns the lowest id challenge of kind.
func (c ChallengeCatalog) FirstOfKind(kind string) (ChallengeDef, bool) {
	for _, id := range c.IDs {
		if def := c.ByID[id]; def.Kind == kind {
			return def, true
		}
	}
	return ChallengeDef{}, false
}

type Segment struct {
	StartMs int       `json:"start_ms"`
	Text    string    `json:"text,omitempty"`
	Targets []float64 `json:"targets"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	if err := loadRoute(filepath.Join(configDir, "route.json"), &c.Route); err != nil {
		return nil, err
	}
	if err := loadParty(filepath.Join(configDir, "party.json"), &c.Party); err != nil {
		return nil, err
	}
	if err := loadEvents(filepath.Join(configDir, "events"), &c.Events); err != nil {
		return nil, err
	}
	if err := loadShop(filepath.Join(configDir, "shop.json"), &c.Shop); err != nil {
		return nil, err
	}
	if err := loadRiver(filepath.Join(configDir, "river.json"), &c.River); err != nil {
		return nil, err
	}
	if err := loadChallenges(filepath.Join(configDir, "challenges"), &c.Challenges); err != nil {
		return nil, err
	}
	if err := c.crossCheck(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Digests is the content fingerprint sent to clients on join.
func (c *Catalogs) Digests() map[string]string {
	return map[string]string{
		"route":      c.Route.Digest,
		"party":      c.Party.Digest,
		"events":     c.Events.Digest,
		"shop":       c.Shop.Digest,
		"river":      c.River.Digest,
		"challenges": c.Challenges.Digest,
	}
}

func (c *Catalogs) crossCheck() error {
	for _, w := range c.Route.Waypoints {
		if w.LandmarkEvent == "" {
			continue
		}
		ev, ok := c.Events.ByID[w.LandmarkEvent]
		if !ok || ev.Category != CategoryLandmark {
			return fmt.Errorf("route.json: waypoint %s: unknown landmark event %q", w.ID, w.LandmarkEvent)
		}
	}
	return nil
}

func loadRoute(path string, out *RouteCatalog) error {
	raw, err := readValidated(path, "route.schema.json")
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("route.json: %w", err)
	}
	out.Index = make(map[string]int, len(out.Waypoints))
	for i, w := range out.Waypoints {
		if _, dup := out.Index[w.ID]; dup {
			return fmt.Errorf("route.json: duplicate waypoint %s", w.ID)
		}
		out.Index[w.ID] = i
		if i == 0 {
			if w.DistanceFromStart != 0 {
				return fmt.Errorf("route.json: first waypoint must be at distance 0")
			}
			continue
		}
		if w.DistanceFromStart <= out.Waypoints[i-1].DistanceFromStart {
			return fmt.Errorf("route.json: waypoint %s: distance must increase", w.ID)
		}
	}
	return nil
}

func loadParty(path string, out *PartyCatalog) error {
	raw, err := readValidated(path, "party.schema.json")
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("party.json: %w", err)
	}
	seen := map[string]bool{}
	for i, m := range out.Members {
		if seen[m.ID] {
			return fmt.Errorf("party.json: duplicate member %s", m.ID)
		}
		seen[m.ID] = true
		if m.Health == 0 {
			out.Members[i].Health = m.MaxHealth
		}
	}
	return nil
}

type eventFile struct {
	Category string  `json:"category"`
	Events   []Event `json:"events"`
}

func loadEvents(dir string, out *EventCatalog) error {
	out.Pools = map[string][]Event{}
	out.ByID = map[string]Event{}

	files, err := jsonFiles(dir)
	if err != nil {
		return err
	}

	var concat bytes.Buffer
	for _, p := range files {
		b, err := readValidated(p, "events.schema.json")
		if err != nil {
			return err
		}
		concat.Write(b)
		concat.WriteByte('\n')

		var f eventFile
		if err := json.Unmarshal(b, &f); err != nil {
			return fmt.Errorf("events %s: %w", filepath.Base(p), err)
		}
		for _, ev := range f.Events {
			if _, dup := out.ByID[ev.ID]; dup {
				return fmt.Errorf("events %s: duplicate id %s", filepath.Base(p), ev.ID)
			}
			ev.Category = f.Category
			out.ByID[ev.ID] = ev
			out.Pools[f.Category] = append(out.Pools[f.Category], ev)
		}
	}
	out.Digest = sha256Hex(concat.Bytes())
	return nil
}

func loadShop(path string, out *ShopCatalog) error {
	raw, err := readValidated(path, "shop.schema.json")
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("shop.json: %w", err)
	}
	out.ByID = make(map[string]ShopItem, len(out.Items))
	for _, it := range out.Items {
		out.ByID[it.ID] = it
	}
	return nil
}

func loadRiver(path string, out *RiverCatalog) error {
	raw, err := readValidated(path, "river.schema.json")
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("river.json: %w", err)
	}
	out.ByID = make(map[string]RiverOption, len(out.Options))
	for _, o := range out.Options {
		if o.FoodLossMax < o.FoodLossMin {
			return fmt.Errorf("river.json: option %s: food_loss_max < food_loss_min", o.ID)
		}
		out.ByID[o.ID] = o
	}
	return nil
}

func loadChallenges(dir string, out *ChallengeCatalog) error {
	out.ByID = map[string]ChallengeDef{}

	files, err := jsonFiles(dir)
	if err != nil {
		if os.IsNotExist(err) {
			out.Digest = sha256Hex(nil)
			return nil
		}
		return err
	}

	var concat bytes.Buffer
	for _, p := range files {
		b, err := readValidated(p, "challenge.schema.json")
		if err != nil {
			return err
		}
		concat.Write(b)
		concat.WriteByte('\n')

		var def ChallengeDef
		if err := json.Unmarshal(b, &def); err != nil {
			return fmt.Errorf("challenge %s: %w", filepath.Base(p), err)
		}
		for i := 1; i < len(def.Segments); i++ {
			if def.Segments[i].StartMs <= def.Segments[i-1].StartMs {
				return fmt.Errorf("challenge %s: segment start times must increase", def.ID)
			}
		}
		if def.Kind == KindForage && def.Payout == nil {
			return fmt.Errorf("challenge %s: forage challenges need a payout", def.ID)
		}
		if _, dup := out.ByID[def.ID]; dup {
			return fmt.Errorf("challenge %s: duplicate id", def.ID)
		}
		out.ByID[def.ID] = def
		out.IDs = append(out.IDs, def.ID)
	}
	sort.Strings(out.IDs)
	out.Digest = sha256Hex(concat.Bytes())
	return nil
}

func jsonFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".json") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func readValidated(path, schemaName string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sch, err := compileSchema(schemaName)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return raw, nil
}

func compileSchema(name string) (*jsonschema.Schema, error) {
	b, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		return nil, err
	}
	sch, err := jsonschema.CompileString(name, string(b))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return sch, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
